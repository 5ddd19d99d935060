package advice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "loan-advisor/internal/common/errors"
	apphttp "loan-advisor/internal/common/http"
	"loan-advisor/internal/common/logger"
)

const generatePath = "/api/ai/generate"

type GenAIConfig struct {
	BaseURL     string
	APIKey      string
	Model       string
	Timeout     time.Duration
	MaxRetries  int
	MaxTokens   int
	Temperature float64
}

// GenAIProvider asks a text-generation gateway for advice.
type GenAIProvider struct {
	config GenAIConfig
	client *apphttp.Client
	logger logger.Logger
}

func NewGenAIProvider(config GenAIConfig, log logger.Logger) *GenAIProvider {
	if config.Temperature == 0 {
		config.Temperature = 0.7
	}
	return &GenAIProvider{
		config: config,
		// no client timeout; the deadline comes from ctx
		client: apphttp.NewClient(0).WithRetries(config.MaxRetries, 100*time.Millisecond),
		logger: log.WithFields(map[string]interface{}{"component": "genai"}),
	}
}

type generateRequest struct {
	Prompt      string  `json:"prompt"`
	Model       string  `json:"model,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
	Temperature float64 `json:"temperature"`
}

type generateResponse struct {
	Text string `json:"text"`
}

// Advise returns the gateway's answer. Failures are PROVIDER_TIMEOUT when
// ctx expired and PROVIDER_UNAVAILABLE otherwise, including empty answers.
func (p *GenAIProvider) Advise(ctx context.Context, message string) (string, error) {
	if p.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.config.Timeout)
		defer cancel()
	}

	var headers map[string]string
	if p.config.APIKey != "" {
		headers = map[string]string{"Authorization": "Bearer " + p.config.APIKey}
	}

	req := generateRequest{
		Prompt:      buildPrompt(message),
		Model:       p.config.Model,
		MaxTokens:   p.config.MaxTokens,
		Temperature: p.config.Temperature,
	}

	var resp generateResponse
	url := strings.TrimRight(p.config.BaseURL, "/") + generatePath
	if err := p.client.PostJSON(ctx, url, headers, req, &resp); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", apperrors.NewProviderTimeoutError(err)
		}
		return "", apperrors.NewProviderUnavailableError(err)
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", apperrors.NewProviderUnavailableError(errors.New("empty answer"))
	}

	p.logger.Debug("advice generated", map[string]interface{}{
		"chars": len(text),
	})
	return text, nil
}

func buildPrompt(message string) string {
	return fmt.Sprintf("You are an AI loan advisor. Respond helpfully and concisely to this loan-related question: %q\n\n"+
		"Keep response under 150 words. Focus on practical loan advice.", message)
}
