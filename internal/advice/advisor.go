package advice

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	apperrors "loan-advisor/internal/common/errors"
	"loan-advisor/internal/common/logger"
	"loan-advisor/internal/common/metrics"
	"loan-advisor/internal/common/observability"
	"loan-advisor/internal/models"
)

// Provider produces free-text advice for a chat message.
type Provider interface {
	Advise(ctx context.Context, message string) (string, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, message string) (string, error)

func (f ProviderFunc) Advise(ctx context.Context, message string) (string, error) {
	return f(ctx, message)
}

const (
	SourceProvider = "provider"
	SourceFallback = "fallback"
)

// Advice is the answer to a free-form question. Intent is the fallback
// table's reading of the message even when the provider answered.
type Advice struct {
	Text   string              `json:"answer"`
	Source string              `json:"source"`
	Intent string              `json:"intent"`
	Hints  models.ProfileHints `json:"hints"`
}

type Options struct {
	// Provider may be nil; every answer then comes from the table.
	Provider Provider
	// ProviderName labels provider metrics. Defaults to "genai".
	ProviderName string
	// Table defaults to the embedded fallback table.
	Table         *Table
	Observability *observability.Observability
}

// Advisor answers with the provider and substitutes the fallback table
// whenever the provider is missing, fails, times out or answers empty.
type Advisor struct {
	provider     Provider
	providerName string
	table        *Table
	obs          *observability.Observability
	logger       logger.Logger
}

func NewAdvisor(opts Options, log logger.Logger) *Advisor {
	table := opts.Table
	if table == nil {
		table = DefaultTable()
	}
	name := opts.ProviderName
	if name == "" {
		name = "genai"
	}
	return &Advisor{
		provider:     opts.Provider,
		providerName: name,
		table:        table,
		obs:          opts.Observability,
		logger:       log.WithFields(map[string]interface{}{"component": "advisor"}),
	}
}

// Advise never fails; provider trouble is logged and reported through
// Source = "fallback".
func (a *Advisor) Advise(ctx context.Context, message string) Advice {
	ctx, span := a.obs.StartSpan(ctx, "advice.Advise")
	defer span.End()

	intent, tableAnswer := a.table.LookupIntent(message)
	result := Advice{
		Text:   tableAnswer,
		Source: SourceFallback,
		Intent: intent,
		Hints:  ExtractProfileHints(message),
	}

	if text, err := a.ask(ctx, message); err == nil {
		result.Text = text
		result.Source = SourceProvider
	} else {
		stdErr := apperrors.Normalize(err)
		span.SetStatus(codes.Error, string(stdErr.Code))
		a.logger.Warn("advice provider unavailable, using fallback", map[string]interface{}{
			"errorCode": stdErr.Code,
			"details":   stdErr.Details,
			"intent":    intent,
		})
	}

	span.SetAttributes(
		attribute.String("advice.source", result.Source),
		attribute.String("advice.intent", result.Intent),
	)
	metrics.RecordAdvice(result.Source, result.Intent)
	return result
}

func (a *Advisor) ask(ctx context.Context, message string) (string, error) {
	if a.provider == nil {
		return "", apperrors.NewProviderUnavailableError(nil)
	}

	start := time.Now()
	text, err := a.provider.Advise(ctx, message)

	status := "ok"
	switch {
	case apperrors.HasCode(err, apperrors.ErrCodeProviderTimeout):
		status = "timeout"
	case err != nil:
		status = "error"
	case text == "":
		status = "error"
		err = apperrors.NewProviderUnavailableError(errors.New("empty answer"))
	}
	a.obs.RecordProviderCall(ctx, a.providerName, status, time.Since(start))

	return text, err
}
