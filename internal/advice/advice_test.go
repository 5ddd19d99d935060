package advice

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "loan-advisor/internal/common/errors"
	"loan-advisor/internal/common/logger"
	"loan-advisor/internal/models"
)

// ==========================
// Fallback table
// ==========================

func TestDefaultTable_Lookup(t *testing.T) {
	table := DefaultTable()
	assert.Equal(t, "advice-fallback/v1", table.Version())

	tests := []struct {
		message string
		intent  string
		prefix  string
	}{
		{"Hello there", "greeting", "👋 Hello!"},
		{"HEY", "greeting", "👋 Hello!"},
		{"am I eligible?", "eligibility", "To check loan eligibility"},
		{"how is EMI computed", "emi", "EMI = [P × R × (1+R)^N]"},
		{"current interest rates", "interest_rate", "Current rates:"},
		{"tell me about personal loan", "personal_loan", "Personal Loan:"},
		{"housing finance", "home_loan", "Home Loan:"},
		{"need a car loan", "car_loan", "Car Loan:"},
		{"what paperwork do I need", "documents", "Required documents:"},
		{"thank you", "thanks", "You're welcome!"},
		{"bye", "goodbye", "Goodbye!"},
		{"debug", "test", "🟢 TEST SUCCESSFUL!"},
		{"what about gold", "default", "I can help with:"},
		{"", "default", "I can help with:"},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			intent, answer := table.LookupIntent(tt.message)
			assert.Equal(t, tt.intent, intent)
			assert.True(t, strings.HasPrefix(answer, tt.prefix), answer)
			assert.Equal(t, answer, table.Lookup(tt.message))
		})
	}
}

func TestDefaultTable_PriorityOrder(t *testing.T) {
	table := DefaultTable()

	tests := []struct {
		message string
		intent  string
	}{
		// greeting is checked first, and "hi" is a plain substring
		{"hi, what is the emi?", "greeting"},
		{"which documents", "greeting"},
		{"eligibility for home loan", "eligibility"},
		{"emi on a car loan", "emi"},
		{"home loan interest", "interest_rate"},
		{"goodbye", "goodbye"},
	}

	for _, tt := range tests {
		intent, _ := table.LookupIntent(tt.message)
		assert.Equal(t, tt.intent, intent, tt.message)
	}
}

func TestNewTable_Validation(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not yaml", "intents: [\n"},
		{"missing default", "intents:\n  - name: a\n    keywords: [a]\n    answer: A\n"},
		{"intent without keywords", "intents:\n  - name: a\n    answer: A\ndefault:\n  answer: D\n"},
		{"intent without answer", "intents:\n  - name: a\n    keywords: [a]\ndefault:\n  answer: D\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTable([]byte(tt.data))
			assert.Error(t, err)
		})
	}

	table, err := NewTable([]byte("intents:\n  - name: rates\n    keywords: [' RATE ']\n    answer: R\ndefault:\n  answer: D\n"))
	require.NoError(t, err)
	intent, answer := table.LookupIntent("Best rate?")
	assert.Equal(t, "rates", intent)
	assert.Equal(t, "R", answer)
	intent, _ = table.LookupIntent("nothing")
	assert.Equal(t, "default", intent)
}

// ==========================
// Profile hints
// ==========================

func TestExtractProfileHints(t *testing.T) {
	tests := []struct {
		message string
		want    models.ProfileHints
	}{
		{"I'm 30 years old and earn 75,000 per month", models.ProfileHints{MonthlyIncome: 75000, Age: 30}},
		{"salary 1,20,000 and existing EMI 15000", models.ProfileHints{MonthlyIncome: 120000, ExistingEMIs: 15000}},
		{"my age is 17", models.ProfileHints{}},
		{"income 5000", models.ProfileHints{}},
		{"I have 3 kids and 50000 saved", models.ProfileHints{}},
		{"age 45, existing loan emi 2500, income 90000", models.ProfileHints{MonthlyIncome: 90000, Age: 45, ExistingEMIs: 2500}},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractProfileHints(tt.message))
		})
	}
}

// ==========================
// Advisor
// ==========================

func TestAdvisor_NoProviderUsesFallback(t *testing.T) {
	a := NewAdvisor(Options{}, logger.NewTestLogger(t))

	got := a.Advise(context.Background(), "What are the interest rates?")
	assert.Equal(t, SourceFallback, got.Source)
	assert.Equal(t, "interest_rate", got.Intent)
	assert.Contains(t, got.Text, "Personal Loans: 10.5-15.5%")
}

func TestAdvisor_ProviderAnswers(t *testing.T) {
	provider := ProviderFunc(func(ctx context.Context, message string) (string, error) {
		return "Compare processing fees before you apply.", nil
	})
	a := NewAdvisor(Options{Provider: provider}, logger.NewTestLogger(t))

	got := a.Advise(context.Background(), "I earn 80000 salary, which personal loan?")
	assert.Equal(t, SourceProvider, got.Source)
	assert.Equal(t, "Compare processing fees before you apply.", got.Text)
	assert.Equal(t, 80000.0, got.Hints.MonthlyIncome)
}

func TestAdvisor_ProviderFailureFallsBack(t *testing.T) {
	tests := []struct {
		name string
		fn   ProviderFunc
	}{
		{"error", func(context.Context, string) (string, error) {
			return "", apperrors.NewProviderUnavailableError(errors.New("503"))
		}},
		{"timeout", func(context.Context, string) (string, error) {
			return "", apperrors.NewProviderTimeoutError(context.DeadlineExceeded)
		}},
		{"plain error", func(context.Context, string) (string, error) {
			return "", errors.New("boom")
		}},
		{"empty answer", func(context.Context, string) (string, error) {
			return "", nil
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAdvisor(Options{Provider: tt.fn}, logger.NewTestLogger(t))

			got := a.Advise(context.Background(), "thanks!")
			assert.Equal(t, SourceFallback, got.Source)
			assert.Equal(t, "thanks", got.Intent)
			assert.Equal(t, DefaultTable().Lookup("thanks!"), got.Text)
		})
	}
}

// ==========================
// GenAI provider
// ==========================

func TestGenAIProvider_Advise(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/ai/generate", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Contains(t, req.Prompt, `"Is a home loan cheaper?"`)
		assert.Contains(t, req.Prompt, "under 150 words")
		assert.Equal(t, 400, req.MaxTokens)

		json.NewEncoder(w).Encode(map[string]string{"text": "  Usually, yes.  "})
	}))
	defer srv.Close()

	p := NewGenAIProvider(GenAIConfig{
		BaseURL:   srv.URL + "/",
		APIKey:    "secret",
		Timeout:   time.Second,
		MaxTokens: 400,
	}, logger.NewTestLogger(t))

	text, err := p.Advise(context.Background(), "Is a home loan cheaper?")
	require.NoError(t, err)
	assert.Equal(t, "Usually, yes.", text)
}

func TestGenAIProvider_Failures(t *testing.T) {
	t.Run("server error after retries", func(t *testing.T) {
		var calls int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		p := NewGenAIProvider(GenAIConfig{BaseURL: srv.URL, Timeout: 2 * time.Second, MaxRetries: 1}, logger.NewTestLogger(t))
		_, err := p.Advise(context.Background(), "hello")

		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeProviderUnavailable))
		assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	})

	t.Run("empty answer", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"text":"   "}`))
		}))
		defer srv.Close()

		p := NewGenAIProvider(GenAIConfig{BaseURL: srv.URL, Timeout: time.Second}, logger.NewTestLogger(t))
		_, err := p.Advise(context.Background(), "hello")
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeProviderUnavailable))
	})

	t.Run("timeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(300 * time.Millisecond)
		}))
		defer srv.Close()

		p := NewGenAIProvider(GenAIConfig{BaseURL: srv.URL, Timeout: 30 * time.Millisecond}, logger.NewTestLogger(t))
		_, err := p.Advise(context.Background(), "hello")
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeProviderTimeout))
	})
}
