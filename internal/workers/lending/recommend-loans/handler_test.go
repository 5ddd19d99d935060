package recommendloans

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "loan-advisor/internal/common/errors"
	"loan-advisor/internal/common/logger"
	"loan-advisor/internal/loan"
	"loan-advisor/internal/models"
)

func intPtr(v int) *int { return &v }

func createHighProfile() models.UserProfile {
	return models.UserProfile{
		MonthlyIncome:  120000,
		Age:            35,
		EmploymentType: models.EmploymentSalaried,
		CityTier:       1,
		CreditScore:    intPtr(780),
	}
}

func TestHandler_ExecuteHighProfile(t *testing.T) {
	h := NewHandler(nil, nil, logger.NewTestLogger(t))

	out, err := h.Execute(context.Background(), &Input{Profile: createHighProfile()})
	require.NoError(t, err)

	assert.Equal(t, 100.0, out.EligibilityScore)
	assert.True(t, out.HasSuggestions)
	require.Len(t, out.Suggestions, 3)
	for _, s := range out.Suggestions {
		assert.Equal(t, models.TierHigh, s.EligibilityTier)
		assert.NotEmpty(t, out.Documents[s.Type])
		assert.NotEmpty(t, out.Lenders[s.Type])
	}
}

func TestHandler_ExecuteLowProfile(t *testing.T) {
	h := NewHandler(nil, nil, logger.NewTestLogger(t))

	out, err := h.Execute(context.Background(), &Input{Profile: models.UserProfile{
		MonthlyIncome: 20000, Age: 60, EmploymentType: models.EmploymentUnemployed, CityTier: 3,
	}})
	require.NoError(t, err)
	assert.False(t, out.HasSuggestions)
	assert.Empty(t, out.Suggestions)
	assert.Less(t, out.EligibilityScore, 50.0)
}

func TestHandler_UsesInjectedLenders(t *testing.T) {
	catalog := loan.DefaultLenderCatalog().Merge(loan.LenderCatalog{
		models.LoanTypeCar: {{Name: "Axis Bank", InterestRate: "8.7%", ProcessingFee: "1%"}},
	})
	h := NewHandler(nil, catalog, logger.NewTestLogger(t))

	out, err := h.Execute(context.Background(), &Input{Profile: createHighProfile()})
	require.NoError(t, err)
	require.Len(t, out.Lenders[models.LoanTypeCar], 1)
	assert.Equal(t, "Axis Bank", out.Lenders[models.LoanTypeCar][0].Name)
}

func TestHandler_ExecuteInvalidProfile(t *testing.T) {
	h := NewHandler(nil, nil, logger.NewTestLogger(t))

	_, err := h.Execute(context.Background(), &Input{Profile: models.UserProfile{Age: 30}})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidArgument))
}
