package loan

import (
	"math"

	"loan-advisor/internal/models"
)

const (
	mediumScoreThreshold = 50
	highScoreThreshold   = 70
)

// product describes one loan the engine can offer. Amount is share of the
// income-based maximum, capped at maxAmount.
type product struct {
	loanType   string
	minScore   float64
	share      float64
	maxAmount  float64
	tenure     int
	highRate   float64
	mediumRate float64
}

// products are listed in output order.
var products = []product{
	{
		loanType:   models.LoanTypePersonal,
		minScore:   mediumScoreThreshold,
		share:      0.5,
		maxAmount:  2_000_000,
		tenure:     60,
		highRate:   10.5,
		mediumRate: 14.5,
	},
	{
		loanType:   models.LoanTypeCar,
		minScore:   mediumScoreThreshold,
		share:      0.7,
		maxAmount:  5_000_000,
		tenure:     84,
		highRate:   8.7,
		mediumRate: 11.5,
	},
	{
		loanType:   models.LoanTypeHome,
		minScore:   highScoreThreshold,
		share:      3,
		maxAmount:  20_000_000,
		tenure:     240,
		highRate:   8.4,
		mediumRate: 8.4,
	},
}

// maxLoanMultiplier is the number of months of income a borrower can borrow.
func maxLoanMultiplier(score float64) float64 {
	switch {
	case score >= highScoreThreshold:
		return 24
	case score >= mediumScoreThreshold:
		return 18
	default:
		return 12
	}
}

// Recommend scores the profile and derives the ordered loan suggestions:
// Personal and Car from a score of 50, Home from 70. Below 50 the list is
// empty. The only error is an incomplete profile.
func Recommend(p models.UserProfile) (models.Recommendation, error) {
	score, err := Score(p)
	if err != nil {
		return models.Recommendation{}, err
	}

	maxLoan := p.MonthlyIncome * maxLoanMultiplier(score)
	tier := TierFor(score)

	suggestions := make([]models.LoanSuggestion, 0, len(products))
	for _, prod := range products {
		if score < prod.minScore {
			continue
		}

		rate := prod.mediumRate
		if tier == models.TierHigh {
			rate = prod.highRate
		}

		suggestions = append(suggestions, NewSuggestion(
			prod.loanType,
			math.Min(maxLoan*prod.share, prod.maxAmount),
			prod.tenure,
			rate,
			tier,
		))
	}

	return models.Recommendation{
		Score:         score,
		Tier:          tier,
		MaxLoanAmount: maxLoan,
		Suggestions:   suggestions,
	}, nil
}

// NewSuggestion builds a suggestion with its EMI filled in. A non-positive
// amount (zero income) yields a zero EMI.
func NewSuggestion(loanType string, amount float64, tenureMonths int, rate float64, tier models.EligibilityTier) models.LoanSuggestion {
	s := models.LoanSuggestion{
		Type:            loanType,
		Amount:          amount,
		TenureMonths:    tenureMonths,
		InterestRate:    rate,
		EligibilityTier: tier,
	}
	if amount > 0 {
		s.EMI = mustEMI(amount, rate, tenureMonths)
	}
	return s
}
