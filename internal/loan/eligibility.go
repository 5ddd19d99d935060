package loan

import (
	"loan-advisor/internal/models"
)

const maxScore = 100.0

// Score computes the 0-100 eligibility score for a complete profile.
func Score(p models.UserProfile) (float64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}

	score := incomePoints(p.MonthlyIncome) +
		agePoints(p.Age) +
		employmentPoints(p.EmploymentType) +
		cityTierPoints(p.CityTier) +
		creditPoints(p.CreditScore)

	if score > maxScore {
		score = maxScore
	}
	return score, nil
}

// TierFor buckets a score the same way the suggestions are tiered.
func TierFor(score float64) models.EligibilityTier {
	switch {
	case score >= 70:
		return models.TierHigh
	case score >= 50:
		return models.TierMedium
	default:
		return models.TierLow
	}
}

func incomePoints(monthlyIncome float64) float64 {
	switch {
	case monthlyIncome >= 100000:
		return 40
	case monthlyIncome >= 50000:
		return 30
	case monthlyIncome >= 25000:
		return 20
	default:
		return 10
	}
}

// agePoints checks the bands narrowest first; the first match wins.
func agePoints(age int) float64 {
	switch {
	case age >= 28 && age <= 45:
		return 25
	case age >= 25 && age <= 50:
		return 20
	case age >= 22 && age <= 60:
		return 15
	default:
		return 5
	}
}

func employmentPoints(t models.EmploymentType) float64 {
	switch t {
	case models.EmploymentSalaried:
		return 20
	case models.EmploymentBusiness:
		return 15
	case models.EmploymentSelfEmployed:
		return 10
	default:
		return 5
	}
}

// tier 1 = 10, tier 2 = 6.67, tier 3 = 3.33
func cityTierPoints(tier int) float64 {
	return float64(4-tier) * 10 / 3
}

func creditPoints(creditScore *int) float64 {
	if creditScore == nil {
		return 0
	}
	switch {
	case *creditScore >= 750:
		return 5
	case *creditScore >= 650:
		return 3
	default:
		return 0
	}
}
