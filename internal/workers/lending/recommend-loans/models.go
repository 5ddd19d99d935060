package recommendloans

import "loan-advisor/internal/models"

type Input struct {
	Profile models.UserProfile `json:"profile"`
}

type Output struct {
	EligibilityScore float64                    `json:"eligibilityScore"`
	EligibilityTier  models.EligibilityTier     `json:"eligibilityTier"`
	MaxLoanAmount    float64                    `json:"maxLoanAmount"`
	Suggestions      []models.LoanSuggestion    `json:"suggestions"`
	Documents        map[string][]string        `json:"documents"`
	Lenders          map[string][]models.Lender `json:"lenders"`
	HasSuggestions   bool                       `json:"hasSuggestions"`
}
