package scoreeligibility

import "loan-advisor/internal/models"

type Input struct {
	Profile models.UserProfile `json:"profile"`
}

type Output struct {
	EligibilityScore float64                `json:"eligibilityScore"`
	EligibilityTier  models.EligibilityTier `json:"eligibilityTier"`
	Eligible         bool                   `json:"eligible"`
}
