package sendloansummary

import "loan-advisor/internal/models"

// Input carries the contact details plus the recommend-loans output already
// present in the process variables.
type Input struct {
	Email            string                  `json:"email,omitempty"`
	Phone            string                  `json:"phone,omitempty"`
	EligibilityScore float64                 `json:"eligibilityScore"`
	EligibilityTier  models.EligibilityTier  `json:"eligibilityTier"`
	MaxLoanAmount    float64                 `json:"maxLoanAmount"`
	Suggestions      []models.LoanSuggestion `json:"suggestions"`
}

type Output struct {
	NotificationID string   `json:"notificationId"`
	Status         string   `json:"status"` // "sent", "partial", "failed", "disabled"
	Channels       []string `json:"channels"`
	SentAt         string   `json:"sentAt"` // ISO 8601
}

// Statuses
const (
	StatusSent     = "sent"
	StatusPartial  = "partial"
	StatusFailed   = "failed"
	StatusDisabled = "disabled"
)

// Channels
const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)
