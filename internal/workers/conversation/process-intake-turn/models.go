package processintaketurn

import "loan-advisor/internal/models"

// Input without a SessionID starts a new conversation in Flow and ignores
// Message.
type Input struct {
	SessionID string      `json:"sessionId,omitempty"`
	Flow      models.Flow `json:"flow,omitempty"`
	Message   string      `json:"message"`
}

type Output struct {
	SessionID string                  `json:"sessionId"`
	Flow      models.Flow             `json:"flow"`
	Step      models.Step             `json:"step"`
	Reply     string                  `json:"reply"`
	Outcome   string                  `json:"outcome"`
	Complete  bool                    `json:"complete"`
	Answer    models.LoanIntakeAnswer `json:"answer"`
	Profile   models.UserProfile      `json:"profile"`
}
