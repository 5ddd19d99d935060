package classifyloantype

import "loan-advisor/internal/models"

type Input struct {
	Purpose       string  `json:"purpose"`
	Amount        float64 `json:"amount"`
	HasCollateral bool    `json:"hasCollateral"`
}

type Output struct {
	Purpose   models.Purpose  `json:"purpose"`
	LoanType  string          `json:"loanType"`
	Subtype   string          `json:"subtype,omitempty"`
	Documents []string        `json:"documents"`
	Lenders   []models.Lender `json:"lenders"`
}
