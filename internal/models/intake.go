package models

import (
	"strings"
)

// Purpose is the normalised reason a borrower gives for the loan.
type Purpose string

const (
	PurposeEducation         Purpose = "education"
	PurposeHomePurchase      Purpose = "home_purchase"
	PurposeHomeRent          Purpose = "home_rent"
	PurposeBusiness          Purpose = "business"
	PurposeVehicle           Purpose = "vehicle"
	PurposeMedical           Purpose = "medical"
	PurposeDebtConsolidation Purpose = "debt_consolidation"
	PurposeOther             Purpose = "other"
)

// Purposes lists every purpose in prompt order.
var Purposes = []Purpose{
	PurposeEducation,
	PurposeHomePurchase,
	PurposeHomeRent,
	PurposeBusiness,
	PurposeVehicle,
	PurposeMedical,
	PurposeDebtConsolidation,
	PurposeOther,
}

func (p Purpose) IsKnown() bool {
	for _, known := range Purposes {
		if p == known {
			return true
		}
	}
	return false
}

// NormalizePurpose lower-cases the text and folds spaces and hyphens into
// underscores, so "Home Purchase" and "home-purchase" become home_purchase.
// The result is not checked against the known purposes.
func NormalizePurpose(text string) Purpose {
	normalized := strings.ToLower(strings.TrimSpace(text))
	normalized = strings.Join(strings.Fields(normalized), "_")
	normalized = strings.ReplaceAll(normalized, "-", "_")
	return Purpose(normalized)
}

// LoanIntakeAnswer collects the loan-type flow answers.
type LoanIntakeAnswer struct {
	Purpose       Purpose `json:"purpose,omitempty"`
	Amount        float64 `json:"amount,omitempty"`
	HasCollateral bool    `json:"hasCollateral"`
}

// LoanTypeRecommendation is the classifier output.
type LoanTypeRecommendation struct {
	LoanType string `json:"loanType"`
	Subtype  string `json:"subtype,omitempty"`
}
