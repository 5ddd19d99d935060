package models

import (
	"fmt"
	"strings"

	apperrors "loan-advisor/internal/common/errors"
)

// EmploymentType is the borrower's source of income.
type EmploymentType string

const (
	EmploymentSalaried     EmploymentType = "salaried"
	EmploymentSelfEmployed EmploymentType = "self-employed"
	EmploymentBusiness     EmploymentType = "business"
	EmploymentUnemployed   EmploymentType = "unemployed"
)

func (e EmploymentType) IsValid() bool {
	switch e {
	case EmploymentSalaried, EmploymentSelfEmployed, EmploymentBusiness, EmploymentUnemployed:
		return true
	}
	return false
}

var employmentAliases = map[string]EmploymentType{
	"salaried":       EmploymentSalaried,
	"salary":         EmploymentSalaried,
	"employed":       EmploymentSalaried,
	"job":            EmploymentSalaried,
	"service":        EmploymentSalaried,
	"full_time":      EmploymentSalaried,
	"self_employed":  EmploymentSelfEmployed,
	"selfemployed":   EmploymentSelfEmployed,
	"self":           EmploymentSelfEmployed,
	"freelancer":     EmploymentSelfEmployed,
	"freelance":      EmploymentSelfEmployed,
	"consultant":     EmploymentSelfEmployed,
	"business":       EmploymentBusiness,
	"business_owner": EmploymentBusiness,
	"businessman":    EmploymentBusiness,
	"entrepreneur":   EmploymentBusiness,
	"shop":           EmploymentBusiness,
	"unemployed":     EmploymentUnemployed,
	"jobless":        EmploymentUnemployed,
	"not_employed":   EmploymentUnemployed,
	"none":           EmploymentUnemployed,
}

// ParseEmploymentType maps free-form answers ("Self Employed", "freelancer")
// onto the four employment types.
func ParseEmploymentType(s string) (EmploymentType, bool) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.NewReplacer(" ", "_", "-", "_").Replace(normalized)

	if t, ok := employmentAliases[normalized]; ok {
		return t, true
	}
	return "", false
}

// UserProfile is the borrower data the eligibility scorer works on.
type UserProfile struct {
	MonthlyIncome  float64        `json:"monthlyIncome"`
	Age            int            `json:"age"`
	EmploymentType EmploymentType `json:"employmentType"`
	CityTier       int            `json:"cityTier"`
	CreditScore    *int           `json:"creditScore,omitempty"`
	ExistingEMIs   float64        `json:"existingEmis"`
}

const (
	MinCreditScore = 300
	MaxCreditScore = 900
)

// Validate reports the first missing or out-of-domain field as an
// InvalidArgument error.
func (p UserProfile) Validate() error {
	switch {
	case p.MonthlyIncome < 0:
		return apperrors.NewInvalidArgumentError("monthlyIncome cannot be negative")
	case p.Age <= 0:
		return apperrors.NewInvalidArgumentError("age is required")
	case !p.EmploymentType.IsValid():
		return apperrors.NewInvalidArgumentError(fmt.Sprintf("employmentType %q is not supported", p.EmploymentType))
	case p.CityTier < 1 || p.CityTier > 3:
		return apperrors.NewInvalidArgumentError("cityTier must be 1, 2 or 3")
	case p.ExistingEMIs < 0:
		return apperrors.NewInvalidArgumentError("existingEmis cannot be negative")
	}

	if p.CreditScore != nil && (*p.CreditScore < MinCreditScore || *p.CreditScore > MaxCreditScore) {
		return apperrors.NewInvalidArgumentError(fmt.Sprintf("creditScore must be between %d and %d", MinCreditScore, MaxCreditScore))
	}
	return nil
}

// ProfileHints are figures spotted in a free-text chat message. Zero means
// the figure was not found.
type ProfileHints struct {
	MonthlyIncome float64 `json:"monthlyIncome,omitempty"`
	Age           int     `json:"age,omitempty"`
	ExistingEMIs  float64 `json:"existingEmis,omitempty"`
}

func (h ProfileHints) IsEmpty() bool {
	return h.MonthlyIncome == 0 && h.Age == 0 && h.ExistingEMIs == 0
}
