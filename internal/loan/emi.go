// Package loan holds the pure lending computations: EMI, eligibility
// scoring, loan suggestions, document and lender lookups, currency
// formatting and loan-type classification. Everything here is
// deterministic and safe for concurrent use.
package loan

import (
	"fmt"
	"math"

	apperrors "loan-advisor/internal/common/errors"
)

// CalculateEMI returns the equated monthly instalment for a reducing-balance
// loan, rounded to the nearest whole unit. A zero rate splits the principal
// evenly over the tenure.
func CalculateEMI(principal, annualRatePercent float64, tenureMonths int) (float64, error) {
	if principal <= 0 || math.IsNaN(principal) || math.IsInf(principal, 0) {
		return 0, apperrors.NewInvalidArgumentError(fmt.Sprintf("principal must be positive, got %v", principal))
	}
	if tenureMonths <= 0 {
		return 0, apperrors.NewInvalidArgumentError(fmt.Sprintf("tenure must be positive, got %d", tenureMonths))
	}
	if annualRatePercent < 0 || math.IsNaN(annualRatePercent) {
		return 0, apperrors.NewInvalidArgumentError(fmt.Sprintf("interest rate cannot be negative, got %v", annualRatePercent))
	}

	n := float64(tenureMonths)
	if annualRatePercent == 0 {
		return math.Round(principal / n), nil
	}

	r := annualRatePercent / 12 / 100
	growth := math.Pow(1+r, n)
	emi := principal * r * growth / (growth - 1)

	return math.Round(emi), nil
}

// mustEMI is used where the inputs come from the engine's own product table
// and a positive amount has already been checked.
func mustEMI(principal, annualRatePercent float64, tenureMonths int) float64 {
	emi, err := CalculateEMI(principal, annualRatePercent, tenureMonths)
	if err != nil {
		return 0
	}
	return emi
}
