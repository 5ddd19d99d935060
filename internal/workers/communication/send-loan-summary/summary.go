package sendloansummary

import (
	"fmt"
	"strings"

	"loan-advisor/internal/loan"
	"loan-advisor/internal/models"
)

const noMatchAdvice = "No loan products match this profile yet. A higher credit score or lower existing EMIs will raise your eligibility."

func renderSubject(input *Input) string {
	return fmt.Sprintf("Your loan eligibility: %.1f/100 (%s)", input.EligibilityScore, input.EligibilityTier)
}

func renderEmailBody(input *Input) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Eligibility score: %.1f/100 (%s)\n", input.EligibilityScore, input.EligibilityTier)

	if len(input.Suggestions) == 0 {
		b.WriteString("\n")
		b.WriteString(noMatchAdvice)
		b.WriteString("\n")
		return b.String()
	}

	fmt.Fprintf(&b, "Maximum loan amount: %s\n\nSuggested loans:\n", loan.FormatCurrency(input.MaxLoanAmount))
	for _, s := range input.Suggestions {
		fmt.Fprintf(&b, "- %s: %s over %d months at %.1f%%, EMI %s (%s)\n",
			s.Type, loan.FormatCurrency(s.Amount), s.TenureMonths, s.InterestRate,
			loan.FormatCurrency(s.EMI), s.EligibilityTier)
	}
	return b.String()
}

// renderSMS keeps to the best suggestion so the text fits one segment.
// Suggestions arrive in product order, not ranked.
func renderSMS(input *Input) string {
	head := fmt.Sprintf("Loan eligibility %.1f/100 (%s).", input.EligibilityScore, input.EligibilityTier)
	if len(input.Suggestions) == 0 {
		return head + " No loan products match yet."
	}
	best := bestSuggestion(input.Suggestions)
	return fmt.Sprintf("%s Best option: %s up to %s, EMI %s.",
		head, best.Type, loan.FormatCurrency(best.Amount), loan.FormatCurrency(best.EMI))
}

var tierRank = map[models.EligibilityTier]int{
	models.TierHigh:   3,
	models.TierMedium: 2,
	models.TierLow:    1,
}

// bestSuggestion prefers the strongest tier, then the larger amount.
func bestSuggestion(suggestions []models.LoanSuggestion) models.LoanSuggestion {
	best := suggestions[0]
	for _, s := range suggestions[1:] {
		rs, rb := tierRank[s.EligibilityTier], tierRank[best.EligibilityTier]
		if rs > rb || (rs == rb && s.Amount > best.Amount) {
			best = s
		}
	}
	return best
}
