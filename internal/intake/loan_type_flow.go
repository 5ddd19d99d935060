package intake

import (
	"fmt"
	"strings"

	"loan-advisor/internal/loan"
	"loan-advisor/internal/models"
)

// loanTypeTurn advances purpose -> amount -> collateral -> complete.
func (m *Machine) loanTypeTurn(state models.ConversationState, text string) (models.ConversationState, string) {
	switch state.Step {
	case models.StepAwaitingPurpose:
		state.Answer.Purpose = models.Purpose(strings.ToLower(text))
		state.Step = models.StepAwaitingAmount
		return state, amountQuestion

	case models.StepAwaitingAmount:
		amount, ok := parseDigits(text)
		if !ok || amount <= 0 {
			return state, invalidAmountReply
		}
		state.Answer.Amount = amount
		state.Step = models.StepAwaitingCollateral
		return state, collateralQuestion

	case models.StepAwaitingCollateral:
		state.Answer.HasCollateral = m.affirmative.Match(text)
		state.Step = models.StepComplete

		rec := m.classifier.Classify(string(state.Answer.Purpose), state.Answer.Amount, state.Answer.HasCollateral)
		return state, loanTypeResult(rec)
	}

	return state, Question(state)
}

func loanTypeResult(rec models.LoanTypeRecommendation) string {
	var b strings.Builder
	b.WriteString("Based on your answers, the most suitable loan for you is:\n\n")
	fmt.Fprintf(&b, "👉 %s\n\n", rec.LoanType)
	if rec.Subtype != "" {
		fmt.Fprintf(&b, "Type: %s\n\n", rec.Subtype)
	}

	b.WriteString("Documents you will usually need:\n")
	for _, doc := range loan.RequiredDocuments(rec.LoanType) {
		fmt.Fprintf(&b, "• %s\n", doc)
	}
	b.WriteString("\n")

	b.WriteString(restartHint)
	return b.String()
}
