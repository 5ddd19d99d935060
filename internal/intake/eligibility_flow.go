package intake

import (
	"fmt"
	"math"
	"strings"

	"loan-advisor/internal/loan"
	"loan-advisor/internal/models"
)

const (
	minAge = 18
	maxAge = 100
)

// eligibilityTurn collects a UserProfile one field at a time and finishes
// with the recommendation engine's suggestions.
func (m *Machine) eligibilityTurn(state models.ConversationState, text string) (models.ConversationState, string) {
	switch state.Step {
	case models.StepAwaitingIncome:
		income, ok := firstNumber(text)
		if !ok {
			return state, invalidIncomeReply
		}
		state.Profile.MonthlyIncome = income
		state.Step = models.StepAwaitingAge
		return state, ageQuestion

	case models.StepAwaitingAge:
		age, ok := firstNumber(text)
		if !ok || age != math.Trunc(age) || age < minAge || age > maxAge {
			return state, invalidAgeReply
		}
		state.Profile.Age = int(age)
		state.Step = models.StepAwaitingEmployment
		return state, employmentQuestion

	case models.StepAwaitingEmployment:
		employment, ok := parseEmployment(text)
		if !ok {
			return state, invalidEmployment
		}
		state.Profile.EmploymentType = employment
		state.Step = models.StepAwaitingCityTier
		return state, cityTierQuestion

	case models.StepAwaitingCityTier:
		tier, ok := parseCityTier(text)
		if !ok {
			return state, invalidCityTier
		}
		state.Profile.CityTier = tier
		state.Step = models.StepAwaitingCreditScore
		return state, creditScoreQuestion

	case models.StepAwaitingCreditScore:
		if m.skip.Match(text) {
			state.Profile.CreditScore = nil
			state.Step = models.StepAwaitingExistingEMIs
			return state, emiQuestion
		}
		score, ok := firstNumber(text)
		if !ok || score < models.MinCreditScore || score > models.MaxCreditScore {
			return state, invalidCreditScore
		}
		cs := int(score)
		state.Profile.CreditScore = &cs
		state.Step = models.StepAwaitingExistingEMIs
		return state, emiQuestion

	case models.StepAwaitingExistingEMIs:
		emis, ok := firstNumber(text)
		if !ok {
			if !m.none.Match(text) {
				return state, invalidEMIReply
			}
			emis = 0
		}
		state.Profile.ExistingEMIs = emis
		state.Step = models.StepComplete

		rec, err := loan.Recommend(state.Profile)
		if err != nil {
			// every field was validated on the way in; restart rather than
			// leave the user stuck
			next, greeting := m.StartFlow(models.FlowEligibility)
			next.Turns = state.Turns
			return next, resetReply + greeting
		}
		return state, m.eligibilityResult(rec)
	}

	return state, Question(state)
}

// parseEmployment accepts the whole answer or any single or two-word phrase
// inside it, so "I am self employed" resolves.
func parseEmployment(text string) (models.EmploymentType, bool) {
	if t, ok := models.ParseEmploymentType(text); ok {
		return t, true
	}

	tokens := tokenize(strings.ToLower(text))
	for i := range tokens {
		if i+1 < len(tokens) {
			if t, ok := models.ParseEmploymentType(tokens[i] + " " + tokens[i+1]); ok {
				return t, true
			}
		}
		if t, ok := models.ParseEmploymentType(tokens[i]); ok {
			return t, true
		}
	}
	return "", false
}

var cityTierWords = map[string]int{
	"metro": 1,
	"one":   1,
	"two":   2,
	"three": 3,
}

func parseCityTier(text string) (int, bool) {
	if n, ok := firstNumber(text); ok {
		if n == 1 || n == 2 || n == 3 {
			return int(n), true
		}
		return 0, false
	}
	for _, tok := range tokenize(strings.ToLower(text)) {
		if tier, ok := cityTierWords[tok]; ok {
			return tier, true
		}
	}
	return 0, false
}

func (m *Machine) eligibilityResult(rec models.Recommendation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Your eligibility score is %.1f/100 (%s).\n\n", rec.Score, rec.Tier)

	if len(rec.Suggestions) == 0 {
		b.WriteString("We could not find a loan you are likely to be approved for right now. " +
			"A steadier income or a better credit score will improve your chances.\n\n")
		b.WriteString(restartHint)
		return b.String()
	}

	b.WriteString("Here is what you can apply for:\n\n")
	for i, s := range rec.Suggestions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, s.Type)
		fmt.Fprintf(&b, "   Amount: %s for %d months at %.2f%%\n", loan.FormatCurrency(s.Amount), s.TenureMonths, s.InterestRate)
		fmt.Fprintf(&b, "   EMI: %s/month\n", loan.FormatCurrency(s.EMI))
		if lenders := m.lenders.Lookup(s.Type); len(lenders) > 0 {
			names := make([]string, len(lenders))
			for j, l := range lenders {
				names[j] = l.Name
			}
			fmt.Fprintf(&b, "   Lenders: %s\n", strings.Join(names, ", "))
		}
		b.WriteString("\n")
	}

	b.WriteString(restartHint)
	return b.String()
}
