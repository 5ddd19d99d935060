package advice

import (
	"regexp"
	"strconv"
	"strings"

	"loan-advisor/internal/models"
)

var (
	groupedDigits = regexp.MustCompile(`(\d),(\d)`)
	integers      = regexp.MustCompile(`\d+`)
)

// hintRule picks the first number inside (min, max) when the message
// mentions one of the cue words.
type hintRule struct {
	cues     []string
	min, max float64
}

var (
	incomeHint = hintRule{cues: []string{"income", "salary", "earn"}, min: 10_000, max: 1_000_000}
	ageHint    = hintRule{cues: []string{"age", "old"}, min: 18, max: 70}
	emiHint    = hintRule{cues: []string{"emi", "existing loan"}, min: 1_000, max: 100_000}
)

func (r hintRule) find(lower string, numbers []float64) (float64, bool) {
	cued := false
	for _, c := range r.cues {
		if strings.Contains(lower, c) {
			cued = true
			break
		}
	}
	if !cued {
		return 0, false
	}
	for _, n := range numbers {
		if n > r.min && n < r.max {
			return n, true
		}
	}
	return 0, false
}

// ExtractProfileHints pulls monthly income, age and existing EMI figures out
// of a chat message such as "I'm 30 years old and earn 75,000". Bounds are
// exclusive; figures outside them are ignored.
func ExtractProfileHints(message string) models.ProfileHints {
	lower := strings.ToLower(message)

	// "75,000" and "1,20,000" are one number
	joined := lower
	for groupedDigits.MatchString(joined) {
		joined = groupedDigits.ReplaceAllString(joined, "$1$2")
	}

	var numbers []float64
	for _, m := range integers.FindAllString(joined, -1) {
		if n, err := strconv.ParseFloat(m, 64); err == nil {
			numbers = append(numbers, n)
		}
	}

	var hints models.ProfileHints
	if n, ok := incomeHint.find(lower, numbers); ok {
		hints.MonthlyIncome = n
	}
	if n, ok := ageHint.find(lower, numbers); ok {
		hints.Age = int(n)
	}
	if n, ok := emiHint.find(lower, numbers); ok {
		hints.ExistingEMIs = n
	}
	return hints
}
