package intake

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// MatchMode controls how keywords are found in an answer.
type MatchMode string

const (
	// MatchWord requires the keyword to appear as a whole token, so "hai"
	// does not count as "ha".
	MatchWord MatchMode = "word"
	// MatchSubstring accepts the keyword anywhere in the text. "thanks" and
	// "nahi" both contain "ha" and count as yes; kept for compatibility with
	// the first release of the chat flow.
	MatchSubstring MatchMode = "substring"
)

// DefaultAffirmativeKeywords are used in word mode when none are configured.
var DefaultAffirmativeKeywords = []string{
	"yes", "y", "yeah", "yep", "yup", "sure", "of course",
	"ha", "haa", "haan", "han", "ji", "houdu",
}

// LegacyAffirmativeKeywords are used in substring mode when none are configured.
var LegacyAffirmativeKeywords = []string{"yes", "ha", "haan", "houdu"}

var (
	restartKeywords = []string{"restart"}
	skipKeywords    = []string{"skip", "no", "none", "dont know", "don't know", "not sure", "unknown", "na"}
	noneKeywords    = []string{"no", "none", "nil", "nothing", "zero"}
)

type keywordMatcher struct {
	mode     MatchMode
	keywords []string
}

func newKeywordMatcher(mode MatchMode, keywords []string) keywordMatcher {
	normalized := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			normalized = append(normalized, k)
		}
	}
	return keywordMatcher{mode: mode, keywords: normalized}
}

// Match reports whether any keyword occurs in text, case-insensitively.
func (m keywordMatcher) Match(text string) bool {
	lower := strings.ToLower(text)

	if m.mode == MatchSubstring {
		for _, k := range m.keywords {
			if strings.Contains(lower, k) {
				return true
			}
		}
		return false
	}

	// pad with spaces so multi-word keywords only match on token boundaries
	joined := " " + strings.Join(tokenize(lower), " ") + " "
	for _, k := range m.keywords {
		if strings.Contains(joined, " "+strings.Join(tokenize(k), " ")+" ") {
			return true
		}
	}
	return false
}

// tokenize splits on anything that is not a letter, digit or apostrophe.
func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}

// parseDigits keeps only the ASCII digits of text. "₹5,00,000" is 500000;
// text without digits, or too long to represent, is rejected.
func parseDigits(text string) (float64, bool) {
	var b strings.Builder
	for _, r := range text {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, false
	}

	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

var numberPattern = regexp.MustCompile(`\d[\d,]*(\.\d+)?`)

// firstNumber returns the first number written in text, allowing grouping
// commas and a decimal part: "I am 32 years old" is 32, "75,000.50" is 75000.5.
func firstNumber(text string) (float64, bool) {
	match := numberPattern.FindString(text)
	if match == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
