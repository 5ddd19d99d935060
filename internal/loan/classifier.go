package loan

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"loan-advisor/internal/models"
)

//go:embed rules/classifier.yaml
var defaultRules []byte

// ClassificationRule is one row of the classification table.
type ClassificationRule struct {
	Purpose    models.Purpose `yaml:"purpose"`
	MinAmount  float64        `yaml:"min_amount"`
	MaxAmount  float64        `yaml:"max_amount"`
	Collateral *bool          `yaml:"collateral"`
	LoanType   string         `yaml:"loan_type"`
	Subtype    string         `yaml:"subtype"`
}

func (r ClassificationRule) matches(purpose models.Purpose, amount float64, hasCollateral bool) bool {
	if r.Purpose != "" && r.Purpose != purpose {
		return false
	}
	if amount < r.MinAmount {
		return false
	}
	if r.MaxAmount > 0 && amount > r.MaxAmount {
		return false
	}
	if r.Collateral != nil && *r.Collateral != hasCollateral {
		return false
	}
	return true
}

func (r ClassificationRule) isCatchAll() bool {
	return r.Purpose == "" && r.MinAmount == 0 && r.MaxAmount == 0 && r.Collateral == nil
}

type ruleTable struct {
	Version string                    `yaml:"version"`
	Aliases map[string]models.Purpose `yaml:"aliases"`
	Rules   []ClassificationRule      `yaml:"rules"`
}

// Classifier maps (purpose, amount, collateral) onto a loan type using a
// first-match rule table.
type Classifier struct {
	version string
	aliases map[string]models.Purpose
	rules   []ClassificationRule
}

// NewClassifier parses a YAML rule table. The table must end with a
// catch-all rule.
func NewClassifier(data []byte) (*Classifier, error) {
	var table ruleTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parse classification rules: %w", err)
	}

	if len(table.Rules) == 0 {
		return nil, fmt.Errorf("classification rules: table is empty")
	}
	for i, r := range table.Rules {
		if r.LoanType == "" {
			return nil, fmt.Errorf("classification rules: rule %d has no loan_type", i)
		}
		if r.Purpose != "" && !r.Purpose.IsKnown() {
			return nil, fmt.Errorf("classification rules: rule %d has unknown purpose %q", i, r.Purpose)
		}
		if r.MaxAmount > 0 && r.MaxAmount < r.MinAmount {
			return nil, fmt.Errorf("classification rules: rule %d has max_amount below min_amount", i)
		}
	}
	if !table.Rules[len(table.Rules)-1].isCatchAll() {
		return nil, fmt.Errorf("classification rules: last rule must match every input")
	}

	for alias, target := range table.Aliases {
		if !target.IsKnown() {
			return nil, fmt.Errorf("classification rules: alias %q points at unknown purpose %q", alias, target)
		}
	}

	return &Classifier{
		version: table.Version,
		aliases: table.Aliases,
		rules:   table.Rules,
	}, nil
}

var (
	defaultClassifier     *Classifier
	defaultClassifierOnce sync.Once
)

// DefaultClassifier returns the classifier built from the embedded table.
func DefaultClassifier() *Classifier {
	defaultClassifierOnce.Do(func() {
		c, err := NewClassifier(defaultRules)
		if err != nil {
			panic(err)
		}
		defaultClassifier = c
	})
	return defaultClassifier
}

// Classify uses the embedded rule table.
func Classify(purpose string, amount float64, hasCollateral bool) models.LoanTypeRecommendation {
	return DefaultClassifier().Classify(purpose, amount, hasCollateral)
}

func (c *Classifier) Version() string {
	return c.version
}

// ResolvePurpose normalises free text and maps aliases; anything still
// unknown is treated as "other".
func (c *Classifier) ResolvePurpose(text string) models.Purpose {
	p := models.NormalizePurpose(text)
	if p.IsKnown() {
		return p
	}
	if target, ok := c.aliases[string(p)]; ok {
		return target
	}
	return models.PurposeOther
}

// Classify returns the loan type for the answers. It never fails.
func (c *Classifier) Classify(purpose string, amount float64, hasCollateral bool) models.LoanTypeRecommendation {
	resolved := c.ResolvePurpose(purpose)

	for _, r := range c.rules {
		if r.matches(resolved, amount, hasCollateral) {
			return models.LoanTypeRecommendation{LoanType: r.LoanType, Subtype: r.Subtype}
		}
	}

	// unreachable with a validated table
	return models.LoanTypeRecommendation{LoanType: models.LoanTypePersonal}
}
