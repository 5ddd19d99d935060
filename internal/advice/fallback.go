// Package advice answers free-form loan questions. An external text
// provider is tried first; the built-in keyword table answers when it is
// missing or fails.
package advice

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/fallback.yaml
var defaultTable []byte

// Intent is one keyword group of the fallback table.
type Intent struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
	Answer   string   `yaml:"answer"`
}

type tableFile struct {
	Version string   `yaml:"version"`
	Intents []Intent `yaml:"intents"`
	Default Intent   `yaml:"default"`
}

// Table is an ordered keyword-to-answer lookup. It is read-only after
// construction and safe for concurrent use.
type Table struct {
	version  string
	intents  []Intent
	fallback Intent
}

// NewTable parses a YAML fallback table.
func NewTable(data []byte) (*Table, error) {
	var f tableFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fallback table: %w", err)
	}
	if strings.TrimSpace(f.Default.Answer) == "" {
		return nil, fmt.Errorf("fallback table: default answer is empty")
	}
	if f.Default.Name == "" {
		f.Default.Name = "default"
	}

	intents := make([]Intent, 0, len(f.Intents))
	for i, in := range f.Intents {
		if in.Name == "" || strings.TrimSpace(in.Answer) == "" {
			return nil, fmt.Errorf("fallback table: intent %d needs a name and an answer", i)
		}
		keywords := make([]string, 0, len(in.Keywords))
		for _, k := range in.Keywords {
			if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
				keywords = append(keywords, k)
			}
		}
		if len(keywords) == 0 {
			return nil, fmt.Errorf("fallback table: intent %q has no keywords", in.Name)
		}
		in.Keywords = keywords
		intents = append(intents, in)
	}

	return &Table{version: f.Version, intents: intents, fallback: f.Default}, nil
}

var (
	defaultTbl     *Table
	defaultTblOnce sync.Once
)

// DefaultTable returns the table built from the embedded file.
func DefaultTable() *Table {
	defaultTblOnce.Do(func() {
		t, err := NewTable(defaultTable)
		if err != nil {
			panic(err)
		}
		defaultTbl = t
	})
	return defaultTbl
}

func (t *Table) Version() string {
	return t.version
}

// Lookup returns the answer for message.
func (t *Table) Lookup(message string) string {
	_, answer := t.LookupIntent(message)
	return answer
}

// LookupIntent returns the matched intent name and its answer. Intents are
// tried in table order and the first containing keyword wins.
func (t *Table) LookupIntent(message string) (string, string) {
	lower := strings.ToLower(strings.TrimSpace(message))
	for _, in := range t.intents {
		for _, k := range in.Keywords {
			if strings.Contains(lower, k) {
				return in.Name, in.Answer
			}
		}
	}
	return t.fallback.Name, t.fallback.Answer
}
