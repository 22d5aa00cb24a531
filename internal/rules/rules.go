// Package rules holds the ordered clause-risk rule table.
//
// The table order matters: findings are grouped by it and annotation is
// applied rule by rule in it.
package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/accrava/clausescan/internal/types"
)

type Rule struct {
	Category string
	Pattern  *regexp.Regexp
	Severity types.Severity
}

// Spec is the uncompiled form of a rule as written in config files.
type Spec struct {
	Category string `yaml:"category" json:"category"`
	Pattern  string `yaml:"pattern" json:"pattern"`
	Severity string `yaml:"severity,omitempty" json:"severity"`
}

var defaultSpecs = []Spec{
	{Category: "SLA", Pattern: `\bSLA\b|\bservice level\b`, Severity: "Medium"},
	{Category: "Penalty", Pattern: `\bpenalt(y|ies)\b|\bliquidated damages\b|\bfine(s)?\b`, Severity: "High"},
	{Category: "Liability", Pattern: `\bliabilit(y|ies)\b|\bindemnif(y|ication)\b`, Severity: "High"},
	{Category: "Termination", Pattern: `\btermination\b|\bterminate\b|\bfor cause\b`, Severity: "High"},
	{Category: "Payment", Pattern: `\bpayment terms\b|\bnet\s+\d+\b|\binvoice\b`, Severity: "Medium"},
	{Category: "Confidentiality", Pattern: `\bconfidential(ity)?\b|\bNDA\b`, Severity: "Medium"},
	{Category: "Jurisdiction", Pattern: `\bgovern(ing)? law\b|\bjurisdiction\b`, Severity: "Medium"},
}

// Compiled once at startup; a bad built-in pattern panics here.
var builtin = mustCompile(defaultSpecs)

func mustCompile(specs []Spec) []Rule {
	rs, err := Compile(specs)
	if err != nil {
		panic(err)
	}
	return rs
}

// Default returns a copy of the built-in seven-rule table.
func Default() []Rule {
	return append([]Rule(nil), builtin...)
}

// DefaultSpecs returns a copy of the built-in table in uncompiled form.
func DefaultSpecs() []Spec {
	return append([]Spec(nil), defaultSpecs...)
}

// Compile validates specs and compiles their patterns case-insensitively.
// A missing severity defaults to Medium.
func Compile(specs []Spec) ([]Rule, error) {
	seen := make(map[string]bool, len(specs))
	out := make([]Rule, 0, len(specs))
	for i, s := range specs {
		cat := strings.TrimSpace(s.Category)
		if cat == "" {
			return nil, fmt.Errorf("rule %d: empty category", i)
		}
		if seen[cat] {
			return nil, fmt.Errorf("rule %d: duplicate category %q", i, cat)
		}
		seen[cat] = true

		sev := types.SevMed
		if strings.TrimSpace(s.Severity) != "" {
			var ok bool
			if sev, ok = types.ParseSeverity(s.Severity); !ok {
				return nil, fmt.Errorf("rule %q: invalid severity %q", cat, s.Severity)
			}
		}
		if s.Pattern == "" {
			return nil, fmt.Errorf("rule %q: empty pattern", cat)
		}
		re, err := regexp.Compile("(?i)" + s.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rule %q: failed to compile the regex %s: %w", cat, s.Pattern, err)
		}
		if re.MatchString("") {
			return nil, fmt.Errorf("rule %q: pattern %s matches empty text", cat, s.Pattern)
		}
		out = append(out, Rule{Category: cat, Pattern: re, Severity: sev})
	}
	return out, nil
}

// Merge overlays custom specs on base. A custom spec whose category exists in
// base replaces it in place; new categories are appended in their given order.
// With replace set, base is discarded.
func Merge(base, custom []Spec, replace bool) []Spec {
	if replace {
		return append([]Spec(nil), custom...)
	}
	out := append([]Spec(nil), base...)
	idx := make(map[string]int, len(out))
	for i, s := range out {
		idx[s.Category] = i
	}
	for _, c := range custom {
		if i, ok := idx[c.Category]; ok {
			out[i] = c
			continue
		}
		idx[c.Category] = len(out)
		out = append(out, c)
	}
	return out
}

// Spec returns the rule in uncompiled form.
func (r Rule) Spec() Spec {
	return Spec{
		Category: r.Category,
		Pattern:  strings.TrimPrefix(r.Pattern.String(), "(?i)"),
		Severity: string(r.Severity),
	}
}

// Categories lists rule categories in table order.
func Categories(rs []Rule) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Category
	}
	return out
}
