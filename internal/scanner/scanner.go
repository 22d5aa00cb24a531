// Package scanner finds risk clauses in document text and produces an
// annotated copy of it. Scanning is a pure function of the text and the
// rule table.
package scanner

import (
	"github.com/accrava/clausescan/internal/rules"
	"github.com/accrava/clausescan/internal/types"
)

// DefaultContext is the excerpt context, in characters, on each side of a match.
const DefaultContext = 60

type Result struct {
	Findings  []types.Finding `json:"findings"`
	Annotated string          `json:"annotated"`
}

type Scanner struct {
	rules   []rules.Rule
	context int
}

type Option func(*Scanner)

// WithContext sets the excerpt context width. Negative values are ignored.
func WithContext(n int) Option {
	return func(s *Scanner) {
		if n >= 0 {
			s.context = n
		}
	}
}

func New(rs []rules.Rule, opts ...Option) *Scanner {
	s := &Scanner{rules: append([]rules.Rule(nil), rs...), context: DefaultContext}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Scanner) Rules() []rules.Rule { return append([]rules.Rule(nil), s.rules...) }

func (s *Scanner) Scan(text string) Result {
	return Result{
		Findings:  findings(text, s.rules, s.context),
		Annotated: Annotate(text, s.rules),
	}
}

// Findings returns the matches for text grouped by rule in table order, each
// group in left-to-right match order. The result is not sorted by offset.
func (s *Scanner) Findings(text string) []types.Finding {
	return findings(text, s.rules, s.context)
}

// Scan runs rs over text with the default excerpt context.
func Scan(text string, rs []rules.Rule) Result {
	return New(rs).Scan(text)
}

func findings(text string, rs []rules.Rule, context int) []types.Finding {
	out := []types.Finding{}
	for _, r := range rs {
		for _, loc := range r.Pattern.FindAllStringIndex(text, -1) {
			start, end := loc[0], loc[1]
			if start == end {
				continue
			}
			out = append(out, types.Finding{
				Category:   r.Category,
				Severity:   r.Severity,
				MatchStart: start,
				MatchEnd:   end,
				Match:      text[start:end],
				Excerpt:    Excerpt(text, start, end, context),
			})
		}
	}
	return out
}
