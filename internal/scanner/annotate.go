package scanner

import (
	"fmt"

	"github.com/accrava/clausescan/internal/rules"
	"github.com/accrava/clausescan/internal/types"
)

var colors = map[types.Severity]string{
	types.SevHigh: "#ff4d4d",
	types.SevMed:  "#ffe066",
	types.SevLow:  "#ccffcc",
}

// Color is the highlight background for a severity.
func Color(sev types.Severity) string {
	if c, ok := colors[sev]; ok {
		return c
	}
	return colors[types.SevMed]
}

// Label is the tooltip text carried by an annotation span.
func Label(r rules.Rule) string {
	return fmt.Sprintf("%s - %s", r.Category, r.Severity)
}

// Span wraps match in the highlight markup for r.
func Span(r rules.Rule, match string) string {
	return fmt.Sprintf("<span style='background-color:%s; color:#000; font-weight:bold;' title='%s'>%s</span>",
		Color(r.Severity), Label(r), match)
}

// Annotate rewrites text once per rule, in table order, each pass running over
// the output of the previous one. A later rule can therefore match inside the
// markup an earlier rule inserted (for example a tooltip label); that is kept
// as is.
func Annotate(text string, rs []rules.Rule) string {
	s := text
	for _, r := range rs {
		s = r.Pattern.ReplaceAllStringFunc(s, func(m string) string {
			if m == "" {
				return m
			}
			return Span(r, m)
		})
	}
	return s
}
