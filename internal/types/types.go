package types

import "strings"

type Severity string

const (
	SevLow  Severity = "Low"
	SevMed  Severity = "Medium"
	SevHigh Severity = "High"
)

// ParseSeverity accepts any casing of low, medium or high.
func ParseSeverity(s string) (Severity, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return SevLow, true
	case "medium", "med":
		return SevMed, true
	case "high":
		return SevHigh, true
	}
	return "", false
}

// Rank orders severities: Low=1, Medium=2, High=3, anything else 0.
func (s Severity) Rank() int {
	switch s {
	case SevLow:
		return 1
	case SevMed:
		return 2
	case SevHigh:
		return 3
	}
	return 0
}

// Finding is one occurrence of a risk category in a document. MatchStart and
// MatchEnd are byte offsets into the scanned text.
type Finding struct {
	Path       string   `json:"path,omitempty"`
	Line       int      `json:"line,omitempty"`
	Category   string   `json:"category"`
	Severity   Severity `json:"severity"`
	MatchStart int      `json:"match_start"`
	MatchEnd   int      `json:"match_end"`
	Match      string   `json:"match"`
	Excerpt    string   `json:"excerpt"`
}
