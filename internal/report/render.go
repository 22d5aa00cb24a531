package report

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/accrava/clausescan/internal/types"
)

type PrintOptions struct {
	NoColor      bool
	Duration     time.Duration
	FilesScanned int
}

var sevStyles = map[types.Severity]lipgloss.Style{
	types.SevHigh: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff4d4d")),
	types.SevMed:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffe066")),
	types.SevLow:  lipgloss.NewStyle().Foreground(lipgloss.Color("#ccffcc")),
}

// PrintTable writes findings in the order given; callers rely on the
// scanner's rule-grouped ordering, so nothing is re-sorted here.
func PrintTable(w io.Writer, findings []types.Finding, opts PrintOptions) {
	if len(findings) == 0 {
		fmt.Fprintln(w, "No predefined risk clauses detected ✅")
		printFooter(w, opts)
		return
	}
	fmt.Fprintf(w, "Findings: %d\n", len(findings))
	for _, f := range findings {
		sev := fmt.Sprintf("%-6s", f.Severity)
		if st, ok := sevStyles[f.Severity]; ok && !opts.NoColor {
			sev = st.Render(sev)
		}
		fmt.Fprintf(w, "%s %-16s %s  ...%s...\n", sev, f.Category, location(f), f.Excerpt)
	}
	printFooter(w, opts)
}

func location(f types.Finding) string {
	if f.Path == "" {
		return fmt.Sprintf("@%d", f.MatchStart)
	}
	return fmt.Sprintf("%s:%d", f.Path, f.Line)
}

func printFooter(w io.Writer, opts PrintOptions) {
	if opts.FilesScanned == 0 && opts.Duration == 0 {
		return
	}
	fmt.Fprintf(w, "Files scanned: %d  Duration: %s\n", opts.FilesScanned, opts.Duration.Round(time.Millisecond))
}
