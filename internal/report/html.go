package report

import (
	_ "embed"
	"fmt"
	"html"
	"html/template"
	"io"
	"time"

	"github.com/accrava/clausescan/internal/engine"
	"github.com/accrava/clausescan/internal/rules"
	"github.com/accrava/clausescan/internal/scanner"
	"github.com/accrava/clausescan/internal/types"
)

//go:embed templates/report.html.tmpl
var reportHTMLTemplate string

var reportTmpl = template.Must(template.New("report").Parse(reportHTMLTemplate))

type htmlDoc struct {
	Path      string
	Annotated template.HTML
	Findings  []types.Finding
}

type htmlView struct {
	GeneratedAt string
	Total       int
	Docs        []htmlDoc
}

// WriteHTML renders every document's highlighted text and findings table.
// The report is a standalone file, so document text is HTML-escaped before
// the highlight spans are applied; markup in a contract shows as text.
func WriteHTML(w io.Writer, docs []engine.Document, rs []rules.Rule) error {
	vm := htmlView{GeneratedAt: time.Now().UTC().Format(time.RFC3339)}
	for _, d := range docs {
		vm.Total += len(d.Findings)
		vm.Docs = append(vm.Docs, htmlDoc{
			Path:      d.Path,
			Annotated: template.HTML(scanner.Annotate(html.EscapeString(d.Text), rs)),
			Findings:  d.Findings,
		})
	}
	if err := reportTmpl.Execute(w, vm); err != nil {
		return fmt.Errorf("execute template: %w", err)
	}
	return nil
}
