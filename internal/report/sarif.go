package report

import (
	"encoding/json"
	"io"

	"github.com/accrava/clausescan/internal/rules"
	"github.com/accrava/clausescan/internal/types"
)

const (
	sarifVersion = "2.1.0"
	sarifSchema  = "https://json.schemastore.org/sarif-2.1.0.json"
)

type sarifLog struct {
	Version string     `json:"version"`
	Schema  string     `json:"$schema"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version,omitempty"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string            `json:"id"`
	ShortDescription sarifMessage      `json:"shortDescription"`
	Properties       map[string]string `json:"properties,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysical `json:"physicalLocation"`
}

type sarifPhysical struct {
	ArtifactLocation sarifArtifact `json:"artifactLocation"`
	Region           sarifRegion   `json:"region"`
}

type sarifArtifact struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine  int `json:"startLine,omitempty"`
	CharOffset int `json:"charOffset"`
	CharLength int `json:"charLength"`
}

func sarifLevel(s types.Severity) string {
	switch s {
	case types.SevHigh:
		return "error"
	case types.SevMed:
		return "warning"
	}
	return "note"
}

// WriteSARIF emits a SARIF 2.1.0 log with one rule descriptor per table entry.
func WriteSARIF(w io.Writer, findings []types.Finding, rs []rules.Rule, version string) error {
	drv := sarifDriver{Name: "clausescan", Version: version, Rules: []sarifRule{}}
	for _, r := range rs {
		drv.Rules = append(drv.Rules, sarifRule{
			ID:               r.Category,
			ShortDescription: sarifMessage{Text: r.Category + " clause"},
			Properties:       map[string]string{"severity": string(r.Severity), "pattern": r.Spec().Pattern},
		})
	}
	results := make([]sarifResult, 0, len(findings))
	for _, f := range findings {
		res := sarifResult{
			RuleID:  f.Category,
			Level:   sarifLevel(f.Severity),
			Message: sarifMessage{Text: f.Category + " - " + string(f.Severity) + ": " + f.Excerpt},
		}
		if f.Path != "" {
			res.Locations = []sarifLocation{{PhysicalLocation: sarifPhysical{
				ArtifactLocation: sarifArtifact{URI: f.Path},
				Region:           sarifRegion{StartLine: f.Line, CharOffset: f.MatchStart, CharLength: f.MatchEnd - f.MatchStart},
			}}}
		}
		results = append(results, res)
	}
	doc := sarifLog{
		Version: sarifVersion,
		Schema:  sarifSchema,
		Runs:    []sarifRun{{Tool: sarifTool{Driver: drv}, Results: results}},
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
