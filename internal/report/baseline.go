package report

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"

	"github.com/accrava/clausescan/internal/types"
)

// DefaultBaselineFile is read from and written to the working directory.
const DefaultBaselineFile = "clausescan.baseline.json"

type Baseline struct {
	Items map[string]bool `json:"items"`
}

func LoadBaseline(path string) (Baseline, error) {
	b := Baseline{Items: map[string]bool{}}
	f, err := os.ReadFile(path)
	if err != nil {
		return b, err
	}
	if err := json.Unmarshal(f, &b); err != nil {
		return b, err
	}
	if b.Items == nil {
		b.Items = map[string]bool{}
	}
	return b, nil
}

func SaveBaseline(path string, findings []types.Finding) error {
	b := Baseline{Items: map[string]bool{}}
	for _, f := range findings {
		b.Items[FindingKey(f)] = true
	}
	buf, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0644)
}

// FilterNewFindings drops baselined findings and keeps the order of the rest.
func FilterNewFindings(findings []types.Finding, base Baseline) []types.Finding {
	out := []types.Finding{}
	for _, f := range findings {
		if !base.Items[FindingKey(f)] {
			out = append(out, f)
		}
	}
	return out
}

// FindingKey is a stable fingerprint that avoids storing contract text.
// Offsets are left out so edits elsewhere in a document keep keys stable.
func FindingKey(f types.Finding) string {
	sum := sha256.Sum256([]byte(f.Path + "|" + f.Category + "|" + f.Match + "|" + f.Excerpt))
	return hex.EncodeToString(sum[:])
}

// ShouldFail reports whether any finding is at or above failOn
// (low|medium|high, default medium).
func ShouldFail(findings []types.Finding, failOn string) bool {
	th := 2
	if s, ok := types.ParseSeverity(failOn); ok {
		th = s.Rank()
	}
	for _, f := range findings {
		if f.Severity.Rank() >= th {
			return true
		}
	}
	return false
}
