package engine

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accrava/clausescan/internal/rules"
)

func writeFile(t *testing.T, dir, rel, body string) string {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestScanWithStats_DirectoryOrderAndLines(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b/msa.txt", "Intro.\nTermination for cause.\nInvoice monthly.")
	writeFile(t, dir, "a.md", "Governing law: England.")
	writeFile(t, dir, "notes.pdf", "penalty") // extension filtered
	writeFile(t, dir, "clean.txt", "Nothing to see.")

	res, err := ScanWithStats(context.Background(), Config{Root: dir, Threads: 2})
	require.NoError(t, err)

	assert.Equal(t, 3, res.FilesScanned)
	require.Len(t, res.Documents, 3)
	assert.Equal(t, "a.md", res.Documents[0].Path)
	assert.Equal(t, "b/msa.txt", res.Documents[1].Path)
	assert.Equal(t, "clean.txt", res.Documents[2].Path)
	assert.Equal(t, "Nothing to see.", res.Documents[2].Annotated)

	require.Len(t, res.Findings, 4)
	assert.Equal(t, "Jurisdiction", res.Findings[0].Category)
	assert.Equal(t, "a.md", res.Findings[0].Path)
	assert.Equal(t, 1, res.Findings[0].Line)
	// within msa.txt: Termination rule precedes Payment rule in the table
	assert.Equal(t, "Termination", res.Findings[1].Category)
	assert.Equal(t, 2, res.Findings[1].Line)
	assert.Equal(t, "Termination", res.Findings[2].Category)
	assert.Equal(t, "Payment", res.Findings[3].Category)
	assert.Equal(t, 3, res.Findings[3].Line)
}

func TestScan_FiltersAndIgnoreFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "keep/a.txt", "penalty")
	writeFile(t, dir, "drafts/b.txt", "penalty")
	writeFile(t, dir, "skip/c.txt", "penalty")
	writeFile(t, dir, "node_modules/d.txt", "penalty")
	writeFile(t, dir, "big.txt", "penalty ................................................")
	writeFile(t, dir, IgnoreFile, "drafts/\n")

	fs, err := Scan(context.Background(), Config{Root: dir, ExcludeGlobs: "skip/**", MaxBytes: 20})
	require.NoError(t, err)
	require.Len(t, fs, 1)
	assert.Equal(t, "keep/a.txt", fs[0].Path)

	fs, err = Scan(context.Background(), Config{Root: dir, IncludeGlobs: "drafts/**,skip/**"})
	require.NoError(t, err)
	require.Len(t, fs, 1, "the ignore file still wins over include")
	assert.Equal(t, "skip/c.txt", fs[0].Path)
}

func TestScan_ExtensionsAndBinary(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "c.rtf", "NDA")
	writeFile(t, dir, "bin.txt", "NDA\x00\x00")

	fs, err := Scan(context.Background(), Config{Root: dir, Extensions: "rtf, .txt"})
	require.NoError(t, err)
	require.Len(t, fs, 1)
	assert.Equal(t, "c.rtf", fs[0].Path)

	n, err := CountTargets(Config{Root: dir, Extensions: "*"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestScan_SingleFileRootAndCustomRules(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "contract.docx.txt", "audit rights and invoice")
	rs, err := rules.Compile([]rules.Spec{{Category: "Audit", Pattern: `\baudit rights\b`, Severity: "low"}})
	require.NoError(t, err)

	res, err := ScanWithStats(context.Background(), Config{Root: p, Rules: rs, ContextChars: 3})
	require.NoError(t, err)
	require.Len(t, res.Findings, 1)
	assert.Equal(t, "Audit", res.Findings[0].Category)
	assert.Equal(t, "contract.docx.txt", res.Findings[0].Path)
	assert.Equal(t, "audit rights an", res.Findings[0].Excerpt)
}

func TestScan_LossyDecodeAndProgress(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "x.txt", "liability \xff\xfe cap")
	writeFile(t, dir, "y.txt", "fine")
	var calls int32
	res, err := ScanWithStats(context.Background(), Config{Root: dir, Progress: func() { atomic.AddInt32(&calls, 1) }})
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	require.Len(t, res.Findings, 2)
	assert.Contains(t, res.Documents[0].Text, "�")
}

func TestScan_MissingRoot(t *testing.T) {
	_, err := Scan(context.Background(), Config{Root: filepath.Join(t.TempDir(), "nope")})
	assert.Error(t, err)
}

func TestScan_Cancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "penalty")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Scan(ctx, Config{Root: dir})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScanFile(t *testing.T) {
	p := writeFile(t, t.TempDir(), "x.pdf", "Net 60")
	doc, err := ScanFile(Config{}, p)
	require.NoError(t, err)
	require.Len(t, doc.Findings, 1)
	assert.Equal(t, "Payment", doc.Findings[0].Category)
	assert.Contains(t, doc.Annotated, "title='Payment - Medium'>Net 60</span>")
}

func TestWatch_RescansChangedDocument(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan Document, 16)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, Config{Root: dir}, func(d Document) {
			select {
			case got <- d:
			default:
			}
		})
	}()

	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case d := <-got:
			if len(d.Findings) > 0 {
				assert.Equal(t, "contract.txt", d.Path)
				assert.Equal(t, "Termination", d.Findings[0].Category)
				cancel()
				require.NoError(t, <-done)
				return
			}
		case <-tick.C:
			// the watcher may not be registered yet; keep rewriting
			writeFile(t, dir, "contract.txt", "Either party may terminate.")
		case <-deadline:
			t.Fatal("no rescan observed")
		}
	}
}
