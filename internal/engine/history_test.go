package engine

import (
	"context"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanHistory(t *testing.T) {
	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)
	sig := &object.Signature{Name: "legal", Email: "legal@example.com", When: time.Now()}

	writeFile(t, dir, "msa.txt", "Invoice monthly.")
	writeFile(t, dir, "notes.pdf", "penalty")
	for _, name := range []string{"msa.txt", "notes.pdf"} {
		_, err = wt.Add(name)
		require.NoError(t, err)
	}
	first, err := wt.Commit("initial", &gogit.CommitOptions{Author: sig})
	require.NoError(t, err)

	writeFile(t, dir, "msa.txt", "Invoice monthly.\nTermination for cause.")
	_, err = wt.Add("msa.txt")
	require.NoError(t, err)
	second, err := wt.Commit("add termination", &gogit.CommitOptions{Author: sig})
	require.NoError(t, err)

	res, err := ScanHistory(context.Background(), Config{Root: dir}, 5)
	require.NoError(t, err)
	assert.Equal(t, 2, res.FilesScanned, "pdf filtered by extension")
	require.Len(t, res.Documents, 2)
	assert.Equal(t, "msa.txt@"+second.String()[:7], res.Documents[0].Path)
	assert.Equal(t, "msa.txt@"+first.String()[:7], res.Documents[1].Path)

	require.Len(t, res.Findings, 4)
	assert.Equal(t, "Termination", res.Findings[0].Category)
	assert.Equal(t, 2, res.Findings[0].Line)
	assert.Equal(t, "Payment", res.Findings[2].Category)
	assert.Equal(t, "Payment", res.Findings[3].Category)
	assert.Equal(t, "msa.txt@"+first.String()[:7], res.Findings[3].Path)
}

func TestScanHistory_NotARepository(t *testing.T) {
	_, err := ScanHistory(context.Background(), Config{Root: t.TempDir()}, 1)
	assert.Error(t, err)
}
