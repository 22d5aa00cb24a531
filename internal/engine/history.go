package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/accrava/clausescan/internal/git"
	"github.com/accrava/clausescan/internal/types"
)

// ScanHistory scans the documents added or changed in the last n commits of
// the repository containing cfg.Root. Document paths are repo-relative and
// suffixed with "@<short hash>"; newest commit first.
func ScanHistory(ctx context.Context, cfg Config, n int) (Result, error) {
	start := time.Now()
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return Result{}, err
	}
	entries, err := git.LastNCommits(root, n, cfg.MaxBytes)
	if err != nil {
		return Result{}, fmt.Errorf("history: %w", err)
	}
	flt, err := newFilter(cfg, root)
	if err != nil {
		return Result{}, err
	}
	sc := cfg.scanner()

	res := Result{Findings: []types.Finding{}}
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		for _, p := range e.Paths() {
			b := e.Files[p]
			if !flt.keep(p, int64(len(b))) || looksBinary(b) {
				continue
			}
			doc := scanBytes(sc, p+"@"+shortHash(e.Hash), b)
			res.Documents = append(res.Documents, doc)
			res.Findings = append(res.Findings, doc.Findings...)
			res.FilesScanned++
			if cfg.Progress != nil {
				cfg.Progress()
			}
		}
	}
	res.Duration = time.Since(start)
	return res, nil
}

func shortHash(h string) string {
	if len(h) > 7 {
		return h[:7]
	}
	return h
}
