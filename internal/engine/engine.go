package engine

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/accrava/clausescan/internal/decode"
	"github.com/accrava/clausescan/internal/logging"
	"github.com/accrava/clausescan/internal/rules"
	"github.com/accrava/clausescan/internal/scanner"
	"github.com/accrava/clausescan/internal/types"
)

type Config struct {
	Root         string
	IncludeGlobs string
	ExcludeGlobs string
	// Extensions is a comma-separated list; empty means DefaultExtensions, "*" any.
	Extensions string
	MaxBytes   int64
	Threads    int
	// Rules defaults to the built-in table when nil.
	Rules []rules.Rule
	// ContextChars is the excerpt context; 0 means scanner.DefaultContext.
	ContextChars int
	Progress     func()
}

// Document is the scan of one file.
type Document struct {
	Path      string          `json:"path"`
	Text      string          `json:"-"`
	Findings  []types.Finding `json:"findings"`
	Annotated string          `json:"annotated"`
}

type Result struct {
	Documents    []Document
	Findings     []types.Finding
	FilesScanned int
	Duration     time.Duration
}

func (c Config) scanner() *scanner.Scanner {
	rs := c.Rules
	if rs == nil {
		rs = rules.Default()
	}
	var opts []scanner.Option
	if c.ContextChars > 0 {
		opts = append(opts, scanner.WithContext(c.ContextChars))
	}
	return scanner.New(rs, opts...)
}

func Scan(ctx context.Context, cfg Config) ([]types.Finding, error) {
	res, err := ScanWithStats(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return res.Findings, nil
}

// CountTargets reports how many files a scan of cfg would read.
func CountTargets(cfg Config) (int, error) {
	ts, err := collect(cfg)
	if err != nil {
		return 0, err
	}
	return len(ts), nil
}

// ScanWithStats scans every eligible file under cfg.Root in parallel.
// Documents and findings come back in path order; within a document findings
// keep the scanner's rule-then-position order.
func ScanWithStats(ctx context.Context, cfg Config) (Result, error) {
	start := time.Now()
	ts, err := collect(cfg)
	if err != nil {
		return Result{}, fmt.Errorf("collect targets: %w", err)
	}
	threads := cfg.Threads
	if threads <= 0 {
		threads = runtime.GOMAXPROCS(0)
	}
	sc := cfg.scanner()

	docs := make([]*Document, len(ts))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(threads)
	for i, t := range ts {
		i, t := i, t
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			defer func() {
				if cfg.Progress != nil {
					cfg.Progress()
				}
			}()
			doc, ok := scanTarget(sc, t)
			if ok {
				docs[i] = &doc
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	res := Result{Findings: []types.Finding{}}
	for _, d := range docs {
		if d == nil {
			continue
		}
		res.Documents = append(res.Documents, *d)
		res.Findings = append(res.Findings, d.Findings...)
		res.FilesScanned++
	}
	res.Duration = time.Since(start)
	return res, nil
}

// ScanFile scans a single file regardless of filters.
func ScanFile(cfg Config, path string) (Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Document{}, err
	}
	return scanBytes(cfg.scanner(), path, b), nil
}

func scanTarget(sc *scanner.Scanner, t target) (Document, bool) {
	b, err := os.ReadFile(t.abs)
	if err != nil {
		logging.Logger.Warnw("skipping unreadable file", "path", t.rel, "error", err)
		return Document{}, false
	}
	if looksBinary(b) {
		logging.Logger.Debugw("skipping binary file", "path", t.rel)
		return Document{}, false
	}
	return scanBytes(sc, t.rel, b), true
}

func scanBytes(sc *scanner.Scanner, path string, b []byte) Document {
	text := decode.Bytes(b)
	res := sc.Scan(text)
	for i := range res.Findings {
		res.Findings[i].Path = path
		res.Findings[i].Line = lineOf(text, res.Findings[i].MatchStart)
	}
	return Document{Path: path, Text: text, Findings: res.Findings, Annotated: res.Annotated}
}

func lineOf(text string, offset int) int {
	return strings.Count(text[:offset], "\n") + 1
}
