package engine

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/accrava/clausescan/internal/ignore"
	"github.com/accrava/clausescan/internal/logging"
)

// IgnoreFile is read from the scan root when present.
const IgnoreFile = ".clausescanignore"

// DefaultExtensions are the document types accepted when none are configured.
var DefaultExtensions = []string{".txt", ".md"}

type target struct {
	abs string
	rel string
}

type filter struct {
	ign      ignore.Matcher
	include  ignore.Matcher
	exclude  ignore.Matcher
	exts     map[string]bool // nil accepts any extension
	maxBytes int64
}

func newFilter(cfg Config, root string) (filter, error) {
	ign, err := ignore.Load(filepath.Join(root, IgnoreFile))
	if err != nil {
		return filter{}, fmt.Errorf("load %s: %w", IgnoreFile, err)
	}
	f := filter{
		ign:      ign,
		include:  ignore.FromCSV(cfg.IncludeGlobs),
		exclude:  ignore.FromCSV(cfg.ExcludeGlobs),
		exts:     parseExtensions(cfg.Extensions),
		maxBytes: cfg.MaxBytes,
	}
	return f, nil
}

func parseExtensions(csv string) map[string]bool {
	list := DefaultExtensions
	if strings.TrimSpace(csv) != "" {
		list = strings.Split(csv, ",")
	}
	exts := map[string]bool{}
	for _, e := range list {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "*" {
			return nil
		}
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		exts[e] = true
	}
	return exts
}

func (f filter) skipDir(rel, name string) bool {
	if strings.HasPrefix(name, ".git") || name == "node_modules" || name == "vendor" {
		return true
	}
	return f.ign.Match(rel, true) || f.exclude.Match(rel, true)
}

func (f filter) keep(rel string, size int64) bool {
	if f.ign.Match(rel, false) || f.exclude.Match(rel, false) {
		return false
	}
	if !f.include.Empty() && !f.include.Match(rel, false) {
		return false
	}
	if f.exts != nil && !f.exts[strings.ToLower(filepath.Ext(rel))] {
		return false
	}
	if f.maxBytes > 0 && size > f.maxBytes {
		logging.Logger.Debugw("skipping large file", "path", rel, "size", size, "max_bytes", f.maxBytes)
		return false
	}
	return true
}

// collect resolves the files a scan of cfg.Root would read, in lexical order.
// A file root is scanned as is, ignoring the filters.
func collect(cfg Config) ([]target, error) {
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []target{{abs: root, rel: filepath.Base(root)}}, nil
	}
	flt, err := newFilter(cfg, root)
	if err != nil {
		return nil, err
	}
	var out []target
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			logging.Logger.Debugw("walk error", "path", p, "error", err)
			return nil
		}
		rel, _ := filepath.Rel(root, p)
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if p != root && flt.skipDir(rel, d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if flt.keep(rel, info.Size()) {
			out = append(out, target{abs: p, rel: rel})
		}
		return nil
	})
	return out, err
}

// looksBinary sniffs for NUL bytes. UTF-16 text is recognised by its BOM.
func looksBinary(b []byte) bool {
	if len(b) >= 2 && ((b[0] == 0xff && b[1] == 0xfe) || (b[0] == 0xfe && b[1] == 0xff)) {
		return false
	}
	const sniff = 800
	n := sniff
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if b[i] == 0 {
			return true
		}
	}
	return false
}
