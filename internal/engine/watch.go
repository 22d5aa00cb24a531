package engine

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/accrava/clausescan/internal/logging"
)

// Handler receives a fresh scan each time a watched document changes.
type Handler func(Document)

// Watch re-scans documents under cfg.Root as they are created or written,
// until ctx is cancelled. A file root watches just that file.
func Watch(ctx context.Context, cfg Config, handle Handler) error {
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return err
	}
	info, err := os.Stat(root)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	single := ""
	dir := root
	if !info.IsDir() {
		single = root
		dir = filepath.Dir(root)
	}
	flt, err := newFilter(cfg, dir)
	if err != nil {
		return err
	}
	if single != "" {
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	} else if err := addTree(w, flt, dir, dir); err != nil {
		return err
	}
	sc := cfg.scanner()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logging.Logger.Warnw("watch error", "error", err)
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			if single != "" && ev.Name != single {
				continue
			}
			st, err := os.Stat(ev.Name)
			if err != nil {
				continue
			}
			rel, _ := filepath.Rel(dir, ev.Name)
			rel = filepath.ToSlash(rel)
			if st.IsDir() {
				if ev.Has(fsnotify.Create) && single == "" {
					if err := addTree(w, flt, dir, ev.Name); err != nil {
						logging.Logger.Warnw("watch new directory", "path", rel, "error", err)
					}
				}
				continue
			}
			if single == "" && !flt.keep(rel, st.Size()) {
				continue
			}
			doc, ok := scanTarget(sc, target{abs: ev.Name, rel: rel})
			if !ok {
				continue
			}
			logging.Logger.Debugw("rescanned", "path", rel, "findings", len(doc.Findings))
			handle(doc)
		}
	}
}

func addTree(w *fsnotify.Watcher, flt filter, root, start string) error {
	return filepath.WalkDir(start, func(p string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if p != root {
			rel, _ := filepath.Rel(root, p)
			if flt.skipDir(filepath.ToSlash(rel), d.Name()) {
				return filepath.SkipDir
			}
		}
		if err := w.Add(p); err != nil {
			return fmt.Errorf("watch %s: %w", p, err)
		}
		return nil
	})
}
