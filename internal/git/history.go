// Package git reads document revisions from a repository's commit history.
package git

import (
	"errors"
	"fmt"
	"io"
	"sort"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/utils/merkletrie"
)

// Entry holds the files a commit added or modified, keyed by repo-relative
// slash path.
type Entry struct {
	Hash  string
	Files map[string][]byte
}

// Paths returns the entry's file paths in lexical order.
func (e Entry) Paths() []string {
	out := make([]string, 0, len(e.Files))
	for p := range e.Files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// LastNCommits walks back from HEAD. Binary blobs and blobs over maxBytes
// (when positive) are left out.
func LastNCommits(root string, n int, maxBytes int64) ([]Entry, error) {
	if n <= 0 {
		return nil, nil
	}
	repo, err := gogit.PlainOpenWithOptions(root, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}
	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("resolve HEAD: %w", err)
	}
	iter, err := repo.Log(&gogit.LogOptions{From: head.Hash()})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var entries []Entry
	for len(entries) < n {
		c, err := iter.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("walk history: %w", err)
		}
		files, err := changedFiles(c, maxBytes)
		if err != nil {
			return nil, fmt.Errorf("commit %s: %w", c.Hash, err)
		}
		entries = append(entries, Entry{Hash: c.Hash.String(), Files: files})
	}
	return entries, nil
}

func changedFiles(c *object.Commit, maxBytes int64) (map[string][]byte, error) {
	tree, err := c.Tree()
	if err != nil {
		return nil, err
	}
	files := map[string][]byte{}
	// name is the repo-relative path; object.File.Name is only the basename
	// when the file comes from a tree diff.
	add := func(name string, f *object.File) error {
		if maxBytes > 0 && f.Size > maxBytes {
			return nil
		}
		if bin, err := f.IsBinary(); err != nil || bin {
			return nil
		}
		s, err := f.Contents()
		if err != nil {
			return err
		}
		files[name] = []byte(s)
		return nil
	}

	if c.NumParents() == 0 {
		err := tree.Files().ForEach(func(f *object.File) error { return add(f.Name, f) })
		return files, err
	}
	parent, err := c.Parent(0)
	if err != nil {
		return nil, err
	}
	ptree, err := parent.Tree()
	if err != nil {
		return nil, err
	}
	changes, err := object.DiffTree(ptree, tree)
	if err != nil {
		return nil, err
	}
	for _, ch := range changes {
		action, err := ch.Action()
		if err != nil || action == merkletrie.Delete {
			continue
		}
		_, to, err := ch.Files()
		if err != nil || to == nil {
			continue
		}
		if err := add(ch.To.Name, to); err != nil {
			return nil, err
		}
	}
	return files, nil
}
