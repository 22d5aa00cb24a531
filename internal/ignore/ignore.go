package ignore

import (
	"os"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// Matcher applies gitignore-syntax patterns to slash-separated relative paths.
// The zero value matches nothing.
type Matcher struct{ m gitignore.Matcher }

// Load reads an ignore file. A missing file yields an empty matcher.
func Load(path string) (Matcher, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Matcher{}, nil
		}
		return Matcher{}, err
	}
	return FromPatterns(strings.Split(string(data), "\n")), nil
}

// FromPatterns builds a matcher from pattern lines; blanks and # comments are skipped.
func FromPatterns(lines []string) Matcher {
	var ps []gitignore.Pattern
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ps = append(ps, gitignore.ParsePattern(line, nil))
	}
	if len(ps) == 0 {
		return Matcher{}
	}
	return Matcher{m: gitignore.NewMatcher(ps)}
}

// FromCSV builds a matcher from a comma-separated glob list.
func FromCSV(s string) Matcher {
	return FromPatterns(strings.Split(s, ","))
}

func (m Matcher) Empty() bool { return m.m == nil }

func (m Matcher) Match(p string, isDir bool) bool {
	if m.m == nil {
		return false
	}
	return m.m.Match(strings.Split(p, "/"), isDir)
}
