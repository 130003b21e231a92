// Package discover resolves the file patterns of a generate run.
package discover

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gobwas/glob"
)

// Files expands patterns relative to baseDir and returns the absolute paths
// of matching regular files. Matches of each pattern are sorted; a file
// matched by several patterns is listed once, at its first position. Files
// whose path relative to baseDir matches an exclude pattern are dropped.
func Files(baseDir string, patterns, exclude []string) ([]string, error) {
	base, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("resolve basedir: %w", err)
	}
	excluded, err := compileAll(exclude)
	if err != nil {
		return nil, err
	}

	var files []string
	seen := map[string]struct{}{}
	for _, pattern := range patterns {
		matches, err := expand(base, pattern)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", pattern, err)
		}
		slices.Sort(matches)
		for _, m := range matches {
			if _, dup := seen[m]; dup {
				continue
			}
			seen[m] = struct{}{}
			if isExcluded(base, m, excluded) {
				continue
			}
			files = append(files, m)
		}
	}
	return files, nil
}

// expand globs one pattern. Patterns inside baseDir are matched against the
// directory as a file system so its own name never needs escaping; absolute
// patterns and patterns leaving baseDir are matched on the host paths.
func expand(base, pattern string) ([]string, error) {
	if filepath.IsAbs(pattern) {
		return doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	}
	cleaned := path.Clean(filepath.ToSlash(pattern))
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return doublestar.FilepathGlob(filepath.Join(base, pattern), doublestar.WithFilesOnly())
	}
	rel, err := doublestar.Glob(os.DirFS(base), cleaned, doublestar.WithFilesOnly())
	if err != nil {
		return nil, err
	}
	out := make([]string, len(rel))
	for i, r := range rel {
		out[i] = filepath.Join(base, filepath.FromSlash(r))
	}
	return out, nil
}

func isExcluded(base, file string, matchers []*Matcher) bool {
	if len(matchers) == 0 {
		return false
	}
	rel, err := filepath.Rel(base, file)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, m := range matchers {
		if m.Match(rel) {
			return true
		}
	}
	return false
}

// Matcher is a compiled exclude pattern that remembers its source.
type Matcher struct {
	compiled glob.Glob
	pattern  string
}

var _ glob.Glob = (*Matcher)(nil)

func (m *Matcher) Match(s string) bool {
	return m.compiled.Match(s)
}

func (m *Matcher) Pattern() string {
	return m.pattern
}

// Compile compiles a slash-separated exclude pattern. "*" stays within one
// path segment, "**" crosses segments.
func Compile(pattern string) (*Matcher, error) {
	g, err := glob.Compile(filepath.ToSlash(pattern), '/')
	if err != nil {
		return nil, err
	}
	return &Matcher{compiled: g, pattern: pattern}, nil
}

func compileAll(patterns []string) ([]*Matcher, error) {
	matchers := make([]*Matcher, 0, len(patterns))
	for _, p := range patterns {
		m, err := Compile(p)
		if err != nil {
			return nil, fmt.Errorf("exclude pattern %q: %w", p, err)
		}
		matchers = append(matchers, m)
	}
	return matchers, nil
}
