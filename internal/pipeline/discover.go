package pipeline

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	"github.com/m-mizutani/goerr/v2"
)

// containerExtensions are lowercase extensions that mark a container file.
// ".ress" also covers the mixed-case ".resS" streaming resource files.
var containerExtensions = map[string]bool{
	".assets":       true,
	".unity3d":      true,
	".assetbundle":  true,
	".bundle":       true,
	".ress":         true,
	".sharedassets": true,
	".resources":    true,
	".resource":     true,
	".dat":          true,
}

// containerNameParts are lowercase substrings of names that mark a container
// file regardless of extension (e.g. "level0", "globalgamemanagers").
var containerNameParts = []string{
	"sharedassets",
	"resources",
	".unity3d",
	"assetbundle",
	"globalgamemanagers",
	"level",
}

// IsCandidate reports whether the base name of path looks like a container.
func IsCandidate(path string) bool {
	name := strings.ToLower(filepath.Base(path))
	if containerExtensions[filepath.Ext(name)] {
		return true
	}
	for _, part := range containerNameParts {
		if strings.Contains(name, part) {
			return true
		}
	}
	return false
}

// compiledPattern holds both the pattern string and compiled glob.
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// Filter holds user include and exclude patterns. Patterns are matched
// against the slash-separated path relative to the discovery root; "**"
// spans directories. A nil Filter admits exactly the built-in candidates.
type Filter struct {
	include []compiledPattern
	exclude []compiledPattern
}

// NewFilter compiles include and exclude patterns.
func NewFilter(include, exclude []string) (*Filter, error) {
	f := &Filter{}
	var err error
	if f.include, err = compilePatterns(include); err != nil {
		return nil, err
	}
	if f.exclude, err = compilePatterns(exclude); err != nil {
		return nil, err
	}
	return f, nil
}

func compilePatterns(patterns []string) ([]compiledPattern, error) {
	var out []compiledPattern
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, goerr.Wrap(err, "invalid glob pattern", goerr.V("pattern", p))
		}
		out = append(out, compiledPattern{pattern: p, glob: g})
	}
	return out, nil
}

// Admit decides whether rel (relative slash path) is processed. builtin is
// the result of the built-in name rules.
func (f *Filter) Admit(rel string, builtin bool) bool {
	if f == nil {
		return builtin
	}
	if matchesAny(rel, f.exclude) {
		return false
	}
	return builtin || matchesAny(rel, f.include)
}

// Excluded reports whether rel matches an exclude pattern.
func (f *Filter) Excluded(rel string) bool {
	return f != nil && matchesAny(rel, f.exclude)
}

// matchesAny checks rel against patterns. A root-level path (no slash) also
// matches patterns with a leading "**/", so "**/*.assets" matches both
// "a.assets" and "Data/a.assets".
func matchesAny(rel string, patterns []compiledPattern) bool {
	for _, cp := range patterns {
		if cp.glob.Match(rel) {
			return true
		}
	}
	if strings.Contains(rel, "/") {
		return false
	}
	for _, cp := range patterns {
		if !strings.HasPrefix(cp.pattern, "**/") {
			continue
		}
		if g, err := glob.Compile(strings.TrimPrefix(cp.pattern, "**/"), '/'); err == nil && g.Match(rel) {
			return true
		}
	}
	return false
}

// Discover walks root and returns candidate container files sorted
// lexicographically. Walk errors are collected rather than returned so one
// unreadable subtree does not hide the rest. When nothing matches, every
// immediate regular file of root not excluded by filter is returned instead.
func Discover(root string, filter *Filter) ([]string, []error) {
	var files []string
	var errs []error

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			errs = append(errs, goerr.Wrap(err, "walk failed", goerr.V("path", path)))
			if d != nil && d.IsDir() && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !regularFile(path, d.Type()) {
			return nil
		}
		if filter.Admit(relSlash(root, path), IsCandidate(path)) {
			files = append(files, path)
		}
		return nil
	})
	if walkErr != nil {
		errs = append(errs, walkErr)
	}

	if len(files) == 0 {
		fallback, err := listImmediate(root, filter)
		if err != nil {
			errs = append(errs, err)
		}
		files = fallback
	}

	sort.Strings(files)
	return files, errs
}

// regularFile reports whether an entry of type t at path is a regular file,
// following symlinks. Links to directories are not descended into.
func regularFile(path string, t fs.FileMode) bool {
	if t.IsRegular() {
		return true
	}
	if t&fs.ModeSymlink == 0 {
		return false
	}
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}

// listImmediate returns the regular files directly inside dir.
func listImmediate(dir string, filter *Filter) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, goerr.Wrap(err, "cannot list directory", goerr.V("path", dir))
	}
	var files []string
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		if !regularFile(path, e.Type()) {
			continue
		}
		if filter.Excluded(relSlash(dir, path)) {
			continue
		}
		files = append(files, path)
	}
	return files, nil
}

func relSlash(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	return filepath.ToSlash(rel)
}

// ResolveInputs returns the files to process for input. A regular file is
// returned as-is; a directory is discovered. A missing input is an error.
func ResolveInputs(input string, filter *Filter) ([]string, []error, error) {
	fi, err := os.Stat(input)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "input not found", goerr.V("path", input))
	}
	if !fi.IsDir() {
		return []string{input}, nil, nil
	}
	files, errs := Discover(input, filter)
	return files, errs, nil
}
