// Package walk discovers candidate configuration files under a root
// directory: every *.cfg file minus the default and user-supplied
// exclusion globs, in a stable sorted order so batch runs are
// reproducible.
package walk

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultExcludes keeps backups, temp files and generated artifacts of
// previous runs out of the candidate set.
var DefaultExcludes = []string{
	"**/.git/**",
	"**/*.bak*.cfg",
	"**/*.tmp*.cfg",
	"**/*.old*.cfg",
	"**/*_out.cfg",
}

// Options controls discovery.
type Options struct {
	// Recursive scans subdirectories; otherwise only the root itself.
	Recursive bool
	// Excludes are glob patterns matched against the slash-separated
	// path relative to the root.
	Excludes []string
}

// NotDirectoryError reports a root path that does not name an existing
// directory. It aborts the run before any file is processed.
type NotDirectoryError struct {
	Path string
}

func (e *NotDirectoryError) Error() string {
	return fmt.Sprintf("%s: not a directory", e.Path)
}

// SplitExcludes flattens repeatable, comma-separated exclude flag values
// into individual patterns.
func SplitExcludes(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

func excluded(rel string, patterns []string) bool {
	for _, pat := range patterns {
		p := strings.TrimSpace(pat)
		if p == "" {
			continue
		}
		if matchGlob(p, rel) || matchGlob(p, "/"+rel) || matchGlob(strings.TrimLeft(p, "./"), rel) {
			return true
		}
	}
	return false
}

func matchGlob(pattern, rel string) bool {
	ok, err := doublestar.Match(pattern, rel)
	return err == nil && ok
}

// Collect returns the sorted candidate files under root. The root must be
// an existing directory.
func Collect(root string, opts Options) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(absRoot)
	if err != nil || !info.IsDir() {
		return nil, &NotDirectoryError{Path: root}
	}

	var files []string
	add := func(path string) {
		rel, relErr := filepath.Rel(absRoot, path)
		if relErr != nil {
			return
		}
		rel = filepath.ToSlash(rel)
		if !excluded(rel, opts.Excludes) {
			files = append(files, path)
		}
	}

	if !opts.Recursive {
		entries, err := os.ReadDir(absRoot)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".cfg") {
				continue
			}
			add(filepath.Join(absRoot, e.Name()))
		}
	} else {
		err := filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if d.Name() == ".git" {
					return filepath.SkipDir
				}
				return nil
			}
			if strings.HasSuffix(path, ".cfg") {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(files)
	return files, nil
}
