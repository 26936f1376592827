package archive

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// DefaultExcludedDirs are transient directories never archived, at any depth.
var DefaultExcludedDirs = []string{"cache", "temp", "logs"}

// Excluder decides which parts of a configuration tree belong in an archive.
// Hidden names (leading dot) are always excluded, for files and directories.
type Excluder struct {
	dirs map[string]struct{}
}

// NewExcluder returns an Excluder that skips the named directories in addition
// to hidden entries. Names match exactly and case-sensitively.
func NewExcluder(dirs ...string) Excluder {
	set := make(map[string]struct{}, len(dirs))
	for _, d := range dirs {
		if d != "" {
			set[d] = struct{}{}
		}
	}
	return Excluder{dirs: set}
}

// DefaultExcluder skips hidden entries and DefaultExcludedDirs.
func DefaultExcluder() Excluder {
	return NewExcluder(DefaultExcludedDirs...)
}

// SkipDir reports whether a directory with this base name is excluded.
func (e Excluder) SkipDir(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	_, ok := e.dirs[name]
	return ok
}

// SkipFile reports whether a file with this base name is excluded.
func (e Excluder) SkipFile(name string) bool {
	return strings.HasPrefix(name, ".")
}

// WalkFunc is called for every included non-directory entry below the walk
// root. rel is relative to the root using the host separator. A non-nil err
// reports an entry that could not be read; returning nil skips it.
type WalkFunc func(path, rel string, err error) error

// Walk visits every file under root that the exclusion rules keep. Errors on
// the root itself are returned; errors below it are handed to fn.
func (e Excluder) Walk(root string, fn WalkFunc) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if path == root {
			return err
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		if err != nil {
			if cbErr := fn(path, rel, err); cbErr != nil {
				return cbErr
			}
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if e.SkipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if e.SkipFile(d.Name()) {
			return nil
		}
		return fn(path, rel, nil)
	})
}
