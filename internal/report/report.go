// Package report builds read-only summaries of the OrcaSlicer installation
// and configuration directory.
package report

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
)

// Resolver locates the installation and configuration directory.
type Resolver interface {
	ResolveInstallation() (string, bool)
	ResolveConfigDirectory() (string, bool)
}

// Snapshot is a point-in-time summary. It is recomputed on every call and
// never persisted.
type Snapshot struct {
	InstallationFound bool   `json:"installation_found" yaml:"installation_found" toml:"installation_found"`
	InstallationPath  string `json:"installation_path" yaml:"installation_path" toml:"installation_path"`
	ConfigFound       bool   `json:"config_found" yaml:"config_found" toml:"config_found"`
	ConfigPath        string `json:"config_path" yaml:"config_path" toml:"config_path"`
	ConfigSize        int64  `json:"config_size" yaml:"config_size" toml:"config_size"`
	FileCount         int    `json:"file_count" yaml:"file_count" toml:"file_count"`
}

// Entry is one top-level item of the configuration directory.
type Entry struct {
	Name  string `json:"name" yaml:"name" toml:"name"`
	IsDir bool   `json:"is_dir" yaml:"is_dir" toml:"is_dir"`

	// Size is the file size, or the total size of the files below a directory.
	Size int64 `json:"size" yaml:"size" toml:"size"`

	// FileCount is 1 for a file, or the number of files below a directory.
	FileCount int `json:"file_count" yaml:"file_count" toml:"file_count"`
}

// Reporter builds snapshots from a Resolver.
type Reporter struct {
	resolver Resolver
}

// NewReporter creates a Reporter.
func NewReporter(r Resolver) *Reporter {
	return &Reporter{resolver: r}
}

// Snapshot resolves both locations and, if the configuration directory
// exists, totals every regular file below it. Nothing is excluded. Entries
// that cannot be read are skipped.
func (r *Reporter) Snapshot() Snapshot {
	var s Snapshot
	s.InstallationPath, s.InstallationFound = r.resolver.ResolveInstallation()
	s.ConfigPath, s.ConfigFound = r.resolver.ResolveConfigDirectory()
	if s.ConfigFound {
		s.ConfigSize, s.FileCount = du(s.ConfigPath)
	}
	return s
}

// ErrConfigNotFound is returned by Entries when there is no configuration
// directory to list.
var ErrConfigNotFound = errors.New("configuration directory not found")

// Entries lists the top level of the configuration directory sorted by name,
// hidden entries included.
func (r *Reporter) Entries() ([]Entry, error) {
	dir, ok := r.resolver.ResolveConfigDirectory()
	if !ok {
		return nil, ErrConfigNotFound
	}

	items, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", dir)
	}

	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		e := Entry{Name: item.Name(), IsDir: item.IsDir()}
		if item.IsDir() {
			e.Size, e.FileCount = du(filepath.Join(dir, item.Name()))
		} else {
			info, err := item.Info()
			if err != nil {
				continue
			}
			e.Size, e.FileCount = info.Size(), 1
		}
		entries = append(entries, e)
	}

	slices.SortFunc(entries, func(a, b Entry) int {
		return strings.Compare(a.Name, b.Name)
	})
	return entries, nil
}

// du sums the sizes of regular files below root, skipping anything that
// cannot be read.
func du(root string) (size int64, files int) {
	_ = filepath.WalkDir(root, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
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
		size += info.Size()
		files++
		return nil
	})
	return size, files
}
