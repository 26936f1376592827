// Package fileutil provides file system utilities including atomic write operations.
package fileutil

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/orcabackup/internal/errors"
)

// tempPattern names temp files so they are hidden from directory listings
// and from the archive exclusion walk.
const tempPattern = ".orcabackup-atomic-*.tmp"

// AtomicFile is a file written under a temporary name and moved into place by
// Commit. Until then the destination path is untouched.
type AtomicFile struct {
	*os.File

	path string
	perm os.FileMode
	done bool
}

// AtomicCreate opens a temp file in the same directory as path.
// The caller must call Commit or Abort.
//
// The caller is responsible for ensuring the parent directory exists.
func AtomicCreate(path string, perm os.FileMode) (*AtomicFile, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), tempPattern)
	if err != nil {
		return nil, errors.Wrap(err, "creating temp file")
	}
	return &AtomicFile{File: tmp, path: path, perm: perm}, nil
}

// TempPath returns the name the content is being written under.
func (f *AtomicFile) TempPath() string {
	return f.File.Name()
}

// Path returns the final destination.
func (f *AtomicFile) Path() string {
	return f.path
}

// Sync flushes and closes the temp file without moving it, so it can be
// inspected under TempPath before Commit.
func (f *AtomicFile) Sync() error {
	if err := f.File.Sync(); err != nil {
		f.File.Close()
		return errors.Wrap(err, "syncing temp file")
	}
	if err := f.File.Chmod(f.perm); err != nil {
		f.File.Close()
		return errors.Wrap(err, "setting file permissions")
	}
	return errors.Wrap(f.File.Close(), "closing temp file")
}

// Commit renames the temp file onto the destination. Sync must have been
// called first.
func (f *AtomicFile) Commit() error {
	if f.done {
		return errors.New("atomic file already finished")
	}
	f.done = true
	if err := os.Rename(f.TempPath(), f.path); err != nil {
		os.Remove(f.TempPath())
		return errors.Wrap(err, "renaming temp file")
	}
	return nil
}

// Abort discards the temp file. It is safe to call after Commit, in which
// case it does nothing, so it can be deferred.
func (f *AtomicFile) Abort() {
	if f.done {
		return
	}
	f.done = true
	f.File.Close()
	os.Remove(f.TempPath())
}

// AtomicWriteFile writes data to a file atomically using a temp file + rename pattern.
// This ensures interrupted writes leave the original file intact.
//
// The caller is responsible for ensuring the parent directory exists.
// Permissions are applied to the final file via the perm parameter.
func AtomicWriteFile(path string, data []byte, perm os.FileMode) error {
	f, err := AtomicCreate(path, perm)
	if err != nil {
		return err
	}
	defer f.Abort()

	if _, err := f.Write(data); err != nil {
		return errors.Wrap(err, "writing temp file")
	}
	if err := f.Sync(); err != nil {
		return err
	}
	return f.Commit()
}

// AtomicWriteYAMLWithPerm writes v as YAML to path atomically with specified permissions.
// Appends a trailing newline for POSIX compliance.
//
// The caller is responsible for ensuring the parent directory exists.
func AtomicWriteYAMLWithPerm(path string, v any, perm os.FileMode) (err error) {
	// yaml.Marshal panics on unmarshalable types; recover and return error
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf("marshaling YAML: %v", r)
		}
	}()

	data, err := yaml.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "marshaling YAML")
	}

	if len(data) > 0 && data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}

	return AtomicWriteFile(path, data, perm)
}

// AtomicWriteYAML writes v as YAML to path atomically.
// The file is created with 0600 permissions.
func AtomicWriteYAML(path string, v any) error {
	return AtomicWriteYAMLWithPerm(path, v, 0o600)
}
