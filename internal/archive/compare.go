package archive

import (
	"archive/zip"
	"bytes"
	"hash/crc32"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
)

// DefaultContentThreshold is the largest file size compared byte for byte.
const DefaultContentThreshold int64 = 1 << 20

// CompareOptions tunes Compare.
type CompareOptions struct {
	// ContentThreshold is the size at or below which files are compared byte
	// for byte. Larger files are compared by size and CRC-32. Zero means
	// DefaultContentThreshold.
	ContentThreshold int64

	// Excluder filters the live side. Nil means DefaultExcluder.
	Excluder *Excluder
}

// Diff describes what importing an archive would change in a live directory.
// Paths are relative to the configuration root and use forward slashes.
type Diff struct {
	// Added are files in the archive but not in the live directory.
	Added []string `json:"added"`

	// Removed are files in the live directory but not in the archive.
	Removed []string `json:"removed"`

	// Modified are files present on both sides with different contents.
	Modified []string `json:"modified"`

	// Unchanged are files present on both sides with identical contents.
	Unchanged []string `json:"unchanged"`
}

// HasChanges reports whether importing the archive would change anything.
func (d *Diff) HasChanges() bool {
	return len(d.Added)+len(d.Removed)+len(d.Modified) > 0
}

// Compare diffs the payload of the archive at archivePath against liveDir.
// A missing liveDir is treated as empty.
func Compare(archivePath, liveDir string, opts CompareOptions) (*Diff, error) {
	threshold := opts.ContentThreshold
	if threshold <= 0 {
		threshold = DefaultContentThreshold
	}
	excluder := DefaultExcluder()
	if opts.Excluder != nil {
		excluder = *opts.Excluder
	}

	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, errors.Wrapf(err, "opening archive %s", archivePath)
	}
	defer r.Close()

	archived := make(map[string]*zip.File)
	for _, f := range r.File {
		if !IsPayloadEntry(f.Name) || f.FileInfo().IsDir() {
			continue
		}
		archived[strings.TrimPrefix(f.Name, PayloadPrefix)] = f
	}

	live := make(map[string]string)
	if liveDir != "" {
		err := excluder.Walk(liveDir, func(path, rel string, walkErr error) error {
			if walkErr != nil {
				return nil
			}
			live[filepath.ToSlash(rel)] = path
			return nil
		})
		if err != nil && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "walking %s", liveDir)
		}
	}

	diff := &Diff{}
	for name, f := range archived {
		path, ok := live[name]
		if !ok {
			diff.Added = append(diff.Added, name)
			continue
		}
		same, err := sameContent(f, path, threshold)
		if err != nil {
			return nil, errors.Wrapf(err, "comparing %s", name)
		}
		if same {
			diff.Unchanged = append(diff.Unchanged, name)
		} else {
			diff.Modified = append(diff.Modified, name)
		}
	}
	for name := range live {
		if _, ok := archived[name]; !ok {
			diff.Removed = append(diff.Removed, name)
		}
	}

	slices.Sort(diff.Added)
	slices.Sort(diff.Removed)
	slices.Sort(diff.Modified)
	slices.Sort(diff.Unchanged)
	return diff, nil
}

func sameContent(f *zip.File, path string, threshold int64) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	if uint64(info.Size()) != f.UncompressedSize64 {
		return false, nil
	}

	if info.Size() > threshold {
		sum, err := fileCRC(path)
		if err != nil {
			return false, err
		}
		return sum == f.CRC32, nil
	}

	want, err := readEntry(f)
	if err != nil {
		return false, err
	}
	got, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	return bytes.Equal(want, got), nil
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func fileCRC(path string) (uint32, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	h := crc32.NewIEEE()
	if _, err := io.Copy(h, file); err != nil {
		return 0, err
	}
	return h.Sum32(), nil
}
