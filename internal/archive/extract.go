package archive

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrMissingPayload is returned when an extracted archive has no payload root.
var ErrMissingPayload = errors.New("invalid backup: missing payload")

// ErrUnsafeEntry is returned for entries that would land outside the
// extraction directory.
var ErrUnsafeEntry = errors.New("unsafe archive entry")

// MaxEntrySize caps the uncompressed size of a single extracted entry.
const MaxEntrySize int64 = 512 << 20

// payloadDir is PayloadPrefix as a directory name.
const payloadDir = "config"

// ExtractPayload extracts the payload entries of the archive at archivePath
// into dest and returns the payload root (dest/config). Entries outside the
// payload are ignored. Absolute entries, entries escaping dest and entries
// larger than MaxEntrySize fail the extraction.
func ExtractPayload(archivePath, dest string) (string, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return "", errors.Wrapf(err, "opening archive %s", archivePath)
	}
	defer r.Close()

	for _, f := range r.File {
		if !IsPayloadEntry(f.Name) {
			continue
		}
		if err := extractEntry(f, dest); err != nil {
			return "", errors.Wrapf(err, "extracting %s", f.Name)
		}
	}

	root := filepath.Join(dest, payloadDir)
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return "", ErrMissingPayload
	}
	return root, nil
}

// safeJoin resolves an entry name below dest, rejecting traversal.
func safeJoin(dest, name string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(name))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", errors.Wrapf(ErrUnsafeEntry, "%q", name)
	}

	target := filepath.Join(dest, clean)
	rel, err := filepath.Rel(dest, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.Wrapf(ErrUnsafeEntry, "%q escapes destination", name)
	}
	return target, nil
}

func extractEntry(f *zip.File, dest string) error {
	target, err := safeJoin(dest, f.Name)
	if err != nil {
		return err
	}

	if f.FileInfo().IsDir() {
		return os.MkdirAll(target, 0o755)
	}

	if f.UncompressedSize64 > uint64(MaxEntrySize) {
		return errors.Newf("entry too large: %d bytes (max %d)", f.UncompressedSize64, MaxEntrySize)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}

	n, err := io.Copy(out, io.LimitReader(rc, MaxEntrySize+1))
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return err
	}
	if n > MaxEntrySize {
		return errors.Newf("entry too large: more than %d bytes", MaxEntrySize)
	}
	return nil
}
