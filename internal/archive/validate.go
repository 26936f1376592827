package archive

import (
	"archive/zip"
	"io"
	"os"
	"strconv"

	"github.com/cockroachdb/errors"
)

// ErrInvalidArchive is returned when a file is not a well-formed backup archive.
var ErrInvalidArchive = errors.New("invalid backup archive")

// maxMetadataSize bounds how much of the metadata entry is read.
const maxMetadataSize = 1 << 20

func invalidf(format string, args ...any) error {
	return errors.Mark(errors.Newf("invalid backup archive: "+format, args...), ErrInvalidArchive)
}

func invalidWrap(err error, msg string) error {
	return errors.Mark(errors.Wrap(err, "invalid backup archive: "+msg), ErrInvalidArchive)
}

// Validate checks that path is a backup archive that can be trusted:
//
//  1. the file exists and is not a directory
//  2. it opens as a zip container
//  3. it holds exactly one metadata entry
//  4. it holds at least one payload entry
//  5. every entry decompresses and matches its CRC-32
//
// The returned error is marked with ErrInvalidArchive and names the failed check.
func Validate(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return invalidf("%s does not exist", path)
		}
		return invalidWrap(err, "cannot stat file")
	}
	if info.IsDir() {
		return invalidf("%s is a directory", path)
	}

	r, err := zip.OpenReader(path)
	if err != nil {
		return invalidWrap(err, "cannot open zip container")
	}
	defer r.Close()

	var metadata, payload int
	for _, f := range r.File {
		switch {
		case f.Name == MetadataName:
			metadata++
		case IsPayloadEntry(f.Name):
			payload++
		}
	}
	switch {
	case metadata == 0:
		return invalidf("missing %s", MetadataName)
	case metadata > 1:
		return invalidf("%d copies of %s", metadata, MetadataName)
	case payload == 0:
		return invalidf("no entries under %s", PayloadPrefix)
	}

	for _, f := range r.File {
		if err := verifyEntry(f); err != nil {
			return invalidWrap(err, "corrupt entry "+strconv.Quote(f.Name))
		}
	}
	return nil
}

// verifyEntry reads an entry to EOF; archive/zip checks the CRC-32 there.
func verifyEntry(f *zip.File) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	_, err = io.Copy(io.Discard, rc)
	return err
}

// IsValidBackup reports whether path passes Validate. It never fails; any
// problem means false.
func IsValidBackup(path string) bool {
	return Validate(path) == nil
}

// ReadMetadata returns the parsed metadata record of the archive at path,
// plus KeyFileCount holding the number of payload entries. On any failure the
// result holds a single KeyError entry describing it.
//
// ReadMetadata does not validate the archive; callers check Validate first.
func ReadMetadata(path string) map[string]string {
	md, err := readMetadata(path)
	if err != nil {
		return map[string]string{KeyError: err.Error()}
	}
	return md
}

func readMetadata(path string) (map[string]string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening archive")
	}
	defer r.Close()

	var record *zip.File
	count := 0
	for _, f := range r.File {
		if f.Name == MetadataName && record == nil {
			record = f
		}
		if IsPayloadEntry(f.Name) {
			count++
		}
	}
	if record == nil {
		return nil, errors.Newf("%s not found", MetadataName)
	}

	rc, err := record.Open()
	if err != nil {
		return nil, errors.Wrap(err, "opening metadata")
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxMetadataSize))
	if err != nil {
		return nil, errors.Wrap(err, "reading metadata")
	}

	md := ParseMetadata(data)
	md[KeyFileCount] = strconv.Itoa(count)
	return md, nil
}

// Entries returns the names of every entry in the archive, in archive order.
func Entries(path string) ([]string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening archive %s", path)
	}
	defer r.Close()

	names := make([]string, 0, len(r.File))
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	return names, nil
}
