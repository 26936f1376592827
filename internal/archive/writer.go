package archive

import (
	"archive/zip"
	"bytes"
	"io"
	"os"

	"github.com/cockroachdb/errors"
)

// ErrUnreadableSource marks AddFile failures that happened before anything
// was written to the archive. The archive is still usable after one. Sources
// larger than maxBufferedEntry are streamed, so a read error part way through
// one of those is not marked and leaves the archive unusable.
var ErrUnreadableSource = errors.New("source file unreadable")

// maxBufferedEntry is the largest source read fully into memory before its
// entry is created.
const maxBufferedEntry = 64 << 20

// Writer produces a backup archive. WriteMetadata must be called before any
// payload entry is added.
type Writer struct {
	zw       *zip.Writer
	open     func(name string) (io.ReadCloser, error)
	metadata bool
	files    int
}

// NewWriter returns a Writer emitting the archive to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{zw: zip.NewWriter(w), open: openSource}
}

func openSource(name string) (io.ReadCloser, error) {
	return os.Open(name)
}

// WriteMetadata writes the metadata record entry.
func (w *Writer) WriteMetadata(m Metadata) error {
	if w.metadata {
		return errors.New("metadata already written")
	}
	fw, err := w.zw.CreateHeader(&zip.FileHeader{Name: MetadataName, Method: zip.Deflate, Modified: m.ExportDate})
	if err != nil {
		return errors.Wrap(err, "creating metadata entry")
	}
	if _, err := fw.Write(m.Encode()); err != nil {
		return errors.Wrap(err, "writing metadata entry")
	}
	w.metadata = true
	return nil
}

// AddFile stores the file at path under the payload entry for rel, which is
// relative to the configuration root. Only regular files are stored; a path
// that resolves to a directory, device or pipe is reported as unreadable.
func (w *Writer) AddFile(rel, path string) error {
	if !w.metadata {
		return errors.New("metadata must be written first")
	}

	info, err := os.Stat(path)
	if err != nil {
		return errors.Mark(err, ErrUnreadableSource)
	}
	if !info.Mode().IsRegular() {
		return errors.Mark(errors.Newf("%s is not a regular file", path), ErrUnreadableSource)
	}

	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return errors.Mark(err, ErrUnreadableSource)
	}
	hdr.Name = EntryName(rel)
	hdr.Method = zip.Deflate

	src, err := w.open(path)
	if err != nil {
		return errors.Mark(err, ErrUnreadableSource)
	}
	defer src.Close()

	var body io.Reader = src
	if info.Size() <= maxBufferedEntry {
		data, err := io.ReadAll(src)
		if err != nil {
			return errors.Mark(errors.Wrapf(err, "reading %s", path), ErrUnreadableSource)
		}
		body = bytes.NewReader(data)
	}

	fw, err := w.zw.CreateHeader(hdr)
	if err != nil {
		return errors.Wrapf(err, "creating entry %s", hdr.Name)
	}
	if _, err := io.Copy(fw, body); err != nil {
		return errors.Wrapf(err, "writing entry %s", hdr.Name)
	}
	w.files++
	return nil
}

// Files returns the number of payload entries written.
func (w *Writer) Files() int {
	return w.files
}

// Close writes the central directory. It does not close the underlying writer.
func (w *Writer) Close() error {
	return w.zw.Close()
}
