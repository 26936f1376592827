package fileutil

import (
	"io"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/thoreinstein/orcabackup/internal/errors"
)

// ConfigReadLimit caps reads of small text files such as the app config.
const ConfigReadLimit = 1 << 20

// ErrFileTooLarge marks ReadLimited failures caused by the size cap.
var ErrFileTooLarge = errors.New("file too large")

// ReadLimited returns the contents of path. It fails with ErrFileTooLarge
// when the file holds more than limit bytes, including a file that grows
// past limit while it is read.
func ReadLimited(path string, limit int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening file")
	}
	defer f.Close()

	if info, err := f.Stat(); err == nil && info.Size() > limit {
		return nil, tooLarge(path, limit)
	}

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, errors.Wrap(err, "reading file")
	}
	if int64(len(data)) > limit {
		return nil, tooLarge(path, limit)
	}
	return data, nil
}

func tooLarge(path string, limit int64) error {
	return errors.Mark(
		errors.Newf("%s is larger than %s", path, humanize.IBytes(uint64(limit))),
		ErrFileTooLarge)
}
