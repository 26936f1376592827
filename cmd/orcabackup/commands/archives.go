package commands

import (
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/thoreinstein/orcabackup/internal/archive"
	"github.com/thoreinstein/orcabackup/internal/errors"
)

// archiveInfo summarizes one archive in the archive directory.
type archiveInfo struct {
	Name       string    `json:"name"`
	Path       string    `json:"path"`
	Size       int64     `json:"size"`
	Modified   time.Time `json:"modified"`
	Valid      bool      `json:"valid"`
	Error      string    `json:"error,omitempty"`
	ExportDate string    `json:"export_date,omitempty"`
	Platform   string    `json:"platform,omitempty"`
	ConfigPath string    `json:"config_path,omitempty"`
	FileCount  int       `json:"file_count"`
}

// listArchives returns the .zip files in dir, newest first. A missing
// directory has no archives.
func listArchives(dir string) ([]archiveInfo, error) {
	items, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "reading archive directory %s", dir)
	}

	var out []archiveInfo
	for _, item := range items {
		if item.IsDir() || !strings.EqualFold(filepath.Ext(item.Name()), ".zip") {
			continue
		}
		fi, err := item.Info()
		if err != nil {
			continue
		}
		out = append(out, describeArchive(filepath.Join(dir, item.Name()), fi))
	}

	slices.SortFunc(out, func(a, b archiveInfo) int {
		if c := b.Modified.Compare(a.Modified); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return out, nil
}

func describeArchive(path string, fi os.FileInfo) archiveInfo {
	info := archiveInfo{
		Name:     fi.Name(),
		Path:     path,
		Size:     fi.Size(),
		Modified: fi.ModTime(),
	}

	md := archive.ReadMetadata(path)
	if msg, ok := md[archive.KeyError]; ok {
		info.Error = msg
		return info
	}
	info.ExportDate = md[archive.KeyExportDate]
	info.Platform = md[archive.KeyPlatform]
	info.ConfigPath = md[archive.KeyConfigPath]
	info.FileCount, _ = strconv.Atoi(md[archive.KeyFileCount])
	if err := archive.Validate(path); err != nil {
		info.Error = err.Error()
	} else {
		info.Valid = true
	}
	return info
}

// metadataKeys is the display order for archive metadata.
var metadataKeys = []string{
	archive.KeyExportDate,
	archive.KeyPlatform,
	archive.KeyConfigPath,
	archive.KeyInstallPath,
	archive.KeyFileCount,
}

// withZipExt appends .zip unless path already ends in it.
func withZipExt(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".zip") {
		return path
	}
	return path + ".zip"
}
