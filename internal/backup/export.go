package backup

import (
	"context"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/orcabackup/internal/archive"
	"github.com/thoreinstein/orcabackup/internal/logging"
	"github.com/thoreinstein/orcabackup/pkg/fileutil"
)

// Export writes the live configuration directory to an archive at
// destination, creating its parent directory if needed. An existing file at
// destination is replaced only once the new archive has validated.
func (e *Engine) Export(destination string) (*ExportResult, error) {
	configDir, ok := e.resolver.ResolveConfigDirectory()
	if !ok {
		return nil, ErrConfigNotFound
	}

	empty, err := fileutil.IsEmptyDir(configDir)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", configDir)
	}
	if empty {
		return nil, errors.Wrapf(ErrEmptyConfiguration, "%s", configDir)
	}

	return e.export(configDir, destination)
}

func partialWrite(err error, msg string) error {
	return errors.Mark(errors.Wrap(err, msg), ErrPartialWrite)
}

func (e *Engine) export(configDir, destination string) (*ExportResult, error) {
	if err := os.MkdirAll(filepath.Dir(destination), 0o755); err != nil {
		return nil, partialWrite(err, "creating destination directory")
	}

	installPath, _ := e.resolver.ResolveInstallation()
	md := archive.Metadata{
		ExportDate:  e.now(),
		Platform:    e.platformID,
		ConfigPath:  configDir,
		InstallPath: installPath,
	}

	out, err := fileutil.AtomicCreate(destination, 0o644)
	if err != nil {
		return nil, partialWrite(err, "creating archive")
	}
	defer out.Abort()

	w := archive.NewWriter(out)
	if err := w.WriteMetadata(md); err != nil {
		return nil, partialWrite(err, "writing metadata")
	}

	var skipped []string
	skip := func(rel string, cause error) {
		e.logger.Warn("skipping unreadable file", "path", rel, "error", cause)
		skipped = append(skipped, filepath.ToSlash(rel))
	}

	walkErr := e.excluder.Walk(configDir, func(path, rel string, err error) error {
		if err != nil {
			skip(rel, err)
			return nil
		}
		if err := w.AddFile(rel, path); err != nil {
			if errors.Is(err, archive.ErrUnreadableSource) {
				skip(rel, err)
				return nil
			}
			return err
		}
		e.logger.Log(context.Background(), logging.LevelTrace, "archived", "entry", archive.EntryName(rel))
		if e.hooks.afterEntry != nil {
			return e.hooks.afterEntry(rel)
		}
		return nil
	})
	if walkErr != nil {
		return nil, partialWrite(walkErr, "writing archive")
	}
	if err := w.Close(); err != nil {
		return nil, partialWrite(err, "finishing archive")
	}
	if err := out.Sync(); err != nil {
		return nil, partialWrite(err, "flushing archive")
	}

	if err := e.validate(out.TempPath()); err != nil {
		e.logger.Error("written archive failed validation", "path", destination, "error", err)
		return nil, errors.Mark(errors.Wrap(err, "created backup failed validation"), ErrValidationFailed)
	}
	if err := out.Commit(); err != nil {
		return nil, partialWrite(err, "moving archive into place")
	}

	var size int64
	if info, err := os.Stat(destination); err == nil {
		size = info.Size()
	}

	e.logger.Info("configuration exported",
		"path", destination,
		"files", w.Files(),
		"skipped", len(skipped),
		"size", size)

	return &ExportResult{
		Path:      destination,
		FileCount: w.Files(),
		Skipped:   skipped,
		Size:      size,
		Metadata:  md,
	}, nil
}
