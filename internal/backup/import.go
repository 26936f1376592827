package backup

import (
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/orcabackup/internal/archive"
	"github.com/thoreinstein/orcabackup/pkg/fileutil"
)

// Import replaces the live configuration directory with the payload of the
// archive at archivePath. When createBackupFirst is set and the directory
// holds anything, it is exported to a safety backup first and restored from
// it if the replacement fails.
func (e *Engine) Import(archivePath string, createBackupFirst bool) (*ImportResult, error) {
	return e.importArchive(archivePath, createBackupFirst, false)
}

func (e *Engine) importArchive(archivePath string, createBackupFirst, rollback bool) (*ImportResult, error) {
	if err := e.validate(archivePath); err != nil {
		if !errors.Is(err, archive.ErrInvalidArchive) {
			err = errors.Mark(err, archive.ErrInvalidArchive)
		}
		return nil, err
	}

	configDir, ok := e.resolver.ResolveConfigDirectory()
	if !ok {
		configDir = e.resolver.DefaultConfigDirectory()
	}
	if configDir == "" {
		return nil, ErrConfigNotFound
	}

	result := &ImportResult{ConfigDir: configDir}

	if createBackupFirst {
		safety, err := e.safetyBackup(configDir, archivePath)
		if err != nil {
			e.logger.Warn("safety backup failed", "config_dir", configDir, "error", err)
			if e.confirm == nil || !e.confirm(err) {
				return nil, errors.Mark(errors.Wrap(err, "safety backup failed"), ErrBackupDeclined)
			}
			e.logger.Warn("continuing import without a safety backup")
		}
		result.SafetyBackup = safety
	}

	count, err := e.replace(archivePath, configDir)
	if err != nil {
		if rollback {
			return nil, &ImportError{Err: err}
		}
		return nil, e.rollback(err, result.SafetyBackup)
	}
	result.FileCount = count

	e.logger.Info("configuration imported",
		"archive", archivePath,
		"config_dir", configDir,
		"files", count,
		"safety_backup", result.SafetyBackup)

	return result, nil
}

// safetyBackup exports configDir next to itself. It returns "" without error
// when there is nothing to back up.
func (e *Engine) safetyBackup(configDir, archivePath string) (string, error) {
	empty, err := fileutil.IsEmptyDir(configDir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", errors.Wrapf(err, "reading %s", configDir)
	}
	if empty {
		return "", nil
	}

	dest, err := freeArchivePath(filepath.Dir(configDir), e.now(), archivePath)
	if err != nil {
		return "", err
	}
	res, err := e.export(configDir, dest)
	if err != nil {
		return "", err
	}
	e.logger.Info("safety backup created", "path", res.Path)
	return res.Path, nil
}

// maxNameAttempts bounds the numeric suffixes tried by freeArchivePath.
const maxNameAttempts = 1000

// freeArchivePath returns a timestamped archive path in dir that does not
// exist yet and is not the archive being imported. Names taken within the
// same second get a _1, _2, ... suffix.
func freeArchivePath(dir string, now time.Time, archivePath string) (string, error) {
	base := strings.TrimSuffix(DefaultArchiveName(now), ".zip")
	source, _ := filepath.Abs(archivePath)
	for i := range maxNameAttempts {
		name := base + ".zip"
		if i > 0 {
			name = base + "_" + strconv.Itoa(i) + ".zip"
		}
		dest := filepath.Join(dir, name)
		if abs, _ := filepath.Abs(dest); abs == source {
			continue
		}
		if _, err := os.Lstat(dest); os.IsNotExist(err) {
			return dest, nil
		}
	}
	return "", errors.Newf("no free safety backup name for %s in %s", base, dir)
}

// replace extracts the payload to a scratch directory and swaps it in.
func (e *Engine) replace(archivePath, configDir string) (int, error) {
	scratch, err := os.MkdirTemp("", "orcabackup-import-*")
	if err != nil {
		return 0, errors.Wrap(err, "creating scratch directory")
	}
	defer os.RemoveAll(scratch)

	root, err := archive.ExtractPayload(archivePath, scratch)
	if err != nil {
		return 0, err
	}

	if err := fileutil.ClearDir(configDir); err != nil {
		return 0, errors.Wrap(err, "clearing configuration directory")
	}
	if e.hooks.afterClear != nil {
		if err := e.hooks.afterClear(configDir); err != nil {
			return 0, err
		}
	}
	if err := fileutil.CopyTree(root, configDir); err != nil {
		return 0, errors.Wrap(err, "copying configuration")
	}

	return countFiles(root), nil
}

// rollback re-imports the safety backup once and reports the outcome
// alongside cause.
func (e *Engine) rollback(cause error, safety string) error {
	ierr := &ImportError{Err: cause, SafetyBackup: safety}
	if safety == "" {
		e.logger.Error("import failed with no safety backup; manual intervention may be required", "error", cause)
		return ierr
	}

	ierr.RollbackAttempted = true
	e.logger.Warn("import failed, restoring safety backup", "backup", safety, "error", cause)

	if _, err := e.importArchive(safety, false, true); err != nil {
		ierr.RollbackErr = err
		e.logger.Error("rollback failed", "backup", safety, "error", err)
		return ierr
	}

	e.logger.Info("previous configuration restored", "backup", safety)
	return ierr
}

func countFiles(root string) int {
	n := 0
	_ = filepath.WalkDir(root, func(_ string, d fs.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			n++
		}
		return nil
	})
	return n
}
