package backup

import (
	"fmt"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/orcabackup/internal/archive"
)

// Generated archive names are ArchivePrefix + timestamp + ".zip".
const (
	ArchivePrefix   = "orca_config_backup_"
	archiveTSLayout = "20060102_150405"
)

// Sentinel errors for backup operations.
var (
	// ErrConfigNotFound indicates no configuration directory could be resolved.
	ErrConfigNotFound = errors.New("OrcaSlicer configuration directory not found")

	// ErrEmptyConfiguration indicates the configuration directory has no entries.
	ErrEmptyConfiguration = errors.New("OrcaSlicer configuration directory is empty")

	// ErrPartialWrite indicates writing an archive failed. The partial output
	// has been removed.
	ErrPartialWrite = errors.New("backup archive could not be written")

	// ErrValidationFailed indicates a freshly written archive did not validate.
	ErrValidationFailed = errors.New("created backup failed validation")

	// ErrImportFailed indicates extraction or replacement failed during import.
	ErrImportFailed = errors.New("import failed")

	// ErrBackupDeclined indicates the safety backup failed and proceeding
	// without it was not confirmed.
	ErrBackupDeclined = errors.New("safety backup failed and continuing without it was not confirmed")
)

// ConfirmFunc is asked whether an import may continue after the safety
// backup failed with cause. It returns true to continue.
type ConfirmFunc func(cause error) bool

// ExportResult describes a written archive.
type ExportResult struct {
	// Path is the archive location.
	Path string

	// FileCount is the number of payload entries.
	FileCount int

	// Skipped lists files that could not be read, relative to the
	// configuration directory.
	Skipped []string

	// Size is the archive size in bytes.
	Size int64

	// Metadata is the record stored in the archive.
	Metadata archive.Metadata
}

// ImportResult describes a completed import.
type ImportResult struct {
	// ConfigDir is the directory that was replaced.
	ConfigDir string

	// SafetyBackup is the archive of the previous contents, empty when none
	// was taken.
	SafetyBackup string

	// FileCount is the number of files restored.
	FileCount int
}

// ImportError reports a failed import and what happened afterwards.
// It unwraps to the original failure and matches ErrImportFailed.
type ImportError struct {
	// Err is the failure that stopped the import.
	Err error

	// SafetyBackup is the archive taken before the import, if any.
	SafetyBackup string

	// RollbackAttempted is true when SafetyBackup was re-imported.
	RollbackAttempted bool

	// RollbackErr is the rollback failure, nil if it succeeded or never ran.
	RollbackErr error
}

func (e *ImportError) Error() string {
	switch {
	case !e.RollbackAttempted:
		return fmt.Sprintf("import failed: %v (no safety backup; the configuration directory may need manual repair)", e.Err)
	case e.RollbackErr != nil:
		return fmt.Sprintf("import failed: %v (restoring %s also failed: %v)", e.Err, e.SafetyBackup, e.RollbackErr)
	default:
		return fmt.Sprintf("import failed: %v (previous configuration restored from %s)", e.Err, e.SafetyBackup)
	}
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrImportFailed) hold for every ImportError.
func (e *ImportError) Is(target error) bool {
	return target == ErrImportFailed
}

// RolledBack reports whether the previous configuration was restored.
func (e *ImportError) RolledBack() bool {
	return e.RollbackAttempted && e.RollbackErr == nil
}

// DefaultArchiveName returns the generated archive name for t.
func DefaultArchiveName(t time.Time) string {
	return ArchivePrefix + t.Format(archiveTSLayout) + ".zip"
}
