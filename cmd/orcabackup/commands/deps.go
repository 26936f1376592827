package commands

import (
	"context"
	"io"
	"os"

	"github.com/juju/clock"

	"github.com/thoreinstein/orcabackup/internal/archive"
	"github.com/thoreinstein/orcabackup/internal/backup"
	"github.com/thoreinstein/orcabackup/internal/errors"
	"github.com/thoreinstein/orcabackup/internal/logging"
	"github.com/thoreinstein/orcabackup/internal/platform"
	"github.com/thoreinstein/orcabackup/internal/process"
	"github.com/thoreinstein/orcabackup/internal/report"
)

// Collaborators built per command. Tests replace them.
var (
	newDetector = func() process.Detector { return process.NewDetector() }

	waitClock clock.Clock = clock.WallClock

	// stdin is where prompts read answers.
	stdin io.Reader = os.Stdin
)

// newResolver builds the host resolver with the configured overrides.
func newResolver() *platform.Resolver {
	return platform.NewResolver(platform.Host(),
		platform.WithConfigDirOverride(appConfig.ConfigDir),
		platform.WithInstallDirOverride(appConfig.InstallDir),
	)
}

// newEngine builds a backup engine logging to the command's logger.
func newEngine(ctx context.Context, opts ...backup.Option) *backup.Engine {
	base := []backup.Option{
		backup.WithLogger(logging.FromContext(ctx)),
		backup.WithExcluder(archive.NewExcluder(appConfig.ExcludedDirs...)),
	}
	return backup.NewEngine(newResolver(), append(base, opts...)...)
}

// cliError attaches an exit code and a suggestion to engine and archive
// errors. Anything unrecognized is a system error.
func cliError(err error) error {
	if err == nil {
		return nil
	}

	var exitErr *errors.ExitError
	if errors.As(err, &exitErr) {
		return err
	}

	switch {
	case errors.Is(err, backup.ErrConfigNotFound), errors.Is(err, report.ErrConfigNotFound):
		return errors.NewUserError(err,
			"Is OrcaSlicer installed and started at least once? Set config_dir for portable installs")
	case errors.Is(err, backup.ErrEmptyConfiguration):
		return errors.NewUserError(err, "Start OrcaSlicer once so it creates its configuration")
	case errors.Is(err, archive.ErrInvalidArchive), errors.Is(err, archive.ErrMissingPayload):
		return errors.NewUserError(err, "Run: orcabackup inspect <file>")
	case errors.Is(err, backup.ErrBackupDeclined):
		return errors.NewUserError(err, "Free up space or fix permissions next to the configuration directory, or pass --no-backup")
	case errors.Is(err, errors.ErrCancelled):
		return errors.NewUserError(err, "")
	case errors.Is(err, backup.ErrImportFailed):
		var importErr *backup.ImportError
		if errors.As(err, &importErr) && importErr.RollbackAttempted && !importErr.RolledBack() {
			return errors.NewSystemError(err, "Restore manually with: orcabackup import "+importErr.SafetyBackup+" --no-backup")
		}
		return errors.NewSystemError(err, "")
	case errors.Is(err, backup.ErrPartialWrite), errors.Is(err, backup.ErrValidationFailed):
		return errors.NewSystemError(err, "Check free space and permissions at the destination")
	default:
		return errors.NewSystemError(err, "")
	}
}
