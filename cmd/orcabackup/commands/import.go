package commands

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/orcabackup/internal/archive"
	"github.com/thoreinstein/orcabackup/internal/backup"
	"github.com/thoreinstein/orcabackup/internal/cli/prompt"
	"github.com/thoreinstein/orcabackup/internal/errors"
	"github.com/thoreinstein/orcabackup/internal/logging"
	"github.com/thoreinstein/orcabackup/internal/paths"
	"github.com/thoreinstein/orcabackup/internal/process"
)

var (
	importNoBackup      bool
	importYes           bool
	importWaitSeconds   int
	importIgnoreRunning bool
)

func init() {
	importCmd.Flags().BoolVar(&importNoBackup, "no-backup", false,
		"do not back up the current configuration first")
	importCmd.Flags().BoolVarP(&importYes, "yes", "y", false,
		"do not ask for confirmation")
	importCmd.Flags().IntVar(&importWaitSeconds, "wait", -1,
		"seconds to wait for OrcaSlicer to exit (default: process.wait_timeout, 0 to not wait)")
	importCmd.Flags().BoolVar(&importIgnoreRunning, "ignore-running", false,
		"import even if OrcaSlicer is running")
	rootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import [FILE]",
	Short: "Restore the OrcaSlicer configuration from an archive",
	Long: `Replace the OrcaSlicer configuration directory with the contents of an
archive.

Without FILE, choose from the archives in the archive directory. The archive
is validated and its metadata shown before anything changes.

Unless --no-backup is given (or create_backup is false), the current
configuration is first exported next to the configuration directory as
orca_config_backup_YYYYMMDD_HHMMSS.zip. If the replacement fails, that
backup is restored automatically.

OrcaSlicer rewrites its configuration on exit, so the import waits for it
to close. Use --ignore-running to import anyway.`,
	Example: `  # Choose an archive interactively
  orcabackup import

  # Import without prompts
  orcabackup import ~/orca-laptop.zip --yes

  # Wait up to a minute for OrcaSlicer to close
  orcabackup import ~/orca-laptop.zip --wait 60

  See Also: orcabackup inspect, orcabackup compare`,
	Args: cobra.MaximumNArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	return runImportWithIO(cmd.Context(), stdin, cmd.OutOrStdout(), args)
}

func runImportWithIO(ctx context.Context, r io.Reader, w io.Writer, args []string) error {
	sel := prompt.NewSelectorWithIO(r, w)

	archivePath, err := chooseArchive(r, sel, args)
	if err != nil {
		return err
	}

	if err := archive.Validate(archivePath); err != nil {
		return cliError(err)
	}

	resolver := newResolver()
	configDir, ok := resolver.ResolveConfigDirectory()
	if !ok {
		configDir = resolver.DefaultConfigDirectory()
	}
	createBackup := appConfig.CreateBackup && !importNoBackup

	printMetadata(w, archivePath, archive.ReadMetadata(archivePath))
	fmt.Fprintf(w, "  %-12s %s\n", "target:", configDir)
	fmt.Fprintln(w)

	if err := ensureNotRunning(ctx, w); err != nil {
		return err
	}

	if !importYes {
		question := "Replace the configuration in " + configDir + "?"
		if !createBackup {
			question = "Replace the configuration in " + configDir + " without a backup?"
		}
		proceed, err := sel.Confirm(question, false)
		if err != nil {
			return errors.Wrap(err, "reading confirmation")
		}
		if !proceed {
			return errors.NewUserError(errors.ErrCancelled, "")
		}
	}

	confirm := func(cause error) bool {
		if importYes {
			return false
		}
		fmt.Fprintf(w, "%s Safety backup failed: %v\n", styleWarn.Sprint("!"), cause)
		ok, err := sel.Confirm("Continue without a backup?", false)
		return err == nil && ok
	}

	res, err := newEngine(ctx, backup.WithConfirm(confirm)).Import(archivePath, createBackup)
	if err != nil {
		return cliError(err)
	}

	fmt.Fprintf(w, "%s Restored %s to %s\n",
		styleOK.Sprint("✓"), plural(res.FileCount, "file"), res.ConfigDir)
	if res.SafetyBackup != "" {
		fmt.Fprintf(w, "  %s %s\n", styleBold.Sprint("Previous configuration:"), res.SafetyBackup)
	}
	return nil
}

// chooseArchive returns the archive named in args, or asks the user to pick
// one from the archive directory.
func chooseArchive(r io.Reader, sel *prompt.Selector, args []string) (string, error) {
	if len(args) == 1 {
		return paths.ExpandHome(args[0]), nil
	}

	archives, err := listArchives(appConfig.ArchiveDir)
	if err != nil {
		return "", err
	}
	if len(archives) == 0 {
		return "", errors.NewUserError(
			errors.Newf("no archives in %s", appConfig.ArchiveDir),
			"Pass the archive to import: orcabackup import FILE")
	}

	options := make([]prompt.Option, len(archives))
	for i, a := range archives {
		options[i] = prompt.Option{Label: a.Name, Detail: archiveDetail(a)}
	}

	var idx int
	if logging.IsInteractive(r) {
		idx, err = prompt.Find(options)
	} else {
		idx, err = sel.Select("Archives in "+appConfig.ArchiveDir, options)
	}
	if err != nil {
		if errors.Is(err, prompt.ErrSelectionCancelled) {
			return "", errors.NewUserError(errors.ErrCancelled, "")
		}
		return "", errors.NewUserError(err, "")
	}
	return archives[idx].Path, nil
}

func archiveDetail(a archiveInfo) string {
	if a.Error != "" {
		return "invalid: " + a.Error
	}
	return fmt.Sprintf("%s, %s, %s, exported %s",
		a.Platform, plural(a.FileCount, "file"), bytesString(a.Size), a.ExportDate)
}

// ensureNotRunning refuses to continue while OrcaSlicer runs, waiting for it
// to exit when allowed.
func ensureNotRunning(ctx context.Context, w io.Writer) error {
	if importIgnoreRunning {
		return nil
	}

	d := newDetector()
	running, err := d.Running(ctx)
	if err != nil {
		logging.FromContext(ctx).Warn("could not check for a running OrcaSlicer", "error", err)
		return nil
	}
	if !running {
		return nil
	}

	wait := appConfig.Process.WaitTimeout
	if importWaitSeconds >= 0 {
		wait = time.Duration(importWaitSeconds) * time.Second
	}
	notClosed := errors.NewUserError(errors.New("OrcaSlicer is running"),
		"Close OrcaSlicer first, or pass --ignore-running")
	if wait <= 0 {
		return notClosed
	}

	fmt.Fprintf(w, "Waiting up to %s for OrcaSlicer to exit...\n", wait)
	res := process.WaitForShutdown(ctx, d, waitClock, wait, appConfig.Process.PollInterval)
	if !res.Shutdown {
		return notClosed
	}
	return nil
}

// printMetadata writes the archive's metadata record in display order.
func printMetadata(w io.Writer, path string, md map[string]string) {
	fmt.Fprintf(w, "%s %s\n", styleHeader.Sprint("Archive:"), filepath.Base(path))
	for _, key := range metadataKeys {
		if v, ok := md[key]; ok {
			fmt.Fprintf(w, "  %-12s %s\n", key+":", v)
		}
	}
}
