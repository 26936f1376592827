package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/orcabackup/internal/backup"
	"github.com/thoreinstein/orcabackup/internal/errors"
	"github.com/thoreinstein/orcabackup/internal/paths"
)

var exportForce bool

// exportNow names default archives. Tests pin it.
var exportNow = time.Now

func init() {
	exportCmd.Flags().BoolVarP(&exportForce, "force", "f", false,
		"overwrite an existing archive")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export [FILE]",
	Short: "Export the OrcaSlicer configuration to an archive",
	Long: `Export the OrcaSlicer configuration directory to a zip archive.

Without FILE the archive is written to the archive directory as
orca_config_backup_YYYYMMDD_HHMMSS.zip. A FILE without the .zip extension
gets one. Existing files are not overwritten unless --force is given.

The archive is written to a temporary file, validated, and only then moved
into place, so a failed export never leaves a partial archive behind.`,
	Example: `  # Export to the archive directory
  orcabackup export

  # Export to a specific file
  orcabackup export ~/Dropbox/orca-laptop.zip

  See Also: orcabackup list, orcabackup import`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	return runExportWithWriter(cmd.Context(), cmd.OutOrStdout(), args)
}

func runExportWithWriter(ctx context.Context, w io.Writer, args []string) error {
	var dest string
	if len(args) == 1 {
		dest = withZipExt(paths.ExpandHome(args[0]))
	} else {
		dest = filepath.Join(appConfig.ArchiveDir, backup.DefaultArchiveName(exportNow()))
	}

	if fi, err := os.Stat(dest); err == nil {
		if fi.IsDir() {
			return errors.NewUserError(errors.Newf("%s is a directory", dest), "Pass a file name")
		}
		if !exportForce {
			return errors.NewUserError(errors.Newf("%s already exists", dest), "Use --force to overwrite it")
		}
	}

	res, err := newEngine(ctx).Export(dest)
	if err != nil {
		return cliError(errors.Wrap(err, "exporting configuration"))
	}

	if quiet {
		fmt.Fprintln(w, res.Path)
		return nil
	}

	fmt.Fprintf(w, "%s Exported %s from %s\n",
		styleOK.Sprint("✓"), plural(res.FileCount, "file"), res.Metadata.ConfigPath)
	fmt.Fprintf(w, "  %s %s (%s)\n", styleBold.Sprint("Archive:"), res.Path, bytesString(res.Size))
	if len(res.Skipped) > 0 {
		fmt.Fprintf(w, "%s %s could not be read and %s skipped:\n",
			styleWarn.Sprint("!"), plural(len(res.Skipped), "file"), wasWere(len(res.Skipped)))
		for _, rel := range res.Skipped {
			fmt.Fprintf(w, "    %s\n", rel)
		}
	}
	return nil
}

func wasWere(n int) string {
	if n == 1 {
		return "was"
	}
	return "were"
}
