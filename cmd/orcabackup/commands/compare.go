package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/orcabackup/internal/archive"
	"github.com/thoreinstein/orcabackup/internal/errors"
	"github.com/thoreinstein/orcabackup/internal/paths"
)

var (
	compareThreshold int64
	compareJSON      bool
)

func init() {
	compareCmd.Flags().Int64Var(&compareThreshold, "threshold", 0,
		"largest file size compared byte for byte; larger files compare by checksum (default: compare.content_threshold)")
	compareCmd.Flags().BoolVar(&compareJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(compareCmd)
}

var compareCmd = &cobra.Command{
	Use:   "compare FILE",
	Short: "Compare an archive with the current configuration",
	Long: `Show which configuration files an import of FILE would add, remove or
change.

Files up to the threshold are compared byte for byte; larger files are
compared by CRC-32. Excluded directories and hidden files are ignored on the
live side, as export would ignore them.`,
	Example: `  # What would importing this archive change?
  orcabackup compare ~/orca-laptop.zip

  See Also: orcabackup import, orcabackup inspect`,
	Args: cobra.ExactArgs(1),
	RunE: runCompare,
}

// compareOutput is the JSON form of the compare command.
type compareOutput struct {
	Archive   string `json:"archive"`
	ConfigDir string `json:"config_dir"`
	*archive.Diff
}

func runCompare(cmd *cobra.Command, args []string) error {
	return runCompareWithWriter(cmd.OutOrStdout(), args[0])
}

func runCompareWithWriter(w io.Writer, path string) error {
	path = paths.ExpandHome(path)
	if err := archive.Validate(path); err != nil {
		return cliError(err)
	}

	resolver := newResolver()
	liveDir, ok := resolver.ResolveConfigDirectory()
	if !ok {
		liveDir = resolver.DefaultConfigDirectory()
	}

	threshold := appConfig.Compare.ContentThreshold
	if compareThreshold > 0 {
		threshold = compareThreshold
	}
	ex := archive.NewExcluder(appConfig.ExcludedDirs...)

	diff, err := archive.Compare(path, liveDir, archive.CompareOptions{
		ContentThreshold: threshold,
		Excluder:         &ex,
	})
	if err != nil {
		return cliError(errors.Wrap(err, "comparing archive"))
	}

	if compareJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(compareOutput{Archive: path, ConfigDir: liveDir, Diff: diff})
	}

	fmt.Fprintf(w, "%s %s\n", styleHeader.Sprint("Archive:"), path)
	fmt.Fprintf(w, "%s %s\n\n", styleHeader.Sprint("Current:"), liveDir)

	if !diff.HasChanges() {
		fmt.Fprintf(w, "%s No differences (%s identical)\n",
			styleOK.Sprint("✓"), plural(len(diff.Unchanged), "file"))
		return nil
	}

	for _, rel := range diff.Added {
		fmt.Fprintf(w, "  %s %s\n", styleOK.Sprint("+"), rel)
	}
	for _, rel := range diff.Modified {
		fmt.Fprintf(w, "  %s %s\n", styleWarn.Sprint("~"), rel)
	}
	for _, rel := range diff.Removed {
		fmt.Fprintf(w, "  %s %s\n", styleError.Sprint("-"), rel)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%d added, %d modified, %d removed, %d unchanged\n",
		len(diff.Added), len(diff.Modified), len(diff.Removed), len(diff.Unchanged))
	return nil
}
