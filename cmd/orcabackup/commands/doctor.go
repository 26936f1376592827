package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/orcabackup/internal/archive"
	"github.com/thoreinstein/orcabackup/internal/config"
	"github.com/thoreinstein/orcabackup/internal/doctor"
	"github.com/thoreinstein/orcabackup/internal/errors"
)

var (
	doctorJSON bool
	doctorAll  bool
)

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false,
		"output results as JSON")
	doctorCmd.Flags().BoolVar(&doctorAll, "all", false,
		"show all checks including passed ones")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose backup setup issues",
	Long: `Run diagnostic checks on the orcabackup configuration, the OrcaSlicer
installation, and the directories exports and imports write to.

Output modes:
  (default)   Show errors and warnings
  --all       Show all checks including passed ones
  --quiet     No output, exit code only
  --json      Machine-readable JSON output

Exit codes:
  0 - All checks passed (no errors or warnings)
  1 - Warnings present, no errors
  2 - Errors present`,
	Example: `  # Check everything before a first import
  orcabackup doctor --all

  See Also: orcabackup info, orcabackup list`,
	PreRunE: validateDoctorFlags,
	RunE:    runDoctor,
}

// validateDoctorFlags ensures output flags are mutually exclusive.
func validateDoctorFlags(_ *cobra.Command, _ []string) error {
	count := 0
	for _, set := range []bool{doctorJSON, doctorAll, quiet} {
		if set {
			count++
		}
	}
	if count > 1 {
		return errors.NewUserError(errors.New("flags --json, --all, and --quiet are mutually exclusive"), "")
	}
	return nil
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	return runDoctorWithWriter(cmd.Context(), cmd.OutOrStdout())
}

func runDoctorWithWriter(ctx context.Context, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	resolver := newResolver()
	runner := doctor.NewRunner(nil,
		doctor.NewConfigFileCheck(config.FileUsed(), configLoadErr),
		doctor.NewInstallationCheck(resolver),
		doctor.NewConfigDirCheck(resolver, archive.NewExcluder(appConfig.ExcludedDirs...)),
		doctor.NewSafetyBackupDirCheck(resolver),
		doctor.NewArchiveDirCheck(appConfig.ArchiveDir),
		doctor.NewArchivesCheck(appConfig.ArchiveDir),
		doctor.NewProcessCheck(ctx, newDetector()),
	)

	report := runner.Run()

	if err := outputDoctorReport(w, report); err != nil {
		return err
	}

	// The report already explains the problems
	switch report.Worst() {
	case doctor.SeverityError:
		return errors.NewExitError(nil, errors.ExitSystem)
	case doctor.SeverityWarning:
		return errors.NewExitError(nil, errors.ExitUser)
	}
	return nil
}

func outputDoctorReport(w io.Writer, report *doctor.DoctorReport) error {
	if quiet {
		return nil
	}

	if doctorJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return errors.Wrap(err, "encoding JSON")
		}
		return nil
	}

	outputDoctorText(w, report)
	return nil
}

func outputDoctorText(w io.Writer, report *doctor.DoctorReport) {
	shown := report.Problems()
	if doctorAll {
		shown = report.Results
	}
	for _, result := range shown {
		fmt.Fprintf(w, "%s [%s] %s: %s\n", statusIcon(result.Status), result.Category, result.Name, result.Message)
		if result.FixHint != "" && result.Status >= doctor.SeverityWarning {
			fmt.Fprintf(w, "  %s %s\n", styleFaint.Sprint("hint:"), result.FixHint)
		}
	}
	if len(shown) > 0 {
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Summary: %d passed, %d info, %s, %s\n",
		report.Summary.Passed, report.Summary.Info,
		plural(report.Summary.Warnings, "warning"), plural(report.Summary.Errors, "error"))
}

func statusIcon(s doctor.Severity) string {
	switch s {
	case doctor.SeverityPass:
		return styleOK.Sprint("✓")
	case doctor.SeverityInfo:
		return styleFaint.Sprint("ℹ")
	case doctor.SeverityWarning:
		return styleWarn.Sprint("⚠")
	case doctor.SeverityError:
		return styleError.Sprint("✗")
	default:
		return "?"
	}
}
