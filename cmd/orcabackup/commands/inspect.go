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
	inspectJSON bool
	inspectList bool
)

func init() {
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "Output in JSON format")
	inspectCmd.Flags().BoolVarP(&inspectList, "list", "l", false, "list every archive entry")
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect FILE",
	Short: "Validate an archive and show its metadata",
	Long: `Check that FILE is a usable backup archive and print its metadata.

An archive is valid when it is a readable zip with exactly one
backup_metadata.txt, at least one entry under config/, and no corrupt
entries. The command exits with status 1 for invalid archives.`,
	Example: `  # Check an archive before importing it
  orcabackup inspect ~/orca-laptop.zip

  # Show every file it contains
  orcabackup inspect ~/orca-laptop.zip --list

  See Also: orcabackup import, orcabackup compare`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

// inspectOutput is the JSON form of the inspect command.
type inspectOutput struct {
	Path     string            `json:"path"`
	Valid    bool              `json:"valid"`
	Error    string            `json:"error,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
	Entries  []string          `json:"entries,omitempty"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	return runInspectWithWriter(cmd.OutOrStdout(), args[0])
}

func runInspectWithWriter(w io.Writer, path string) error {
	path = paths.ExpandHome(path)

	out := inspectOutput{Path: path}
	verr := archive.Validate(path)
	if verr != nil {
		out.Error = verr.Error()
	} else {
		out.Valid = true
		out.Metadata = archive.ReadMetadata(path)
		if inspectList {
			entries, err := archive.Entries(path)
			if err != nil {
				return cliError(err)
			}
			out.Entries = entries
		}
	}

	if inspectJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return errors.Wrap(err, "encoding JSON")
		}
		if verr != nil {
			// Already reported in the output
			return errors.NewExitError(nil, errors.ExitUser)
		}
		return nil
	}

	if verr != nil {
		fmt.Fprintf(w, "%s %s is not a valid backup\n", styleError.Sprint("✗"), path)
		return cliError(verr)
	}

	fmt.Fprintf(w, "%s %s is a valid backup\n\n", styleOK.Sprint("✓"), path)
	printMetadata(w, path, out.Metadata)

	if len(out.Entries) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%s\n", styleHeader.Sprint("Entries:"))
		for _, name := range out.Entries {
			fmt.Fprintf(w, "  %s\n", name)
		}
	}
	return nil
}
