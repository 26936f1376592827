package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/orcabackup/internal/errors"
	"github.com/thoreinstein/orcabackup/internal/platform"
	"github.com/thoreinstein/orcabackup/internal/report"
)

var (
	infoJSON     bool
	infoYAML     bool
	infoTOML     bool
	infoDetailed bool
)

func init() {
	infoCmd.Flags().BoolVar(&infoJSON, "json", false, "Output in JSON format")
	infoCmd.Flags().BoolVar(&infoYAML, "yaml", false, "Output in YAML format")
	infoCmd.Flags().BoolVar(&infoTOML, "toml", false, "Output in TOML format")
	infoCmd.Flags().BoolVar(&infoDetailed, "detailed", false,
		"list the top level of the configuration directory")
	infoCmd.MarkFlagsMutuallyExclusive("json", "yaml", "toml")
	rootCmd.AddCommand(infoCmd)
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show where OrcaSlicer and its configuration live",
	Long: `Show the OrcaSlicer installation and configuration directory found on this
machine, with the size and number of files in the configuration.

Sizes count every file, including caches and logs that export leaves out.`,
	Example: `  # Summary
  orcabackup info

  # With the top-level entries of the configuration directory
  orcabackup info --detailed

  # Machine-readable
  orcabackup info --json

  See Also: orcabackup export, orcabackup compare`,
	Args: cobra.NoArgs,
	RunE: runInfo,
}

// infoOutput is the structured form of the info command.
type infoOutput struct {
	Family   string          `json:"family" yaml:"family" toml:"family"`
	Status   string          `json:"status" yaml:"status" toml:"status"`
	Snapshot report.Snapshot `json:"snapshot" yaml:"snapshot" toml:"snapshot"`
	Entries  []report.Entry  `json:"entries,omitempty" yaml:"entries,omitempty" toml:"entries,omitempty"`
}

func runInfo(cmd *cobra.Command, _ []string) error {
	return runInfoWithWriter(cmd.OutOrStdout())
}

func runInfoWithWriter(w io.Writer) error {
	resolver := newResolver()
	detection := resolver.Detect()

	out := infoOutput{
		Family:   detection.Family.String(),
		Status:   string(detection.Status),
		Snapshot: report.NewReporter(resolver).Snapshot(),
	}

	if infoDetailed && out.Snapshot.ConfigFound {
		entries, err := report.NewReporter(resolver).Entries()
		if err != nil {
			return cliError(err)
		}
		out.Entries = entries
	}

	switch {
	case infoJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case infoYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return errors.Wrap(err, "encoding YAML")
		}
		return enc.Close()
	case infoTOML:
		if err := toml.NewEncoder(w).Encode(out); err != nil {
			return errors.Wrap(err, "encoding TOML")
		}
		return nil
	}

	return outputInfoText(w, out)
}

func outputInfoText(w io.Writer, out infoOutput) error {
	s := out.Snapshot

	fmt.Fprintf(w, "%s\n", styleHeader.Sprint("OrcaSlicer"))
	fmt.Fprintf(w, "  %-14s %s (%s)\n", "status:", statusText(platform.InstallStatus(out.Status)), out.Family)
	fmt.Fprintf(w, "  %-14s %s\n", "installation:", foundPath(s.InstallationPath, s.InstallationFound))
	fmt.Fprintf(w, "  %-14s %s\n", "configuration:", foundPath(s.ConfigPath, s.ConfigFound))
	if s.ConfigFound {
		fmt.Fprintf(w, "  %-14s %s in %s\n", "size:", bytesString(s.ConfigSize), plural(s.FileCount, "file"))
	}

	if len(out.Entries) == 0 {
		return nil
	}

	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "  %s\t%s\t%s\n", styleBold.Sprint("NAME"), styleBold.Sprint("FILES"), styleBold.Sprint("SIZE"))
	for _, e := range out.Entries {
		name := e.Name
		if e.IsDir {
			name += "/"
		}
		fmt.Fprintf(tw, "  %s\t%d\t%s\n", name, e.FileCount, bytesString(e.Size))
	}
	return tw.Flush()
}

func statusText(s platform.InstallStatus) string {
	switch s {
	case platform.StatusInstalled:
		return styleOK.Sprint("installed")
	case platform.StatusPartial:
		return styleWarn.Sprint("partial")
	default:
		return styleFaint.Sprint("not installed")
	}
}

func foundPath(path string, found bool) string {
	if !found {
		return styleFaint.Sprint("not found")
	}
	return path
}
