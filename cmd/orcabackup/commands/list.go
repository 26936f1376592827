package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var listJSON bool

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List archives in the archive directory",
	Long: `List the zip archives in the archive directory, most recent first, with
the metadata recorded at export time.

Archives that fail validation are listed with the reason.`,
	Example: `  # List archives
  orcabackup list

  # Output as JSON
  orcabackup list --json

  See Also: orcabackup export, orcabackup import, orcabackup inspect`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func runList(cmd *cobra.Command, _ []string) error {
	return runListWithWriter(cmd.OutOrStdout())
}

func runListWithWriter(w io.Writer) error {
	archives, err := listArchives(appConfig.ArchiveDir)
	if err != nil {
		return cliError(err)
	}

	if listJSON {
		if archives == nil {
			archives = []archiveInfo{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(archives)
	}

	if len(archives) == 0 {
		fmt.Fprintf(w, "No archives in %s\n", appConfig.ArchiveDir)
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Create one with: orcabackup export")
		return nil
	}

	fmt.Fprintf(w, "%s %s\n", styleHeader.Sprint("Archives in"), appConfig.ArchiveDir)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\n",
		styleBold.Sprint("NAME"),
		styleBold.Sprint("PLATFORM"),
		styleBold.Sprint("FILES"),
		styleBold.Sprint("SIZE"),
		styleBold.Sprint("MODIFIED"))
	for _, a := range archives {
		if a.Error != "" {
			fmt.Fprintf(tw, "  %s\t%s\t\t%s\t%s\n",
				a.Name, styleError.Sprint("invalid: "+truncate(a.Error, 48)), bytesString(a.Size), timeString(a.Modified))
			continue
		}
		fmt.Fprintf(tw, "  %s\t%s\t%d\t%s\t%s\n",
			a.Name, a.Platform, a.FileCount, bytesString(a.Size), timeString(a.Modified))
	}
	return tw.Flush()
}
