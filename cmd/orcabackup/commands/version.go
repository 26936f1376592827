package commands

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"

	build "github.com/thoreinstein/orcabackup/cmd"
)

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version information",
	Long:  `Print the version, commit, and build date of orcabackup, and whether OrcaSlicer was found.`,
	Args:  cobra.NoArgs,
	Run: func(c *cobra.Command, _ []string) {
		printVersion(c.OutOrStdout())
	},
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "orcabackup version %s\n", build.Version)
	fmt.Fprintf(w, "  commit:    %s\n", build.Commit)
	fmt.Fprintf(w, "  built:     %s\n", build.Date)
	fmt.Fprintf(w, "  go:        %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)

	d := newResolver().Detect()
	fmt.Fprintf(w, "  orcaslicer:\n")
	fmt.Fprintf(w, "    %-8s %s\n", "family:", d.Family)
	fmt.Fprintf(w, "    %-8s %s\n", "status:", d.Status)
}
