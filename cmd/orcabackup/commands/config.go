package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/orcabackup/internal/config"
	"github.com/thoreinstein/orcabackup/internal/editor"
	"github.com/thoreinstein/orcabackup/internal/errors"
	"github.com/thoreinstein/orcabackup/internal/paths"
	"github.com/thoreinstein/orcabackup/pkg/fileutil"
)

var (
	configInitForce bool
	configShowRaw   bool
)

func init() {
	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false,
		"overwrite an existing config file")
	configShowCmd.Flags().BoolVar(&configShowRaw, "raw", false,
		"print the config file as written instead of the effective values")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configEditCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage orcabackup configuration",
	Long: `Manage orcabackup configuration stored in ~/.config/orcabackup/config.yaml.

Without a subcommand, shows the effective configuration.`,
	Example: `  # Write a config file with the defaults
  orcabackup config init

  # Show effective values
  orcabackup config show

  # Change settings in $EDITOR
  orcabackup config edit

See Also: orcabackup info`,
	RunE: runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default values",
	Long: `Write ~/.config/orcabackup/config.yaml with the default values, or the
file named by --config.`,
	Example: `  # Create the config file
  orcabackup config init

  # Start over
  orcabackup config init --force`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the configuration",
	Long: `Show the effective configuration in YAML format: defaults, overridden by
the config file, overridden by ORCABACKUP_ environment variables.`,
	Example: `  # Effective values
  orcabackup config show

  # The file itself
  orcabackup config show --raw`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the config file in your editor",
	Long: `Open the config file in $VISUAL or $EDITOR, creating it with the default
values first if it does not exist. The file is validated after the editor
exits.`,
	Example: `  # Edit with the configured editor
  orcabackup config edit

  # Edit with a specific editor
  EDITOR="code --wait" orcabackup config edit`,
	Args: cobra.NoArgs,
	RunE: runConfigEdit,
}

// newEditor builds the editor used by config edit. Tests replace it.
var newEditor = editor.New

func runConfigInit(cmd *cobra.Command, _ []string) error {
	return runConfigInitWithWriter(cmd.OutOrStdout())
}

func runConfigInitWithWriter(w io.Writer) error {
	path := configFile
	if path == "" {
		path = paths.AppConfigFile()
	}

	if _, err := os.Stat(path); err == nil && !configInitForce {
		return errors.NewUserError(errors.Newf("%s already exists", path), "Use --force to overwrite it")
	}

	if err := paths.EnsureDir(filepath.Dir(path), 0); err != nil {
		return errors.Wrap(err, "creating config directory")
	}

	if err := fileutil.AtomicWriteYAML(path, config.Default()); err != nil {
		return errors.Wrap(err, "writing config file")
	}

	fmt.Fprintf(w, "%s Wrote %s\n", styleOK.Sprint("✓"), path)
	return nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	return runConfigShowWithWriter(cmd.OutOrStdout())
}

func runConfigShowWithWriter(w io.Writer) error {
	used := config.FileUsed()

	if configShowRaw {
		if used == "" {
			return errors.NewUserError(errors.New("no config file in use"), "Run: orcabackup config init")
		}
		data, err := fileutil.ReadLimited(used, fileutil.ConfigReadLimit)
		if err != nil {
			return errors.Wrapf(err, "reading %s", used)
		}
		_, err = w.Write(data)
		return errors.Wrap(err, "writing output")
	}

	if used != "" {
		fmt.Fprintf(w, "# %s\n", used)
	} else {
		fmt.Fprintln(w, "# defaults (no config file)")
	}
	if configLoadErr != nil {
		fmt.Fprintf(w, "# not applied: %v\n", configLoadErr)
	}

	data, err := yaml.Marshal(appConfig)
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}
	_, err = w.Write(data)
	return errors.Wrap(err, "writing output")
}

func runConfigEdit(cmd *cobra.Command, _ []string) error {
	return runConfigEditWithWriter(cmd.Context(), cmd.OutOrStdout())
}

func runConfigEditWithWriter(ctx context.Context, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	path := configFile
	if path == "" {
		path = config.FileUsed()
	}
	if path == "" {
		path = paths.AppConfigFile()
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := paths.EnsureDir(filepath.Dir(path), 0); err != nil {
			return errors.Wrap(err, "creating config directory")
		}
		if err := fileutil.AtomicWriteYAML(path, config.Default()); err != nil {
			return errors.Wrap(err, "writing config file")
		}
	}

	fmt.Fprintf(w, "Location: %s\n", path)
	if err := newEditor().Edit(ctx, path); err != nil {
		return errors.NewSystemError(err, "Set $EDITOR to your preferred editor")
	}

	config.Init()
	cfg, err := config.Load(path)
	if err != nil {
		return errors.NewUserError(err, "Run: orcabackup config edit")
	}
	appConfig, configLoadErr = cfg, nil

	fmt.Fprintf(w, "%s %s is valid\n", styleOK.Sprint("✓"), path)
	return nil
}
