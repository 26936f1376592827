// Package config provides configuration management for orcabackup using Viper.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/thoreinstein/orcabackup/internal/archive"
	"github.com/thoreinstein/orcabackup/internal/errors"
	"github.com/thoreinstein/orcabackup/internal/paths"
	"github.com/thoreinstein/orcabackup/internal/process"
)

// EnvPrefix is the prefix of environment variables overriding config keys.
// Nested keys use underscores: ORCABACKUP_PROCESS_WAIT_TIMEOUT.
const EnvPrefix = "ORCABACKUP"

// CurrentVersion is the config file format version.
const CurrentVersion = 1

// Config represents the top-level configuration structure.
type Config struct {
	Version int `mapstructure:"version" yaml:"version"`

	// ArchiveDir is where exports go by default and where import looks for
	// archives to choose from.
	ArchiveDir string `mapstructure:"archive_dir" yaml:"archive_dir"`

	// ConfigDir and InstallDir are tried before the platform's standard
	// locations, for portable installs.
	ConfigDir  string `mapstructure:"config_dir" yaml:"config_dir,omitempty"`
	InstallDir string `mapstructure:"install_dir" yaml:"install_dir,omitempty"`

	// CreateBackup is the default for taking a safety backup before import.
	CreateBackup bool `mapstructure:"create_backup" yaml:"create_backup"`

	// ExcludedDirs are directory names never exported, at any depth.
	ExcludedDirs []string `mapstructure:"excluded_dirs" yaml:"excluded_dirs"`

	Compare CompareConfig `mapstructure:"compare" yaml:"compare"`
	Process ProcessConfig `mapstructure:"process" yaml:"process"`
}

// CompareConfig tunes archive comparison.
type CompareConfig struct {
	// ContentThreshold is the largest file size compared byte for byte.
	ContentThreshold int64 `mapstructure:"content_threshold" yaml:"content_threshold"`
}

// ProcessConfig tunes waiting for the slicer to exit before import.
type ProcessConfig struct {
	WaitTimeout  time.Duration `mapstructure:"wait_timeout" yaml:"wait_timeout"`
	PollInterval time.Duration `mapstructure:"poll_interval" yaml:"poll_interval"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Version:      CurrentVersion,
		ArchiveDir:   paths.ArchiveDir(),
		CreateBackup: true,
		ExcludedDirs: append([]string(nil), archive.DefaultExcludedDirs...),
		Compare: CompareConfig{
			ContentThreshold: archive.DefaultContentThreshold,
		},
		Process: ProcessConfig{
			WaitTimeout:  process.DefaultWaitTimeout,
			PollInterval: process.DefaultPollInterval,
		},
	}
}

// Init resets Viper and installs search paths, environment binding and
// defaults. Call it once at startup, before Load.
func Init() {
	viper.Reset()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Search paths (in order of precedence)
	viper.AddConfigPath(".")
	viper.AddConfigPath(paths.AppConfigDir())

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	d := Default()
	viper.SetDefault("version", d.Version)
	viper.SetDefault("archive_dir", d.ArchiveDir)
	viper.SetDefault("config_dir", "")
	viper.SetDefault("install_dir", "")
	viper.SetDefault("create_backup", d.CreateBackup)
	viper.SetDefault("excluded_dirs", d.ExcludedDirs)
	viper.SetDefault("compare.content_threshold", d.Compare.ContentThreshold)
	viper.SetDefault("process.wait_timeout", d.Process.WaitTimeout)
	viper.SetDefault("process.poll_interval", d.Process.PollInterval)
}

// Load reads the configuration file.
// If path is provided, it reads from that specific file.
// If path is empty, it searches in the default locations and falls back to
// defaults when no file is found.
// The result is validated; home-relative paths are expanded.
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			// Real read error (parsing, permissions, missing explicit file)
			return nil, errors.Wrap(err, "reading config file")
		}
		// Implicit load without a file: defaults apply.
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}

	cfg.ArchiveDir = paths.ExpandHome(cfg.ArchiveDir)
	cfg.ConfigDir = paths.ExpandHome(cfg.ConfigDir)
	cfg.InstallDir = paths.ExpandHome(cfg.InstallDir)

	if errs := Validate(&cfg); len(errs) > 0 {
		return nil, errors.Wrap(errs[0], "validating config")
	}

	return &cfg, nil
}

// FileUsed returns the config file Load read, or "" when defaults applied.
func FileUsed() string {
	return viper.ConfigFileUsed()
}
