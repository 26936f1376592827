// Package config provides configuration management for the orcabackup CLI.
//
// This package handles loading and validating orcabackup's own configuration
// file. It is distinct from the slicer's configuration directory, which is
// the data orcabackup backs up.
//
// # Configuration File
//
// The configuration file is searched for in the current directory and then
// in ~/.config/orcabackup/config.yaml (ORCABACKUP_CONFIG_HOME overrides the
// directory). It uses YAML format with the following structure:
//
//	version: 1
//	archive_dir: ~/.local/share/orcabackup/archives
//	config_dir: /portable/OrcaSlicer/data   # optional
//	install_dir: /opt/OrcaSlicer            # optional
//	create_backup: true
//	excluded_dirs: [cache, temp, logs]
//	compare:
//	  content_threshold: 1048576
//	process:
//	  wait_timeout: 20s
//	  poll_interval: 2s
//
// # Environment
//
// Every key can be overridden with an ORCABACKUP_ variable, nested keys
// joined by underscores:
//
//	ORCABACKUP_CREATE_BACKUP=false
//	ORCABACKUP_PROCESS_WAIT_TIMEOUT=1m
//
// # Loading Configuration
//
// Call [Init] once at startup, then [Load]. An empty path searches the
// default locations and falls back to [Default] values when no file exists;
// an explicit path must exist. Loaded configuration is checked with
// [Validate].
package config
