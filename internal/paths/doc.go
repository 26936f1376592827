// Package paths provides the directories orcabackup itself uses: where its
// own configuration file lives and where exported archives are kept by
// default.
//
// # XDG Base Directory Compliance
//
// The package wraps github.com/adrg/xdg for cross-platform XDG Base Directory
// Specification compliance:
//
//	| Directory     | Linux                                  | macOS                                        |
//	|---------------|----------------------------------------|----------------------------------------------|
//	| AppConfigDir  | ~/.config/orcabackup                   | ~/Library/Application Support/orcabackup     |
//	| ArchiveDir    | ~/.local/share/orcabackup/archives     | ~/Library/Application Support/orcabackup/... |
//
// Locating the slicer's own configuration directory is not done here; see
// package platform.
package paths
