package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
)

// AppName is the directory name used under the XDG base directories.
const AppName = "orcabackup"

// Sentinel errors for path resolution.
var (
	// ErrHomeDirNotFound indicates the user's home directory could not be determined.
	ErrHomeDirNotFound = errors.New("home directory not found")

	// ErrInvalidPath indicates the provided path is malformed or invalid.
	ErrInvalidPath = errors.New("invalid path")
)

// DefaultDirPerm is the default permission for newly created directories (private).
const DefaultDirPerm = 0o700

// EnsureDir creates the directory and any necessary parents with specified permissions.
// If perm is 0, DefaultDirPerm (0700) is used.
// This function is idempotent; it returns nil if the directory already exists.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return os.MkdirAll(path, perm)
}

// ResolveHome returns the user's home directory.
// Returns ErrHomeDirNotFound if the directory cannot be determined.
func ResolveHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "", errors.Wrap(ErrHomeDirNotFound, "resolving home directory")
	}
	return home, nil
}

// ExpandHome expands a leading ~ or ~/ to the user's home directory.
// Other paths, and paths that cannot be expanded, are returned unchanged.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, `~\`) {
		return path
	}
	home, err := ResolveHome()
	if err != nil {
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}

// ConfigHome returns the XDG config home directory.
// On Linux: ~/.config
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func ConfigHome() string {
	return xdg.ConfigHome
}

// DataHome returns the XDG data home directory.
// On Linux: ~/.local/share
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func DataHome() string {
	return xdg.DataHome
}

// ConfigHomeEnv overrides the directory holding orcabackup's config.yaml.
const ConfigHomeEnv = "ORCABACKUP_CONFIG_HOME"

// AppConfigDir returns the directory holding orcabackup's config.yaml.
// Returns: $ORCABACKUP_CONFIG_HOME if set, else <ConfigHome>/orcabackup/
func AppConfigDir() string {
	if dir := os.Getenv(ConfigHomeEnv); dir != "" {
		return dir
	}
	return filepath.Join(ConfigHome(), AppName)
}

// AppConfigFile returns the default path of orcabackup's config file.
func AppConfigFile() string {
	return filepath.Join(AppConfigDir(), "config.yaml")
}

// ArchiveDir returns the default directory for exported archives.
// Returns: <DataHome>/orcabackup/archives/
func ArchiveDir() string {
	return filepath.Join(DataHome(), AppName, "archives")
}
