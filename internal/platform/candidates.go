package platform

import (
	"path/filepath"
)

// Application name segments used in candidate paths.
const (
	appDirName    = "OrcaSlicer"
	windowsExe    = "OrcaSlicer.exe"
	macBundleName = "OrcaSlicer.app"
	flatpakID     = "io.github.softfever.OrcaSlicer"
)

// Candidate is a location where the slicer may live.
type Candidate struct {
	// Path is the absolute candidate path.
	Path string

	// Markers are paths relative to Path; at least one must exist for an
	// installation candidate to match. An empty list means Path itself must
	// be a regular file (a binary on PATH).
	Markers []string
}

// environment provides the lookups candidate lists are built from.
type environment struct {
	getenv func(string) string
	home   string
}

// join returns filepath.Join(base, elem...) or "" if base is empty,
// so unset variables drop their candidate instead of producing a relative path.
func join(base string, elem ...string) string {
	if base == "" {
		return ""
	}
	return filepath.Join(append([]string{base}, elem...)...)
}

func envOr(env environment, key, fallback string) string {
	if v := env.getenv(key); v != "" {
		return v
	}
	return fallback
}

func installCandidates(f Family, env environment) []Candidate {
	switch f {
	case FamilyWindows:
		markers := []string{windowsExe}
		return []Candidate{
			{Path: join(envOr(env, "PROGRAMFILES", `C:\Program Files`), appDirName), Markers: markers},
			{Path: join(envOr(env, "PROGRAMFILES(X86)", `C:\Program Files (x86)`), appDirName), Markers: markers},
			{Path: join(env.getenv("LOCALAPPDATA"), "Programs", appDirName), Markers: markers},
		}
	case FamilyMac:
		markers := []string{filepath.Join("Contents", "Info.plist")}
		return []Candidate{
			{Path: filepath.Join("/Applications", macBundleName), Markers: markers},
			{Path: join(env.home, "Applications", macBundleName), Markers: markers},
		}
	default:
		markers := []string{"orca-slicer", filepath.Join("bin", "orca-slicer"), "AppRun"}
		return []Candidate{
			{Path: "/usr/bin/orca-slicer"},
			{Path: "/usr/bin/orcaslicer"},
			{Path: "/usr/local/bin/orcaslicer"},
			{Path: join(env.home, "Applications", appDirName), Markers: markers},
			{Path: filepath.Join("/opt", appDirName), Markers: markers},
		}
	}
}

func configCandidates(f Family, env environment) []string {
	switch f {
	case FamilyWindows:
		return []string{
			join(env.getenv("APPDATA"), appDirName),
			join(env.getenv("LOCALAPPDATA"), appDirName),
		}
	case FamilyMac:
		return []string{
			join(env.home, "Library", "Application Support", appDirName),
			join(env.home, ".config", appDirName),
		}
	default:
		return []string{
			join(envOr(env, "XDG_CONFIG_HOME", join(env.home, ".config")), appDirName),
			join(envOr(env, "XDG_DATA_HOME", join(env.home, ".local", "share")), appDirName),
			join(env.home, ".var", "app", flatpakID, "config", appDirName),
		}
	}
}
