package platform

import "runtime"

// Family is the operating system family used to pick candidate paths.
type Family int

const (
	// FamilyUnix covers Linux, the BSDs and other Unix-like systems.
	FamilyUnix Family = iota
	// FamilyMac covers macOS.
	FamilyMac
	// FamilyWindows covers Windows.
	FamilyWindows
)

// String returns the family name.
func (f Family) String() string {
	switch f {
	case FamilyWindows:
		return "windows"
	case FamilyMac:
		return "mac"
	default:
		return "unix"
	}
}

// FamilyFor maps a runtime.GOOS value to its family.
// Anything that is neither windows nor darwin is treated as Unix-like.
func FamilyFor(goos string) Family {
	switch goos {
	case "windows":
		return FamilyWindows
	case "darwin", "ios":
		return FamilyMac
	default:
		return FamilyUnix
	}
}

// Host returns the family of the running system.
func Host() Family {
	return FamilyFor(runtime.GOOS)
}
