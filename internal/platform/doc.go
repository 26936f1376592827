// Package platform locates the OrcaSlicer installation and configuration
// directory on the host.
//
// Operating systems are grouped into a closed set of families
// ([FamilyWindows], [FamilyMac], [FamilyUnix]). Each family has an ordered
// list of candidate locations built from conventional environment variables
// and well-known sub-paths:
//
//	| Family  | Configuration candidates                                        |
//	|---------|-----------------------------------------------------------------|
//	| Windows | %APPDATA%\OrcaSlicer, %LOCALAPPDATA%\OrcaSlicer                  |
//	| Mac     | ~/Library/Application Support/OrcaSlicer, ~/.config/OrcaSlicer   |
//	| Unix    | $XDG_CONFIG_HOME/OrcaSlicer, $XDG_DATA_HOME/OrcaSlicer, Flatpak  |
//
// A [Resolver] returns the first candidate present on disk. Nothing is cached:
// the slicer can be installed, removed, or run for the first time between two
// calls. Absence is reported as a false second return value, not an error.
//
//	r := platform.NewResolver(platform.Host())
//	if dir, ok := r.ResolveConfigDirectory(); ok {
//	    fmt.Println("configuration at", dir)
//	}
package platform
