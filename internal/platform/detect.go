package platform

// InstallStatus indicates the installation state of the slicer.
type InstallStatus string

const (
	// StatusInstalled indicates both the installation and the configuration directory were found.
	StatusInstalled InstallStatus = "installed"

	// StatusNotInstalled indicates neither was found.
	StatusNotInstalled InstallStatus = "not_installed"

	// StatusPartial indicates only one of them was found, typically a
	// configuration directory left behind by an uninstall or a portable build
	// the candidate list does not know about.
	StatusPartial InstallStatus = "partial"
)

// DetectionResult is a point-in-time view of what the resolver found.
type DetectionResult struct {
	// Family is the platform family that was searched.
	Family Family

	// InstallPath is the installation location, empty if not found.
	InstallPath string

	// ConfigDir is the configuration directory, empty if not found.
	ConfigDir string

	// Status summarizes the two lookups.
	Status InstallStatus
}

// Detect resolves both locations and classifies the result.
func (r *Resolver) Detect() DetectionResult {
	install, installOK := r.ResolveInstallation()
	config, configOK := r.ResolveConfigDirectory()

	status := StatusNotInstalled
	switch {
	case installOK && configOK:
		status = StatusInstalled
	case installOK || configOK:
		status = StatusPartial
	}

	return DetectionResult{
		Family:      r.family,
		InstallPath: install,
		ConfigDir:   config,
		Status:      status,
	}
}
