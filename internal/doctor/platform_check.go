package doctor

import (
	"github.com/thoreinstein/orcabackup/internal/platform"
)

// Detector reports where the slicer and its configuration were found.
// *platform.Resolver satisfies it.
type Detector interface {
	Detect() platform.DetectionResult
}

// InstallationCheck verifies the slicer installation was found.
type InstallationCheck struct {
	detector Detector
}

// Ensure InstallationCheck implements Check interface.
var _ Check = (*InstallationCheck)(nil)

// NewInstallationCheck creates a new installation detection check.
func NewInstallationCheck(d Detector) *InstallationCheck {
	return &InstallationCheck{detector: d}
}

// Name returns the unique identifier for this check.
func (c *InstallationCheck) Name() string {
	return "installation"
}

// Category returns the grouping for this check.
func (c *InstallationCheck) Category() string {
	return "platform"
}

// Run executes the detection and classifies the result. A missing
// installation alone is informational: exports only need the
// configuration directory.
func (c *InstallationCheck) Run() *CheckResult {
	r := c.detector.Detect()

	details := map[string]any{
		"family":       r.Family.String(),
		"status":       string(r.Status),
		"install_path": r.InstallPath,
		"config_dir":   r.ConfigDir,
	}

	switch r.Status {
	case platform.StatusInstalled:
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityPass,
			Message:  "OrcaSlicer installed at " + r.InstallPath,
			Details:  details,
		}
	case platform.StatusPartial:
		if r.InstallPath == "" {
			return &CheckResult{
				Name:     c.Name(),
				Category: c.Category(),
				Status:   SeverityInfo,
				Message:  "configuration found but no installation; archives will record install_path as unknown",
				Details:  details,
				FixHint:  "set install_dir for portable or non-standard installs",
			}
		}
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityWarning,
			Message:  "OrcaSlicer installed but has no configuration directory yet",
			Details:  details,
			FixHint:  "start OrcaSlicer once so it creates its configuration",
		}
	default:
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityWarning,
			Message:  "OrcaSlicer not found",
			Details:  details,
			FixHint:  "install OrcaSlicer, or set config_dir and install_dir for portable installs",
		}
	}
}
