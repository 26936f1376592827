package doctor

// ConfigFileCheck reports whether the orcabackup config file loaded.
type ConfigFileCheck struct {
	path    string
	loadErr error
}

var _ Check = (*ConfigFileCheck)(nil)

// NewConfigFileCheck wraps the outcome of loading the config file. path is
// empty when defaults are in use.
func NewConfigFileCheck(path string, loadErr error) *ConfigFileCheck {
	return &ConfigFileCheck{path: path, loadErr: loadErr}
}

// Name returns the unique identifier for this check.
func (c *ConfigFileCheck) Name() string {
	return "config-file"
}

// Category returns the grouping for this check.
func (c *ConfigFileCheck) Category() string {
	return "config"
}

// Run reports the load result.
func (c *ConfigFileCheck) Run() *CheckResult {
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
	}
	if c.path != "" {
		result.Details = map[string]any{"path": c.path}
	}

	switch {
	case c.loadErr != nil:
		result.Status = SeverityError
		result.Message = c.loadErr.Error()
		result.FixHint = "fix the file, or regenerate it with: orcabackup config init --force"
	case c.path == "":
		result.Status = SeverityInfo
		result.Message = "no config file; using defaults"
	default:
		result.Status = SeverityPass
		result.Message = "loaded " + c.path
	}
	return result
}
