package platform

import (
	"os"
	"path/filepath"
)

// Resolver locates the slicer installation and configuration directory for one
// platform family. It checks the filesystem again on every call.
type Resolver struct {
	family          Family
	getenv          func(string) string
	homeDir         func() (string, error)
	configOverride  string
	installOverride string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithEnv sets the environment lookup. Defaults to os.Getenv.
func WithEnv(getenv func(string) string) Option {
	return func(r *Resolver) {
		if getenv != nil {
			r.getenv = getenv
		}
	}
}

// WithHomeDir sets the home directory lookup. Defaults to os.UserHomeDir.
func WithHomeDir(home func() (string, error)) Option {
	return func(r *Resolver) {
		if home != nil {
			r.homeDir = home
		}
	}
}

// WithConfigDirOverride replaces the family's configuration candidates with
// dir. The family defaults are never consulted while an override is set, even
// when dir does not exist yet.
func WithConfigDirOverride(dir string) Option {
	return func(r *Resolver) {
		r.configOverride = dir
	}
}

// WithInstallDirOverride puts dir ahead of the family's installation candidates.
// An override is accepted when it exists; no marker is required.
func WithInstallDirOverride(dir string) Option {
	return func(r *Resolver) {
		r.installOverride = dir
	}
}

// NewResolver creates a Resolver for the given family.
func NewResolver(family Family, opts ...Option) *Resolver {
	r := &Resolver{
		family:  family,
		getenv:  os.Getenv,
		homeDir: os.UserHomeDir,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Family returns the family the resolver was built for.
func (r *Resolver) Family() Family {
	return r.family
}

func (r *Resolver) env() environment {
	home, err := r.homeDir()
	if err != nil {
		home = ""
	}
	return environment{getenv: r.getenv, home: home}
}

// InstallCandidates returns the ordered installation candidates.
func (r *Resolver) InstallCandidates() []Candidate {
	var out []Candidate
	if r.installOverride != "" {
		out = append(out, Candidate{Path: r.installOverride})
	}
	for _, c := range installCandidates(r.family, r.env()) {
		if c.Path != "" {
			out = append(out, c)
		}
	}
	return out
}

// ConfigCandidates returns the ordered configuration directory candidates.
// With an override set it is the only candidate.
func (r *Resolver) ConfigCandidates() []string {
	if r.configOverride != "" {
		return []string{r.configOverride}
	}
	var out []string
	for _, c := range configCandidates(r.family, r.env()) {
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}

// ResolveInstallation returns the first installation candidate that exists and
// carries one of its markers.
func (r *Resolver) ResolveInstallation() (string, bool) {
	for i, c := range r.InstallCandidates() {
		if i == 0 && r.installOverride != "" {
			if exists(c.Path) {
				return c.Path, true
			}
			continue
		}
		if matches(c) {
			return c.Path, true
		}
	}
	return "", false
}

// ResolveConfigDirectory returns the first configuration candidate that is an
// existing directory.
func (r *Resolver) ResolveConfigDirectory() (string, bool) {
	for _, dir := range r.ConfigCandidates() {
		if isDir(dir) {
			return dir, true
		}
	}
	return "", false
}

// DefaultConfigDirectory returns where the configuration directory would be
// created: the first candidate, whether or not it exists. Returns "" when no
// candidate can be built (no home directory and no environment).
func (r *Resolver) DefaultConfigDirectory() string {
	candidates := r.ConfigCandidates()
	if len(candidates) == 0 {
		return ""
	}
	return candidates[0]
}

func matches(c Candidate) bool {
	info, err := os.Stat(c.Path)
	if err != nil {
		return false
	}
	if len(c.Markers) == 0 {
		return info.Mode().IsRegular()
	}
	if !info.IsDir() {
		return false
	}
	for _, m := range c.Markers {
		if exists(filepath.Join(c.Path, m)) {
			return true
		}
	}
	return false
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
