package doctor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/thoreinstein/orcabackup/internal/archive"
	"github.com/thoreinstein/orcabackup/internal/process"
)

// ConfigResolver locates the slicer configuration directory.
// *platform.Resolver satisfies it.
type ConfigResolver interface {
	ResolveConfigDirectory() (string, bool)
}

// ConfigDirCheck verifies the configuration directory exists and every file
// in it can be read, which is what an export needs.
type ConfigDirCheck struct {
	resolver ConfigResolver
	excluder archive.Excluder
}

var _ Check = (*ConfigDirCheck)(nil)

// NewConfigDirCheck creates a new configuration directory check.
func NewConfigDirCheck(r ConfigResolver, ex archive.Excluder) *ConfigDirCheck {
	return &ConfigDirCheck{resolver: r, excluder: ex}
}

// Name returns the unique identifier for this check.
func (c *ConfigDirCheck) Name() string {
	return "config-directory"
}

// Category returns the grouping for this check.
func (c *ConfigDirCheck) Category() string {
	return "filesystem"
}

// Run walks the configuration directory the same way an export does.
func (c *ConfigDirCheck) Run() *CheckResult {
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Details:  make(map[string]any),
	}

	dir, ok := c.resolver.ResolveConfigDirectory()
	if !ok {
		result.Status = SeverityError
		result.Message = "OrcaSlicer configuration directory not found"
		result.FixHint = "start OrcaSlicer once, or set config_dir in the orcabackup config"
		return result
	}
	result.Details["path"] = dir

	var files int
	var size int64
	var unreadable []string
	err := c.excluder.Walk(dir, func(path, rel string, err error) error {
		if err != nil {
			unreadable = append(unreadable, rel)
			return nil
		}
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			unreadable = append(unreadable, rel)
			return nil
		}
		f, err := os.Open(path)
		if err != nil {
			unreadable = append(unreadable, rel)
			return nil
		}
		f.Close()
		files++
		size += info.Size()
		return nil
	})
	if err != nil {
		result.Status = SeverityError
		result.Message = fmt.Sprintf("cannot read configuration directory: %v", err)
		return result
	}

	result.Details["files"] = files
	result.Details["size"] = size

	switch {
	case len(unreadable) > 0:
		sort.Strings(unreadable)
		result.Status = SeverityWarning
		result.Message = fmt.Sprintf("%d file(s) cannot be read and would be skipped by an export", len(unreadable))
		result.Details["unreadable"] = unreadable
		result.Fixable = true
		result.FixHint = "chmod -R u+r " + dir
	case files == 0:
		result.Status = SeverityWarning
		result.Message = "configuration directory has nothing to export: " + dir
	default:
		result.Status = SeverityPass
		result.Message = fmt.Sprintf("%d files (%s) in %s", files, humanize.Bytes(uint64(size)), dir)
	}
	return result
}

// WritableDirCheck verifies a directory the tool writes into can be written.
// A missing directory is fine when one of its ancestors is writable, since
// it will be created on demand.
type WritableDirCheck struct {
	name    string
	purpose string
	path    string
}

var _ Check = (*WritableDirCheck)(nil)

// NewArchiveDirCheck checks the directory exports are written to by default.
func NewArchiveDirCheck(dir string) *WritableDirCheck {
	return &WritableDirCheck{name: "archive-directory", purpose: "archive directory", path: dir}
}

// NewSafetyBackupDirCheck checks the directory that receives the safety
// backup taken before an import, the parent of the configuration directory.
func NewSafetyBackupDirCheck(r ConfigResolver) *WritableDirCheck {
	var dir string
	if configDir, ok := r.ResolveConfigDirectory(); ok {
		dir = filepath.Dir(configDir)
	}
	return &WritableDirCheck{name: "safety-backup-directory", purpose: "safety backup directory", path: dir}
}

// Name returns the unique identifier for this check.
func (c *WritableDirCheck) Name() string {
	return c.name
}

// Category returns the grouping for this check.
func (c *WritableDirCheck) Category() string {
	return "filesystem"
}

// Run executes the writability check.
func (c *WritableDirCheck) Run() *CheckResult {
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Details:  map[string]any{"path": c.path},
	}

	if c.path == "" {
		result.Status = SeverityInfo
		result.Message = c.purpose + " unknown until a configuration directory is found"
		return result
	}

	info, err := os.Stat(c.path)
	if os.IsNotExist(err) {
		parent := existingAncestor(c.path)
		if parent != "" && isDirectoryWritable(parent) {
			result.Status = SeverityInfo
			result.Message = c.purpose + " will be created: " + c.path
			return result
		}
		result.Status = SeverityError
		result.Message = c.purpose + " does not exist and cannot be created: " + c.path
		return result
	}
	if err != nil {
		result.Status = SeverityError
		result.Message = fmt.Sprintf("cannot stat %s: %v", c.purpose, err)
		return result
	}
	if !info.IsDir() {
		result.Status = SeverityError
		result.Message = "expected directory but found file: " + c.path
		return result
	}

	result.Details["permissions"] = formatPermissions(info.Mode())

	if !isDirectoryWritable(c.path) {
		result.Status = SeverityError
		result.Message = c.purpose + " is not writable: " + c.path
		result.Fixable = true
		result.FixHint = "chmod u+w " + c.path
		return result
	}

	// Skip on Windows where Unix permissions don't apply
	if runtime.GOOS != "windows" && info.Mode().Perm()&0002 != 0 {
		result.Status = SeverityWarning
		result.Message = c.purpose + " is world-writable (security risk)"
		result.Fixable = true
		result.FixHint = "chmod o-w " + c.path
		return result
	}

	result.Status = SeverityPass
	result.Message = c.purpose + " is writable: " + c.path
	return result
}

// ArchivesCheck validates every archive found in the archive directory.
type ArchivesCheck struct {
	dir string
}

var _ Check = (*ArchivesCheck)(nil)

// NewArchivesCheck creates a new archive validation check.
func NewArchivesCheck(dir string) *ArchivesCheck {
	return &ArchivesCheck{dir: dir}
}

// Name returns the unique identifier for this check.
func (c *ArchivesCheck) Name() string {
	return "archives"
}

// Category returns the grouping for this check.
func (c *ArchivesCheck) Category() string {
	return "archive"
}

// Run validates each .zip file in the directory.
func (c *ArchivesCheck) Run() *CheckResult {
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Details:  map[string]any{"path": c.dir},
	}

	entries, err := os.ReadDir(c.dir)
	if os.IsNotExist(err) {
		result.Status = SeverityInfo
		result.Message = "no archives yet"
		return result
	}
	if err != nil {
		result.Status = SeverityError
		result.Message = fmt.Sprintf("cannot read archive directory: %v", err)
		return result
	}

	var checked int
	invalid := make(map[string]string)
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".zip") {
			continue
		}
		checked++
		if err := archive.Validate(filepath.Join(c.dir, e.Name())); err != nil {
			invalid[e.Name()] = err.Error()
		}
	}

	result.Details["checked"] = checked

	switch {
	case checked == 0:
		result.Status = SeverityInfo
		result.Message = "no archives yet"
	case len(invalid) > 0:
		result.Status = SeverityWarning
		result.Message = fmt.Sprintf("%d of %d archive(s) are not valid backups", len(invalid), checked)
		result.Details["invalid"] = invalid
		result.FixHint = "remove or re-create the invalid archives"
	default:
		result.Status = SeverityPass
		result.Message = fmt.Sprintf("all %d archive(s) are valid", checked)
	}
	return result
}

// ProcessCheck reports whether the slicer is running. An import would have
// to wait for it to exit.
type ProcessCheck struct {
	ctx      context.Context
	detector process.Detector
}

var _ Check = (*ProcessCheck)(nil)

// NewProcessCheck creates a new running-process check.
func NewProcessCheck(ctx context.Context, d process.Detector) *ProcessCheck {
	return &ProcessCheck{ctx: ctx, detector: d}
}

// Name returns the unique identifier for this check.
func (c *ProcessCheck) Name() string {
	return "process"
}

// Category returns the grouping for this check.
func (c *ProcessCheck) Category() string {
	return "process"
}

// Run queries the process table once.
func (c *ProcessCheck) Run() *CheckResult {
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
	}

	running, err := c.detector.Running(c.ctx)
	switch {
	case err != nil:
		result.Status = SeverityInfo
		result.Message = fmt.Sprintf("cannot list processes: %v", err)
	case running:
		result.Status = SeverityWarning
		result.Message = "OrcaSlicer is running; imports will wait for it to exit"
		result.FixHint = "close OrcaSlicer before importing"
	default:
		result.Status = SeverityPass
		result.Message = "OrcaSlicer is not running"
	}
	return result
}

// existingAncestor returns the closest existing directory above path.
func existingAncestor(path string) string {
	for dir := filepath.Dir(path); ; dir = filepath.Dir(dir) {
		if info, err := os.Stat(dir); err == nil {
			if info.IsDir() {
				return dir
			}
			return ""
		}
		if parent := filepath.Dir(dir); parent == dir {
			return ""
		}
	}
}

// isDirectoryWritable tests if a directory is writable by creating a temp file.
func isDirectoryWritable(path string) bool {
	tmpFile, err := os.CreateTemp(path, ".orcabackup-doctor-*")
	if err != nil {
		return false
	}

	// Clean up the test file
	tmpPath := tmpFile.Name()
	tmpFile.Close()
	os.Remove(tmpPath)

	return true
}

// formatPermissions returns a human-readable permission string (e.g., "0644").
func formatPermissions(mode os.FileMode) string {
	return fmt.Sprintf("%04o", mode.Perm())
}
