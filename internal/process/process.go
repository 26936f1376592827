// Package process detects whether OrcaSlicer is running. Restoring while the
// slicer is open lets it overwrite the restored files on exit, so callers
// check before importing. The result is advisory only.
package process

import (
	"context"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/juju/clock"
	"github.com/shirou/gopsutil/v3/process"
)

// Defaults for WaitForShutdown.
const (
	DefaultWaitTimeout  = 20 * time.Second
	DefaultPollInterval = 2 * time.Second
)

// DefaultNames are the process name fragments that identify the slicer.
var DefaultNames = []string{"orcaslicer", "orca-slicer"}

// Detector reports whether the slicer is currently running.
type Detector interface {
	Running(ctx context.Context) (bool, error)
}

// Lister returns the running processes. It exists so the matching logic can
// be tested without a live process table.
type Lister func(ctx context.Context) ([]Info, error)

// Info is the part of a process the detector looks at.
type Info struct {
	Name string
	Exe  string
}

// SystemDetector matches running processes by name or executable path.
type SystemDetector struct {
	names []string
	list  Lister
}

// NewDetector returns a Detector matching case-insensitive substrings of the
// process name or executable path. No names means DefaultNames.
func NewDetector(names ...string) *SystemDetector {
	return newDetector(listProcesses, names...)
}

func newDetector(list Lister, names ...string) *SystemDetector {
	if len(names) == 0 {
		names = DefaultNames
	}
	lower := make([]string, 0, len(names))
	for _, n := range names {
		if n != "" {
			lower = append(lower, strings.ToLower(n))
		}
	}
	return &SystemDetector{names: lower, list: list}
}

// Running reports whether any process matches.
func (d *SystemDetector) Running(ctx context.Context) (bool, error) {
	procs, err := d.list(ctx)
	if err != nil {
		return false, errors.Wrap(err, "listing processes")
	}
	for _, p := range procs {
		if d.matches(p) {
			return true, nil
		}
	}
	return false, nil
}

func (d *SystemDetector) matches(p Info) bool {
	name := strings.ToLower(p.Name)
	exe := strings.ToLower(p.Exe)
	for _, n := range d.names {
		if strings.Contains(name, n) || (exe != "" && strings.Contains(exe, n)) {
			return true
		}
	}
	return false
}

// listProcesses reads the process table. Processes that vanish or deny
// access while being inspected are skipped.
func listProcesses(ctx context.Context) ([]Info, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Info, 0, len(procs))
	for _, p := range procs {
		name, err := p.NameWithContext(ctx)
		if err != nil {
			continue
		}
		// Exe commonly fails for other users' processes; the name is enough.
		exe, _ := p.ExeWithContext(ctx)
		out = append(out, Info{Name: name, Exe: exe})
	}
	return out, nil
}

// ShutdownResult reports the outcome of WaitForShutdown.
type ShutdownResult struct {
	// Shutdown is true when the slicer was observed not running.
	Shutdown bool

	// Waited is how long the wait lasted.
	Waited time.Duration

	// Checks is the number of checks that found the slicer running.
	Checks int
}

// WaitForShutdown polls d every interval until it reports the slicer is not
// running or maxWait has elapsed. A detector error counts as not running.
// Non-positive durations fall back to the defaults.
func WaitForShutdown(ctx context.Context, d Detector, clk clock.Clock, maxWait, interval time.Duration) ShutdownResult {
	if maxWait <= 0 {
		maxWait = DefaultWaitTimeout
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if clk == nil {
		clk = clock.WallClock
	}

	start := clk.Now()
	checks := 0
	for clk.Now().Sub(start) < maxWait {
		running, err := d.Running(ctx)
		if err != nil || !running {
			return ShutdownResult{Shutdown: true, Waited: clk.Now().Sub(start), Checks: checks}
		}
		checks++

		select {
		case <-ctx.Done():
			return ShutdownResult{Waited: clk.Now().Sub(start), Checks: checks}
		case <-clk.After(interval):
		}
	}
	return ShutdownResult{Waited: clk.Now().Sub(start), Checks: checks}
}
