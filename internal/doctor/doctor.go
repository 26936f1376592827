package doctor

import (
	"time"

	"github.com/juju/clock"
)

// Check is one diagnostic. Run never fails; problems are reported through
// the result's Status.
type Check interface {
	Name() string
	Category() string
	Run() *CheckResult
}

// Runner runs checks in the order they were added.
type Runner struct {
	clock  clock.Clock
	checks []Check
}

// NewRunner returns a Runner for checks. A nil clock means the wall clock.
func NewRunner(clk clock.Clock, checks ...Check) *Runner {
	if clk == nil {
		clk = clock.WallClock
	}
	return &Runner{clock: clk, checks: checks}
}

// AddCheck appends c to the run.
func (r *Runner) AddCheck(c Check) {
	r.checks = append(r.checks, c)
}

// Run executes every check once and tallies the results. A check that
// returns no result is recorded as an error under its own name.
func (r *Runner) Run() *DoctorReport {
	start := r.clock.Now()
	report := &DoctorReport{
		Timestamp: start.UTC(),
		Results:   make([]*CheckResult, 0, len(r.checks)),
	}

	for _, c := range r.checks {
		result := c.Run()
		if result == nil {
			result = &CheckResult{
				Name:     c.Name(),
				Category: c.Category(),
				Status:   SeverityError,
				Message:  "check produced no result",
			}
		}
		report.Results = append(report.Results, result)
		report.Summary.add(result.Status)
	}

	report.Duration = r.clock.Now().Sub(start)
	return report
}

// DoctorReport is the outcome of one Runner.Run.
type DoctorReport struct {
	Timestamp time.Time      `json:"timestamp"`
	Duration  time.Duration  `json:"duration_ns"`
	Results   []*CheckResult `json:"results"`
	Summary   Summary        `json:"summary"`
}

// HasErrors reports whether any check failed.
func (r *DoctorReport) HasErrors() bool {
	return r.Summary.Errors > 0
}

// HasWarnings reports whether any check warned.
func (r *DoctorReport) HasWarnings() bool {
	return r.Summary.Warnings > 0
}

// Worst returns the highest severity in the report, SeverityPass when empty.
func (r *DoctorReport) Worst() Severity {
	worst := SeverityPass
	for _, res := range r.Results {
		worst = max(worst, res.Status)
	}
	return worst
}

// Problems returns the warning and error results in run order.
func (r *DoctorReport) Problems() []*CheckResult {
	var out []*CheckResult
	for _, res := range r.Results {
		if res.Status >= SeverityWarning {
			out = append(out, res)
		}
	}
	return out
}
