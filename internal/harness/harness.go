package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime/debug"

	"github.com/google/uuid"
)

// CaseSpec is a named test case body.
type CaseSpec struct {
	Name string
	Run  func(c *Case)
}

// Suite is an ordered group of cases.
type Suite struct {
	Name        string
	Description string
	Cases       []CaseSpec
}

// Runner executes suites and collects a Report.
type Runner struct {
	logger  *slog.Logger
	metrics *Metrics
	filter  string
	runID   string
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the runner's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithMetrics records case and check counters into m.
func WithMetrics(m *Metrics) Option {
	return func(r *Runner) {
		r.metrics = m
	}
}

// WithFilter restricts the run to cases whose suite name or "suite/case" ID
// matches the glob pattern.
func WithFilter(pattern string) Option {
	return func(r *Runner) {
		r.filter = pattern
	}
}

// WithRunID overrides the generated run identifier.
func WithRunID(id string) Option {
	return func(r *Runner) {
		r.runID = id
	}
}

// NewRunner creates a Runner. By default it logs nowhere and tags the run
// with a random UUID.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.runID == "" {
		r.runID = uuid.NewString()
	}
	return r
}

// RunID returns the identifier stamped on reports.
func (r *Runner) RunID() string { return r.runID }

// Run executes every selected case of suites in order.
//
// Cases are isolated: a panic escaping a case body is recorded as a failure
// of that case and the run continues. Cancellation is checked between cases;
// on cancellation the partial report is returned with ctx.Err().
func (r *Runner) Run(ctx context.Context, suites ...Suite) (*Report, error) {
	if r.filter != "" {
		if _, err := filepath.Match(r.filter, ""); err != nil {
			return nil, fmt.Errorf("invalid suite filter %q: %w", r.filter, err)
		}
	}

	report := NewReport(r.runID)
	r.logger.Info("run started", "run_id", r.runID, "suites", len(suites))

	for _, s := range suites {
		for _, spec := range s.Cases {
			if !r.selected(s.Name, spec.Name) {
				continue
			}
			if err := ctx.Err(); err != nil {
				r.logger.Warn("run cancelled", "run_id", r.runID, "completed", report.Total)
				report.Interrupted = true
				return report, err
			}

			res := r.runCase(s.Name, spec)
			report.Add(res)
			if r.metrics != nil {
				r.metrics.observe(res)
			}
			r.logger.Debug("case finished",
				"case", res.ID(),
				"pass", res.Pass,
				"checks", res.Checks,
				"failures", len(res.Failures),
				"findings", len(res.Findings),
			)
		}
	}

	r.logger.Info("run finished",
		"run_id", r.runID,
		"passed", report.Passed,
		"failed", report.Failed,
		"checks", report.Checks,
	)
	return report, nil
}

func (r *Runner) selected(suite, name string) bool {
	if r.filter == "" {
		return true
	}
	if ok, _ := filepath.Match(r.filter, suite); ok {
		return true
	}
	ok, _ := filepath.Match(r.filter, suite+"/"+name)
	return ok
}

func (r *Runner) runCase(suite string, spec CaseSpec) CaseResult {
	c := newCase(suite, spec.Name, r.logger)
	func() {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if _, ok := rec.(abort); ok {
				return
			}
			c.logger.Debug("case panicked", "panic", rec, "stack", string(debug.Stack()))
			c.Fail(Failure{Message: fmt.Sprintf("unexpected failure signal: %v", rec)})
		}()
		spec.Run(c)
	}()
	return c.result()
}
