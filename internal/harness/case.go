package harness

import (
	"fmt"
	"log/slog"

	"github.com/roach88/matverify/internal/faults"
	"github.com/roach88/matverify/internal/matrix"
)

// abort is the sentinel panic value used by aborting assertions. The runner
// and Step recover it; any other panic value propagates.
type abort struct{}

// Case records the outcome of one test case.
//
// Errorf and Expect record a failure and continue. Fatalf and Require record
// a failure and stop the innermost Step, or the whole case when called
// outside any Step.
type Case struct {
	suite  string
	name   string
	logger *slog.Logger

	step     string
	checks   int
	failures []Failure
	findings []Finding
	triggers triggerTally
}

func newCase(suite, name string, logger *slog.Logger) *Case {
	return &Case{
		suite:    suite,
		name:     name,
		logger:   logger.With("case", suite+"/"+name),
		triggers: make(triggerTally),
	}
}

// Name returns the case name.
func (c *Case) Name() string { return c.name }

// Logger returns a logger scoped to the case.
func (c *Case) Logger() *slog.Logger { return c.logger }

// Failed reports whether any failure has been recorded.
func (c *Case) Failed() bool { return len(c.failures) > 0 }

// Checks returns the number of checks performed so far.
func (c *Case) Checks() int { return c.checks }

// Fail records f without stopping the case.
func (c *Case) Fail(f Failure) {
	if f.Step == "" {
		f.Step = c.step
	}
	c.failures = append(c.failures, f)
	c.logger.Debug("check failed", "failure", f.String())
}

// Errorf records a formatted failure without stopping the case.
func (c *Case) Errorf(format string, args ...any) {
	c.Fail(Failure{Message: fmt.Sprintf(format, args...)})
}

// FailNow records f and aborts the current Step or case.
func (c *Case) FailNow(f Failure) {
	c.Fail(f)
	panic(abort{})
}

// Fatalf records a formatted failure and aborts the current Step or case.
func (c *Case) Fatalf(format string, args ...any) {
	c.FailNow(Failure{Message: fmt.Sprintf(format, args...)})
}

// Assertf counts a check and aborts with the formatted message unless cond
// holds.
func (c *Case) Assertf(cond bool, format string, args ...any) {
	c.checks++
	if !cond {
		c.Fatalf(format, args...)
	}
}

// Note records a finding. Findings never fail the case.
func (c *Case) Note(f Finding) {
	if f.Kind == "" {
		f.Kind = FindingNonConformance
	}
	if f.Step == "" {
		f.Step = c.step
	}
	c.findings = append(c.findings, f)
	c.logger.Info("finding", "kind", f.Kind, "detail", f.Detail)
}

// Step runs fn as a labeled sub-case. An aborting assertion inside fn ends
// only fn; the enclosing case continues with the next statement.
func (c *Case) Step(label string, fn func()) {
	prev := c.step
	if prev != "" {
		c.step = prev + "/" + label
	} else {
		c.step = label
	}
	defer func() {
		c.step = prev
		if r := recover(); r != nil {
			if _, ok := r.(abort); !ok {
				panic(r)
			}
		}
	}()
	fn()
}

// Comparison describes one product check.
type Comparison struct {
	Message  string
	A, B     matrix.Matrix
	Dims     *matrix.Dims
	Expected matrix.Matrix
	Actual   matrix.Matrix
	Seed     *uint32
	Trial    *int
}

// Expect compares Actual against Expected, attributing catalog triggers to
// the operands and the expected product. A mismatch is recorded and the case
// continues. Expect reports whether the matrices matched.
func (c *Case) Expect(cmp Comparison) bool {
	c.checks++
	pass := cmp.Expected.Equal(cmp.Actual)
	triggers := faults.Attribute(faults.Operands{A: cmp.A, B: cmp.B, C: cmp.Expected})
	c.triggers.record(triggers, !pass)
	if pass {
		return true
	}

	msg := cmp.Message
	if msg == "" {
		msg = "product mismatch"
	}
	c.Fail(Failure{
		Message:  msg,
		Dims:     cmp.Dims,
		A:        cmp.A,
		B:        cmp.B,
		Expected: cmp.Expected,
		Actual:   cmp.Actual,
		Seed:     cmp.Seed,
		Trial:    cmp.Trial,
		Triggers: triggers,
	})
	return false
}

// Require is Expect, aborting the current Step or case on mismatch.
func (c *Case) Require(cmp Comparison) {
	if !c.Expect(cmp) {
		panic(abort{})
	}
}

func (c *Case) result() CaseResult {
	return CaseResult{
		Suite:    c.suite,
		Name:     c.name,
		Pass:     len(c.failures) == 0,
		Checks:   c.checks,
		Failures: c.failures,
		Findings: c.findings,
		Triggers: c.triggers.sorted(),
	}
}
