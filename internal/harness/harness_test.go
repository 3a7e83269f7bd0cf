package harness

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/matverify/internal/faults"
	"github.com/roach88/matverify/internal/matrix"
)

func runOne(t *testing.T, body func(c *Case)) CaseResult {
	t.Helper()
	report, err := NewRunner(WithRunID("test")).Run(context.Background(), Suite{
		Name:  "unit",
		Cases: []CaseSpec{{Name: "case", Run: body}},
	})
	require.NoError(t, err)
	require.Len(t, report.Cases, 1)
	return report.Cases[0]
}

func TestCase_ErrorfContinues(t *testing.T) {
	reached := false
	res := runOne(t, func(c *Case) {
		c.Errorf("first %d", 1)
		c.Errorf("second")
		reached = true
	})

	assert.True(t, reached)
	assert.False(t, res.Pass)
	require.Len(t, res.Failures, 2)
	assert.Equal(t, "first 1", res.Failures[0].Message)
	assert.Equal(t, "second", res.Failures[1].Message)
}

func TestCase_FatalfAbortsCase(t *testing.T) {
	reached := false
	res := runOne(t, func(c *Case) {
		c.Fatalf("stop")
		reached = true
	})

	assert.False(t, reached)
	assert.False(t, res.Pass)
	require.Len(t, res.Failures, 1)
}

func TestCase_StepScopesAbort(t *testing.T) {
	var ran []int
	res := runOne(t, func(c *Case) {
		for i := 0; i < 4; i++ {
			c.Step("i", func() {
				if i%2 == 1 {
					c.Fatalf("odd %d", i)
				}
				ran = append(ran, i)
			})
		}
	})

	assert.Equal(t, []int{0, 2}, ran)
	require.Len(t, res.Failures, 2)
	assert.Equal(t, "i", res.Failures[0].Step)
	assert.Equal(t, "odd 1", res.Failures[0].Message)
	assert.Equal(t, "odd 3", res.Failures[1].Message)
}

func TestCase_NestedStepLabels(t *testing.T) {
	res := runOne(t, func(c *Case) {
		c.Step("outer", func() {
			c.Step("inner", func() {
				c.Errorf("boom")
			})
			c.Errorf("after")
		})
		c.Errorf("top")
	})

	require.Len(t, res.Failures, 3)
	assert.Equal(t, "outer/inner", res.Failures[0].Step)
	assert.Equal(t, "outer", res.Failures[1].Step)
	assert.Equal(t, "", res.Failures[2].Step)
}

func TestCase_StepRepanicsForeignPanics(t *testing.T) {
	res := runOne(t, func(c *Case) {
		c.Step("s", func() { panic("index out of range") })
		c.Errorf("unreachable")
	})

	require.Len(t, res.Failures, 1)
	assert.Contains(t, res.Failures[0].Message, "unexpected failure signal")
	assert.Contains(t, res.Failures[0].Message, "index out of range")
}

func TestCase_ExpectAttributesTriggers(t *testing.T) {
	a := matrix.Matrix{{7}}
	b := matrix.Matrix{{1}}
	res := runOne(t, func(c *Case) {
		ok := c.Expect(Comparison{A: a, B: b, Expected: matrix.Matrix{{7}}, Actual: matrix.Matrix{{9}}})
		assert.False(t, ok)
		ok = c.Expect(Comparison{A: b, B: b, Expected: matrix.Matrix{{1}}, Actual: matrix.Matrix{{1}}})
		assert.True(t, ok)
	})

	assert.Equal(t, 2, res.Checks)
	require.Len(t, res.Failures, 1)
	f := res.Failures[0]
	assert.Equal(t, "product mismatch", f.Message)
	assert.Equal(t, faults.Attribute(faults.Operands{A: a, B: b, C: matrix.Matrix{{7}}}), f.Triggers)
	assert.Contains(t, f.Triggers, faults.Code(2))

	stats := make(map[faults.Code]TriggerStat)
	for _, st := range res.Triggers {
		stats[st.Code] = st
	}
	assert.Equal(t, 1, stats[2].Present)
	assert.Equal(t, 1, stats[2].Failed)
	// Both checks have square, odd-width A.
	assert.Equal(t, 2, stats[18].Present)
	assert.Equal(t, 1, stats[18].Failed)
}

func TestCase_RequireAborts(t *testing.T) {
	reached := false
	res := runOne(t, func(c *Case) {
		c.Require(Comparison{Expected: matrix.Matrix{{1}}, Actual: matrix.Matrix{{2}}})
		reached = true
	})
	assert.False(t, reached)
	assert.Len(t, res.Failures, 1)
}

func TestCase_AssertfCountsChecks(t *testing.T) {
	res := runOne(t, func(c *Case) {
		c.Assertf(true, "fine")
		c.Assertf(true, "fine")
	})
	assert.True(t, res.Pass)
	assert.Equal(t, 2, res.Checks)
}

func TestCase_NoteDoesNotFail(t *testing.T) {
	res := runOne(t, func(c *Case) {
		c.Step("rowsA=3", func() {
			c.Note(Finding{Detail: "no failure signal"})
		})
	})

	assert.True(t, res.Pass)
	require.Len(t, res.Findings, 1)
	assert.Equal(t, FindingNonConformance, res.Findings[0].Kind)
	assert.Equal(t, "rowsA=3", res.Findings[0].Step)
}

func TestProbe(t *testing.T) {
	sig := Probe(func() {})
	assert.False(t, sig.Raised)

	sig = Probe(func() { panic("bad sizes") })
	assert.True(t, sig.Raised)
	assert.Equal(t, "bad sizes", sig.Value)

	sig = Probe(func() {
		var m matrix.Matrix
		_ = m[3][0]
	})
	assert.True(t, sig.Raised)
	assert.Contains(t, sig.Value, "index out of range")
}

func TestRunner_ContinuesAfterPanickingCase(t *testing.T) {
	report, err := NewRunner().Run(context.Background(), Suite{
		Name: "s",
		Cases: []CaseSpec{
			{Name: "boom", Run: func(c *Case) { panic("kaboom") }},
			{Name: "fine", Run: func(c *Case) { c.Assertf(true, "") }},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 1, report.Passed)
	assert.Equal(t, 1, report.Failed)
	assert.False(t, report.Pass())
	fine, ok := report.Case("s", "fine")
	require.True(t, ok)
	assert.True(t, fine.Pass)
}

func TestRunner_Filter(t *testing.T) {
	noop := func(c *Case) {}
	suites := []Suite{
		{Name: "algebraic", Cases: []CaseSpec{{Name: "ZeroMatrices", Run: noop}, {Name: "OddOdd", Run: noop}}},
		{Name: "fuzz", Cases: []CaseSpec{{Name: "RandomProducts", Run: noop}}},
	}

	tests := []struct {
		pattern string
		want    []string
	}{
		{"", []string{"algebraic/ZeroMatrices", "algebraic/OddOdd", "fuzz/RandomProducts"}},
		{"algebraic", []string{"algebraic/ZeroMatrices", "algebraic/OddOdd"}},
		{"algebraic/Odd*", []string{"algebraic/OddOdd"}},
		{"*/RandomProducts", []string{"fuzz/RandomProducts"}},
		{"nothing", nil},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			report, err := NewRunner(WithFilter(tt.pattern)).Run(context.Background(), suites...)
			require.NoError(t, err)
			var got []string
			for _, c := range report.Cases {
				got = append(got, c.ID())
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRunner_InvalidFilter(t *testing.T) {
	_, err := NewRunner(WithFilter("[")).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid suite filter")
}

func TestRunner_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	report, err := NewRunner().Run(ctx, Suite{
		Name: "s",
		Cases: []CaseSpec{
			{Name: "first", Run: func(c *Case) { cancel() }},
			{Name: "second", Run: func(c *Case) {}},
		},
	})

	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, report)
	assert.Equal(t, 1, report.Total)
	assert.True(t, report.Interrupted)
	assert.False(t, report.Pass(), "an interrupted run never passes")
}

func TestWriteText_Interrupted(t *testing.T) {
	r := NewReport("run-x")
	r.Add(CaseResult{Suite: "algebraic", Name: "ZeroMatrices", Pass: true, Checks: 3})
	r.Interrupted = true

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, r))
	assert.Contains(t, buf.String(), "Run interrupted: remaining cases were not executed.")
	assert.Contains(t, buf.String(), "Test Summary: 1 passed, 0 failed, 1 total (3 checks)")
}

func TestRunner_RunIDDefaultsToUUID(t *testing.T) {
	a := NewRunner().RunID()
	b := NewRunner().RunID()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}

func TestRunner_LogsRun(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	_, err := NewRunner(WithLogger(logger), WithRunID("r1")).Run(context.Background(), Suite{
		Name:  "s",
		Cases: []CaseSpec{{Name: "c", Run: func(c *Case) {}}},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "run started")
	assert.Contains(t, out, "case=s/c")
	assert.Contains(t, out, "run finished")
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	_, err := NewRunner(WithMetrics(m)).Run(context.Background(), Suite{
		Name: "algebraic",
		Cases: []CaseSpec{
			{Name: "pass", Run: func(c *Case) {
				c.Assertf(true, "")
				c.Assertf(true, "")
			}},
			{Name: "fail", Run: func(c *Case) {
				c.Expect(Comparison{A: matrix.Matrix{{7}}, B: matrix.Matrix{{2}}, Expected: matrix.Matrix{{14}}, Actual: matrix.Matrix{{16}}})
				c.Note(Finding{Detail: "x"})
			}},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 1.0, promtest.ToFloat64(m.cases.WithLabelValues("algebraic", "pass")))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.cases.WithLabelValues("algebraic", "fail")))
	assert.Equal(t, 3.0, promtest.ToFloat64(m.checks.WithLabelValues("algebraic")))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.checkFailures.WithLabelValues("algebraic")))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.findings.WithLabelValues("algebraic", FindingNonConformance)))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.triggerFailures.WithLabelValues("E02")))
}

func TestReport_AddAggregatesTriggers(t *testing.T) {
	r := NewReport("r")
	r.Add(CaseResult{Pass: true, Checks: 2, Triggers: []TriggerStat{{Code: 18, Present: 2}}})
	r.Add(CaseResult{Pass: false, Checks: 1, Triggers: []TriggerStat{{Code: 2, Present: 1, Failed: 1}, {Code: 18, Present: 1, Failed: 1}}})

	assert.Equal(t, 3, r.Checks)
	require.Len(t, r.Triggers, 2)
	assert.Equal(t, TriggerStat{Code: 2, Present: 1, Failed: 1}, r.Triggers[0])
	assert.Equal(t, faults.Code(18), r.Triggers[1].Code)
	assert.Equal(t, 3, r.Triggers[1].Present)
	assert.InDelta(t, 1.0/3.0, r.Triggers[1].FailureRate(), 1e-9)
}

func TestFailure_String(t *testing.T) {
	seed := uint32(42)
	trial := 7
	f := Failure{
		Step:     "trial",
		Message:  "random product mismatch",
		Dims:     &matrix.Dims{RowsA: 1, ColsA: 1, ColsB: 1},
		A:        matrix.Matrix{{3}},
		B:        matrix.Matrix{{3}},
		Expected: matrix.Matrix{{9}},
		Actual:   matrix.Matrix{{13}},
		Seed:     &seed,
		Trial:    &trial,
		Triggers: []faults.Code{4, 12},
	}
	assert.Equal(t,
		"trial: random product mismatch dims=(rowsA=1, colsA=1, colsB=1) A=[[3]] B=[[3]] expected=[[9]] actual=[[13]] seed=42 trial=7 triggers=E04,E12",
		f.String())
}

func TestWriteText_Golden(t *testing.T) {
	seed := uint32(42)
	r := NewReport("run-0001")
	r.Candidate = "faulty"
	r.Seed = &seed

	r.Add(CaseResult{
		Suite: "algebraic", Name: "ZeroMatrices", Pass: true, Checks: 16,
		Triggers: []TriggerStat{{Code: 18, Description: faults.Describe(18), Present: 16}},
	})
	r.Add(CaseResult{
		Suite: "algebraic", Name: "OddOdd", Pass: false, Checks: 1,
		Failures: []Failure{{
			Message:  "product mismatch",
			A:        matrix.Matrix{{7}},
			B:        matrix.Matrix{{1}},
			Expected: matrix.Matrix{{7}},
			Actual:   matrix.Matrix{{9}},
			Triggers: []faults.Code{2, 18},
		}},
		Triggers: []TriggerStat{
			{Code: 2, Description: faults.Describe(2), Present: 1, Failed: 1},
			{Code: 18, Description: faults.Describe(18), Present: 1, Failed: 1},
		},
	})
	r.Add(CaseResult{
		Suite: "structural", Name: "NonCoherentSizes", Pass: true,
		Findings: []Finding{{Kind: FindingNonConformance, Step: "rowsA=3", Detail: "no failure signal for incoherent sizes"}},
	})
	r.Add(CaseResult{
		Suite: "combinatorial", Name: "ScalarGrid", Pass: false, Checks: 40401,
		Failures: []Failure{{
			Message:  "scalar product",
			A:        matrix.Matrix{{7}},
			B:        matrix.Matrix{{-3}},
			Expected: matrix.Matrix{{-21}},
			Actual:   matrix.Matrix{{-19}},
			Triggers: []faults.Code{2},
		}},
		Triggers: []TriggerStat{{Code: 2, Description: faults.Describe(2), Present: 201, Failed: 1}},
	})

	AssertReportGolden(t, "report_text", r)
}
