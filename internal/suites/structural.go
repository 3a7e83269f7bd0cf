package suites

import (
	"fmt"

	"github.com/roach88/matverify/internal/harness"
	"github.com/roach88/matverify/internal/matrix"
)

// Structural probes declared dimensions that disagree with the operands and
// sweeps diagonal products across a range of magnitudes.
//
// The size probes are exploratory. How the candidate should react to a bad
// dimension triple is unspecified, so a probe that raises no failure signal
// is documented as a finding rather than failed.
func Structural(cfg Config) harness.Suite {
	cfg = cfg.withDefaults()
	mul, ref := cfg.Candidate, cfg.Reference
	return harness.Suite{
		Name:        NameStructural,
		Description: "non-coherent and negative dimensions, numerical range",
		Cases: []harness.CaseSpec{
			{Name: "NonCoherentSizes", Run: func(c *harness.Case) {
				a := matrix.Matrix{{1, 0, 1}, {0, 1, 0}}
				b := matrix.Matrix{{0, 1}, {2, 1}, {1, 2}}
				d := matrix.DimsOf(a, b)
				probeSizes(c, mul, a, b, []sizeProbe{
					{"rowsA-1", matrix.Dims{RowsA: d.RowsA - 1, ColsA: d.ColsA, ColsB: d.ColsB}},
					{"colsA-1", matrix.Dims{RowsA: d.RowsA, ColsA: d.ColsA - 1, ColsB: d.ColsB}},
					{"colsB-1", matrix.Dims{RowsA: d.RowsA, ColsA: d.ColsA, ColsB: d.ColsB - 1}},
				})
			}},
			{Name: "NegativeSizes", Run: func(c *harness.Case) {
				a := matrix.Matrix{{12, 1, 1}, {2, 1, 12}}
				b := matrix.Matrix{{0, 1}, {2, 1}, {1, 2}}
				d := matrix.DimsOf(a, b)
				probeSizes(c, mul, a, b, []sizeProbe{
					{"-rowsA", matrix.Dims{RowsA: -d.RowsA, ColsA: d.ColsA, ColsB: d.ColsB}},
					{"-colsA", matrix.Dims{RowsA: d.RowsA, ColsA: -d.ColsA, ColsB: d.ColsB}},
					{"-colsB", matrix.Dims{RowsA: d.RowsA, ColsA: d.ColsA, ColsB: -d.ColsB}},
				})
			}},
			{Name: "NumericalRange", Run: func(c *harness.Case) { numericalRange(c, mul, ref) }},
		},
	}
}

type sizeProbe struct {
	label string
	dims  matrix.Dims
}

func probeSizes(c *harness.Case, mul matrix.Multiplier, a, b matrix.Matrix, probes []sizeProbe) {
	for _, p := range probes {
		c.Step(p.label, func() {
			out := matrix.New(a.Rows(), b.Cols())
			sig := harness.Probe(func() { p.dims.Call(mul, a.Clone(), b.Clone(), out) })
			if sig.Raised {
				c.Logger().Debug("bad dimensions rejected", "dims", p.dims.String(), "signal", sig.Value)
				return
			}
			d := p.dims
			c.Note(harness.Finding{
				Kind: harness.FindingNonConformance,
				Detail: fmt.Sprintf("no failure signal for declared %v with A %dx%d, B %dx%d",
					d, a.Rows(), a.Cols(), b.Rows(), b.Cols()),
				Dims:     &d,
				Observed: out,
			})
		})
	}
}

// Diagonal values swept by NumericalRange are ±i*RangeStep for i in
// [0, RangeSteps). Steps are labeled by sign so +diag(0) and -diag(0) stay
// distinct.
const (
	RangeSteps = 50
	RangeStep  = 50
)

func numericalRange(c *harness.Case, mul, ref matrix.Multiplier) {
	for i := 0; i < RangeSteps; i++ {
		for _, sweep := range []struct {
			label string
			v     int
		}{
			{fmt.Sprintf("+diag(%d)", i*RangeStep), i * RangeStep},
			{fmt.Sprintf("-diag(%d)", i*RangeStep), -i * RangeStep},
		} {
			v := sweep.v
			c.Step(sweep.label, func() {
				a := matrix.Diagonal(v, v)
				b := matrix.Diagonal(v, v)
				c.Require(harness.Comparison{
					Message:  fmt.Sprintf("diag{%d,%d} squared", v, v),
					A:        a,
					B:        b,
					Expected: product(ref, a, b),
					Actual:   product(mul, a, b),
				})
			})
		}
	}
}
