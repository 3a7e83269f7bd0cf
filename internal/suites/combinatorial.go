package suites

import (
	"fmt"

	"github.com/roach88/matverify/internal/harness"
	"github.com/roach88/matverify/internal/matrix"
)

// Bounds of the scalar enumeration, inclusive.
const (
	ScalarMin = -100
	ScalarMax = 100
)

// Combinatorial multiplies every pair of scalars in [ScalarMin, ScalarMax]
// as 1×1 matrices. Mismatches are recorded individually and enumeration
// always runs to completion.
func Combinatorial(cfg Config) harness.Suite {
	cfg = cfg.withDefaults()
	mul := cfg.Candidate
	return harness.Suite{
		Name:        NameCombinatorial,
		Description: fmt.Sprintf("every scalar pair in [%d, %d]²", ScalarMin, ScalarMax),
		Cases: []harness.CaseSpec{
			{Name: "ScalarPairs", Run: func(c *harness.Case) { scalarPairs(c, mul) }},
		},
	}
}

func scalarPairs(c *harness.Case, mul matrix.Multiplier) {
	for i := ScalarMin; i <= ScalarMax; i++ {
		for j := ScalarMin; j <= ScalarMax; j++ {
			a := matrix.Matrix{{i}}
			b := matrix.Matrix{{j}}

			got, sig := guarded(mul, a, b)
			msg := fmt.Sprintf("%d×%d", i, j)
			if sig.Raised {
				msg += " raised a failure signal: " + sig.Value
			}
			c.Expect(harness.Comparison{
				Message:  msg,
				A:        a,
				B:        b,
				Expected: matrix.Matrix{{i * j}},
				Actual:   got,
			})
		}
	}
}
