package suites

import (
	"github.com/roach88/matverify/internal/harness"
	"github.com/roach88/matverify/internal/matrix"
	"github.com/roach88/matverify/internal/rng"
)

// Fuzz parameters.
const (
	DefaultTrials = 100

	// Dimensions and element values are both drawn from [FuzzMin, FuzzMax].
	FuzzMin = 1
	FuzzMax = 10
)

// Fuzz compares the candidate against the reference on random operands.
//
// All draws come from one generator seeded once per run, in a fixed order:
// rowsA, colsA, colsB, then A row-major, then B row-major. Logging the seed
// is therefore enough to replay any trial.
func Fuzz(cfg Config) harness.Suite {
	cfg = cfg.withDefaults()
	return harness.Suite{
		Name:        NameFuzz,
		Description: "seeded differential trials against the reference",
		Cases: []harness.CaseSpec{
			{Name: "RandomMatrices", Run: func(c *harness.Case) { randomMatrices(c, cfg) }},
		},
	}
}

// Trial is one fuzz input.
type Trial struct {
	Index int
	Dims  matrix.Dims
	A, B  matrix.Matrix
}

// Draw consumes the next trial from gen.
func Draw(gen rng.Generator, index int) Trial {
	d := matrix.Dims{
		RowsA: gen.IntRange(FuzzMin, FuzzMax),
		ColsA: gen.IntRange(FuzzMin, FuzzMax),
		ColsB: gen.IntRange(FuzzMin, FuzzMax),
	}
	return Trial{
		Index: index,
		Dims:  d,
		A:     fill(gen, d.RowsA, d.ColsA),
		B:     fill(gen, d.ColsA, d.ColsB),
	}
}

func fill(gen rng.Generator, rows, cols int) matrix.Matrix {
	m := matrix.New(rows, cols)
	for i := range m {
		for j := range m[i] {
			m[i][j] = gen.IntRange(FuzzMin, FuzzMax)
		}
	}
	return m
}

func randomMatrices(c *harness.Case, cfg Config) {
	gen := cfg.Generator
	if gen == nil {
		gen = rng.New(*cfg.Seed)
	}
	seed := gen.Seed()
	c.Logger().Info("fuzz stream seeded", "seed", seed, "trials", cfg.Trials)

	for i := 0; i < cfg.Trials; i++ {
		t := Draw(gen, i)
		if cfg.Trial != nil && i != *cfg.Trial {
			continue
		}

		expected := product(cfg.Reference, t.A, t.B)
		actual, sig := guarded(cfg.Candidate, t.A, t.B)
		msg := "random product mismatch"
		if sig.Raised {
			msg = "failure signal on random product: " + sig.Value
		}

		index := t.Index
		c.Expect(harness.Comparison{
			Message:  msg,
			Dims:     &t.Dims,
			A:        t.A,
			B:        t.B,
			Expected: expected,
			Actual:   actual,
			Seed:     &seed,
			Trial:    &index,
		})

		if cfg.Trial != nil {
			return
		}
	}
}
