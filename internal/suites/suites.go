// Package suites holds the verification suites run against a candidate
// multiplier: algebraic laws, exhaustive scalar enumeration, structural
// probes and seeded differential fuzzing.
package suites

import (
	"fmt"

	"github.com/roach88/matverify/internal/fixtures"
	"github.com/roach88/matverify/internal/harness"
	"github.com/roach88/matverify/internal/matrix"
	"github.com/roach88/matverify/internal/reference"
	"github.com/roach88/matverify/internal/rng"
)

// Suite names.
const (
	NameAlgebraic     = "algebraic"
	NameCombinatorial = "combinatorial"
	NameStructural    = "structural"
	NameFuzz          = "fuzz"
)

// Config selects what the suites exercise.
type Config struct {
	// Candidate is the multiplier under test. Required.
	Candidate matrix.Multiplier

	// Reference is the trusted oracle. Defaults to reference.Multiply.
	Reference matrix.Multiplier

	// Seed starts the fuzz stream. Nil draws a fresh seed.
	Seed *uint32

	// Generator overrides the fuzz stream entirely; Seed is then ignored.
	Generator rng.Generator

	// Trials is the number of fuzz trials. Zero means DefaultTrials.
	Trials int

	// Trial, when set, restricts fuzz comparison to that trial index. Earlier
	// trials still consume their draws.
	Trial *int

	// Fixtures is an optional path to a YAML file of extra cases.
	Fixtures string
}

// Resolve validates cfg, fills defaults and fixes the fuzz seed so callers
// can report it.
func (cfg Config) Resolve() (Config, error) {
	if cfg.Candidate == nil {
		return cfg, fmt.Errorf("suites: no candidate multiplier")
	}
	if cfg.Trials < 0 {
		return cfg, fmt.Errorf("suites: trials must be positive, got %d", cfg.Trials)
	}
	cfg = cfg.withDefaults()
	if cfg.Trial != nil && (*cfg.Trial < 0 || *cfg.Trial >= cfg.Trials) {
		return cfg, fmt.Errorf("suites: replay trial %d outside [0, %d)", *cfg.Trial, cfg.Trials)
	}
	return cfg, nil
}

func (cfg Config) withDefaults() Config {
	if cfg.Reference == nil {
		cfg.Reference = reference.Multiply
	}
	if cfg.Trials == 0 {
		cfg.Trials = DefaultTrials
	}
	if cfg.Generator != nil {
		seed := cfg.Generator.Seed()
		cfg.Seed = &seed
	} else if cfg.Seed == nil {
		seed := rng.NewSeed()
		cfg.Seed = &seed
	}
	return cfg
}

// All returns every suite in execution order, plus the fixtures suite when
// cfg.Fixtures names a file.
func All(cfg Config) ([]harness.Suite, error) {
	cfg, err := cfg.Resolve()
	if err != nil {
		return nil, err
	}

	out := []harness.Suite{
		Algebraic(cfg),
		Combinatorial(cfg),
		Structural(cfg),
		Fuzz(cfg),
	}

	if cfg.Fixtures != "" {
		set, err := fixtures.Load(cfg.Fixtures)
		if err != nil {
			return nil, err
		}
		out = append(out, set.Suite(cfg.Candidate, cfg.Reference))
	}
	return out, nil
}

// product runs mul on copies of a and b with coherent dimensions into a
// fresh result. The caller's operands stay intact even if mul writes to its
// inputs, so they remain valid expectations.
func product(mul matrix.Multiplier, a, b matrix.Matrix) matrix.Matrix {
	d := matrix.DimsOf(a, b)
	c := matrix.New(d.RowsA, d.ColsB)
	d.Call(mul, a.Clone(), b.Clone(), c)
	return c
}

// guarded is product with the candidate's failure signal captured.
func guarded(mul matrix.Multiplier, a, b matrix.Matrix) (matrix.Matrix, harness.Signal) {
	var c matrix.Matrix
	sig := harness.Probe(func() { c = product(mul, a, b) })
	return c, sig
}

// parity is one even/odd combination of operand shapes.
type parity struct {
	label string
	dims  matrix.Dims
}

var parities = []parity{
	{"EvenEven", matrix.Dims{RowsA: 2, ColsA: 2, ColsB: 2}},
	{"EvenOdd", matrix.Dims{RowsA: 2, ColsA: 2, ColsB: 3}},
	{"OddEven", matrix.Dims{RowsA: 2, ColsA: 3, ColsB: 2}},
	{"OddOdd", matrix.Dims{RowsA: 3, ColsA: 3, ColsB: 3}},
}

// sequential returns a rows×cols matrix holding 1, 2, 3, ... row-major.
func sequential(rows, cols int) matrix.Matrix {
	m := matrix.New(rows, cols)
	for i := range m {
		for j := range m[i] {
			m[i][j] = i*cols + j + 1
		}
	}
	return m
}
