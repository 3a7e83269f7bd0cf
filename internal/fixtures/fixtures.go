// Package fixtures loads hand-built multiplication cases from YAML and runs
// them as an extra suite.
//
// A fixture file looks like:
//
//	fixtures:
//	  - name: SevenInA
//	    description: "isolates a 7 in A"
//	    a: [[7, 0], [0, 1]]
//	    b: [[1, 0], [0, 1]]
//	    expect: [[7, 0], [0, 1]]
//
// expect is optional; without it the reference product is the oracle.
// Files are decoded strictly and validated against an embedded CUE schema
// before any shape checks run.
package fixtures

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/roach88/matverify/internal/harness"
	"github.com/roach88/matverify/internal/matrix"
)

// SuiteName is the name of the suite built from a fixture file.
const SuiteName = "fixtures"

// ErrInvalidFixture is wrapped by every validation failure.
var ErrInvalidFixture = errors.New("invalid fixture")

//go:embed schema.cue
var schemaSource string

// Fixture is one hand-built case.
type Fixture struct {
	Name        string  `yaml:"name" json:"name"`
	Description string  `yaml:"description,omitempty" json:"description,omitempty"`
	A           [][]int `yaml:"a" json:"a"`
	B           [][]int `yaml:"b" json:"b"`
	Expect      [][]int `yaml:"expect,omitempty" json:"expect,omitempty"`
}

// Set is a validated fixture file.
type Set struct {
	Path     string    `yaml:"-" json:"-"`
	Fixtures []Fixture `yaml:"fixtures" json:"fixtures"`
}

// Load reads and validates the fixture file at path.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture file: %w", err)
	}
	set, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	set.Path = path
	return set, nil
}

// Parse decodes and validates fixture YAML.
func Parse(data []byte) (*Set, error) {
	var set Set
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&set); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := checkSchema(&set); err != nil {
		return nil, err
	}
	if err := checkShapes(&set); err != nil {
		return nil, err
	}
	return &set, nil
}

func checkSchema(set *Set) error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile fixture schema: %w", err)
	}

	v := ctx.Encode(set)
	if err := v.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFixture, err)
	}

	unified := schema.LookupPath(cue.ParsePath("#File")).Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFixture, err)
	}
	return nil
}

func checkShapes(set *Set) error {
	seen := make(map[string]bool, len(set.Fixtures))
	for i, f := range set.Fixtures {
		if seen[f.Name] {
			return fmt.Errorf("%w: fixtures[%d]: duplicate name %q", ErrInvalidFixture, i, f.Name)
		}
		seen[f.Name] = true

		a, err := matrix.FromRows(f.A...)
		if err != nil {
			return fmt.Errorf("%w: %s: a: %v", ErrInvalidFixture, f.Name, err)
		}
		b, err := matrix.FromRows(f.B...)
		if err != nil {
			return fmt.Errorf("%w: %s: b: %v", ErrInvalidFixture, f.Name, err)
		}
		if a.Cols() != b.Rows() {
			return fmt.Errorf("%w: %s: a is %dx%d but b is %dx%d",
				ErrInvalidFixture, f.Name, a.Rows(), a.Cols(), b.Rows(), b.Cols())
		}
		if f.Expect == nil {
			continue
		}
		want, err := matrix.FromRows(f.Expect...)
		if err != nil {
			return fmt.Errorf("%w: %s: expect: %v", ErrInvalidFixture, f.Name, err)
		}
		if want.Rows() != a.Rows() || want.Cols() != b.Cols() {
			return fmt.Errorf("%w: %s: expect is %dx%d, product is %dx%d",
				ErrInvalidFixture, f.Name, want.Rows(), want.Cols(), a.Rows(), b.Cols())
		}
	}
	return nil
}

// Suite turns the set into aborting cases: the candidate must reproduce
// expect, which must itself agree with ref.
func (s *Set) Suite(candidate, ref matrix.Multiplier) harness.Suite {
	cases := make([]harness.CaseSpec, 0, len(s.Fixtures))
	for _, f := range s.Fixtures {
		f := f
		cases = append(cases, harness.CaseSpec{
			Name: f.Name,
			Run:  func(c *harness.Case) { run(c, f, candidate, ref) },
		})
	}
	desc := "hand-built fixtures"
	if s.Path != "" {
		desc += " from " + s.Path
	}
	return harness.Suite{Name: SuiteName, Description: desc, Cases: cases}
}

func run(c *harness.Case, f Fixture, candidate, ref matrix.Multiplier) {
	a := matrix.MustFromRows(f.A...)
	b := matrix.MustFromRows(f.B...)
	d := matrix.DimsOf(a, b)

	oracle := matrix.New(d.RowsA, d.ColsB)
	d.Call(ref, a, b, oracle)
	want := oracle
	if f.Expect != nil {
		want = matrix.MustFromRows(f.Expect...)
		c.Assertf(want.Equal(oracle), "fixture expectation %v disagrees with the reference %v", want, oracle)
	}

	got := matrix.New(d.RowsA, d.ColsB)
	d.Call(candidate, a.Clone(), b.Clone(), got)
	c.Require(harness.Comparison{
		Message:  f.Description,
		Dims:     &d,
		A:        a,
		B:        b,
		Expected: want,
		Actual:   got,
	})
}
