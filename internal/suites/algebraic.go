package suites

import (
	"math"

	"github.com/roach88/matverify/internal/harness"
	"github.com/roach88/matverify/internal/matrix"
)

// unwritten marks result cells the candidate never touched.
const unwritten = math.MinInt32

// Algebraic checks algebraic identities on hand-built operands. Every case
// is split into aborting sub-cases so one parity failing does not hide the
// others.
func Algebraic(cfg Config) harness.Suite {
	cfg = cfg.withDefaults()
	mul := cfg.Candidate
	ref := cfg.Reference

	return harness.Suite{
		Name:        NameAlgebraic,
		Description: "zero, identity and distributive laws, rejection of incompatible operands, shape and commutation",
		Cases: []harness.CaseSpec{
			{Name: "ZeroMatrices", Run: func(c *harness.Case) { zeroMatrices(c, mul) }},
			{Name: "IdentityMatrices", Run: func(c *harness.Case) { identityMatrices(c, mul) }},
			{Name: "Associativity", Run: func(c *harness.Case) { associativity(c, mul) }},
			{Name: "NotPermittedMultiplication", Run: func(c *harness.Case) { notPermitted(c, mul) }},
			literalCase("EvenEven", mul,
				matrix.Matrix{{1, 2}, {3, 4}},
				matrix.Matrix{{5, 6}, {7, 8}},
				matrix.Matrix{{19, 22}, {43, 50}}),
			literalCase("EvenOdd", mul,
				matrix.Matrix{{1, 2}, {3, 4}},
				matrix.Matrix{{5, 6, 7}, {8, 9, 10}},
				matrix.Matrix{{21, 24, 27}, {47, 54, 61}}),
			literalCase("OddEven", mul,
				matrix.Matrix{{1, 2, 3}, {4, 5, 6}},
				matrix.Matrix{{7, 8}, {9, 10}, {11, 12}},
				matrix.Matrix{{58, 64}, {139, 154}}),
			literalCase("OddOdd", mul,
				matrix.Matrix{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}},
				matrix.Matrix{{10, 11, 12}, {13, 14, 15}, {16, 17, 18}},
				matrix.Matrix{{84, 90, 96}, {201, 216, 231}, {318, 342, 366}}),
			{Name: "CorrectRowsAndCols", Run: func(c *harness.Case) { correctRowsAndCols(c, mul) }},
			{Name: "Commutation", Run: func(c *harness.Case) { commutation(c, mul, ref) }},
		},
	}
}

func zeroMatrices(c *harness.Case, mul matrix.Multiplier) {
	c.Step("ZeroTimesZero", func() {
		z := matrix.Zero(2, 2)
		c.Require(harness.Comparison{
			Message:  "zero times zero is not zero",
			A:        z,
			B:        z,
			Expected: matrix.Zero(2, 2),
			Actual:   product(mul, z, z),
		})
	})

	for _, p := range parities {
		d := p.dims
		c.Step(p.label+"/right", func() {
			a := sequential(d.RowsA, d.ColsA)
			z := matrix.Zero(d.ColsA, d.ColsB)
			c.Require(harness.Comparison{
				Message:  "A×0 is not zero",
				Dims:     &d,
				A:        a,
				B:        z,
				Expected: matrix.Zero(d.RowsA, d.ColsB),
				Actual:   product(mul, a, z),
			})
		})
		c.Step(p.label+"/left", func() {
			z := matrix.Zero(d.RowsA, d.ColsA)
			b := sequential(d.ColsA, d.ColsB)
			c.Require(harness.Comparison{
				Message:  "0×B is not zero",
				Dims:     &d,
				A:        z,
				B:        b,
				Expected: matrix.Zero(d.RowsA, d.ColsB),
				Actual:   product(mul, z, b),
			})
		})
	}
}

func identityMatrices(c *harness.Case, mul matrix.Multiplier) {
	for _, p := range parities {
		rows, cols := p.dims.RowsA, p.dims.ColsA
		a := sequential(rows, cols)

		c.Step(p.label+"/right", func() {
			id := matrix.Identity(cols)
			c.Require(harness.Comparison{
				Message:  "A×I differs from A",
				A:        a,
				B:        id,
				Expected: a,
				Actual:   product(mul, a, id),
			})
		})
		c.Step(p.label+"/left", func() {
			id := matrix.Identity(rows)
			c.Require(harness.Comparison{
				Message:  "I×A differs from A",
				A:        id,
				B:        a,
				Expected: a,
				Actual:   product(mul, id, a),
			})
		})
	}
}

// checkerboard splits b into two matrices with disjoint non-zero support
// whose sum is b.
func checkerboard(b matrix.Matrix) (matrix.Matrix, matrix.Matrix) {
	rows, cols := b.Shape()
	even, odd := matrix.Zero(rows, cols), matrix.Zero(rows, cols)
	for i := range b {
		for j, v := range b[i] {
			if (i+j)%2 == 0 {
				even[i][j] = v
			} else {
				odd[i][j] = v
			}
		}
	}
	return even, odd
}

func associativity(c *harness.Case, mul matrix.Multiplier) {
	distributes := func(a, b, b1, b2 matrix.Matrix) {
		sum, err := b1.Add(b2)
		c.Assertf(err == nil && sum.Equal(b), "decomposition B1+B2=%v does not reconstruct B=%v", sum, b)

		whole := product(mul, a, b)
		reconstructed, err := product(mul, a, b1).Add(product(mul, a, b2))
		c.Assertf(err == nil, "partial products have mismatched shapes: %v", err)

		c.Require(harness.Comparison{
			Message:  "A×(B1+B2) differs from A×B1 + A×B2",
			A:        a,
			B:        b,
			Expected: reconstructed,
			Actual:   whole,
		})
	}

	c.Step("Literal", func() {
		distributes(
			matrix.Matrix{{1, 2, 3}, {4, 5, 6}},
			matrix.Matrix{{10, 0}, {0, 10}, {9, 9}},
			matrix.Matrix{{10, 0}, {0, 0}, {9, 0}},
			matrix.Matrix{{0, 0}, {0, 10}, {0, 9}},
		)
	})

	for _, p := range parities {
		d := p.dims
		c.Step(p.label, func() {
			a := sequential(d.RowsA, d.ColsA)
			b := sequential(d.ColsA, d.ColsB)
			b1, b2 := checkerboard(b)
			distributes(a, b, b1, b2)
		})
	}
}

// notPermitted declares a colsA that disagrees with B's row count and
// requires the candidate to raise some failure signal. The result buffer is
// oversized so an unchecked loop cannot fault on writing it.
func notPermitted(c *harness.Case, mul matrix.Multiplier) {
	probe := func(a, b matrix.Matrix, d matrix.Dims) {
		scratch := matrix.New(50, 50)
		sig := harness.Probe(func() { d.Call(mul, a, b, scratch) })
		if sig.Raised {
			c.Logger().Debug("incompatible operands rejected", "dims", d.String(), "signal", sig.Value)
		}
		c.Assertf(sig.Raised, "no failure signal for %v with A %dx%d, B %dx%d",
			d, a.Rows(), a.Cols(), b.Rows(), b.Cols())
	}

	c.Step("Literal", func() {
		probe(
			matrix.Matrix{{17}},
			matrix.Matrix{{1, 1, 1}, {22, 23, 24}},
			matrix.Dims{RowsA: 1, ColsA: 1, ColsB: 3},
		)
	})

	for _, p := range parities {
		d := p.dims
		c.Step(p.label, func() {
			a := sequential(d.RowsA, d.ColsA)
			b := sequential(d.ColsA+1, d.ColsB)
			probe(a, b, d)
		})
	}
}

func literalCase(name string, mul matrix.Multiplier, a, b, want matrix.Matrix) harness.CaseSpec {
	return harness.CaseSpec{
		Name: name,
		Run: func(c *harness.Case) {
			d := matrix.DimsOf(a, b)
			c.Require(harness.Comparison{
				Message:  "product differs from the literal expectation",
				Dims:     &d,
				A:        a,
				B:        b,
				Expected: want,
				Actual:   product(mul, a, b),
			})
		},
	}
}

// correctRowsAndCols pre-fills the result with a sentinel and checks the
// candidate wrote exactly the rows(A)×cols(B) region.
func correctRowsAndCols(c *harness.Case, mul matrix.Multiplier) {
	a := matrix.New(7, 5)
	for i := range a {
		for j := range a[i] {
			a[i][j] = j + 1
		}
	}
	b := matrix.New(5, 10)
	for i := range b {
		for j := range b[i] {
			b[i][j] = j + 1
		}
	}

	d := matrix.DimsOf(a, b)
	out := matrix.Filled(d.RowsA, d.ColsB, unwritten)
	d.Call(mul, a, b, out)

	c.Assertf(out.Rows() == a.Rows(), "result has %d rows, A has %d", out.Rows(), a.Rows())
	c.Assertf(out.Cols() == b.Cols(), "result has %d columns, B has %d", out.Cols(), b.Cols())
	for i := range out {
		for j := range out[i] {
			if out[i][j] == unwritten {
				c.Fatalf("result cell [%d][%d] was never written", i, j)
			}
		}
	}
}

// commutation first confirms with the reference that each pair commutes,
// then requires the candidate to agree.
func commutation(c *harness.Case, mul, ref matrix.Multiplier) {
	pairs := []struct {
		label string
		a, b  matrix.Matrix
	}{
		{"Even", matrix.Matrix{{1, 2}, {0, 3}}, matrix.Identity(2)},
		{"Odd",
			matrix.Matrix{{2, 1, 0}, {0, 2, 1}, {0, 0, 2}},
			matrix.Matrix{{1, 1, 0}, {0, 1, 1}, {0, 0, 1}}},
	}

	for _, p := range pairs {
		c.Step(p.label, func() {
			c.Assertf(product(ref, p.a, p.b).Equal(product(ref, p.b, p.a)),
				"operands %v and %v do not commute", p.a, p.b)

			c.Require(harness.Comparison{
				Message:  "A×B differs from B×A",
				A:        p.a,
				B:        p.b,
				Expected: product(mul, p.a, p.b),
				Actual:   product(mul, p.b, p.a),
			})
		})
	}
}
