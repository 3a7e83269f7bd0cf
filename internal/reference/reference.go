// Package reference holds the trusted multipliers used as differential
// oracles. Nothing here injects faults.
package reference

import (
	"fmt"

	"github.com/roach88/matverify/internal/matrix"
)

// Multiply is the trusted reference: plain triple-nested accumulation.
//
// Unlike the routine under test, Multiply enforces its contract. Declared
// dimensions that are negative or disagree with the operand sizes, or a
// result matrix too small to hold rowsA×colsB, cause a panic wrapping
// matrix.ErrShapeMismatch.
func Multiply(a, b, c matrix.Matrix, rowsA, colsA, colsB int) {
	mustCheck(a, b, c, matrix.Dims{RowsA: rowsA, ColsA: colsA, ColsB: colsB})

	for i := 0; i < rowsA; i++ {
		for j := 0; j < colsB; j++ {
			sum := 0
			for k := 0; k < colsA; k++ {
				sum += a[i][k] * b[k][j]
			}
			c[i][j] = sum
		}
	}
}

// Product allocates the result and multiplies a×b with coherent dimensions.
func Product(a, b matrix.Matrix) matrix.Matrix {
	d := matrix.DimsOf(a, b)
	c := matrix.New(d.RowsA, d.ColsB)
	d.Call(Multiply, a, b, c)
	return c
}

// Check validates the declared dimensions against the operands.
// Returns nil when a multiplier can safely run with d.
func Check(a, b, c matrix.Matrix, d matrix.Dims) error {
	if d.Negative() {
		return fmt.Errorf("negative dimension %v: %w", d, matrix.ErrShapeMismatch)
	}
	if !d.Coherent(a, b) {
		return fmt.Errorf("declared %v, actual A %dx%d, B %dx%d: %w",
			d, a.Rows(), a.Cols(), b.Rows(), b.Cols(), matrix.ErrShapeMismatch)
	}
	if !a.IsRectangular() || !b.IsRectangular() {
		return fmt.Errorf("ragged operand: %w", matrix.ErrNonRectangular)
	}
	if c.Rows() < d.RowsA || (d.RowsA > 0 && c.Cols() < d.ColsB) {
		return fmt.Errorf("result %dx%d cannot hold %dx%d: %w",
			c.Rows(), c.Cols(), d.RowsA, d.ColsB, matrix.ErrShapeMismatch)
	}
	return nil
}

func mustCheck(a, b, c matrix.Matrix, d matrix.Dims) {
	if err := Check(a, b, c, d); err != nil {
		panic(err)
	}
}
