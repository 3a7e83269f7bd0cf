package matrix

import "fmt"

// Dims is the explicit dimension triple handed to a Multiplier.
type Dims struct {
	RowsA int `json:"rows_a" yaml:"rows_a"`
	ColsA int `json:"cols_a" yaml:"cols_a"`
	ColsB int `json:"cols_b" yaml:"cols_b"`
}

// DimsOf derives the coherent triple from the actual operand sizes.
func DimsOf(a, b Matrix) Dims {
	return Dims{RowsA: a.Rows(), ColsA: a.Cols(), ColsB: b.Cols()}
}

// Coherent reports whether d matches the actual sizes of a and b and
// whether a and b are compatible for multiplication.
func (d Dims) Coherent(a, b Matrix) bool {
	return d.RowsA == a.Rows() &&
		d.ColsA == a.Cols() &&
		d.ColsA == b.Rows() &&
		d.ColsB == b.Cols()
}

// Negative reports whether any member of the triple is below zero.
func (d Dims) Negative() bool {
	return d.RowsA < 0 || d.ColsA < 0 || d.ColsB < 0
}

// Call invokes mul with d as the declared dimensions.
func (d Dims) Call(mul Multiplier, a, b, c Matrix) {
	mul(a, b, c, d.RowsA, d.ColsA, d.ColsB)
}

func (d Dims) String() string {
	return fmt.Sprintf("(rowsA=%d, colsA=%d, colsB=%d)", d.RowsA, d.ColsA, d.ColsB)
}
