package matrix

import (
	"fmt"
	"strings"
)

// Matrix is an ordered sequence of rows, each an ordered sequence of ints.
// A well-formed Matrix is rectangular.
type Matrix [][]int

// Multiplier is the contract shared by the routine under test and the trusted
// reference. It fills c in place with a×b using the declared dimensions.
//
// Behavior when the declared dimensions disagree with the actual operand
// sizes, or are negative, is unspecified. A panic is the failure signal the
// harness looks for in those situations.
type Multiplier func(a, b, c Matrix, rowsA, colsA, colsB int)

// New returns a rows×cols matrix of zeros.
// Negative sizes are treated as zero.
func New(rows, cols int) Matrix {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	m := make(Matrix, rows)
	for i := range m {
		m[i] = make([]int, cols)
	}
	return m
}

// Zero is an alias of New that reads better at call sites asserting the zero law.
func Zero(rows, cols int) Matrix {
	return New(rows, cols)
}

// Filled returns a rows×cols matrix with every element set to v.
func Filled(rows, cols, v int) Matrix {
	m := New(rows, cols)
	for i := range m {
		for j := range m[i] {
			m[i][j] = v
		}
	}
	return m
}

// Identity returns the n×n identity matrix.
func Identity(n int) Matrix {
	m := New(n, n)
	for i := 0; i < n; i++ {
		m[i][i] = 1
	}
	return m
}

// Diagonal returns a square matrix with values on the main diagonal.
func Diagonal(values ...int) Matrix {
	m := New(len(values), len(values))
	for i, v := range values {
		m[i][i] = v
	}
	return m
}

// FromRows copies rows into a new Matrix.
// Returns ErrNonRectangular if the rows differ in length.
func FromRows(rows ...[]int) (Matrix, error) {
	m := make(Matrix, len(rows))
	for i, row := range rows {
		if i > 0 && len(row) != len(rows[0]) {
			return nil, fmt.Errorf("row %d has %d columns, row 0 has %d: %w", i, len(row), len(rows[0]), ErrNonRectangular)
		}
		m[i] = append([]int(nil), row...)
	}
	return m, nil
}

// MustFromRows is like FromRows but panics on ragged input.
// Intended for hand-coded literals.
func MustFromRows(rows ...[]int) Matrix {
	m, err := FromRows(rows...)
	if err != nil {
		panic(err)
	}
	return m
}

// Rows returns the number of rows.
func (m Matrix) Rows() int {
	return len(m)
}

// Cols returns the length of the first row, or 0 for an empty matrix.
func (m Matrix) Cols() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

// Shape returns (rows, cols).
func (m Matrix) Shape() (int, int) {
	return m.Rows(), m.Cols()
}

// At returns the element at (i, j).
func (m Matrix) At(i, j int) int {
	return m[i][j]
}

// IsRectangular reports whether every row has the same length.
func (m Matrix) IsRectangular() bool {
	for _, row := range m {
		if len(row) != m.Cols() {
			return false
		}
	}
	return true
}

// Clone returns a deep copy.
func (m Matrix) Clone() Matrix {
	if m == nil {
		return nil
	}
	c := make(Matrix, len(m))
	for i, row := range m {
		c[i] = append([]int(nil), row...)
	}
	return c
}

// Equal reports whether m and other have identical shape and elements.
func (m Matrix) Equal(other Matrix) bool {
	if len(m) != len(other) {
		return false
	}
	for i := range m {
		if len(m[i]) != len(other[i]) {
			return false
		}
		for j := range m[i] {
			if m[i][j] != other[i][j] {
				return false
			}
		}
	}
	return true
}

// Add returns the element-wise sum m+other.
func (m Matrix) Add(other Matrix) (Matrix, error) {
	mr, mc := m.Shape()
	or, oc := other.Shape()
	if mr != or || mc != oc {
		return nil, fmt.Errorf("add %dx%d and %dx%d: %w", mr, mc, or, oc, ErrShapeMismatch)
	}
	sum := New(mr, mc)
	for i := range m {
		for j := range m[i] {
			sum[i][j] = m[i][j] + other[i][j]
		}
	}
	return sum, nil
}

// Contains reports whether any element equals v.
func (m Matrix) Contains(v int) bool {
	for _, row := range m {
		for _, x := range row {
			if x == v {
				return true
			}
		}
	}
	return false
}

// Any reports whether pred holds for at least one element.
func (m Matrix) Any(pred func(int) bool) bool {
	for _, row := range m {
		for _, x := range row {
			if pred(x) {
				return true
			}
		}
	}
	return false
}

// String renders the matrix as nested brackets, e.g. [[1 2] [3 4]].
func (m Matrix) String() string {
	var buf strings.Builder
	buf.WriteByte('[')
	for i, row := range m {
		if i > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteByte('[')
		for j, x := range row {
			if j > 0 {
				buf.WriteByte(' ')
			}
			fmt.Fprintf(&buf, "%d", x)
		}
		buf.WriteByte(']')
	}
	buf.WriteByte(']')
	return buf.String()
}
