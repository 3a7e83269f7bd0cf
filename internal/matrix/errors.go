package matrix

import "errors"

var (
	// ErrNonRectangular indicates rows of differing lengths.
	ErrNonRectangular = errors.New("matrix: all rows must have the same length")
	// ErrShapeMismatch indicates operands whose shapes are incompatible for the requested operation.
	ErrShapeMismatch = errors.New("matrix: operand shapes do not match")
)
