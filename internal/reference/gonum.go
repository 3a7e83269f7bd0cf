package reference

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/roach88/matverify/internal/matrix"
)

// Gonum multiplies through gonum's dense float64 kernel and rounds back to
// int. It shares no code with Multiply, so agreement between the two is an
// independent check on the reference itself.
//
// Results are exact while every intermediate magnitude stays below 2^53.
func Gonum(a, b, c matrix.Matrix, rowsA, colsA, colsB int) {
	d := matrix.Dims{RowsA: rowsA, ColsA: colsA, ColsB: colsB}
	mustCheck(a, b, c, d)

	// mat.NewDense rejects zero-length dimensions.
	if rowsA == 0 || colsB == 0 {
		return
	}
	if colsA == 0 {
		for i := 0; i < rowsA; i++ {
			for j := 0; j < colsB; j++ {
				c[i][j] = 0
			}
		}
		return
	}

	ad := mat.NewDense(rowsA, colsA, flatten(a, rowsA, colsA))
	bd := mat.NewDense(colsA, colsB, flatten(b, colsA, colsB))

	var cd mat.Dense
	cd.Mul(ad, bd)

	for i := 0; i < rowsA; i++ {
		for j := 0; j < colsB; j++ {
			c[i][j] = int(math.Round(cd.At(i, j)))
		}
	}
}

// flatten lays m out row-major as gonum expects.
func flatten(m matrix.Matrix, rows, cols int) []float64 {
	data := make([]float64, 0, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			data = append(data, float64(m[i][j]))
		}
	}
	return data
}
