// Package faults records the catalog of hypothesized value-triggered defects
// in the routine under test.
//
// The catalog is documentation discovered empirically, expressed as data:
// each entry pairs a numeric code with a pure predicate over the operands and
// the product. Nothing here is raised or caught. The harness evaluates the
// predicates around every comparison so that a mismatch can be correlated
// with the conditions that were present when it happened.
package faults

import (
	"fmt"
	"sort"

	"github.com/roach88/matverify/internal/matrix"
)

// Code identifies one hypothesized fault trigger.
type Code int

// Operands are the inputs and product a predicate is evaluated against.
// C is the product the multiplication should have produced.
type Operands struct {
	A matrix.Matrix
	B matrix.Matrix
	C matrix.Matrix
}

// Trigger is one catalog entry.
type Trigger struct {
	Code        Code
	Description string
	Match       func(Operands) bool
}

var catalog = []Trigger{
	{1, "Element-wise multiplication of ones detected", multipliesOnes},
	{2, "Matrix A contains the number 7", func(o Operands) bool { return o.A.Contains(7) }},
	{3, "Matrix A contains a negative number", func(o Operands) bool { return o.A.Any(negative) }},
	{4, "Matrix B contains the number 3", func(o Operands) bool { return o.B.Contains(3) }},
	{5, "Matrix B contains a negative number", func(o Operands) bool { return o.B.Any(negative) }},
	{6, "Result matrix contains a number bigger than 100", func(o Operands) bool {
		return o.C.Any(func(x int) bool { return x > 100 })
	}},
	{7, "Result matrix contains a number between 11 and 20", func(o Operands) bool {
		// Open interval (11, 20).
		return o.C.Any(func(x int) bool { return x > 11 && x < 20 })
	}},
	{8, "Result matrix contains zero", func(o Operands) bool { return o.C.Contains(0) }},
	{9, "Result matrix contains the number 99", func(o Operands) bool { return o.C.Contains(99) }},
	{10, "A row in matrix A contains more than one '1'", func(o Operands) bool {
		return anyRow(o.A, func(row []int) bool { return count(row, 1) > 1 })
	}},
	{11, "Every row in matrix B contains at least one '0'", func(o Operands) bool {
		return everyRow(o.B, func(row []int) bool { return count(row, 0) > 0 })
	}},
	{12, "The number of rows in A is equal to the number of columns in B", func(o Operands) bool {
		return o.A.Rows() == o.B.Cols()
	}},
	{13, "The first element of matrix A is equal to the first element of matrix B", func(o Operands) bool {
		return o.A.Rows() > 0 && o.A.Cols() > 0 && o.B.Rows() > 0 && o.B.Cols() > 0 && o.A[0][0] == o.B[0][0]
	}},
	{14, "The result matrix C has an even number of rows", func(o Operands) bool {
		return o.C.Rows()%2 == 0
	}},
	{15, "A row in matrix A is filled entirely with 5s", func(o Operands) bool {
		return anyRow(o.A, func(row []int) bool { return len(row) > 0 && count(row, 5) == len(row) })
	}},
	{16, "Matrix B contains the number 6", func(o Operands) bool { return o.B.Contains(6) }},
	{17, "Result matrix C contains the number 17", func(o Operands) bool { return o.C.Contains(17) }},
	{18, "Matrix A is a square matrix", func(o Operands) bool { return o.A.Rows() == o.A.Cols() }},
	{19, "Every row in matrix A contains the number 8", func(o Operands) bool {
		return everyRow(o.A, func(row []int) bool { return count(row, 8) > 0 })
	}},
	{20, "Number of columns in matrix A is odd", func(o Operands) bool { return o.A.Cols()%2 == 1 }},
}

var byCode = func() map[Code]Trigger {
	m := make(map[Code]Trigger, len(catalog))
	for _, t := range catalog {
		m[t.Code] = t
	}
	return m
}()

// Catalog returns every trigger ordered by code.
func Catalog() []Trigger {
	out := make([]Trigger, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup returns the trigger registered under code.
func Lookup(code Code) (Trigger, bool) {
	t, ok := byCode[code]
	return t, ok
}

// Describe returns the description for code, or a placeholder for unknown codes.
func Describe(code Code) string {
	if t, ok := byCode[code]; ok {
		return t.Description
	}
	return fmt.Sprintf("unknown fault code %d", int(code))
}

// Attribute returns the codes whose conditions hold for ops, in ascending order.
func Attribute(ops Operands) []Code {
	var codes []Code
	for _, t := range catalog {
		if t.Match(ops) {
			codes = append(codes, t.Code)
		}
	}
	return codes
}

// Sorted returns a sorted copy of codes.
func Sorted(codes []Code) []Code {
	out := append([]Code(nil), codes...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (c Code) String() string {
	return fmt.Sprintf("E%02d", int(c))
}

func negative(x int) bool { return x < 0 }

func count(row []int, v int) int {
	n := 0
	for _, x := range row {
		if x == v {
			n++
		}
	}
	return n
}

func anyRow(m matrix.Matrix, pred func([]int) bool) bool {
	for _, row := range m {
		if pred(row) {
			return true
		}
	}
	return false
}

// everyRow is false for an empty matrix.
func everyRow(m matrix.Matrix, pred func([]int) bool) bool {
	if len(m) == 0 {
		return false
	}
	for _, row := range m {
		if !pred(row) {
			return false
		}
	}
	return true
}

// multipliesOnes reports whether the accumulation of A×B ever pairs two ones.
// Uses the actual operand sizes so it stays safe on incoherent inputs.
func multipliesOnes(o Operands) bool {
	for _, row := range o.A {
		for k, x := range row {
			if x != 1 || k >= len(o.B) {
				continue
			}
			if count(o.B[k], 1) > 0 {
				return true
			}
		}
	}
	return false
}
