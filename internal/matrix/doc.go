// Package matrix provides the dense integer matrix value used throughout the
// verification harness.
//
// A Matrix is a plain [][]int. It carries no behavior beyond storage and a
// handful of shape and comparison helpers; multiplication is deliberately not
// implemented here. The routine under test and the trusted reference both
// satisfy the Multiplier function type and live in their own packages.
//
// # Dimension Triple
//
// Multipliers receive the dimensions explicitly alongside the operands:
//
//	mul(a, b, c, rowsA, colsA, colsB)
//
// Under correct usage rowsA == len(a), colsA == len(a[0]) == len(b) and
// colsB == len(b[0]). The harness deliberately violates this to observe how
// the routine under test reacts, so the triple is never derived implicitly.
package matrix
