package testutil

import (
	"sync"

	"github.com/roach88/matverify/internal/matrix"
)

// Call is one recorded multiplier invocation.
type Call struct {
	Dims matrix.Dims
	A, B matrix.Matrix
}

// Recorder wraps a multiplier and records every call made through it.
//
// Thread-safety: Multiply and Calls are safe for concurrent use.
type Recorder struct {
	mu    sync.Mutex
	next  matrix.Multiplier
	calls []Call
}

// NewRecorder wraps next. A nil next performs no arithmetic.
func NewRecorder(next matrix.Multiplier) *Recorder {
	return &Recorder{next: next}
}

// Multiply satisfies matrix.Multiplier.
func (r *Recorder) Multiply(a, b, c matrix.Matrix, rowsA, colsA, colsB int) {
	r.mu.Lock()
	r.calls = append(r.calls, Call{
		Dims: matrix.Dims{RowsA: rowsA, ColsA: colsA, ColsB: colsB},
		A:    a.Clone(),
		B:    b.Clone(),
	})
	r.mu.Unlock()

	if r.next != nil {
		r.next(a, b, c, rowsA, colsA, colsB)
	}
}

// Calls returns a copy of the recorded calls.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// Panicking returns a multiplier that always raises a failure signal.
func Panicking(msg string) matrix.Multiplier {
	return func(_, _, _ matrix.Matrix, _, _, _ int) {
		panic(msg)
	}
}

// Silent returns a multiplier that accepts any call and never writes C.
func Silent() matrix.Multiplier {
	return func(_, _, _ matrix.Matrix, _, _, _ int) {}
}
