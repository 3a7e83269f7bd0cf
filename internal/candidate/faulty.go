// Package candidate supplies multipliers to put under test.
//
// Faulty reproduces the observable behavior of the closed-source routine the
// harness was built against: it performs an unchecked triple loop over the
// declared dimensions, reports every catalog condition it notices as an
// "Error N" line, and corrupts its output when one of its active modes fires.
// It exists so the harness has a realistic subject to localize faults in.
package candidate

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/matverify/internal/faults"
	"github.com/roach88/matverify/internal/matrix"
)

// DefaultModes are the value-triggered faults Faulty corrupts output for
// unless configured otherwise.
var DefaultModes = []faults.Code{2, 4, 9, 15, 17}

// Faulty is a multiplier with injected value-dependent defects.
type Faulty struct {
	active map[faults.Code]bool
	logger *slog.Logger
}

// Option configures a Faulty.
type Option func(*Faulty)

// WithModes replaces the set of active (corrupting) modes.
// Passing no codes yields a multiplier that reports but never corrupts.
func WithModes(codes ...faults.Code) Option {
	return func(f *Faulty) {
		f.active = make(map[faults.Code]bool, len(codes))
		for _, c := range codes {
			f.active[c] = true
		}
	}
}

// WithLogger routes "Error N" reports to logger at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Faulty) {
		f.logger = logger
	}
}

// NewFaulty creates a Faulty with DefaultModes and a discarding logger.
func NewFaulty(opts ...Option) *Faulty {
	f := &Faulty{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	WithModes(DefaultModes...)(f)
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Modes returns the active modes in ascending order.
func (f *Faulty) Modes() []faults.Code {
	codes := make([]faults.Code, 0, len(f.active))
	for c := range f.active {
		codes = append(codes, c)
	}
	return faults.Sorted(codes)
}

// Multiply satisfies matrix.Multiplier.
//
// Sizes are trusted blindly: a declared size larger than an operand panics
// with an index error, a smaller or negative one is silently accepted.
func (f *Faulty) Multiply(a, b, c matrix.Matrix, rowsA, colsA, colsB int) {
	for i := 0; i < rowsA; i++ {
		for j := 0; j < colsB; j++ {
			sum := 0
			for k := 0; k < colsA; k++ {
				sum += a[i][k] * b[k][j]
			}
			c[i][j] = sum
		}
	}

	delta := 0
	for _, code := range faults.Attribute(faults.Operands{A: a, B: b, C: c}) {
		f.logger.Debug(fmt.Sprintf("Error %d: %s!", int(code), faults.Describe(code)),
			"code", int(code),
			"active", f.active[code],
		)
		if f.active[code] {
			delta += int(code)
		}
	}

	if delta != 0 && rowsA > 0 && colsB > 0 {
		c[0][0] += delta
	}
}
