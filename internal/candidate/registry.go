package candidate

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/matverify/internal/matrix"
	"github.com/roach88/matverify/internal/reference"
)

// ErrUnknownCandidate is returned by Lookup for unregistered names.
var ErrUnknownCandidate = errors.New("candidate: unknown name")

// Candidate names accepted by Lookup.
const (
	NameFaulty    = "faulty"
	NameReference = "reference"
	NameGonum     = "gonum"
)

// Names lists the registered candidates.
func Names() []string {
	return []string{NameFaulty, NameGonum, NameReference}
}

// Lookup resolves a candidate by name. The logger only affects "faulty".
func Lookup(name string, logger *slog.Logger) (matrix.Multiplier, error) {
	switch name {
	case NameFaulty:
		opts := []Option{}
		if logger != nil {
			opts = append(opts, WithLogger(logger))
		}
		return NewFaulty(opts...).Multiply, nil
	case NameReference:
		return reference.Multiply, nil
	case NameGonum:
		return reference.Gonum, nil
	default:
		return nil, fmt.Errorf("%q (known: %v): %w", name, Names(), ErrUnknownCandidate)
	}
}
