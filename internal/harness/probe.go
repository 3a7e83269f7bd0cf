package harness

import "fmt"

// Signal is what a probe observed. A multiplier signals failure by
// panicking; Raised is false when it returned normally.
type Signal struct {
	Raised bool
	Value  string
}

// Probe runs fn and reports whether it panicked. Probe never panics itself,
// so it must not wrap aborting assertions.
func Probe(fn func()) (sig Signal) {
	defer func() {
		if r := recover(); r != nil {
			sig = Signal{Raised: true, Value: fmt.Sprint(r)}
		}
	}()
	fn()
	return Signal{}
}
