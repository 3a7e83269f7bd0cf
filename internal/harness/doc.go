// Package harness runs verification suites against a matrix multiplier.
//
// A Suite is an ordered list of cases. Each case body receives a *Case,
// which records checks, failures and exploratory findings:
//
//	c.Expect(harness.Comparison{...})   // record a mismatch, keep going
//	c.Require(harness.Comparison{...})  // record a mismatch, stop
//	c.Step("rowsA=3", func() { ... })   // stop only this sub-case
//	c.Note(harness.Finding{...})        // document, never fail
//
// Every product check attributes the fault catalog's trigger conditions to
// its operands and expected product, so a Report can tell which conditions
// accompany failures.
//
// Failure signals raised by the multiplier are Go panics. Probe turns one
// into a Signal for prescriptive or exploratory checks; an unexpected panic
// escaping a case body fails that case and the run moves on.
package harness
