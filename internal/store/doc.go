// Package store provides the SQLite findings ledger.
//
// Each recorded run keeps:
//   - Runs: candidate, fuzz seed, pass/fail totals and whether the run was
//     interrupted
//   - Failures: every unmet expectation with its operands as JSON
//   - Findings: exploratory non-conformance notes
//   - Trigger stats: per fault code, checks where the condition was present
//     and how many of those failed
//
// Aggregating trigger stats across runs is what turns individual failures
// into a correlation between catalog conditions and wrong output.
//
// # Ordering
//
// Runs are ordered by a logical sequence number assigned at insert time,
// never by timestamps, so listings are identical across machines.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait up to 5s on lock contention
//   - foreign_keys=ON: Deleting a run cascades to its rows
package store
