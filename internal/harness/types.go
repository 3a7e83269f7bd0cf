package harness

import (
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/matverify/internal/faults"
	"github.com/roach88/matverify/internal/matrix"
)

// FindingNonConformance marks a probe whose failure signal never came.
const FindingNonConformance = "non-conformance"

// Failure is one unmet expectation, with enough context to reproduce it.
type Failure struct {
	Step     string        `json:"step,omitempty" yaml:"step,omitempty"`
	Message  string        `json:"message" yaml:"message"`
	Dims     *matrix.Dims  `json:"dims,omitempty" yaml:"dims,omitempty"`
	A        matrix.Matrix `json:"a,omitempty" yaml:"a,omitempty,flow"`
	B        matrix.Matrix `json:"b,omitempty" yaml:"b,omitempty,flow"`
	Expected matrix.Matrix `json:"expected,omitempty" yaml:"expected,omitempty,flow"`
	Actual   matrix.Matrix `json:"actual,omitempty" yaml:"actual,omitempty,flow"`
	Seed     *uint32       `json:"seed,omitempty" yaml:"seed,omitempty"`
	Trial    *int          `json:"trial,omitempty" yaml:"trial,omitempty"`
	Triggers []faults.Code `json:"triggers,omitempty" yaml:"triggers,omitempty,flow"`
}

// String renders the failure on one line.
func (f Failure) String() string {
	var buf strings.Builder
	if f.Step != "" {
		fmt.Fprintf(&buf, "%s: ", f.Step)
	}
	buf.WriteString(f.Message)
	if f.Dims != nil {
		fmt.Fprintf(&buf, " dims=%v", *f.Dims)
	}
	if f.A != nil {
		fmt.Fprintf(&buf, " A=%v", f.A)
	}
	if f.B != nil {
		fmt.Fprintf(&buf, " B=%v", f.B)
	}
	if f.Expected != nil {
		fmt.Fprintf(&buf, " expected=%v", f.Expected)
	}
	if f.Actual != nil {
		fmt.Fprintf(&buf, " actual=%v", f.Actual)
	}
	if f.Seed != nil {
		fmt.Fprintf(&buf, " seed=%d", *f.Seed)
	}
	if f.Trial != nil {
		fmt.Fprintf(&buf, " trial=%d", *f.Trial)
	}
	if len(f.Triggers) > 0 {
		codes := make([]string, len(f.Triggers))
		for i, c := range f.Triggers {
			codes[i] = c.String()
		}
		fmt.Fprintf(&buf, " triggers=%s", strings.Join(codes, ","))
	}
	return buf.String()
}

// Finding records exploratory behavior worth documenting. Findings never
// fail a case.
type Finding struct {
	Kind     string        `json:"kind" yaml:"kind"`
	Step     string        `json:"step,omitempty" yaml:"step,omitempty"`
	Detail   string        `json:"detail" yaml:"detail"`
	Dims     *matrix.Dims  `json:"dims,omitempty" yaml:"dims,omitempty"`
	Observed matrix.Matrix `json:"observed,omitempty" yaml:"observed,omitempty,flow"`
}

func (f Finding) String() string {
	if f.Step != "" {
		return fmt.Sprintf("%s: %s: %s", f.Kind, f.Step, f.Detail)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Detail)
}

// TriggerStat counts how often a catalog condition accompanied a check and
// how often it accompanied a failed one.
type TriggerStat struct {
	Code        faults.Code `json:"code" yaml:"code"`
	Description string      `json:"description" yaml:"description"`
	Present     int         `json:"present" yaml:"present"`
	Failed      int         `json:"failed" yaml:"failed"`
}

// FailureRate is Failed/Present, or 0 when the trigger never appeared.
func (s TriggerStat) FailureRate() float64 {
	if s.Present == 0 {
		return 0
	}
	return float64(s.Failed) / float64(s.Present)
}

// triggerTally accumulates TriggerStats keyed by code.
type triggerTally map[faults.Code]*TriggerStat

func (t triggerTally) record(codes []faults.Code, failed bool) {
	for _, code := range codes {
		st, ok := t[code]
		if !ok {
			st = &TriggerStat{Code: code, Description: faults.Describe(code)}
			t[code] = st
		}
		st.Present++
		if failed {
			st.Failed++
		}
	}
}

func (t triggerTally) merge(stats []TriggerStat) {
	for _, s := range stats {
		st, ok := t[s.Code]
		if !ok {
			st = &TriggerStat{Code: s.Code, Description: s.Description}
			t[s.Code] = st
		}
		st.Present += s.Present
		st.Failed += s.Failed
	}
}

func (t triggerTally) sorted() []TriggerStat {
	out := make([]TriggerStat, 0, len(t))
	for _, st := range t {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// CaseResult is the outcome of one case.
type CaseResult struct {
	Suite    string        `json:"suite" yaml:"suite"`
	Name     string        `json:"name" yaml:"name"`
	Pass     bool          `json:"pass" yaml:"pass"`
	Checks   int           `json:"checks" yaml:"checks"`
	Failures []Failure     `json:"failures,omitempty" yaml:"failures,omitempty"`
	Findings []Finding     `json:"findings,omitempty" yaml:"findings,omitempty"`
	Triggers []TriggerStat `json:"triggers,omitempty" yaml:"triggers,omitempty"`
}

// ID returns "suite/name".
func (r CaseResult) ID() string {
	return r.Suite + "/" + r.Name
}

// Report is the outcome of a full run.
type Report struct {
	RunID     string        `json:"run_id" yaml:"run_id"`
	Candidate string        `json:"candidate,omitempty" yaml:"candidate,omitempty"`
	Seed      *uint32       `json:"seed,omitempty" yaml:"seed,omitempty"`
	Cases     []CaseResult  `json:"cases" yaml:"cases"`
	Passed    int           `json:"passed" yaml:"passed"`
	Failed    int           `json:"failed" yaml:"failed"`
	Total     int           `json:"total" yaml:"total"`
	Checks    int           `json:"checks" yaml:"checks"`
	Triggers  []TriggerStat `json:"triggers,omitempty" yaml:"triggers,omitempty"`

	// Interrupted is set when the run stopped before every selected case ran.
	Interrupted bool `json:"interrupted,omitempty" yaml:"interrupted,omitempty"`
}

// NewReport creates an empty report for runID.
func NewReport(runID string) *Report {
	return &Report{
		RunID: runID,
		Cases: []CaseResult{},
	}
}

// Pass reports whether the run completed and every case passed.
func (r *Report) Pass() bool {
	return r.Failed == 0 && !r.Interrupted
}

// Add appends a case result and updates the totals.
func (r *Report) Add(res CaseResult) {
	r.Cases = append(r.Cases, res)
	r.Total++
	r.Checks += res.Checks
	if res.Pass {
		r.Passed++
	} else {
		r.Failed++
	}

	tally := make(triggerTally)
	tally.merge(r.Triggers)
	tally.merge(res.Triggers)
	r.Triggers = tally.sorted()
}

// Findings returns every finding in case order.
func (r *Report) Findings() []Finding {
	var out []Finding
	for _, c := range r.Cases {
		out = append(out, c.Findings...)
	}
	return out
}

// Case returns the result with the given suite and name.
func (r *Report) Case(suite, name string) (CaseResult, bool) {
	for _, c := range r.Cases {
		if c.Suite == suite && c.Name == name {
			return c, true
		}
	}
	return CaseResult{}, false
}
