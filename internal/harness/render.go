package harness

import (
	"fmt"
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// WriteText renders r for humans.
//
// Counts are printed with English digit grouping; seeds are printed raw so
// they can be pasted back into a replay.
func WriteText(w io.Writer, r *Report) error {
	p := message.NewPrinter(language.English)
	ew := &errWriter{w: w}

	ew.printf("Run %s", r.RunID)
	if r.Candidate != "" {
		ew.printf(" candidate=%s", r.Candidate)
	}
	if r.Seed != nil {
		ew.printf(" seed=%d", *r.Seed)
	}
	ew.printf("\n\n")

	for _, c := range r.Cases {
		mark := "✓"
		if !c.Pass {
			mark = "✗"
		}
		ew.printf("%s %s (%s)\n", mark, c.ID(), plural(p, c.Checks, "check", "checks"))
		for _, f := range c.Failures {
			ew.printf("    %s\n", f)
		}
		for _, f := range c.Findings {
			ew.printf("  ! %s\n", f)
		}
	}

	var failing []TriggerStat
	for _, st := range r.Triggers {
		if st.Failed > 0 {
			failing = append(failing, st)
		}
	}
	if len(failing) > 0 {
		ew.printf("\nFault conditions on failed checks:\n")
		for _, st := range failing {
			ew.printf("  %s %s/%s  %s\n", st.Code, p.Sprintf("%d", st.Failed), p.Sprintf("%d", st.Present), st.Description)
		}
	}

	if r.Interrupted {
		ew.printf("\nRun interrupted: remaining cases were not executed.\n")
	}
	ew.printf("\n%s\n", p.Sprintf("Test Summary: %d passed, %d failed, %d total (%d checks)",
		r.Passed, r.Failed, r.Total, r.Checks))
	return ew.err
}

func plural(p *message.Printer, n int, one, many string) string {
	if n == 1 {
		return p.Sprintf("%d %s", n, one)
	}
	return p.Sprintf("%d %s", n, many)
}

type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
