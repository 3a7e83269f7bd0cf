package harness

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// AssertGolden compares data against testdata/golden/{name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./... -update
func AssertGolden(t *testing.T, name string, data []byte) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
}

// AssertReportGolden renders r as text and compares it against a golden file.
func AssertReportGolden(t *testing.T, name string, r *Report) {
	t.Helper()

	var buf bytes.Buffer
	if err := WriteText(&buf, r); err != nil {
		t.Fatalf("render report: %v", err)
	}
	AssertGolden(t, name, buf.Bytes())
}
