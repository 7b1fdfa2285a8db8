package observ

import (
	"bytes"
	"strings"
	"testing"
)

func TestTimerKeepsPhaseOrder(t *testing.T) {
	tm := NewTimer()
	stopParse := tm.Start("parse")
	stopBuild := tm.Start("build")
	stopBuild("2 funcs")
	stopParse("")

	r := tm.Report()
	if len(r.Phases) != 2 || r.Phases[0].Name != "parse" || r.Phases[1].Note != "2 funcs" {
		t.Fatalf("report = %+v", r)
	}
	if r.TotalMS < r.Phases[0].DurationMS {
		t.Errorf("total %v below a phase %v", r.TotalMS, r.Phases[0].DurationMS)
	}

	var buf bytes.Buffer
	if err := r.WriteSummary(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"timings:\n", "  parse ", "// 2 funcs", "  total "} {
		if !strings.Contains(out, want) {
			t.Errorf("summary lacks %q:\n%s", want, out)
		}
	}
}

func TestNilTimer(t *testing.T) {
	var tm *Timer
	tm.Start("parse")("ignored")
	if r := tm.Report(); len(r.Phases) != 0 {
		t.Errorf("nil timer reported %+v", r)
	}
}
