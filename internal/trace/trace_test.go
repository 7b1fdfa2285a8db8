package trace

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestStreamTracerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatText)
	pass := Begin(tr, ScopePass, "codegen", 0)
	fn := Begin(tr, ScopeFunc, "func:f", pass.ID())
	fn.End("")
	pass.WithExtra("lines", "12").End("ok")

	out := buf.String()
	if !strings.Contains(out, "→ codegen") || !strings.Contains(out, "← codegen (ok) {lines=12}") {
		t.Fatalf("missing pass events:\n%s", out)
	}
	if strings.Contains(out, "func:f") {
		t.Fatalf("function span emitted at phase level:\n%s", out)
	}
	if fn.ID() != 0 {
		t.Fatalf("inert span has id %d", fn.ID())
	}
}

func TestNDJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatNDJSON)
	Point(tr, ScopeNode, "stat", "return", 0)
	line := buf.String()
	for _, want := range []string{`"kind":"point"`, `"scope":"node"`, `"name":"stat"`, `"detail":"return"`} {
		if !strings.Contains(line, want) {
			t.Fatalf("missing %s in %s", want, line)
		}
	}
}

func TestRingTracerWrapsAndDumps(t *testing.T) {
	tr := NewRingTracer(2, LevelError)
	for _, name := range []string{"a", "b", "c"} {
		Begin(tr, ScopePass, name, 0)
	}
	snap := tr.Snapshot()
	if len(snap) != 2 || snap[0].Name != "b" || snap[1].Name != "c" {
		t.Fatalf("snapshot = %+v", snap)
	}
	var buf bytes.Buffer
	if err := tr.Dump(&buf, FormatText); err != nil {
		t.Fatal(err)
	}
	if strings.Count(buf.String(), "\n") != 2 {
		t.Fatalf("dump:\n%s", buf.String())
	}
}

func TestNewAtErrorLevelBuildsRing(t *testing.T) {
	tr, err := New(Config{Level: LevelError, Mode: ModeStream})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := tr.(Dumper); !ok {
		t.Fatalf("tracer %T cannot dump", tr)
	}
}

func TestContextRoundTrip(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatal("empty context should yield Nop")
	}
	tr := NewRingTracer(4, LevelPhase)
	if FromContext(WithTracer(context.Background(), tr)) != tr {
		t.Fatal("tracer lost in context")
	}
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]Level{"off": LevelOff, "PHASE": LevelPhase, "detail": LevelDetail, "debug": LevelDebug} {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Error("expected error for unknown level")
	}
}
