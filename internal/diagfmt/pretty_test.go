package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"waccc/internal/diag"
	"waccc/internal/source"
)

func oneDiag(t *testing.T, path, content string, start, end uint32, code diag.Code, msg string) (*diag.Bag, *source.FileSet, source.FileID) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual(path, []byte(content))
	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevError, code, source.Span{File: id, Start: start, End: end}, msg))
	return bag, fs, id
}

func TestPrettyCaretUnderSpan(t *testing.T) {
	src := "begin\n  int x = true\nend\n"
	bag, fs, _ := oneDiag(t, "prog.wacc", src, 16, 20, diag.SemaTypeMismatch, "expected int, got bool")
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename})
	want := strings.Join([]string{
		"prog.wacc:2:11: ERROR SEM3003: expected int, got bool",
		"2 |   int x = true",
		"  |           ^~~~",
		"",
	}, "\n")
	if buf.String() != want {
		t.Fatalf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestPrettyContextLines(t *testing.T) {
	src := "begin\n  skip ;\n  int x = true\nend\n"
	bag, fs, _ := oneDiag(t, "prog.wacc", src, 24, 28, diag.SemaTypeMismatch, "mismatch")
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, Context: 1})
	if !strings.Contains(buf.String(), "2 |   skip ;\n3 |   int x = true\n") {
		t.Fatalf("missing context line:\n%s", buf.String())
	}
}

func TestPrettyWideCharacters(t *testing.T) {
	// "日本" occupies four cells but six bytes; the caret under y must start
	// after seven cells.
	bag, fs, _ := oneDiag(t, "w.wacc", "# 日本 y\n", 9, 10, diag.LexUnknownChar, "bad")
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename})
	lines := strings.Split(buf.String(), "\n")
	if len(lines) < 3 || lines[2] != "  | "+strings.Repeat(" ", 7)+"^" {
		t.Fatalf("caret line wrong:\n%s", buf.String())
	}
}

func TestPrettyPathModes(t *testing.T) {
	long := "/very/long/absolute/path/to/some/nested/directory/file.wacc"
	for mode, want := range map[PathMode]string{
		PathModeAuto:     "file.wacc:1:1:",
		PathModeBasename: "file.wacc:1:1:",
		PathModeAbsolute: long + ":1:1:",
	} {
		bag, fs, _ := oneDiag(t, long, "x", 0, 1, diag.LexUnknownChar, "bad")
		var buf bytes.Buffer
		Pretty(&buf, bag, fs, PrettyOpts{PathMode: mode})
		if !strings.HasPrefix(buf.String(), want) {
			t.Errorf("mode %d: got %q, want prefix %q", mode, buf.String(), want)
		}
	}
}

func TestPrettyNotesAndColor(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("n.wacc", []byte("int x = 1 ;\nint x = 2\n"))
	bag := diag.NewBag(10)
	d := diag.New(diag.SevError, diag.SemaRedeclaration, source.Span{File: id, Start: 16, End: 17}, "x redeclared")
	bag.Add(d.WithNote(source.Span{File: id, Start: 4, End: 5}, "first declared here"))

	var plain bytes.Buffer
	Pretty(&plain, bag, fs, PrettyOpts{ShowNotes: true})
	if !strings.Contains(plain.String(), "note: n.wacc:1:5: first declared here") {
		t.Fatalf("missing note:\n%s", plain.String())
	}
	if strings.Contains(plain.String(), "\x1b[") {
		t.Fatalf("escape codes without color:\n%q", plain.String())
	}

	var colored bytes.Buffer
	Pretty(&colored, bag, fs, PrettyOpts{Color: true})
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Fatalf("no escape codes with color:\n%q", colored.String())
	}
}

func TestShortAndMax(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("s.wacc", []byte("abc"))
	bag := diag.NewBag(0)
	bag.Add(diag.New(diag.SevError, diag.LexUnknownChar, source.Span{File: id, Start: 0, End: 1}, "one"))
	bag.Add(diag.New(diag.SevError, diag.LexUnknownChar, source.Span{File: id, Start: 1, End: 2}, "two"))

	var short bytes.Buffer
	Short(&short, bag, fs, false)
	if got := strings.Count(short.String(), "\n"); got != 2 {
		t.Fatalf("short output has %d lines:\n%s", got, short.String())
	}

	var pretty bytes.Buffer
	Pretty(&pretty, bag, fs, PrettyOpts{Max: 1})
	if strings.Contains(pretty.String(), "two") {
		t.Fatalf("Max not applied:\n%s", pretty.String())
	}
}
