package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"waccc/internal/diag"
	"waccc/internal/source"
)

type palette struct {
	err, warn, info, note, gutter, caret, bold *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgBlue, color.Bold),
		note:   color.New(color.FgCyan, color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
		bold:   color.New(color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.gutter, p.caret, p.bold} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид, в порядке
// bag.Items() (bag.Sort() вызывается заранее). Для каждой печатает
//
//	<path>:<line>:<col>: <SEV> <CODE>: <Message>
//
// затем строку исходника с подчёркиванием ^~~~ по Span, затем Notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	items := bag.Items()
	if opts.Max > 0 && opts.Max < len(items) {
		items = items[:opts.Max]
	}
	for i, d := range items {
		if i > 0 {
			fmt.Fprintln(w) //nolint:errcheck
		}
		path, at := position(fs, d.Primary, opts.PathMode)
		fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n", //nolint:errcheck
			path, at.Line, at.Col,
			p.severity(d.Severity).Sprint(d.Severity),
			p.bold.Sprint(d.Code.ID()),
			d.Message)
		writeSnippet(w, fs, d.Primary, opts.Context, p)
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			npath, nat := position(fs, n.Span, opts.PathMode)
			fmt.Fprintf(w, "%s %s:%d:%d: %s\n", p.note.Sprint("note:"), npath, nat.Line, nat.Col, n.Msg) //nolint:errcheck
			writeSnippet(w, fs, n.Span, 0, p)
		}
	}
}

// writeSnippet prints the spanned line with up to context lines before it and
// a caret line under the span. Columns are measured in display cells.
func writeSnippet(w io.Writer, fs *source.FileSet, sp source.Span, context int, p palette) {
	f := fs.Get(sp.File)
	if f == nil {
		return
	}
	start, end := fs.Resolve(sp)
	if start.Line == 0 {
		return
	}
	first := start.Line
	for context > 0 && first > 1 {
		first--
		context--
	}
	gutterWidth := len(fmt.Sprint(start.Line))
	for ln := first; ln <= start.Line; ln++ {
		fmt.Fprintf(w, "%s %s\n", p.gutter.Sprintf("%*d |", gutterWidth, ln), f.GetLine(ln)) //nolint:errcheck
	}

	line := f.GetLine(start.Line)
	col := clampCol(line, start.Col)
	endCol := clampCol(line, end.Col)
	if end.Line != start.Line {
		endCol = len(line) + 1
	}
	underlined := line[col-1 : max(col, endCol)-1]
	marker := "^" + strings.Repeat("~", max(runewidth.StringWidth(underlined)-1, 0))
	fmt.Fprintf(w, "%s %s%s\n", //nolint:errcheck
		p.gutter.Sprintf("%*s |", gutterWidth, ""),
		padTo(line[:col-1]),
		p.caret.Sprint(marker))
}

// clampCol turns a 1-based byte column into a valid index+1 of line.
func clampCol(line string, col uint32) int {
	c := int(col)
	if c < 1 {
		return 1
	}
	if c > len(line)+1 {
		return len(line) + 1
	}
	return c
}

// padTo returns whitespace as wide as prefix, keeping tabs so the caret
// lines up in the terminal.
func padTo(prefix string) string {
	var sb strings.Builder
	for _, r := range prefix {
		if r == '\t' {
			sb.WriteByte('\t')
			continue
		}
		sb.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return sb.String()
}

// Short prints one line per diagnostic, the format used by golden tests.
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, includeNotes bool) {
	if out := diag.FormatShort(bag.Items(), fs, includeNotes); out != "" {
		fmt.Fprintln(w, out) //nolint:errcheck
	}
}
