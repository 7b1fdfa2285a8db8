package diag

import (
	"fmt"
	"strings"

	"waccc/internal/source"
)

// FormatShort renders diagnostics one per line as
// "<sev> <CODE> <path>:<line>:<col> <message>" in the given order. Notes are
// rendered as extra "note" lines when includeNotes is set.
func FormatShort(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if len(diags) == 0 {
		return ""
	}
	var b strings.Builder
	for i := range diags {
		d := &diags[i]
		writeShort(&b, severityLabel(d.Severity), d.Code, fs, d.Primary, d.Message)
		if includeNotes {
			for _, note := range d.Notes {
				writeShort(&b, "note", d.Code, fs, note.Span, note.Msg)
			}
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func writeShort(b *strings.Builder, sev string, code Code, fs *source.FileSet, sp source.Span, msg string) {
	pos := sp.String()
	if fs != nil {
		pos = fs.Position(sp)
	}
	fmt.Fprintf(b, "%s %s %s %s\n", sev, code.ID(), pos, sanitizeMessage(msg))
}

func severityLabel(sev Severity) string {
	switch sev {
	case SevError:
		return "error"
	case SevWarning:
		return "warning"
	default:
		return "info"
	}
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}

// Codes extracts the codes of diags in order; handy in tests.
func Codes(diags []Diagnostic) []Code {
	out := make([]Code, len(diags))
	for i := range diags {
		out[i] = diags[i].Code
	}
	return out
}
