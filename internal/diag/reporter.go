package diag

import "waccc/internal/source"

// Reporter принимает диагностики от фаз.
// Реализации: BagReporter (кладёт в Bag), SliceReporter.
type Reporter interface {
	Report(code Code, sev Severity, primary source.Span, msg string, notes []Note)
}

// BagReporter пишет в *Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(Diagnostic{Severity: sev, Code: code, Message: msg, Primary: primary, Notes: notes})
}

// SliceReporter collects diagnostics into a plain slice in report order.
type SliceReporter struct{ Items []Diagnostic }

func (r *SliceReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	r.Items = append(r.Items, Diagnostic{Severity: sev, Code: code, Message: msg, Primary: primary, Notes: notes})
}

// Emit forwards a finished diagnostic to r.
func Emit(r Reporter, d Diagnostic) {
	if r == nil {
		return
	}
	r.Report(d.Code, d.Severity, d.Primary, d.Message, d.Notes)
}
