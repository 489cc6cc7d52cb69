package diag

import "codetidy/internal/errcode"

// Reporter: минимальный контракт получения находок от стадий.
// Реализации: BagReporter (кладёт в Bag), FuncReporter.
type Reporter interface {
	Report(d Diagnostic)
}

// ReportBuilder accumulates finding details before emitting to Reporter.
type ReportBuilder struct {
	reporter Reporter
	diag     Diagnostic
	emitted  bool
}

// NewReportBuilder constructs a builder bound to Reporter.
func NewReportBuilder(r Reporter, sev Severity, rule Rule, primary Location, msg string) *ReportBuilder {
	return &ReportBuilder{
		reporter: r,
		diag:     New(sev, rule, primary, msg),
	}
}

// ReportError is a shortcut for SevError findings.
func ReportError(r Reporter, rule Rule, primary Location, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevError, rule, primary, msg)
}

// ReportWarning is a shortcut for SevWarning findings.
func ReportWarning(r Reporter, rule Rule, primary Location, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevWarning, rule, primary, msg)
}

// WithCode records the error code the finding is about.
func (b *ReportBuilder) WithCode(code errcode.Code) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag.Code = code
	return b
}

// WithSnippet attaches the offending source line.
func (b *ReportBuilder) WithSnippet(line string) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag.Snippet = line
	return b
}

// WithNote appends a note.
func (b *ReportBuilder) WithNote(loc Location, msg string) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag.Notes = append(b.diag.Notes, Note{Loc: loc, Msg: msg})
	return b
}

// Emit sends the finding to the underlying reporter exactly once.
func (b *ReportBuilder) Emit() {
	if b == nil || b.emitted {
		return
	}
	if b.reporter != nil {
		b.reporter.Report(b.diag)
	}
	b.emitted = true
}

// Diagnostic returns the accumulated finding without emitting.
func (b *ReportBuilder) Diagnostic() Diagnostic {
	if b == nil {
		return Diagnostic{}
	}
	return b.diag
}

// BagReporter: адаптер, который пишет в *Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(d Diagnostic) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(d)
}

// FuncReporter adapts a function to Reporter.
type FuncReporter func(Diagnostic)

func (f FuncReporter) Report(d Diagnostic) {
	if f != nil {
		f(d)
	}
}
