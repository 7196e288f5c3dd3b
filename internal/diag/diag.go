// Package diag defines the single diagnostic payload type threaded through
// every compiler pass, plus the stable WJNNNN code catalog and the
// levenshtein-based "did you mean X?" suggestion helper.
//
// Grounded on the teacher's core.CLIError{Code, Message, Detail} plus its
// core.Wrap helper, generalized here to carry source spans and suggested
// fixes rather than just a flat message.
package diag

import (
	"fmt"

	"github.com/oxhq/windjammer/internal/token"
)

// Severity classifies how a Diagnostic should be surfaced.
type Severity int

const (
	// Error blocks code generation for the affected unit.
	Error Severity = iota
	// Warning never blocks code generation.
	Warning
	// Info is advisory (e.g. a style suggestion, an applied-fix note).
	Info
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return "info"
	}
}

// Fix is a single machine-applicable suggested edit.
type Fix struct {
	Description string
	Span        token.Span
	Replacement string
}

// Diagnostic is one compiler-surfaced finding: a stable code, severity, a
// primary span plus zero or more secondary (related) spans, a message, and
// zero or more suggested fixes.
type Diagnostic struct {
	Code      string
	Severity  Severity
	Primary   token.Span
	Secondary []token.Span
	Message   string
	Fixes     []Fix
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s: [%s] %s", d.Primary.Unit, d.Primary.Line, d.Primary.Column, d.Severity, d.Code, d.Message)
}

// New constructs an Error-severity Diagnostic at span with code and a
// formatted message.
func New(code string, span token.Span, format string, args ...any) Diagnostic {
	return Diagnostic{Code: code, Severity: Error, Primary: span, Message: fmt.Sprintf(format, args...)}
}

// Warn constructs a Warning-severity Diagnostic at span with code and a
// formatted message.
func Warn(code string, span token.Span, format string, args ...any) Diagnostic {
	return Diagnostic{Code: code, Severity: Warning, Primary: span, Message: fmt.Sprintf(format, args...)}
}

// WithFix returns a copy of d with fix appended to its suggested fixes.
func (d Diagnostic) WithFix(fix Fix) Diagnostic {
	d.Fixes = append(append([]Fix(nil), d.Fixes...), fix)
	return d
}

// WithSecondary returns a copy of d with sp appended to its secondary spans.
func (d Diagnostic) WithSecondary(sp token.Span) Diagnostic {
	d.Secondary = append(append([]token.Span(nil), d.Secondary...), sp)
	return d
}

// HasErrors reports whether any Diagnostic in diags is Error-severity.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// Wrap lifts a plain Go error (file I/O, backend failure) into an internal
// WJ09xx diagnostic, matching the teacher's core.Wrap(code, msg, err)
// pairing of a stable code with an underlying cause.
func Wrap(code string, span token.Span, msg string, err error) Diagnostic {
	return Diagnostic{
		Code:     code,
		Severity: Error,
		Primary:  span,
		Message:  fmt.Sprintf("%s: %v", msg, err),
	}
}
