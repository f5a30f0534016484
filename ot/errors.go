package ot

import (
	"errors"
	"fmt"
)

// Error kinds shared by all packages of this module. Callers test for them
// with errors.Is; concrete errors wrap one of these with context.
var (
	// ErrNotFound flags a missing record, field or row.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument flags a caller error, e.g. copying a name record onto itself.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrValidation flags a value outside of its declared range.
	ErrValidation = errors.New("validation error")
	// ErrIO flags a failure to load or save a font or a data file.
	ErrIO = errors.New("I/O failure")
)

// Errorf creates an error of a given kind, formatted with additional context.
//
//	err := ot.Errorf(ot.ErrValidation, "usWeightClass %d out of range", w)
//	errors.Is(err, ot.ErrValidation) // => true
func Errorf(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}

// --- Parse diagnostics -----------------------------------------------------

// ErrorSeverity grades a problem found while parsing a font.
type ErrorSeverity int

const (
	SeverityCritical ErrorSeverity = iota // font cannot be edited
	SeverityMajor                         // a table is unusable, names may still be edited
	SeverityMinor                         // cosmetic, tools usually ignore it
)

var severityNames = [...]string{"CRITICAL", "MAJOR", "MINOR"}

func (s ErrorSeverity) String() string {
	if s < 0 || int(s) >= len(severityNames) {
		return "UNKNOWN"
	}
	return severityNames[s]
}

// FontError is a structural problem of a font's binary data. Parse collects
// them; clients inspect them with Font.Errors.
type FontError struct {
	Table    Tag    // e.g. "head", "OS/2"
	Section  string // part of the table, e.g. "Size"
	Issue    string
	Severity ErrorSeverity
	Offset   uint32 // file offset, 0 if unknown
}

func (e FontError) Error() string {
	where := fmt.Sprintf("%s/%s", e.Table, e.Section)
	if e.Offset > 0 {
		where += fmt.Sprintf(" at offset %d", e.Offset)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Severity, where, e.Issue)
}

// FontWarning is a deviation from the OpenType recommendations which does
// not keep us from editing the font.
type FontWarning struct {
	Table  Tag
	Issue  string
	Offset uint32 // file offset, 0 if unknown
}

func (w FontWarning) String() string {
	where := w.Table.String()
	if w.Offset > 0 {
		where += fmt.Sprintf(" at offset %d", w.Offset)
	}
	return fmt.Sprintf("[WARNING] %s: %s", where, w.Issue)
}

type errorCollector struct {
	errors   []FontError
	warnings []FontWarning
}

func (ec *errorCollector) addError(table Tag, section, issue string, severity ErrorSeverity, offset uint32) {
	ec.errors = append(ec.errors, FontError{table, section, issue, severity, offset})
}

func (ec *errorCollector) addWarning(table Tag, issue string, offset uint32) {
	ec.warnings = append(ec.warnings, FontWarning{table, issue, offset})
}

func (ec *errorCollector) hasCriticalErrors() bool {
	for _, e := range ec.errors {
		if e.Severity == SeverityCritical {
			return true
		}
	}
	return false
}
