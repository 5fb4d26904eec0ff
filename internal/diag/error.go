package diag

import (
	"errors"
	"fmt"

	"ionasm/internal/source"
)

// Error wraps one Diagnostic as a Go error. The compiler is fail-fast: every
// phase surfaces its first error immediately, and Error is how it travels.
type Error struct {
	Diag Diagnostic
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Diag.Code.Category(), e.Diag.Code.ID(), e.Diag.Message)
}

// Errorf builds a *Error with a formatted message at span.
func Errorf(code Code, span source.Span, format string, args ...any) *Error {
	return &Error{Diag: Diagnostic{
		Severity: SevError,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Primary:  span,
	}}
}

// AsError extracts a *Error from err, if there is one in its chain.
func AsError(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// CodeOf returns the diagnostic code of err, or UnknownCode for foreign errors.
func CodeOf(err error) Code {
	if de, ok := AsError(err); ok {
		return de.Diag.Code
	}
	return UnknownCode
}
