// Package convert turns raw site log values into typed values.
//
// Each conversion is available as a pure function (ToFloat, ToDate, ...)
// that returns a typed value and an error, and as a Converter used by the
// binder. A Converter returns a Result that may carry a warning or mark the
// value as ignored; failures are always a *Error.
package convert

import (
	"errors"
	"fmt"
)

// Kind identifies what a Converter produces.
type Kind string

// Converter kinds.
const (
	KindString     Kind = "string"
	KindFloat      Kind = "float"
	KindInt        Kind = "int"
	KindDate       Kind = "date"
	KindDateTime   Kind = "datetime"
	KindEnum       Kind = "enum"
	KindEquipment  Kind = "equipment"
	KindSatellites Kind = "satellites"
	KindCoordinate Kind = "coordinate"
	KindIgnored    Kind = "ignored"
)

// Causes wrapped by *Error.
var (
	ErrNotNumeric       = errors.New("not numeric")
	ErrInvalidDate      = errors.New("invalid date")
	ErrUnknownChoice    = errors.New("unknown choice")
	ErrUnknownEquipment = errors.New("unknown equipment")
)

// Error is a failed conversion. Message is operator facing and is used
// verbatim as the finding message.
type Error struct {
	Kind    Kind
	Value   string
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

// Unwrap returns the cause.
func (e *Error) Unwrap() error { return e.Err }

func fail(kind Kind, value string, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Value: value, Message: fmt.Sprintf(format, args...), Err: cause}
}

// Result is the outcome of a successful conversion.
type Result struct {
	Value any
	// Warning, when set, is reported against the parameter while Value is
	// still bound.
	Warning string
	// Ignored marks a value that is deliberately discarded. Note explains why.
	Ignored bool
	Note    string
}

// Value wraps a plain converted value.
func Value(v any) Result { return Result{Value: v} }

// Warn wraps a value bound with a warning.
func Warn(v any, format string, args ...any) Result {
	return Result{Value: v, Warning: fmt.Sprintf(format, args...)}
}

// Skip marks a value as ignored.
func Skip(note string) Result { return Result{Ignored: true, Note: note} }

// Converter converts one raw value.
type Converter interface {
	Kind() Kind
	Convert(raw string) (Result, error)
}

type funcConverter struct {
	kind Kind
	fn   func(string) (Result, error)
}

func (c funcConverter) Kind() Kind                         { return c.kind }
func (c funcConverter) Convert(raw string) (Result, error) { return c.fn(raw) }

// New adapts a function into a Converter.
func New(kind Kind, fn func(raw string) (Result, error)) Converter {
	return funcConverter{kind: kind, fn: fn}
}
