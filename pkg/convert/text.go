package convert

import "strings"

// String binds the raw value unchanged.
func String() Converter {
	return New(KindString, func(raw string) (Result, error) {
		return Value(raw), nil
	})
}

// Concat joins a multi-line value after trimming each line, for values such
// as URLs that were wrapped across lines.
func Concat() Converter {
	return New(KindString, func(raw string) (Result, error) {
		var b strings.Builder
		for _, ln := range strings.Split(raw, "\n") {
			b.WriteString(strings.TrimSpace(ln))
		}
		return Value(b.String()), nil
	})
}

// Ignore discards the value. note may be empty.
func Ignore(note string) Converter {
	return New(KindIgnored, func(string) (Result, error) {
		return Skip(note), nil
	})
}
