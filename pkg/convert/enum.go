package convert

import (
	"strings"
)

// Choices is a controlled vocabulary.
type Choices interface {
	Match(s string) (string, bool)
	Labels() []string
}

// ToEnum maps raw onto a vocabulary value, trying successively shorter
// leading runs of words so that trailing notes are tolerated. A blank value
// yields "".
func ToEnum(c Choices, raw string) (string, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return "", nil
	}
	words := strings.Fields(v)
	for n := len(words); n > 0; n-- {
		if code, ok := c.Match(strings.Join(words[:n], " ")); ok {
			return code, nil
		}
	}
	return "", fail(KindEnum, raw, ErrUnknownChoice,
		"Invalid value %s must be one of:\n%s", v, strings.Join(c.Labels(), "  \n"))
}

// EnumOption adjusts the Enum converter.
type EnumOption func(*enumOptions)

type enumOptions struct {
	lenient bool
	ignore  []string
}

// Lenient binds the raw value when it matches nothing instead of failing.
func Lenient() EnumOption {
	return func(o *enumOptions) { o.lenient = true }
}

// IgnoreTokens lists values that are placeholders and are ignored.
func IgnoreTokens(tokens ...string) EnumOption {
	return func(o *enumOptions) { o.ignore = append(o.ignore, tokens...) }
}

// Enum converts against a vocabulary.
func Enum(c Choices, opts ...EnumOption) Converter {
	var o enumOptions
	for _, opt := range opts {
		opt(&o)
	}
	return New(KindEnum, func(raw string) (Result, error) {
		v := strings.TrimSpace(raw)
		if v == "" {
			return Value(nil), nil
		}
		for _, tok := range o.ignore {
			if strings.EqualFold(v, tok) {
				return Skip(v + " is a placeholder."), nil
			}
		}
		code, err := ToEnum(c, v)
		if err != nil {
			if o.lenient {
				return Value(v), nil
			}
			return Result{}, err
		}
		return Value(code), nil
	})
}
