package convert

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// numericRun is the number inside a value: signs and points around digits
// with an optional exponent.
var numericRun = regexp.MustCompile(`[+\-.]*[0-9][0-9.+\-]*(?:[eE][+\-]?[0-9]+)?`)

// nullValues are written in place of a number when none is known.
var nullValues = []string{
	"unknown",
	"unkn",
	"n/a",
	"none",
	"not measured",
	"provisional",
	"?",
	"programmable",
}

// extractNumber finds the single numeric run in raw. Unit annotations
// around it are tolerated; a letter glued to its front or digits anywhere
// else are not.
func extractNumber(raw string) (string, bool) {
	loc := numericRun.FindStringIndex(raw)
	if loc == nil {
		return "", false
	}
	if loc[0] > 0 {
		if r, _ := utf8.DecodeLastRuneInString(raw[:loc[0]]); unicode.IsLetter(r) {
			return "", false
		}
	}
	if strings.ContainsAny(raw[:loc[0]]+raw[loc[1]:], "0123456789") {
		return "", false
	}
	return raw[loc[0]:loc[1]], true
}

// ToFloat converts a value such as "5.0 m" to a float. Blank values fail.
func ToFloat(raw string) (float64, error) {
	run, ok := extractNumber(raw)
	if ok {
		if f, err := strconv.ParseFloat(run, 64); err == nil {
			return f, nil
		}
	}
	return 0, fail(KindFloat, raw, ErrNotNumeric, "Could not convert %s to type float.", raw)
}

// ToInt converts a value such as "30 sec" to an int. Blank values and
// values with a fractional part fail.
func ToInt(raw string) (int, error) {
	run, ok := extractNumber(raw)
	if ok {
		if n, err := strconv.Atoi(run); err == nil {
			return n, nil
		}
	}
	return 0, fail(KindInt, raw, ErrNotNumeric, "Could not convert %s to type int.", raw)
}

// nullOrPlaceholder reports values that stand in for a missing number.
func nullOrPlaceholder(raw string) (Result, bool) {
	if strings.HasPrefix(raw, "(") {
		return Skip("Looks like a placeholder."), true
	}
	if strings.ContainsAny(raw, "0123456789") {
		return Result{}, false
	}
	lower := strings.ToLower(raw)
	for _, null := range nullValues {
		if strings.Contains(lower, null) {
			return Skip("Looks like a null value."), true
		}
	}
	return Result{}, false
}

// FloatOption adjusts the Float converter.
type FloatOption func(*floatOptions)

type floatOptions struct {
	takeLast bool
}

// TakeLast accepts a range such as "2-3" by binding its last value with a
// warning.
func TakeLast() FloatOption {
	return func(o *floatOptions) { o.takeLast = true }
}

// Float converts to float64. Blank values bind nil and null tokens such as
// "unknown" are ignored.
func Float(opts ...FloatOption) Converter {
	var o floatOptions
	for _, opt := range opts {
		opt(&o)
	}
	return New(KindFloat, func(raw string) (Result, error) {
		v := strings.TrimSpace(raw)
		if v == "" {
			return Value(nil), nil
		}
		f, err := ToFloat(v)
		if err == nil {
			return Value(f), nil
		}
		if res, ok := nullOrPlaceholder(v); ok {
			return res, nil
		}
		if o.takeLast {
			if last, ok := lastOfRange(v); ok {
				return Warn(last, "Used second value (%s).", strconv.FormatFloat(last, 'f', -1, 64)), nil
			}
		}
		return Result{}, err
	})
}

func lastOfRange(v string) (float64, bool) {
	run, ok := extractNumber(v)
	if !ok {
		return 0, false
	}
	i := strings.LastIndex(run, "-")
	if i <= 0 {
		return 0, false
	}
	f, err := strconv.ParseFloat(run[i+1:], 64)
	return f, err == nil
}

// Int converts to int. Blank values bind nil.
func Int() Converter {
	return New(KindInt, func(raw string) (Result, error) {
		v := strings.TrimSpace(raw)
		if v == "" {
			return Value(nil), nil
		}
		n, err := ToInt(v)
		if err == nil {
			return Value(n), nil
		}
		if res, ok := nullOrPlaceholder(v); ok {
			return res, nil
		}
		return Result{}, err
	})
}

// Seconds converts a sampling interval to whole seconds, scaling values
// written in minutes or hours.
func Seconds() Converter {
	return New(KindInt, func(raw string) (Result, error) {
		v := strings.TrimSpace(raw)
		if v == "" {
			return Value(nil), nil
		}
		f, err := ToFloat(v)
		if err != nil {
			if res, ok := nullOrPlaceholder(v); ok {
				return res, nil
			}
			return Result{}, fail(KindInt, raw, ErrNotNumeric, "Could not convert %s to type int.", raw)
		}
		lower := strings.ToLower(v)
		switch {
		case strings.Contains(lower, "hour") || strings.Contains(lower, "hr"):
			secs := int(f * 3600)
			return Warn(secs, "Converted to %d seconds!", secs), nil
		case strings.Contains(lower, "minute") || strings.Contains(lower, "min"):
			secs := int(f * 60)
			return Warn(secs, "Converted to %d seconds!", secs), nil
		case f != math.Trunc(f):
			return Warn(int(f), "Value should be an integer."), nil
		}
		return Value(int(f)), nil
	})
}

// Alignment converts an antenna alignment in degrees. "True north" is read
// as zero.
func Alignment() Converter {
	float := Float()
	return New(KindFloat, func(raw string) (Result, error) {
		res, err := float.Convert(raw)
		if err != nil && strings.Contains(strings.ToLower(raw), "true north") {
			return Warn(0.0, "Interpreted as zero."), nil
		}
		return res, err
	})
}

// DecimalDegrees converts an ISO 6709 ±DDDMMSS.ss coordinate to decimal
// degrees.
func DecimalDegrees() Converter {
	float := Float()
	return New(KindCoordinate, func(raw string) (Result, error) {
		res, err := float.Convert(raw)
		if err != nil || res.Ignored || res.Value == nil {
			return res, err
		}
		res.Value = DMSToDecimal(res.Value.(float64))
		return res, nil
	})
}

// DMSToDecimal converts a DDDMMSS.ss composite to decimal degrees. Seconds
// are rounded to six places and 60 second or minute carries are
// normalized. The sign, including negative zero, is preserved.
func DMSToDecimal(dms float64) float64 {
	v := math.Abs(dms)
	degrees := math.Floor(v / 10000)
	rem := v - degrees*10000
	minutes := math.Floor(rem / 100)
	seconds := math.Round((rem-minutes*100)*1e6) / 1e6
	if seconds >= 60 {
		seconds = 0
		minutes++
	}
	if minutes >= 60 {
		minutes = 0
		degrees++
	}
	return math.Copysign(degrees+minutes/60+seconds/3600, dms)
}

// Pressure converts a pressure sensor accuracy to hPa. Values given in
// millibars or millimetres of mercury are converted with a warning.
func Pressure() Converter {
	float := Float(TakeLast())
	return New(KindFloat, func(raw string) (Result, error) {
		res, err := float.Convert(raw)
		if err != nil || res.Ignored || res.Value == nil {
			return res, err
		}
		lower := strings.ToLower(raw)
		f := res.Value.(float64)
		switch {
		case strings.Contains(lower, "hpa"):
			return res, nil
		case strings.Contains(lower, "mb"):
			return Warn(f, "Converted to %.1f hPa", f), nil
		case strings.Contains(lower, "mm"):
			hpa := f * 1.33322
			return Warn(hpa, "Converted to %.1f hPa", hpa), nil
		}
		return res, nil
	})
}
