package convert

import (
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// dateLayout is a layout tried before falling back to dateparse.
type dateLayout struct {
	Name   string
	Layout string
}

// layouts holds the formats site logs are asked to use, plus the common
// near misses. The first that parses the whole value wins.
var layouts = []dateLayout{
	{Name: "date", Layout: "2006-01-02"},
	{Name: "datetime-minutes", Layout: "2006-01-02T15:04Z"},
	{Name: "datetime-seconds", Layout: "2006-01-02T15:04:05Z"},
	{Name: "rfc3339", Layout: time.RFC3339},
	{Name: "space-minutes", Layout: "2006-01-02 15:04"},
	{Name: "space-seconds", Layout: "2006-01-02 15:04:05"},
	{Name: "local-minutes", Layout: "2006-01-02T15:04"},
	{Name: "local-seconds", Layout: "2006-01-02T15:04:05"},
}

// datePlaceholders are the unfilled template texts written for dates.
var datePlaceholders = []string{"CCYY-MM-DD", "DD-MMM-YYYY"}

// trailingUT matches the "UT" suffix many logs add to times, which
// dateparse cannot read.
var trailingUT = regexp.MustCompile(`(?i)([0-9zZ\s])UT(?:UT)?$`)

func blankDate(v string) bool {
	if v == "" {
		return true
	}
	upper := strings.ToUpper(v)
	for _, p := range datePlaceholders {
		if strings.Contains(upper, p) {
			return true
		}
	}
	return false
}

// timeParser reads a trimmed value as a time.
type timeParser func(v string) (time.Time, bool)

// parseLayouts reads v with the fixed layouts only. Times without a zone
// are UTC.
func parseLayouts(v string) (time.Time, bool) {
	v = strings.TrimSpace(trailingUT.ReplaceAllString(v, "$1"))
	for _, l := range layouts {
		if t, err := time.Parse(l.Layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseTime reads v as a time, trying the fixed layouts before dateparse.
func parseTime(v string) (time.Time, bool) {
	if t, ok := parseLayouts(v); ok {
		return t, true
	}
	t, err := dateparse.ParseIn(strings.TrimSpace(trailingUT.ReplaceAllString(v, "$1")), time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func toDate(raw string, parse timeParser) (time.Time, error) {
	v := strings.TrimSpace(raw)
	if blankDate(v) {
		return time.Time{}, nil
	}
	t, ok := parse(v)
	if !ok {
		return time.Time{}, fail(KindDate, raw, ErrInvalidDate,
			"Unable to parse %s into a date. Expected format: CCYY-MM-DD", raw)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

func toDateTime(raw string, parse timeParser) (time.Time, error) {
	v := strings.TrimSpace(raw)
	if blankDate(v) {
		return time.Time{}, nil
	}
	t, ok := parse(v)
	if !ok {
		return time.Time{}, fail(KindDateTime, raw, ErrInvalidDate,
			"Unable to parse %s into a date and time. Expected format: CCYY-MM-DDThh:mmZ", raw)
	}
	return t, nil
}

// ToDate parses a calendar date. A blank value or an unfilled template
// such as CCYY-MM-DD yields the zero time and no error.
func ToDate(raw string) (time.Time, error) { return toDate(raw, parseTime) }

// ToDateTime parses a date and time. A blank value or an unfilled template
// yields the zero time and no error.
func ToDateTime(raw string) (time.Time, error) { return toDateTime(raw, parseTime) }

// EffectiveStart returns the start of a "CCYY-MM-DD/CCYY-MM-DD" range.
func EffectiveStart(raw string) (time.Time, error) {
	return effective(raw, 0, "start")
}

// EffectiveEnd returns the end of a range. A range with no end yields the
// zero time.
func EffectiveEnd(raw string) (time.Time, error) {
	return effective(raw, 1, "end")
}

// effectivePart returns one side of a range, or false when the range has
// no such side.
func effectivePart(raw string, part int) (string, bool) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return "", false
	}
	sep := "/"
	if !strings.Contains(v, sep) && strings.Contains(v, " - ") {
		sep = " - "
	}
	parts := strings.Split(v, sep)
	if part >= len(parts) {
		return "", false
	}
	return strings.TrimSpace(parts[part]), true
}

func effective(raw string, part int, which string) (time.Time, error) {
	v, ok := effectivePart(raw, part)
	if !ok {
		return time.Time{}, nil
	}
	t, err := ToDate(v)
	if err != nil {
		return time.Time{}, fail(KindDate, raw, ErrInvalidDate,
			"Unable to parse %s into an expected %s date. Expected format: CCYY-MM-DD/CCYY-MM-DD", raw, which)
	}
	return t, nil
}

// withPrefixes binds a value in three passes. The fixed layouts are tried
// on the whole value, then on shorter leading runs of words so that
// trailing notes such as "2010-03-01 (approx)" bind with a warning. Only
// then is the lenient parse tried on the whole value.
func withPrefixes(kind Kind, strict, lenient func(string) (time.Time, error)) Converter {
	return New(kind, func(raw string) (Result, error) {
		if v := strings.TrimSpace(raw); v != "" && blankDate(v) {
			return Skip(v + " is a placeholder."), nil
		}
		if t, err := strict(raw); err == nil {
			return timeResult(t), nil
		}
		words := strings.Fields(raw)
		for n := len(words) - 1; n > 0; n-- {
			if t, err := strict(strings.Join(words[:n], " ")); err == nil && !t.IsZero() {
				return Warn(t, "Unexpected trailing characters: %s", strings.Join(words[n:], " ")), nil
			}
		}
		t, err := lenient(raw)
		if err != nil {
			return Result{}, err
		}
		return timeResult(t), nil
	})
}

func timeResult(t time.Time) Result {
	if t.IsZero() {
		return Value(nil)
	}
	return Value(t)
}

// Date converts to a calendar date.
func Date() Converter {
	return withPrefixes(KindDate, func(raw string) (time.Time, error) {
		return toDate(raw, parseLayouts)
	}, ToDate)
}

// DateTime converts to a date and time.
func DateTime() Converter {
	return withPrefixes(KindDateTime, func(raw string) (time.Time, error) {
		return toDateTime(raw, parseLayouts)
	}, ToDateTime)
}

// Effective converts one side of an effective date range.
func Effective(end bool) Converter {
	part, which := 0, "start"
	if end {
		part, which = 1, "end"
	}
	return New(KindDate, func(raw string) (Result, error) {
		if v, ok := effectivePart(raw, part); ok && blankDate(v) {
			return Skip(v + " is a placeholder."), nil
		}
		t, err := effective(raw, part, which)
		if err != nil {
			return Result{}, err
		}
		return timeResult(t), nil
	})
}
