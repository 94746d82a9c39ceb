package convert

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// tempRange matches "20 to 25 deg C" style ranges.
	tempRange = regexp.MustCompile(`^(\d+(?:[.]\d*)?)[\s()°degrsDEGRSCc]*(?:-|to)\s*(\d+(?:[.]\d*)?)[\s()°degrsDEGRSCc]*`)
	// tempDeviation matches "20 +/- 2 deg C" and its partial forms.
	tempDeviation = regexp.MustCompile(`^(\d+(?:[.]\d*)?)?[\s()°degrsDEGRSCc]*(?:±|\+/?-)?\s*(\d+(?:[.]\d*)?)?[\s()°degrsDEGRSCc]*`)
)

var tempStabPrefixes = []string{"Tolerance = ", "Tolerance", "=", "~"}

// TempStab is a receiver temperature stabilization entry. Nil fields were
// not given.
type TempStab struct {
	Stabilized *bool
	Nominal    *float64
	Deviation  *float64
}

func ptr[T any](v T) *T { return &v }

// ToTempStab parses values such as "none", "20 +/- 2 deg C" or
// "18 to 22 C". A range is read as its midpoint plus or minus half its
// width and a lone value of 10 or less is read as a deviation. Placeholder
// text yields a Result marked ignored and a plain "yes" yields a warning.
func ToTempStab(raw string) (TempStab, *Result, error) {
	v := strings.TrimSpace(raw)
	for _, prefix := range tempStabPrefixes {
		if strings.HasPrefix(v, prefix) {
			v = strings.TrimSpace(v[len(prefix):])
			break
		}
	}
	v = strings.ReplaceAll(v, "º", "")
	if strings.EqualFold(v, "none") {
		return TempStab{Stabilized: ptr(false)}, nil, nil
	}
	if v == "" {
		return TempStab{}, nil, nil
	}

	if m := tempRange.FindStringSubmatch(v); m != nil {
		lo, _ := strconv.ParseFloat(m[1], 64)
		hi, _ := strconv.ParseFloat(m[2], 64)
		mid, half := (lo+hi)/2, (hi-lo)/2
		if half < 0 {
			half = -half
		}
		return TempStab{Stabilized: ptr(true), Nominal: &mid, Deviation: &half}, nil, nil
	}

	var ts TempStab
	if m := tempDeviation.FindStringSubmatch(v); m != nil {
		if m[1] != "" {
			f, _ := strconv.ParseFloat(m[1], 64)
			ts.Nominal = &f
		}
		if m[2] != "" {
			f, _ := strconv.ParseFloat(m[2], 64)
			ts.Deviation = &f
		}
	}
	if ts.Deviation == nil && ts.Nominal != nil && *ts.Nominal <= 10 {
		ts.Deviation, ts.Nominal = ts.Nominal, nil
	}
	if ts.Nominal != nil || ts.Deviation != nil {
		ts.Stabilized = ptr(true)
		return ts, nil, nil
	}

	lower := strings.ToLower(v)
	squashed := strings.NewReplacer(" ", "", "(", "", ")", "").Replace(lower)
	switch {
	case squashed == "degc+/-degc", strings.HasPrefix(v, "("):
		res := Skip("Looks like a placeholder.")
		return TempStab{}, &res, nil
	case strings.Contains(lower, "yes"), strings.Contains(lower, "indoors"):
		res := Warn(true, "Interpreted as 'stabilized'")
		return TempStab{Stabilized: ptr(true)}, &res, nil
	}
	return TempStab{}, nil, fail(KindFloat, raw, ErrNotNumeric,
		`Unable to parse "%s" into a temperature stabilization. format: deg C +/- deg C`, v)
}

// TempStabilized converts to whether the receiver is temperature
// stabilized.
func TempStabilized() Converter {
	return New(KindString, func(raw string) (Result, error) {
		ts, res, err := ToTempStab(raw)
		switch {
		case err != nil:
			return Result{}, err
		case res != nil:
			return *res, nil
		case ts.Stabilized == nil:
			return Value(nil), nil
		}
		return Value(*ts.Stabilized), nil
	})
}

// TempNominal converts to the nominal stabilized temperature.
func TempNominal() Converter {
	return tempPart(func(ts TempStab) *float64 { return ts.Nominal })
}

// TempDeviation converts to the allowed deviation from nominal.
func TempDeviation() Converter {
	return tempPart(func(ts TempStab) *float64 { return ts.Deviation })
}

func tempPart(pick func(TempStab) *float64) Converter {
	return New(KindFloat, func(raw string) (Result, error) {
		ts, _, err := ToTempStab(raw)
		if err != nil {
			return Result{}, err
		}
		if f := pick(ts); f != nil {
			return Value(*f), nil
		}
		return Value(nil), nil
	})
}
