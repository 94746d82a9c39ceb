package convert

import (
	"strings"
)

// Catalog is a list of known equipment models.
type Catalog interface {
	Find(name string) (string, bool)
	Names() []string
}

// maxAntennaModel is the longest model code. Longer values normally carry
// the radome code after the model.
const maxAntennaModel = 16

// ToAntenna looks up an antenna model. When the value is too long to be a
// bare model its last word is taken to be the radome and dropped.
func ToAntenna(c Catalog, raw string) (string, error) {
	antenna := strings.TrimSpace(raw)
	words := strings.Fields(antenna)
	if len(words) > 1 && len(antenna) > maxAntennaModel {
		antenna = strings.TrimSpace(strings.TrimSuffix(antenna, words[len(words)-1]))
	}
	if name, ok := c.Find(antenna); ok {
		return name, nil
	}
	return "", unknownModel("antenna", c, raw, antenna)
}

// ToRadome looks up a radome model.
func ToRadome(c Catalog, raw string) (string, error) {
	if name, ok := c.Find(strings.TrimSpace(raw)); ok {
		return name, nil
	}
	return "", unknownModel("radome", c, raw, strings.TrimSpace(raw))
}

// ToReceiver looks up a receiver model.
func ToReceiver(c Catalog, raw string) (string, error) {
	if name, ok := c.Find(strings.TrimSpace(raw)); ok {
		return name, nil
	}
	return "", unknownModel("receiver", c, raw, strings.TrimSpace(raw))
}

// unknownModel reports model, the name actually looked up, which may be
// shorter than raw.
func unknownModel(what string, c Catalog, raw, model string) *Error {
	return fail(KindEquipment, raw, ErrUnknownEquipment,
		"Unexpected %s model %s. Must be one of \n%s", what, model, strings.Join(c.Names(), "\n"))
}

// constellationAliases maps spelled out constellation names to codes.
var constellationAliases = map[string]string{
	"GLONASS": "GLO",
	"BEIDOU":  "BDS",
	"GALILEO": "GAL",
}

// ToSatellites parses a "+" separated constellation list such as
// "GPS+GLO". Every unknown token is reported in a single error.
func ToSatellites(c Catalog, raw string) ([]string, error) {
	var systems, bad []string
	for _, tok := range strings.Split(raw, "+") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if code, ok := constellationAliases[strings.ToUpper(tok)]; ok {
			tok = code
		}
		name, ok := c.Find(tok)
		if !ok {
			bad = append(bad, tok)
			continue
		}
		systems = append(systems, name)
	}
	if len(bad) > 0 {
		return nil, fail(KindSatellites, raw, ErrUnknownEquipment,
			"Expected constellation list delineated by '+' (e.g. GPS+GLO). Unexpected values encountered: \n%s\n\nMust be one of \n%s",
			strings.Join(bad, "  \n"), strings.Join(c.Names(), "  \n"))
	}
	return systems, nil
}

// Antenna converts an antenna model.
func Antenna(c Catalog) Converter { return model(c, ToAntenna) }

// Radome converts a radome model.
func Radome(c Catalog) Converter { return model(c, ToRadome) }

// Receiver converts a receiver model.
func Receiver(c Catalog) Converter { return model(c, ToReceiver) }

func model(c Catalog, fn func(Catalog, string) (string, error)) Converter {
	return New(KindEquipment, func(raw string) (Result, error) {
		name, err := fn(c, raw)
		if err != nil {
			return Result{}, err
		}
		return Value(name), nil
	})
}

// Satellites converts a constellation list. An empty list binds with a
// warning.
func Satellites(c Catalog) Converter {
	return New(KindSatellites, func(raw string) (Result, error) {
		systems, err := ToSatellites(c, raw)
		if err != nil {
			return Result{}, err
		}
		if len(systems) == 0 {
			return Warn(systems,
				"Expected constellation list delineated by '+' (e.g. GPS+GLO). Must be one of \n%s",
				strings.Join(c.Names(), "  \n")), nil
		}
		return Value(systems), nil
	})
}
