// Package vocab provides the controlled vocabularies that enumerated site log
// fields are checked against: countries, tectonic plates, fracture spacing and
// so on. The built-in vocabularies are embedded YAML.
package vocab

import (
	"embed"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Names of the built-in vocabularies.
const (
	Country               = "country"
	TectonicPlate         = "tectonic_plate"
	FractureSpacing       = "fracture_spacing"
	FrequencyStandard     = "frequency_standard"
	Aspiration            = "aspiration"
	CollocationStatus     = "collocation_status"
	AntennaReferencePoint = "antenna_reference_point"
)

//go:embed vocabularies.yaml country.yaml
var builtin embed.FS

// Entry is one permitted value.
type Entry struct {
	// Value is the stored code.
	Value   string   `yaml:"value"`
	Name    string   `yaml:"name,omitempty"`
	Label   string   `yaml:"label"`
	Aliases []string `yaml:"aliases,omitempty"`
}

func (e Entry) keys() []string {
	keys := []string{e.Value, e.Name, e.Label}
	return append(keys, e.Aliases...)
}

// Vocabulary is an immutable set of entries with case-insensitive lookup by
// value, name, label or alias.
type Vocabulary struct {
	name    string
	entries []Entry
	index   map[string]int
}

// New builds a vocabulary. When two entries share a key the first wins.
func New(name string, entries []Entry) (*Vocabulary, error) {
	v := &Vocabulary{
		name:    name,
		entries: slices.Clone(entries),
		index:   make(map[string]int),
	}
	for i, e := range v.entries {
		if strings.TrimSpace(e.Value) == "" {
			return nil, fmt.Errorf("vocabulary %s: entry %d has no value", name, i)
		}
		for _, k := range e.keys() {
			k = foldKey(k)
			if k == "" {
				continue
			}
			if _, taken := v.index[k]; !taken {
				v.index[k] = i
			}
		}
	}
	return v, nil
}

func foldKey(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Name returns the vocabulary name.
func (v *Vocabulary) Name() string { return v.name }

// Lookup finds the entry matching s.
func (v *Vocabulary) Lookup(s string) (Entry, bool) {
	i, ok := v.index[foldKey(s)]
	if !ok {
		return Entry{}, false
	}
	return v.entries[i], true
}

// Match returns the stored value for s.
func (v *Vocabulary) Match(s string) (string, bool) {
	e, ok := v.Lookup(s)
	return e.Value, ok
}

// Labels returns every entry label in declaration order.
func (v *Vocabulary) Labels() []string {
	out := make([]string, len(v.entries))
	for i, e := range v.entries {
		out[i] = e.Label
	}
	return out
}

// Entries returns a copy of the entries.
func (v *Vocabulary) Entries() []Entry {
	return slices.Clone(v.entries)
}

// Len returns the number of entries.
func (v *Vocabulary) Len() int { return len(v.entries) }

// WithAliases returns a copy of v with extra aliases keyed by entry value.
func (v *Vocabulary) WithAliases(extra map[string][]string) (*Vocabulary, error) {
	entries := v.Entries()
	for value, aliases := range extra {
		i := slices.IndexFunc(entries, func(e Entry) bool { return strings.EqualFold(e.Value, value) })
		if i < 0 {
			return nil, fmt.Errorf("vocabulary %s: unknown value %q", v.name, value)
		}
		entries[i].Aliases = append(slices.Clone(entries[i].Aliases), aliases...)
	}
	return New(v.name, entries)
}

// Set is a collection of vocabularies keyed by name.
type Set struct {
	byName map[string]*Vocabulary
}

// NewSet collects vocabularies into a Set.
func NewSet(vs ...*Vocabulary) *Set {
	s := &Set{byName: make(map[string]*Vocabulary, len(vs))}
	for _, v := range vs {
		s.byName[v.name] = v
	}
	return s
}

// Get returns the named vocabulary.
func (s *Set) Get(name string) (*Vocabulary, bool) {
	v, ok := s.byName[name]
	return v, ok
}

// Names returns the vocabulary names, sorted.
func (s *Set) Names() []string {
	return slices.Sorted(maps.Keys(s.byName))
}

// With returns a copy of s with v added or replaced.
func (s *Set) With(v *Vocabulary) *Set {
	out := &Set{byName: maps.Clone(s.byName)}
	out.byName[v.name] = v
	return out
}

// Parse decodes a YAML document mapping vocabulary names to entry lists.
func Parse(data []byte) ([]*Vocabulary, error) {
	var raw map[string][]Entry
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing vocabularies: %w", err)
	}
	var out []*Vocabulary
	for _, name := range slices.Sorted(maps.Keys(raw)) {
		v, err := New(name, raw[name])
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

var loadDefault = sync.OnceValues(func() (*Set, error) {
	var all []*Vocabulary
	for _, file := range []string{"vocabularies.yaml", "country.yaml"} {
		data, err := builtin.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", file, err)
		}
		vs, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}
		all = append(all, vs...)
	}
	return NewSet(all...), nil
})

// Default returns the built-in vocabularies. The Set is shared and must not
// be modified; use With to derive a new one.
func Default() (*Set, error) {
	return loadDefault()
}
