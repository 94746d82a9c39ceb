// Package equipment holds the registry of known antenna, radome, receiver
// and satellite system names that site log equipment fields are resolved
// against. A Registry is immutable once built and safe to share between
// goroutines.
package equipment

import (
	_ "embed"
	"fmt"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Kind names a class of equipment.
type Kind string

// Equipment kinds.
const (
	Antenna         Kind = "antenna"
	Radome          Kind = "radome"
	Receiver        Kind = "receiver"
	SatelliteSystem Kind = "satellite_system"
)

// Kinds lists every equipment kind.
var Kinds = []Kind{Antenna, Radome, Receiver, SatelliteSystem}

//go:embed defaults.yaml
var defaultsYAML []byte

// Model is a named model with optional alternative spellings.
type Model struct {
	Name    string   `yaml:"name"`
	Aliases []string `yaml:"aliases,omitempty"`
}

// Entries is the raw content of a registry.
type Entries struct {
	Antennas         []string `yaml:"antennas"`
	Radomes          []string `yaml:"radomes"`
	Receivers        []string `yaml:"receivers"`
	SatelliteSystems []Model  `yaml:"satellite_systems"`
}

// Merge returns e with o's entries appended.
func (e Entries) Merge(o Entries) Entries {
	return Entries{
		Antennas:         append(slices.Clone(e.Antennas), o.Antennas...),
		Radomes:          append(slices.Clone(e.Radomes), o.Radomes...),
		Receivers:        append(slices.Clone(e.Receivers), o.Receivers...),
		SatelliteSystems: append(slices.Clone(e.SatelliteSystems), o.SatelliteSystems...),
	}
}

func (e Entries) models(k Kind) []Model {
	plain := func(names []string) []Model {
		out := make([]Model, len(names))
		for i, n := range names {
			out[i] = Model{Name: n}
		}
		return out
	}
	switch k {
	case Antenna:
		return plain(e.Antennas)
	case Radome:
		return plain(e.Radomes)
	case Receiver:
		return plain(e.Receivers)
	case SatelliteSystem:
		return e.SatelliteSystems
	}
	return nil
}

// Catalog is the set of models of one kind.
type Catalog struct {
	kind  Kind
	names []string
	index map[string]string
}

func newCatalog(kind Kind, models []Model) (*Catalog, error) {
	c := &Catalog{kind: kind, index: make(map[string]string)}
	for i, m := range models {
		name := strings.TrimSpace(m.Name)
		if name == "" {
			return nil, fmt.Errorf("%ss[%d]: empty model name", kind, i)
		}
		key := strings.ToUpper(name)
		if _, dup := c.index[key]; !dup {
			c.names = append(c.names, name)
			c.index[key] = name
		}
		for _, a := range m.Aliases {
			if k := strings.ToUpper(strings.TrimSpace(a)); k != "" {
				if _, taken := c.index[k]; !taken {
					c.index[k] = name
				}
			}
		}
	}
	return c, nil
}

// Kind returns the equipment kind held.
func (c *Catalog) Kind() Kind { return c.kind }

// Find resolves name case-insensitively to its registered spelling.
func (c *Catalog) Find(name string) (string, bool) {
	n, ok := c.index[strings.ToUpper(strings.TrimSpace(name))]
	return n, ok
}

// Names returns the registered names in registration order.
func (c *Catalog) Names() []string {
	return slices.Clone(c.names)
}

// Len returns the number of registered models.
func (c *Catalog) Len() int { return len(c.names) }

// Registry holds one Catalog per equipment kind.
type Registry struct {
	catalogs map[Kind]*Catalog
}

// New builds a registry from entries. Duplicate names collapse to the first
// spelling seen.
func New(e Entries) (*Registry, error) {
	r := &Registry{catalogs: make(map[Kind]*Catalog, len(Kinds))}
	for _, k := range Kinds {
		c, err := newCatalog(k, e.models(k))
		if err != nil {
			return nil, err
		}
		r.catalogs[k] = c
	}
	return r, nil
}

// Catalog returns the catalog for kind. Unknown kinds yield an empty catalog.
func (r *Registry) Catalog(kind Kind) *Catalog {
	if c, ok := r.catalogs[kind]; ok {
		return c
	}
	return &Catalog{kind: kind, index: map[string]string{}}
}

// Antennas returns the antenna catalog.
func (r *Registry) Antennas() *Catalog { return r.Catalog(Antenna) }

// Radomes returns the radome catalog.
func (r *Registry) Radomes() *Catalog { return r.Catalog(Radome) }

// Receivers returns the receiver catalog.
func (r *Registry) Receivers() *Catalog { return r.Catalog(Receiver) }

// SatelliteSystems returns the satellite system catalog.
func (r *Registry) SatelliteSystems() *Catalog { return r.Catalog(SatelliteSystem) }

// ParseEntries decodes registry entries from YAML.
func ParseEntries(data []byte) (Entries, error) {
	var e Entries
	if err := yaml.Unmarshal(data, &e); err != nil {
		return Entries{}, fmt.Errorf("parsing equipment: %w", err)
	}
	return e, nil
}

var builtinEntries = sync.OnceValues(func() (Entries, error) {
	return ParseEntries(defaultsYAML)
})

// Builtin returns the embedded default entries.
func Builtin() (Entries, error) {
	return builtinEntries()
}

// Default builds a registry from the embedded entries.
func Default() (*Registry, error) {
	e, err := Builtin()
	if err != nil {
		return nil, err
	}
	return New(e)
}
