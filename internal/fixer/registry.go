package fixer

import (
	"errors"
	"fmt"
	"strings"
)

// Descriptor describes one registered rule.
type Descriptor struct {
	Name        string
	Description string
	Level       Level
}

// Registry is the ordered, read-only set of rules known to a process.
type Registry struct {
	descs  []Descriptor
	byName map[string]int
	levels map[Level][]string
}

// NewRegistry builds a registry from descs, keeping their order.
func NewRegistry(descs []Descriptor) (*Registry, error) {
	r := &Registry{
		descs:  make([]Descriptor, 0, len(descs)),
		byName: make(map[string]int, len(descs)),
		levels: make(map[Level][]string, len(levelKeywords)),
	}
	for _, d := range descs {
		if strings.TrimSpace(d.Name) == "" {
			return nil, errors.New("fixer: rule with empty name")
		}
		if _, dup := r.byName[d.Name]; dup {
			return nil, fmt.Errorf("fixer: duplicate rule %q", d.Name)
		}
		r.byName[d.Name] = len(r.descs)
		r.descs = append(r.descs, d)
	}
	for _, lk := range levelKeywords {
		names := make([]string, 0, len(r.descs))
		for _, d := range r.descs {
			if lk.level.Includes(d.Level) {
				names = append(names, d.Name)
			}
		}
		r.levels[lk.level] = names
	}
	return r, nil
}

// Descriptors returns a copy of the rules in registry order.
func (r *Registry) Descriptors() []Descriptor {
	return append([]Descriptor(nil), r.descs...)
}

// Len returns the number of registered rules.
func (r *Registry) Len() int { return len(r.descs) }

// Lookup returns the descriptor registered under name.
func (r *Registry) Lookup(name string) (Descriptor, bool) {
	idx, ok := r.byName[name]
	if !ok {
		return Descriptor{}, false
	}
	return r.descs[idx], true
}

// LevelRules returns the rule names a level selects, in registry order.
func (r *Registry) LevelRules(l Level) []string {
	return append([]string(nil), r.levels[l]...)
}

// Select resolves set to rule names in registry order. Explicit names that
// are not registered are returned separately.
func (r *Registry) Select(set Set) (names []string, unknown []string) {
	if !set.Explicit() {
		return r.LevelRules(set.Level()), nil
	}
	wanted := make(map[string]bool, len(set.names))
	for _, name := range set.names {
		if _, ok := r.byName[name]; !ok {
			unknown = append(unknown, name)
			continue
		}
		wanted[name] = true
	}
	for _, d := range r.descs {
		if wanted[d.Name] {
			names = append(names, d.Name)
		}
	}
	return names, unknown
}
