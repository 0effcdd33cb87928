package fixer

import "strings"

// Set is the rule selection for one run: either explicit names or a level.
type Set struct {
	names    []string
	level    Level
	explicit bool
}

// Explicit returns a set naming rules directly.
func Explicit(names ...string) Set {
	return Set{names: append([]string{}, names...), explicit: true}
}

// ForLevel returns a set selecting every rule of a level.
func ForLevel(l Level) Set {
	return Set{level: l}
}

// Explicit reports whether the set names rules directly.
func (s Set) Explicit() bool { return s.explicit }

// Names returns the explicit rule names; nil for level sets.
func (s Set) Names() []string {
	if !s.explicit {
		return nil
	}
	return append([]string{}, s.names...)
}

// Level returns the selected level; meaningless for explicit sets.
func (s Set) Level() Level { return s.level }

func (s Set) String() string {
	if s.explicit {
		return "fixers=" + strings.Join(s.names, ",")
	}
	return "level=" + s.level.Keyword()
}

// ResolveSet builds the rule selection from the --fixers and --level values.
// A non-empty explicitCSV wins and levelKeyword is not examined at all.
func ResolveSet(explicitCSV, levelKeyword string) (Set, error) {
	if explicitCSV != "" {
		return Explicit(splitNames(explicitCSV)...), nil
	}
	l, err := ParseLevel(levelKeyword)
	if err != nil {
		return Set{}, err
	}
	return ForLevel(l), nil
}

func splitNames(csv string) []string {
	parts := strings.Split(csv, ",")
	names := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		name := strings.TrimSpace(p)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}
