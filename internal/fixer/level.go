package fixer

import "fmt"

// Level is a bit set of rule tiers. A rule tagged with level L runs under a
// selected level S when every bit of L is present in S.
type Level uint8

const (
	// LevelCustom tags rules that belong to no level and run only when named.
	LevelCustom Level = 0
	// LevelPSR1 selects basic coding standard rules.
	LevelPSR1 Level = 1
	// LevelPSR2 selects coding style guide rules; includes PSR1.
	LevelPSR2 Level = 3
	// LevelAll selects every leveled rule.
	LevelAll Level = 7
)

type levelKeyword struct {
	keyword string
	level   Level
}

// levelKeywords maps --level values to levels. Order is the display order.
var levelKeywords = []levelKeyword{
	{"psr1", LevelPSR1},
	{"psr2", LevelPSR2},
	{"all", LevelAll},
}

// DefaultLevelKeyword is used when no --level option is supplied.
const DefaultLevelKeyword = "all"

// ParseLevel maps an exact, case-sensitive level keyword to its Level.
func ParseLevel(keyword string) (Level, error) {
	for _, lk := range levelKeywords {
		if lk.keyword == keyword {
			return lk.level, nil
		}
	}
	return LevelCustom, &InvalidArgumentError{Arg: "level", Value: keyword}
}

// LevelKeywords returns the recognised --level keywords in display order.
func LevelKeywords() []string {
	out := make([]string, len(levelKeywords))
	for i, lk := range levelKeywords {
		out[i] = lk.keyword
	}
	return out
}

// Includes reports whether a rule tagged with tag runs under l.
func (l Level) Includes(tag Level) bool {
	if tag == LevelCustom {
		return false
	}
	return tag&l == tag
}

// Keyword returns the --level keyword for l, or "custom".
func (l Level) Keyword() string {
	for _, lk := range levelKeywords {
		if lk.level == l {
			return lk.keyword
		}
	}
	return "custom"
}

// LevelLabel is the human readable tag shown in help output.
func LevelLabel(l Level) string {
	switch l {
	case LevelPSR1:
		return "PSR-1"
	case LevelPSR2:
		return "PSR-2"
	case LevelAll:
		return "all"
	default:
		return "custom"
	}
}

// ParseTag parses a level tag as written in rule catalogs: one of the level
// keywords or "custom".
func ParseTag(tag string) (Level, error) {
	if tag == "custom" {
		return LevelCustom, nil
	}
	l, err := ParseLevel(tag)
	if err != nil {
		return LevelCustom, fmt.Errorf("unknown level tag %q", tag)
	}
	return l, nil
}
