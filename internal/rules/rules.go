// Package rules provides the built-in rule catalog.
//
// Rules are data: each entry in catalog.toml is a named list of regular
// expression rewrites. The engine treats them as opaque engine.Rule values.
package rules

import (
	"bytes"
	_ "embed"
	"fmt"
	"regexp"

	"github.com/BurntSushi/toml"

	"csfix/internal/engine"
	"csfix/internal/fixer"
)

//go:embed catalog.toml
var builtinCatalog []byte

// maxPasses bounds how often a rule re-applies its rewrites.
const maxPasses = 16

type catalog struct {
	Fixers []catalogEntry `toml:"fixer"`
}

type catalogEntry struct {
	Name        string           `toml:"name"`
	Level       string           `toml:"level"`
	Description string           `toml:"description"`
	Rewrites    []catalogRewrite `toml:"rewrite"`
}

type catalogRewrite struct {
	Pattern string `toml:"pattern"`
	Replace string `toml:"replace"`
}

type rewrite struct {
	re   *regexp.Regexp
	repl []byte
}

// PatternRule applies regular expression rewrites until a fixpoint.
type PatternRule struct {
	desc     fixer.Descriptor
	rewrites []rewrite
}

// Descriptor implements engine.Rule.
func (r *PatternRule) Descriptor() fixer.Descriptor { return r.desc }

// Fix implements engine.Rule.
func (r *PatternRule) Fix(_ string, content []byte) []byte {
	current := content
	for pass := 0; pass < maxPasses; pass++ {
		next := current
		for _, rw := range r.rewrites {
			next = rw.re.ReplaceAll(next, rw.repl)
		}
		if bytes.Equal(next, current) {
			break
		}
		current = next
	}
	if bytes.Equal(current, content) {
		return content
	}
	return current
}

// Builtin returns the embedded rule catalog in application order.
func Builtin() ([]engine.Rule, error) {
	return Parse(builtinCatalog)
}

// Parse decodes a TOML rule catalog.
func Parse(data []byte) ([]engine.Rule, error) {
	var cat catalog
	if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&cat); err != nil {
		return nil, fmt.Errorf("rules: failed to parse catalog: %w", err)
	}
	out := make([]engine.Rule, 0, len(cat.Fixers))
	for _, entry := range cat.Fixers {
		level, err := fixer.ParseTag(entry.Level)
		if err != nil {
			return nil, fmt.Errorf("rules: %s: %w", entry.Name, err)
		}
		if len(entry.Rewrites) == 0 {
			return nil, fmt.Errorf("rules: %s: no rewrites", entry.Name)
		}
		rule := &PatternRule{
			desc: fixer.Descriptor{
				Name:        entry.Name,
				Description: entry.Description,
				Level:       level,
			},
			rewrites: make([]rewrite, 0, len(entry.Rewrites)),
		}
		for _, rw := range entry.Rewrites {
			re, err := regexp.Compile(rw.Pattern)
			if err != nil {
				return nil, fmt.Errorf("rules: %s: %w", entry.Name, err)
			}
			rule.rewrites = append(rule.rewrites, rewrite{re: re, repl: []byte(rw.Replace)})
		}
		out = append(out, rule)
	}
	return out, nil
}
