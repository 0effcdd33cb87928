// Package engine applies rules to the files of a fileset.Source.
package engine

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/spf13/afero"

	"csfix/internal/cache"
	"csfix/internal/fileset"
	"csfix/internal/fixer"
	"csfix/internal/logger"
	"csfix/internal/version"
)

// Rule is one named, idempotent transformation of a file's content.
type Rule interface {
	Descriptor() fixer.Descriptor
	// Fix returns the fixed content; it must return content unchanged
	// (same bytes) when there is nothing to fix.
	Fix(path string, content []byte) []byte
}

// Options configures a single Fix run.
type Options struct {
	// DryRun reports would-be changes without writing any file.
	DryRun bool
	// Sink receives per-file progress; optional.
	Sink ProgressSink
	// Cache skips files already known to comply; optional.
	Cache *cache.Cache
}

// FileChange records a file whose content changed.
type FileChange struct {
	Path    string
	Applied []string
}

// Result aggregates a run.
type Result struct {
	Changes []FileChange
	Checked int
	Cached  int
}

// Paths returns the changed file paths in processing order.
func (r *Result) Paths() []string {
	paths := make([]string, len(r.Changes))
	for i, c := range r.Changes {
		paths[i] = c.Path
	}
	return paths
}

// Engine owns the rule registry and applies rules to files.
type Engine struct {
	fs       afero.Fs
	rules    map[string]Rule
	registry *fixer.Registry
	log      logger.Logger
}

// New builds an engine over rules, kept in the given order.
func New(fsys afero.Fs, rules []Rule, log logger.Logger) (*Engine, error) {
	descs := make([]fixer.Descriptor, 0, len(rules))
	byName := make(map[string]Rule, len(rules))
	for _, r := range rules {
		d := r.Descriptor()
		descs = append(descs, d)
		byName[d.Name] = r
	}
	reg, err := fixer.NewRegistry(descs)
	if err != nil {
		return nil, err
	}
	return &Engine{fs: fsys, rules: byName, registry: reg, log: logger.OrNop(log)}, nil
}

// Fixers lists rule descriptors in registry order.
func (e *Engine) Fixers() []fixer.Descriptor { return e.registry.Descriptors() }

// LevelLabel renders a descriptor's level for display.
func (e *Engine) LevelLabel(d fixer.Descriptor) string { return fixer.LevelLabel(d.Level) }

// Fix consumes src and applies the rules selected by set to every file. The
// first read or write failure aborts the run.
func (e *Engine) Fix(src *fileset.Source, set fixer.Set, opts Options) (*Result, error) {
	names, unknown := e.registry.Select(set)
	for _, name := range unknown {
		e.log.Warn("unknown fixer ignored", "name", name)
	}
	selected := make([]Rule, len(names))
	for i, name := range names {
		selected[i] = e.rules[name]
	}
	sink := opts.Sink
	if sink == nil {
		sink = nopSink{}
	}
	sig := cache.Signature(version.Version, names)
	e.log.Debug("fixing", "source", src.Kind().String(), "root", src.Root(), "rules", len(selected), "dry_run", opts.DryRun)

	res := &Result{Changes: make([]FileChange, 0)}
	err := src.Each(func(path string) error {
		start := time.Now()
		sink.OnEvent(Event{File: path, Status: StatusWorking})
		change, status, err := e.fixFile(path, selected, sig, opts)
		elapsed := time.Since(start)
		if err != nil {
			sink.OnEvent(Event{File: path, Status: StatusError, Err: err, Elapsed: elapsed})
			return err
		}
		res.Checked++
		switch status {
		case StatusCached:
			res.Cached++
		case StatusChanged:
			res.Changes = append(res.Changes, change)
		}
		sink.OnEvent(Event{File: path, Status: status, Applied: change.Applied, Elapsed: elapsed})
		return nil
	})
	return res, err
}

func (e *Engine) fixFile(path string, rules []Rule, sig cache.Digest, opts Options) (FileChange, Status, error) {
	content, err := afero.ReadFile(e.fs, path)
	if err != nil {
		return FileChange{}, StatusError, fmt.Errorf("read %s: %w", path, err)
	}
	if opts.Cache.IsClean(path, content, sig) {
		return FileChange{}, StatusCached, nil
	}

	fixed, applied := applyRules(rules, path, content)
	if len(applied) == 0 {
		if err := opts.Cache.MarkClean(path, content, sig); err != nil {
			e.log.Warn("cache write failed", "path", path, "err", err)
		}
		return FileChange{}, StatusClean, nil
	}

	if !opts.DryRun {
		mode := os.FileMode(0o644)
		if info, err := e.fs.Stat(path); err == nil {
			mode = info.Mode().Perm()
		}
		if err := afero.WriteFile(e.fs, path, fixed, mode); err != nil {
			return FileChange{}, StatusError, fmt.Errorf("write %s: %w", path, err)
		}
		if err := opts.Cache.MarkClean(path, fixed, sig); err != nil {
			e.log.Warn("cache write failed", "path", path, "err", err)
		}
	}
	e.log.Debug("fixed", "path", path, "rules", applied)
	return FileChange{Path: path, Applied: applied}, StatusChanged, nil
}

// applyRules runs rules in order and returns the final content plus the
// names of the rules that changed something.
func applyRules(rules []Rule, path string, content []byte) ([]byte, []string) {
	var applied []string
	current := content
	for _, r := range rules {
		next := r.Fix(path, current)
		if !bytes.Equal(next, current) {
			applied = append(applied, r.Descriptor().Name)
			current = next
		}
	}
	return current, applied
}
