package fileset

import (
	"errors"

	"github.com/spf13/afero"

	"csfix/internal/finder"
)

// ErrConsumed is returned when a Source is iterated a second time.
var ErrConsumed = errors.New("fileset: source already consumed")

// Kind identifies where a Source takes its files from.
type Kind uint8

const (
	// KindSingleFile is one explicitly named file.
	KindSingleFile Kind = iota + 1
	// KindConfig is the captured output of a project configuration file.
	KindConfig
	// KindFinder is a named finder walking a root directory.
	KindFinder
)

func (k Kind) String() string {
	switch k {
	case KindSingleFile:
		return "file"
	case KindConfig:
		return "config"
	case KindFinder:
		return "finder"
	default:
		return "unknown"
	}
}

// Source is a single-pass sequence of files to process.
type Source struct {
	kind     Kind
	root     string
	files    []string
	finder   finder.Finder
	fs       afero.Fs
	consumed bool
}

// SingleFile returns a source yielding exactly path.
func SingleFile(path string) *Source {
	return &Source{kind: KindSingleFile, root: path, files: []string{path}}
}

// ConfigDefined returns a source over files already captured from a
// configuration file rooted at root.
func ConfigDefined(root string, files []string) *Source {
	return &Source{kind: KindConfig, root: root, files: append([]string{}, files...)}
}

// NamedFinder returns a source that walks root with f when iterated.
func NamedFinder(fsys afero.Fs, f finder.Finder, root string) *Source {
	return &Source{kind: KindFinder, root: root, finder: f, fs: fsys}
}

// Kind reports the source kind.
func (s *Source) Kind() Kind { return s.kind }

// Root is the file for single-file sources, otherwise the directory.
func (s *Source) Root() string { return s.root }

// FinderID names the finder of a KindFinder source.
func (s *Source) FinderID() string {
	if s.finder == nil {
		return ""
	}
	return s.finder.Name()
}

// Files returns the known file list; nil for finder sources, which only
// discover files while iterating.
func (s *Source) Files() []string {
	if s.kind == KindFinder {
		return nil
	}
	return append([]string{}, s.files...)
}

// Len returns the number of files, or -1 when unknown before iteration.
func (s *Source) Len() int {
	if s.kind == KindFinder {
		return -1
	}
	return len(s.files)
}

// Each calls fn for every file in order. The first error from fn or from
// the underlying walk stops iteration and is returned. A Source can be
// iterated only once.
func (s *Source) Each(fn func(path string) error) error {
	if s.consumed {
		return ErrConsumed
	}
	s.consumed = true
	if s.kind == KindFinder {
		return s.finder.Walk(s.fs, s.root, fn)
	}
	for _, f := range s.files {
		if err := fn(f); err != nil {
			return err
		}
	}
	return nil
}
