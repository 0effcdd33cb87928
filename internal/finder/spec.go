package finder

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
	"golang.org/x/text/unicode/norm"
)

// vcsDirs are skipped when IgnoreVCS is set.
var vcsDirs = map[string]struct{}{
	".svn": {}, "_svn": {}, "CVS": {}, "_darcs": {}, ".arch-params": {},
	".monotone": {}, ".bzr": {}, ".git": {}, ".hg": {},
}

// Spec is a declarative file matcher. Dirs, Files and ExcludeFiles are
// relative to the root handed to Walk; patterns use doublestar syntax.
type Spec struct {
	// Dirs are walked in order; missing ones are skipped. Empty means ".".
	Dirs []string
	// Names are basename globs a file must match (any of).
	Names []string
	// NotNames are basename globs that drop a file.
	NotNames []string
	// Excludes are root-relative path globs; a matching directory is pruned.
	Excludes []string
	// ExcludeFiles are root-relative file paths to drop.
	ExcludeFiles []string
	// Files are root-relative files appended after the walk.
	Files []string

	IgnoreVCS      bool
	IgnoreDotFiles bool
}

// Validate checks that every pattern compiles and no path escapes the root.
func (s *Spec) Validate() error {
	for _, group := range [][]string{s.Names, s.NotNames, s.Excludes} {
		for _, p := range group {
			if !doublestar.ValidatePattern(filepath.ToSlash(p)) {
				return fmt.Errorf("invalid glob pattern %q", p)
			}
		}
	}
	for _, group := range [][]string{s.Dirs, s.Files, s.ExcludeFiles} {
		for _, p := range group {
			if err := validateRelative(p); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateRelative(p string) error {
	clean := filepath.Clean(p)
	if filepath.IsAbs(clean) {
		return fmt.Errorf("absolute paths not allowed: %s", p)
	}
	for _, part := range strings.Split(filepath.ToSlash(clean), "/") {
		if part == ".." {
			return fmt.Errorf("parent directory references not allowed: %s", p)
		}
	}
	return nil
}

// Walk visits every matching file under root in lexical order. root itself
// must be an existing directory.
func (s *Spec) Walk(fsys afero.Fs, root string, fn func(path string) error) error {
	info, err := fsys.Stat(root)
	if err != nil {
		return fmt.Errorf("finder: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("finder: %s is not a directory", root)
	}

	seen := make(map[string]struct{})
	emit := func(path string) error {
		if _, ok := seen[path]; ok {
			return nil
		}
		seen[path] = struct{}{}
		return fn(path)
	}

	dirs := s.Dirs
	if len(dirs) == 0 {
		dirs = []string{"."}
	}
	for _, dir := range dirs {
		start := filepath.Join(root, filepath.FromSlash(dir))
		if di, err := fsys.Stat(start); err != nil || !di.IsDir() {
			if err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("finder: %w", err)
			}
			continue
		}
		// afero.Walk does not follow a symlinked start directory.
		resolved, err := resolveLink(fsys, start)
		if err != nil {
			return fmt.Errorf("finder: %w", err)
		}
		err = afero.Walk(fsys, resolved, func(path string, info fs.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if resolved != start {
				sub, relErr := filepath.Rel(resolved, path)
				if relErr != nil {
					return relErr
				}
				path = filepath.Join(start, sub)
			}
			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				return relErr
			}
			rel = filepath.ToSlash(rel)
			if info.IsDir() {
				if path == start {
					return nil
				}
				if s.skipDir(info.Name(), rel) {
					return filepath.SkipDir
				}
				return nil
			}
			if !s.matchFile(info.Name(), rel) || !isRegularTarget(fsys, path, info) {
				return nil
			}
			return emit(path)
		})
		if err != nil {
			return err
		}
	}

	for _, f := range s.Files {
		path := filepath.Join(root, filepath.FromSlash(f))
		info, err := fsys.Stat(path)
		if err != nil {
			return fmt.Errorf("finder: %w", err)
		}
		if !info.Mode().IsRegular() {
			return fmt.Errorf("finder: %s is not a regular file", path)
		}
		if err := emit(path); err != nil {
			return err
		}
	}
	return nil
}

// maxLinkHops bounds symlink chains, like the kernel's ELOOP limit.
const maxLinkHops = 40

// resolveLink follows symlinks on the last element of path. File systems
// without symlink support return path unchanged.
func resolveLink(fsys afero.Fs, path string) (string, error) {
	lstater, ok := fsys.(afero.Lstater)
	if !ok {
		return path, nil
	}
	reader, ok := fsys.(afero.LinkReader)
	if !ok {
		return path, nil
	}
	for hop := 0; hop < maxLinkHops; hop++ {
		info, _, err := lstater.LstatIfPossible(path)
		if err != nil {
			return "", err
		}
		if info.Mode()&os.ModeSymlink == 0 {
			return path, nil
		}
		target, err := reader.ReadlinkIfPossible(path)
		if err != nil {
			return "", err
		}
		if !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(path), target)
		}
		path = target
	}
	return "", fmt.Errorf("too many levels of symbolic links: %s", path)
}

// isRegularTarget accepts regular files and symlinks to regular files.
// Symlinked directories are listed as entries but never descended into.
func isRegularTarget(fsys afero.Fs, path string, info fs.FileInfo) bool {
	if info.Mode().IsRegular() {
		return true
	}
	if info.Mode()&os.ModeSymlink == 0 {
		return false
	}
	target, err := fsys.Stat(path)
	return err == nil && target.Mode().IsRegular()
}

func (s *Spec) skipDir(name, rel string) bool {
	if s.IgnoreVCS {
		if _, ok := vcsDirs[name]; ok {
			return true
		}
	}
	if s.IgnoreDotFiles && strings.HasPrefix(name, ".") {
		return true
	}
	return matchAny(s.Excludes, rel, name)
}

func (s *Spec) matchFile(name, rel string) bool {
	if s.IgnoreDotFiles && strings.HasPrefix(name, ".") {
		return false
	}
	for _, ex := range s.ExcludeFiles {
		if norm.NFC.String(filepath.ToSlash(filepath.Clean(ex))) == norm.NFC.String(rel) {
			return false
		}
	}
	if matchAny(s.Excludes, rel, "") {
		return false
	}
	if len(s.Names) > 0 && !matchAny(s.Names, name, "") {
		return false
	}
	return !matchAny(s.NotNames, name, "")
}

// matchAny matches patterns against a primary subject and, when non-empty,
// a secondary one (the base name). Both sides are compared in NFC.
func matchAny(patterns []string, subject, base string) bool {
	subject = norm.NFC.String(subject)
	base = norm.NFC.String(base)
	for _, p := range patterns {
		p = norm.NFC.String(filepath.ToSlash(p))
		if ok, err := doublestar.Match(p, subject); err == nil && ok {
			return true
		}
		if base != "" {
			if ok, err := doublestar.Match(p, base); err == nil && ok {
				return true
			}
		}
	}
	return false
}
