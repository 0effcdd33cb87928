// Package config loads the per-project .php_cs file.
//
// The file is declarative TOML describing which files to process:
//
//	in       = ["src", "tests"]
//	name     = ["*.php"]
//	not_name = ["*.tpl.php"]
//	exclude  = ["vendor", "cache/**"]
//	files    = ["bin/console"]
//
// Evaluating it walks the project once and captures the full file list.
package config

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"

	"csfix/internal/finder"
)

// FileName is the conventional configuration file name at a project root.
const FileName = ".php_cs"

// Error reports a configuration file that cannot be loaded or evaluated.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("configuration file %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// File is the decoded form of a .php_cs file.
type File struct {
	In             []string `toml:"in"               validate:"dive,required"`
	Name           []string `toml:"name"             validate:"dive,required"`
	NotName        []string `toml:"not_name"         validate:"dive,required"`
	Exclude        []string `toml:"exclude"          validate:"dive,required"`
	Files          []string `toml:"files"            validate:"dive,required"`
	IgnoreVCS      *bool    `toml:"ignore_vcs"`
	IgnoreDotFiles *bool    `toml:"ignore_dot_files"`
}

var validate = validator.New()

// Load decodes and validates the configuration at path.
func Load(fsys afero.Fs, path string) (*File, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, &Error{Path: path, Err: err}
	}
	var f File
	meta, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&f)
	if err != nil {
		return nil, &Error{Path: path, Err: fmt.Errorf("failed to parse TOML: %w", err)}
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, &Error{Path: path, Err: fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))}
	}
	if err := validate.Struct(&f); err != nil {
		return nil, &Error{Path: path, Err: err}
	}
	spec := f.Spec()
	if err := spec.Validate(); err != nil {
		return nil, &Error{Path: path, Err: err}
	}
	return &f, nil
}

// Spec converts the file into a finder spec, applying defaults.
func (f *File) Spec() finder.Spec {
	spec := finder.Spec{
		Dirs:           f.In,
		Names:          f.Name,
		NotNames:       f.NotName,
		Excludes:       f.Exclude,
		Files:          f.Files,
		IgnoreVCS:      true,
		IgnoreDotFiles: true,
	}
	if len(spec.Names) == 0 {
		spec.Names = []string{"*.php"}
	}
	if f.IgnoreVCS != nil {
		spec.IgnoreVCS = *f.IgnoreVCS
	}
	if f.IgnoreDotFiles != nil {
		spec.IgnoreDotFiles = *f.IgnoreDotFiles
	}
	return spec
}

// Evaluate loads the configuration at path and returns every file it
// selects, relative to the directory holding it. The walk completes before
// Evaluate returns.
func Evaluate(fsys afero.Fs, path string) ([]string, error) {
	f, err := Load(fsys, path)
	if err != nil {
		return nil, err
	}
	spec := f.Spec()
	root := filepath.Dir(path)
	files := make([]string, 0)
	err = spec.Walk(fsys, root, func(p string) error {
		files = append(files, p)
		return nil
	})
	if err != nil {
		return nil, &Error{Path: path, Err: err}
	}
	return files, nil
}
