// Package finder enumerates candidate source files beneath a root path.
//
// Finders are looked up by identifier in a closed registry; an unknown
// identifier is a typed error rather than a dynamic lookup.
package finder

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// DefaultID is the finder used when the caller names none.
const DefaultID = "SymfonyFinder"

// Finder enumerates files under a root directory.
type Finder interface {
	// Name returns the registry identifier.
	Name() string
	// Walk calls fn for each file path, in a stable order.
	Walk(fsys afero.Fs, root string, fn func(path string) error) error
}

// UnknownError reports a finder identifier missing from the registry.
type UnknownError struct {
	ID    string
	Known []string
}

func (e *UnknownError) Error() string {
	return fmt.Sprintf("finder %q is not defined (known: %s)", e.ID, strings.Join(e.Known, ", "))
}

var registry = map[string]func() Finder{
	"DefaultFinder":   func() Finder { return newDefault() },
	"SymfonyFinder":   func() Finder { return newSymfony() },
	"Symfony20Finder": func() Finder { return newSymfony20() },
	"Symfony21Finder": func() Finder { return newSymfony21() },
}

// Lookup constructs the finder registered under id.
func Lookup(id string) (Finder, error) {
	ctor, ok := registry[id]
	if !ok {
		return nil, &UnknownError{ID: id, Known: Known()}
	}
	return ctor(), nil
}

// Known returns the registered identifiers, sorted.
func Known() []string {
	ids := make([]string, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

type specFinder struct {
	name string
	spec Spec
	// dirs returns the directories to walk for a root; the root may
	// influence the choice.
	dirs func(fsys afero.Fs, root string) []string
}

func (f *specFinder) Name() string { return f.name }

func (f *specFinder) Walk(fsys afero.Fs, root string, fn func(path string) error) error {
	spec := f.spec
	if f.dirs != nil {
		spec.Dirs = f.dirs(fsys, root)
	}
	return spec.Walk(fsys, root, fn)
}

// baseSpec matches what every built-in finder looks at.
func baseSpec() Spec {
	return Spec{
		Names:          []string{"*.php", "*.twig", "*.xml", "*.yml"},
		Excludes:       []string{"vendor"},
		IgnoreVCS:      true,
		IgnoreDotFiles: true,
	}
}

func newDefault() *specFinder {
	return &specFinder{name: "DefaultFinder", spec: baseSpec()}
}

// symfonyFixtures keep deliberately broken formatting for tests.
var symfonyFixtures = []string{
	"src/Symfony/Component/Console/Tests/Fixtures/application_1.xml",
	"src/Symfony/Component/Console/Tests/Fixtures/application_2.xml",
	"src/Symfony/Component/DependencyInjection/Tests/Fixtures/containers/container9.php",
	"src/Symfony/Component/DependencyInjection/Tests/Fixtures/includes/foo.php",
	"src/Symfony/Component/DependencyInjection/Tests/Fixtures/php/services9.php",
	"src/Symfony/Component/DependencyInjection/Tests/Fixtures/yaml/services1.yml",
	"src/Symfony/Component/DependencyInjection/Tests/Fixtures/yaml/services8.yml",
	"src/Symfony/Component/Routing/Tests/Fixtures/dumper/url_matcher1.php",
	"src/Symfony/Component/Routing/Tests/Fixtures/dumper/url_matcher2.php",
	"src/Symfony/Component/Yaml/Tests/Fixtures/sfTests.yml",
}

func newSymfony() *specFinder {
	spec := baseSpec()
	spec.ExcludeFiles = symfonyFixtures
	return &specFinder{
		name: "SymfonyFinder",
		spec: spec,
		dirs: func(fsys afero.Fs, root string) []string {
			if ok, _ := afero.DirExists(fsys, filepath.Join(root, "src")); ok {
				return []string{"src"}
			}
			return []string{"."}
		},
	}
}

func newSymfony20() *specFinder {
	spec := baseSpec()
	spec.ExcludeFiles = symfonyFixtures
	spec.Dirs = []string{"src", "tests"}
	return &specFinder{name: "Symfony20Finder", spec: spec}
}

func newSymfony21() *specFinder {
	spec := baseSpec()
	spec.ExcludeFiles = append(append([]string{}, symfonyFixtures...),
		"src/Symfony/Bundle/FrameworkBundle/Tests/Fixtures/TemplatePathsCache/template.php",
		"src/Symfony/Component/HttpFoundation/Tests/Fixtures/composer.json.php",
	)
	spec.Dirs = []string{"src"}
	return &specFinder{name: "Symfony21Finder", spec: spec}
}
