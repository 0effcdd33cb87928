package engine

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	"github.com/spf13/afero"

	"csfix/internal/cache"
	"csfix/internal/fileset"
	"csfix/internal/fixer"
)

// replaceRule rewrites every occurrence of old with new.
type replaceRule struct {
	name  string
	level fixer.Level
	old   string
	new   string
}

func (r replaceRule) Descriptor() fixer.Descriptor {
	return fixer.Descriptor{Name: r.name, Description: "replace " + r.old, Level: r.level}
}

func (r replaceRule) Fix(_ string, content []byte) []byte {
	if !bytes.Contains(content, []byte(r.old)) {
		return content
	}
	return bytes.ReplaceAll(content, []byte(r.old), []byte(r.new))
}

type recordingSink struct {
	events []Event
}

func (s *recordingSink) OnEvent(e Event) { s.events = append(s.events, e) }

func testEngine(t *testing.T, fsys afero.Fs) *Engine {
	t.Helper()
	eng, err := New(fsys, []Rule{
		replaceRule{name: "short_tag", level: fixer.LevelPSR1, old: "<? ", new: "<?php "},
		replaceRule{name: "linefeed", level: fixer.LevelPSR2, old: "\r\n", new: "\n"},
		replaceRule{name: "elseif", level: fixer.LevelAll, old: "else if", new: "elseif"},
		replaceRule{name: "return", level: fixer.LevelCustom, old: ";\nreturn", new: ";\n\nreturn"},
	}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return eng
}

func seed(t *testing.T, fsys afero.Fs, files map[string]string) {
	t.Helper()
	for path, content := range files {
		if err := afero.WriteFile(fsys, path, []byte(content), 0o640); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
}

func read(t *testing.T, fsys afero.Fs, path string) string {
	t.Helper()
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestFixRewritesChangedFilesInOrder(t *testing.T) {
	fsys := afero.NewMemMapFs()
	seed(t, fsys, map[string]string{
		"/p/a.php": "<? echo 1;\r\n",
		"/p/b.php": "<?php echo 2;\n",
		"/p/c.php": "<?php if ($a) {} else if ($b) {}\n",
	})
	eng := testEngine(t, fsys)
	src := fileset.ConfigDefined("/p", []string{"/p/c.php", "/p/b.php", "/p/a.php"})

	res, err := eng.Fix(src, fixer.ForLevel(fixer.LevelAll), Options{})
	if err != nil {
		t.Fatalf("Fix: %v", err)
	}
	if got, want := res.Paths(), []string{"/p/c.php", "/p/a.php"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("changed = %v, want %v", got, want)
	}
	if got, want := res.Changes[1].Applied, []string{"short_tag", "linefeed"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("applied = %v, want %v", got, want)
	}
	if res.Checked != 3 {
		t.Fatalf("checked = %d", res.Checked)
	}
	if got := read(t, fsys, "/p/a.php"); got != "<?php echo 1;\n" {
		t.Fatalf("a.php = %q", got)
	}
	if got := read(t, fsys, "/p/c.php"); got != "<?php if ($a) {} elseif ($b) {}\n" {
		t.Fatalf("c.php = %q", got)
	}
	info, err := fsys.Stat("/p/a.php")
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o640 {
		t.Fatalf("mode = %v, want 0640", info.Mode().Perm())
	}
}

func TestFixDryRunLeavesFilesUntouched(t *testing.T) {
	fsys := afero.NewMemMapFs()
	seed(t, fsys, map[string]string{"/p/a.php": "<? echo 1;\r\n"})
	eng := testEngine(t, fsys)

	res, err := eng.Fix(fileset.SingleFile("/p/a.php"), fixer.ForLevel(fixer.LevelAll), Options{DryRun: true})
	if err != nil {
		t.Fatalf("Fix: %v", err)
	}
	if !reflect.DeepEqual(res.Paths(), []string{"/p/a.php"}) {
		t.Fatalf("changed = %v", res.Paths())
	}
	if got := read(t, fsys, "/p/a.php"); got != "<? echo 1;\r\n" {
		t.Fatalf("dry run modified file: %q", got)
	}
}

func TestFixLevelSelection(t *testing.T) {
	fsys := afero.NewMemMapFs()
	seed(t, fsys, map[string]string{"/p/a.php": "<? echo 1;\r\nelse if\n"})
	eng := testEngine(t, fsys)

	res, err := eng.Fix(fileset.SingleFile("/p/a.php"), fixer.ForLevel(fixer.LevelPSR1), Options{})
	if err != nil {
		t.Fatalf("Fix: %v", err)
	}
	if got := res.Changes[0].Applied; !reflect.DeepEqual(got, []string{"short_tag"}) {
		t.Fatalf("applied = %v", got)
	}
	if got := read(t, fsys, "/p/a.php"); got != "<?php echo 1;\r\nelse if\n" {
		t.Fatalf("a.php = %q", got)
	}
}

func TestFixExplicitRunsCustomRulesOnly(t *testing.T) {
	fsys := afero.NewMemMapFs()
	seed(t, fsys, map[string]string{"/p/a.php": "<? $a = 1;\nreturn $a;\n"})
	eng := testEngine(t, fsys)

	res, err := eng.Fix(fileset.SingleFile("/p/a.php"), fixer.Explicit("return", "missing"), Options{})
	if err != nil {
		t.Fatalf("Fix: %v", err)
	}
	if got := res.Changes[0].Applied; !reflect.DeepEqual(got, []string{"return"}) {
		t.Fatalf("applied = %v", got)
	}
	if got := read(t, fsys, "/p/a.php"); got != "<? $a = 1;\n\nreturn $a;\n" {
		t.Fatalf("a.php = %q", got)
	}
}

func TestFixCompliantFilesAreNotReported(t *testing.T) {
	fsys := afero.NewMemMapFs()
	seed(t, fsys, map[string]string{"/p/a.php": "<?php echo 1;\n"})
	eng := testEngine(t, fsys)
	sink := &recordingSink{}

	res, err := eng.Fix(fileset.SingleFile("/p/a.php"), fixer.ForLevel(fixer.LevelAll), Options{Sink: sink})
	if err != nil {
		t.Fatalf("Fix: %v", err)
	}
	if len(res.Changes) != 0 {
		t.Fatalf("changed = %v", res.Paths())
	}
	if len(sink.events) != 2 || sink.events[0].Status != StatusWorking || sink.events[1].Status != StatusClean {
		t.Fatalf("events = %+v", sink.events)
	}
}

func TestFixUsesCache(t *testing.T) {
	fsys := afero.NewMemMapFs()
	seed(t, fsys, map[string]string{
		"/p/a.php": "<? echo 1;\n",
		"/p/b.php": "<?php echo 2;\n",
	})
	eng := testEngine(t, fsys)
	c, err := cache.New(fsys, "/cache")
	if err != nil {
		t.Fatalf("cache.New: %v", err)
	}
	set := fixer.ForLevel(fixer.LevelAll)
	files := []string{"/p/a.php", "/p/b.php"}

	first, err := eng.Fix(fileset.ConfigDefined("/p", files), set, Options{Cache: c})
	if err != nil {
		t.Fatalf("first Fix: %v", err)
	}
	if first.Cached != 0 || len(first.Changes) != 1 {
		t.Fatalf("first run = %+v", first)
	}

	second, err := eng.Fix(fileset.ConfigDefined("/p", files), set, Options{Cache: c})
	if err != nil {
		t.Fatalf("second Fix: %v", err)
	}
	if second.Cached != 2 || len(second.Changes) != 0 {
		t.Fatalf("second run = %+v", second)
	}

	seed(t, fsys, map[string]string{"/p/b.php": "<? echo 3;\n"})
	third, err := eng.Fix(fileset.ConfigDefined("/p", files), set, Options{Cache: c})
	if err != nil {
		t.Fatalf("third Fix: %v", err)
	}
	if third.Cached != 1 || !reflect.DeepEqual(third.Paths(), []string{"/p/b.php"}) {
		t.Fatalf("third run = %+v", third)
	}
}

func TestFixDryRunDoesNotCacheChangedFiles(t *testing.T) {
	fsys := afero.NewMemMapFs()
	seed(t, fsys, map[string]string{"/p/a.php": "<? echo 1;\n"})
	eng := testEngine(t, fsys)
	c, err := cache.New(fsys, "/cache")
	if err != nil {
		t.Fatalf("cache.New: %v", err)
	}
	set := fixer.ForLevel(fixer.LevelAll)
	for i := 0; i < 2; i++ {
		res, err := eng.Fix(fileset.SingleFile("/p/a.php"), set, Options{DryRun: true, Cache: c})
		if err != nil {
			t.Fatalf("Fix #%d: %v", i, err)
		}
		if len(res.Changes) != 1 {
			t.Fatalf("run #%d changed = %v", i, res.Paths())
		}
	}
}

func TestFixAbortsOnMissingFile(t *testing.T) {
	fsys := afero.NewMemMapFs()
	seed(t, fsys, map[string]string{"/p/b.php": "<? echo 1;\n"})
	eng := testEngine(t, fsys)

	res, err := eng.Fix(fileset.ConfigDefined("/p", []string{"/p/missing.php", "/p/b.php"}), fixer.ForLevel(fixer.LevelAll), Options{})
	if err == nil {
		t.Fatalf("expected error")
	}
	if len(res.Changes) != 0 {
		t.Fatalf("processing continued after failure: %v", res.Paths())
	}
	if got := read(t, fsys, "/p/b.php"); got != "<? echo 1;\n" {
		t.Fatalf("b.php touched: %q", got)
	}
}

func TestFixRejectsConsumedSource(t *testing.T) {
	fsys := afero.NewMemMapFs()
	seed(t, fsys, map[string]string{"/p/a.php": "<?php\n"})
	eng := testEngine(t, fsys)
	src := fileset.SingleFile("/p/a.php")
	if _, err := eng.Fix(src, fixer.ForLevel(fixer.LevelAll), Options{}); err != nil {
		t.Fatalf("first Fix: %v", err)
	}
	if _, err := eng.Fix(src, fixer.ForLevel(fixer.LevelAll), Options{}); !errors.Is(err, fileset.ErrConsumed) {
		t.Fatalf("second Fix = %v, want ErrConsumed", err)
	}
}

func TestNewRejectsDuplicateRules(t *testing.T) {
	_, err := New(afero.NewMemMapFs(), []Rule{
		replaceRule{name: "a", old: "x", new: "y"},
		replaceRule{name: "a", old: "y", new: "z"},
	}, nil)
	if err == nil {
		t.Fatalf("expected duplicate rule error")
	}
}

func TestChannelSinkForwards(t *testing.T) {
	ch := make(chan Event, 1)
	ChannelSink{Ch: ch}.OnEvent(Event{File: "a", Status: StatusChanged})
	if e := <-ch; e.File != "a" || e.Status != StatusChanged {
		t.Fatalf("event = %+v", e)
	}
	ChannelSink{}.OnEvent(Event{})
}
