package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"csfix/internal/cache"
	"csfix/internal/engine"
	"csfix/internal/fileset"
	"csfix/internal/finder"
	"csfix/internal/fixer"
	"csfix/internal/observ"
	"csfix/internal/report"
)

// fixEngine is the part of the engine the CLI depends on.
type fixEngine interface {
	Fix(src *fileset.Source, set fixer.Set, opts engine.Options) (*engine.Result, error)
	Fixers() []fixer.Descriptor
	LevelLabel(fixer.Descriptor) string
}

const fixUsage = `The fix command tries to fix as much coding standards problems as possible
on a given file or directory:

    csfix fix /path/to/dir
    csfix fix /path/to/file

You can limit the fixers you want to use on your project by using the
--level option:

    csfix fix /path/to/project --level=psr1
    csfix fix /path/to/project --level=psr2
    csfix fix /path/to/project --level=all

When the level option is not passed, all PSR-2 fixers and some additional
ones are run.

You can also explicitly name the fixers you want to use (a list of fixer
names separated by a comma):

    csfix fix /path/to/dir --fixers=linefeed,short_tag,indentation

The list of supported fixers:

%s
You can tweak the files and directories being analyzed by creating a
.php_cs file in the root directory of your project:

    in      = ["src"]
    name    = ["*.php"]
    exclude = ["someDir"]

The .php_cs file is a TOML document; when present it takes precedence over
the finder argument.

You can also use specialized "finders", for instance when ran for Symfony
2.0 or 2.1:

    # For the Symfony 2.0 branch
    csfix fix /path/to/sf20 Symfony20Finder

    # For the Symfony 2.1 branch
    csfix fix /path/to/sf21 Symfony21Finder

Known finders: %s`

func newFixCmd(app *cliApp) *cobra.Command {
	nameStyle := color.New(color.FgYellow)
	help := fixer.FixersHelp(app.engine.Fixers(), fixer.HelpOptions{
		Label:     app.engine.LevelLabel,
		NameStyle: func(s string) string { return nameStyle.Sprint(s) },
	})

	cmd := &cobra.Command{
		Use:   "fix [flags] <path> [finder]",
		Short: "Fixes a directory or a file",
		Long:  fmt.Sprintf(fixUsage, help, strings.Join(finder.Known(), ", ")),
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runFix(cmd, args)
		},
	}

	levels := strings.Join(fixer.LevelKeywords(), ", ")
	cmd.Flags().Bool("dry-run", false, "only show which files would have been modified")
	cmd.Flags().String("level", fixer.DefaultLevelKeyword, "the level of fixes (can be "+levels+")")
	cmd.Flags().String("fixers", "", "a comma-separated list of fixers to run; overrides --level")
	cmd.Flags().String("format", string(report.FormatText), "output format (txt|json)")
	cmd.Flags().BoolP("verbose", "v", false, "list the fixers applied to each file")
	cmd.Flags().Bool("no-cache", false, "do not read or write the result cache")
	cmd.Flags().String("cache-dir", "", "result cache directory (default $XDG_CACHE_HOME/csfix)")
	cmd.Flags().String("ui", string(uiModeOff), "progress view (auto|on|off)")
	return cmd
}

func (app *cliApp) runFix(cmd *cobra.Command, args []string) error {
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return err
	}
	levelKeyword, err := cmd.Flags().GetString("level")
	if err != nil {
		return err
	}
	fixersCSV, err := cmd.Flags().GetString("fixers")
	if err != nil {
		return err
	}
	formatFlag, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return err
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return err
	}

	format, err := report.ParseFormat(formatFlag)
	if err != nil {
		return err
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}

	session, err := app.startProfiling(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if err := session.Stop(); err != nil {
			app.log.Warn("profiling failed", "err", err)
		}
	}()

	cwd, err := app.getwd()
	if err != nil {
		return fmt.Errorf("fix: %w", err)
	}
	target := fileset.Normalize(args[0], cwd)
	finderID := finder.DefaultID
	if len(args) > 1 {
		finderID = args[1]
	}

	phase := app.timer.Begin(observ.PhaseResolveFiles)
	src, err := fileset.NewResolver(app.fs, app.log).Resolve(target, finderID)
	if err != nil {
		return err
	}
	app.timer.End(phase, src.Kind().String())
	app.log.Debug("resolved files", "kind", src.Kind().String(), "root", src.Root(), "finder", src.FinderID(), "count", src.Len())

	phase = app.timer.Begin(observ.PhaseResolveFixers)
	set, err := fixer.ResolveSet(fixersCSV, levelKeyword)
	if err != nil {
		return err
	}
	app.timer.End(phase, set.String())

	opts := engine.Options{DryRun: dryRun}
	opts.Cache, err = app.openCache(cmd)
	if err != nil {
		return err
	}

	phase = app.timer.Begin(observ.PhaseFix)
	var res *engine.Result
	if shouldUseTUI(mode, app.isTTY) {
		res, err = runFixWithUI(app, fmt.Sprintf("fixing %s", target), src, set, opts)
	} else {
		res, err = app.engine.Fix(src, set, opts)
	}
	if err != nil {
		return err
	}
	app.timer.End(phase, fmt.Sprintf("%d checked, %d cached, %d changed", res.Checked, res.Cached, len(res.Changes)))

	phase = app.timer.Begin(observ.PhaseWriteReport)
	if err := report.Write(app.stdout, format, res.Changes, verbose); err != nil {
		return err
	}
	app.timer.End(phase, "")

	if app.timer != nil {
		fmt.Fprint(app.stderr, app.timer.Summary())
	}
	return nil
}

// openCache returns the result cache selected by the flags, or nil when
// caching is disabled. A cache that cannot be opened only costs speed.
func (app *cliApp) openCache(cmd *cobra.Command) (*cache.Cache, error) {
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return nil, err
	}
	if noCache {
		return nil, nil
	}
	dir, err := cmd.Flags().GetString("cache-dir")
	if err != nil {
		return nil, err
	}
	c, err := app.cacheAt(dir)
	if err != nil {
		app.log.Warn("result cache disabled", "err", err)
		return nil, nil
	}
	app.log.Debug("result cache", "dir", c.Dir())
	return c, nil
}

// cacheAt opens the cache in dir, or in the default location when dir is empty.
func (app *cliApp) cacheAt(dir string) (*cache.Cache, error) {
	if dir != "" {
		return cache.New(app.fs, dir)
	}
	return cache.Open(app.fs, "csfix")
}
