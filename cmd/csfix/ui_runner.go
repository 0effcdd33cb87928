package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"csfix/internal/engine"
	"csfix/internal/fileset"
	"csfix/internal/fixer"
	"csfix/internal/ui"
)

// runFixWithUI runs the engine in a background goroutine and renders its
// events until the source is exhausted. Files are still fixed one at a time.
func runFixWithUI(app *cliApp, title string, src *fileset.Source, set fixer.Set, opts engine.Options) (*engine.Result, error) {
	events := make(chan engine.Event, 256)

	var (
		g   errgroup.Group
		res *engine.Result
	)
	g.Go(func() error {
		defer close(events)
		runOpts := opts
		runOpts.Sink = engine.ChannelSink{Ch: events}
		var err error
		res, err = app.engine.Fix(src, set, runOpts)
		return err
	})

	model := ui.NewProgressModel(title, src.Len(), events)
	options := append([]tea.ProgramOption{tea.WithOutput(app.stderr), tea.WithInput(nil)}, app.teaOptions...)
	program := tea.NewProgram(model, options...)
	_, uiErr := program.Run()
	// The view may quit early; keep the engine from blocking on a full channel.
	for range events {
	}
	fixErr := g.Wait()
	if uiErr != nil {
		return res, uiErr
	}
	return res, fixErr
}
