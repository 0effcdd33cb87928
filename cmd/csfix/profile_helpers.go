package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"csfix/internal/prof"
)

// startProfiling starts the profilers selected by the persistent profiling
// flags. The returned session is nil when none was requested.
func (app *cliApp) startProfiling(cmd *cobra.Command) (*prof.Session, error) {
	root := cmd.Root()

	var opts prof.Options
	var err error
	if opts.CPU, err = root.PersistentFlags().GetString("cpu-profile"); err != nil {
		return nil, fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	if opts.Mem, err = root.PersistentFlags().GetString("mem-profile"); err != nil {
		return nil, fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	if opts.Trace, err = root.PersistentFlags().GetString("runtime-trace"); err != nil {
		return nil, fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}
	if !opts.Enabled() {
		return nil, nil
	}
	return prof.Start(app.fs, opts)
}
