package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCleanCmd(app *cliApp) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove the result cache",
		Long:  "Remove every record of the result cache so the next fix run checks all files again.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cmd.Flags().GetString("cache-dir")
			if err != nil {
				return err
			}
			c, err := app.cacheAt(dir)
			if err != nil {
				return fmt.Errorf("failed to open cache: %w", err)
			}
			if err := c.DropAll(); err != nil {
				return fmt.Errorf("failed to clear %q: %w", c.Dir(), err)
			}
			_, err = fmt.Fprintf(app.stdout, "cleared %s\n", c.Dir())
			return err
		},
	}
	cmd.Flags().String("cache-dir", "", "result cache directory (default $XDG_CACHE_HOME/csfix)")
	return cmd
}
