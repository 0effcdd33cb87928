package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"csfix/internal/fixer"
)

func newFixersCmd(app *cliApp) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fixers",
		Short: "List the available fixers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			levelKeyword, err := cmd.Flags().GetString("level")
			if err != nil {
				return err
			}
			descs := app.engine.Fixers()
			if levelKeyword != "" {
				level, err := fixer.ParseLevel(levelKeyword)
				if err != nil {
					return err
				}
				filtered := descs[:0]
				for _, d := range descs {
					if level.Includes(d.Level) {
						filtered = append(filtered, d)
					}
				}
				descs = filtered
			}
			nameStyle := color.New(color.FgYellow)
			_, err = fmt.Fprint(app.stdout, fixer.FixersHelp(descs, fixer.HelpOptions{
				Label:     app.engine.LevelLabel,
				NameStyle: func(s string) string { return nameStyle.Sprint(s) },
			}))
			return err
		},
	}
	cmd.Flags().String("level", "", "only list the fixers a level runs")
	return cmd
}
