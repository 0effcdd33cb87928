package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"csfix/internal/version"
)

type versionPayload struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show csfix build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := cmd.Flags().GetString("format")
			if err != nil {
				return err
			}
			switch strings.ToLower(format) {
			case "pretty":
				return renderVersionPretty(cmd.OutOrStdout())
			case "json":
				return renderVersionJSON(cmd.OutOrStdout())
			default:
				return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
			}
		},
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

func renderVersionPretty(out io.Writer) error {
	if _, err := fmt.Fprintf(out, "csfix %s\n", version.Pretty()); err != nil {
		return err
	}
	if c := strings.TrimSpace(version.GitCommit); c != "" {
		if _, err := fmt.Fprintf(out, "commit: %s\n", c); err != nil {
			return err
		}
	}
	if d := strings.TrimSpace(version.BuildDate); d != "" {
		if _, err := fmt.Fprintf(out, "built:  %s\n", d); err != nil {
			return err
		}
	}
	return nil
}

func renderVersionJSON(out io.Writer) error {
	payload := versionPayload{
		Tool:      "csfix",
		Version:   strings.TrimSpace(version.Version),
		GitCommit: strings.TrimSpace(version.GitCommit),
		BuildDate: strings.TrimSpace(version.BuildDate),
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
