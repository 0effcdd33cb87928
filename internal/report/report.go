// Package report prints the outcome of a fix run.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"csfix/internal/engine"
)

// Format selects the report encoding.
type Format string

const (
	FormatText Format = "txt"
	FormatJSON Format = "json"
)

// ParseFormat validates a --format value.
func ParseFormat(value string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(value))); f {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format %q (expected txt|json)", value)
	}
}

// Write renders changes in the given format.
func Write(w io.Writer, format Format, changes []engine.FileChange, verbose bool) error {
	if format == FormatJSON {
		return JSON(w, changes)
	}
	return Text(w, changes, verbose)
}

// Text writes one "%4d) path" line per change, in order. With verbose, the
// rules that changed the file follow in parentheses.
func Text(w io.Writer, changes []engine.FileChange, verbose bool) error {
	for i, c := range changes {
		line := fmt.Sprintf("%4d) %s", i, c.Path)
		if verbose && len(c.Applied) > 0 {
			line += " (" + strings.Join(c.Applied, ", ") + ")"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

type jsonFile struct {
	Name          string   `json:"name"`
	AppliedFixers []string `json:"applied_fixers"`
}

type jsonReport struct {
	Files []jsonFile `json:"files"`
}

// JSON writes {"files":[{"name":...,"applied_fixers":[...]}]}.
func JSON(w io.Writer, changes []engine.FileChange) error {
	payload := jsonReport{Files: make([]jsonFile, 0, len(changes))}
	for _, c := range changes {
		applied := c.Applied
		if applied == nil {
			applied = []string{}
		}
		payload.Files = append(payload.Files, jsonFile{Name: c.Path, AppliedFixers: applied})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
