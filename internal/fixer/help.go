package fixer

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/mitchellh/go-wordwrap"
)

// helpColumns is the total width budget for a help entry, name included.
const helpColumns = 72

// HelpOptions customises FixersHelp rendering.
type HelpOptions struct {
	// Label renders the level tag; LevelLabel when nil.
	Label func(Descriptor) string
	// NameStyle decorates the rule name, e.g. with colour. Padding is
	// computed on the undecorated name.
	NameStyle func(string) string
}

// FixersHelp renders the rule catalog as an aligned, word-wrapped list:
//
//	 * linefeed        [PSR-2] All PHP files must use the Unix LF
//	                   (linefeed) line ending.
//
// Entries are separated by a single blank line.
func FixersHelp(descs []Descriptor, opts HelpOptions) string {
	label := opts.Label
	if label == nil {
		label = func(d Descriptor) string { return LevelLabel(d.Level) }
	}
	style := opts.NameStyle
	if style == nil {
		style = func(s string) string { return s }
	}

	maxName := MaxNameWidth(descs)
	wrapAt := helpColumns - maxName
	if wrapAt < 1 {
		wrapAt = 1
	}
	indent := strings.Repeat(" ", maxName+4)

	var b strings.Builder
	for i, d := range descs {
		text := fmt.Sprintf("[%s] %s", label(d), d.Description)
		chunks := strings.Split(wordwrap.WrapString(text, uint(wrapAt)), "\n")
		pad := strings.Repeat(" ", maxName-runewidth.StringWidth(d.Name))
		fmt.Fprintf(&b, " * %s%s %s\n", style(d.Name), pad, chunks[0])
		for _, c := range chunks[1:] {
			// Blank lines in a description are dropped; the text after them is kept.
			if c == "" {
				continue
			}
			b.WriteString(indent)
			b.WriteString(c)
			b.WriteByte('\n')
		}
		if i != len(descs)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// MaxNameWidth returns the display width of the longest rule name.
func MaxNameWidth(descs []Descriptor) int {
	width := 0
	for _, d := range descs {
		if w := runewidth.StringWidth(d.Name); w > width {
			width = w
		}
	}
	return width
}
