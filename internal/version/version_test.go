package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestPrettyWithoutColor(t *testing.T) {
	prevNoColor, prevVersion := color.NoColor, Version
	t.Cleanup(func() {
		color.NoColor = prevNoColor
		Version = prevVersion
	})
	color.NoColor = true

	cases := []string{"0.1.0-dev", "1.2.3", "1.0.0+build.7"}
	for _, v := range cases {
		Version = v
		if got := Pretty(); got != v {
			t.Fatalf("Pretty() = %q, want %q", got, v)
		}
	}
}
