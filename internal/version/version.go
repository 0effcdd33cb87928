package version

import "github.com/fatih/color"

// Build metadata for the csfix CLI. These variables can be overridden at
// build time via -ldflags "-X csfix/internal/version.Version=...".
var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	numberColor = color.New(color.FgGreen, color.Bold)
	suffixColor = color.New(color.FgYellow)
)

// Pretty renders Version for terminals: the release number in bold green,
// any pre-release suffix in yellow.
func Pretty() string {
	for i, r := range Version {
		if r == '-' || r == '+' {
			return numberColor.Sprint(Version[:i]) + suffixColor.Sprint(Version[i:])
		}
	}
	return numberColor.Sprint(Version)
}
