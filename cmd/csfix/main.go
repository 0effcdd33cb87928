package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"csfix/internal/engine"
	"csfix/internal/logger"
	"csfix/internal/observ"
	"csfix/internal/rules"
	"csfix/internal/version"
)

// cliApp carries the process-wide collaborators every command needs.
type cliApp struct {
	fs     afero.Fs
	engine fixEngine
	log    logger.Logger
	getwd  func() (string, error)
	stdout io.Writer
	stderr io.Writer
	isTTY  func() bool
	timer  *observ.Timer
	// teaOptions are appended to the progress view's program options.
	teaOptions []tea.ProgramOption
}

// main builds the rule registry once, wires the command tree and runs it.
// Any error is printed as "error: <message>" and exits with status 1.
func main() {
	log := logger.New(os.Stderr, logger.WarnLevel)
	app := &cliApp{
		fs:     afero.NewOsFs(),
		log:    log,
		getwd:  os.Getwd,
		stdout: os.Stdout,
		stderr: os.Stderr,
		isTTY:  func() bool { return isTerminal(os.Stdout) },
	}

	builtin, err := rules.Builtin()
	if err != nil {
		exitWithError(err)
	}
	eng, err := engine.New(app.fs, builtin, log)
	if err != nil {
		exitWithError(err)
	}
	app.engine = eng

	if err := newRootCmd(app).Execute(); err != nil {
		exitWithError(err)
	}
}

func newRootCmd(app *cliApp) *cobra.Command {
	root := &cobra.Command{
		Use:           "csfix",
		Short:         "PHP coding standards fixer",
		Long:          "csfix rewrites PHP sources to follow the PSR-1 and PSR-2 coding standards.",
		Version:       version.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.configure(cmd)
		},
	}

	root.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	root.PersistentFlags().String("log-level", string(logger.WarnLevel), "log verbosity (debug|info|warn|error)")
	root.PersistentFlags().Bool("timings", false, "show timing information")
	root.PersistentFlags().String("cpu-profile", "", "write a CPU profile to file")
	root.PersistentFlags().String("mem-profile", "", "write a heap profile to file")
	root.PersistentFlags().String("runtime-trace", "", "write a runtime trace to file")

	root.AddCommand(newFixCmd(app))
	root.AddCommand(newFixersCmd(app))
	root.AddCommand(newCleanCmd(app))
	root.AddCommand(newVersionCmd())
	return root
}

// configure applies the persistent flags before any command runs.
func (app *cliApp) configure(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()

	colorMode, err := flags.GetString("color")
	if err != nil {
		return err
	}
	switch strings.ToLower(strings.TrimSpace(colorMode)) {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	case "", "auto":
		if app.isTTY != nil {
			color.NoColor = !app.isTTY()
		}
	default:
		return fmt.Errorf("invalid --color value %q (expected auto|on|off)", colorMode)
	}

	levelFlag, err := flags.GetString("log-level")
	if err != nil {
		return err
	}
	level, err := logger.ParseLevel(levelFlag)
	if err != nil {
		return err
	}
	if lv, ok := app.log.(logger.Leveler); ok {
		lv.SetLevel(level)
	}

	timings, err := flags.GetBool("timings")
	if err != nil {
		return err
	}
	if timings {
		app.timer = observ.NewTimer()
	}
	return nil
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, color.New(color.FgRed, color.Bold).Sprint("error:"), err)
	os.Exit(1)
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
