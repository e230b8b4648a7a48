package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/spf13/cobra"

	"github.com/andyrewlee/termsel/internal/config"
	"github.com/andyrewlee/termsel/internal/logging"
	"github.com/andyrewlee/termsel/internal/perf"
	"github.com/andyrewlee/termsel/internal/safego"
)

// buildInfo is the version metadata stamped in by the linker.
type buildInfo struct {
	version string
	commit  string
	date    string
}

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	home     string
	logLevel string
}

// Run executes the termsel CLI. It returns a process exit code.
func Run(args []string, version, commit, date string) int {
	return run(args, os.Stdin, os.Stdout, os.Stderr, buildInfo{version, commit, date})
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer, info buildInfo) int {
	root := buildRootCommand(info)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.Execute(); err != nil {
		var exitErr exitError
		if errors.As(err, &exitErr) {
			return exitErr.code
		}
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	return 0
}

func buildRootCommand(info buildInfo) *cobra.Command {
	flags := &globalFlags{}
	root := &cobra.Command{
		Use:   "termsel",
		Short: "Select and copy text from terminal output",
		Long: `termsel - mouse and keyboard text selection over terminal output

Viewing:
  termsel view [file]              Open a file or stdin in the selection viewer
  termsel capture -- <cmd> [args]  Run a command under a PTY and view its output

Headless:
  termsel extract [file] --from X,Y --to X,Y   Print the text of a selection`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.Version = info.version
	root.SetVersionTemplate(versionLine(info) + "\n")
	root.SetHelpCommand(&cobra.Command{Hidden: true})
	root.CompletionOptions.DisableDefaultCmd = true

	root.PersistentFlags().StringVar(&flags.home, "home", "", "Config directory (default ~/.termsel, or $TERMSEL_HOME)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "info", "Log level: debug, info, warn, error, off")

	root.AddCommand(buildViewCommand(flags))
	root.AddCommand(buildCaptureCommand(flags))
	root.AddCommand(buildExtractCommand(flags))
	root.AddCommand(buildConfigCommand(flags))
	root.AddCommand(buildVersionCommand(info))
	root.AddCommand(buildCompletionCommand())

	registerCompletions(root)

	return root
}

// loadConfig resolves paths from the global flags and loads the config file.
func (f *globalFlags) loadConfig() (*config.Config, error) {
	var paths *config.Paths
	if f.home != "" {
		paths = config.PathsAt(f.home)
	} else {
		var err error
		paths, err = config.DefaultPaths()
		if err != nil {
			return nil, fmt.Errorf("resolve config paths: %w", err)
		}
	}
	cfg, err := config.LoadFrom(paths)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", paths.ConfigPath, err)
	}
	return cfg, nil
}

// startLogging opens the log file for interactive commands. A failure is
// reported and otherwise ignored.
func (f *globalFlags) startLogging(cfg *config.Config, stderr io.Writer) func() {
	if err := cfg.Paths.EnsureDirectories(); err != nil {
		fmt.Fprintf(stderr, "Warning: could not create %s: %v\n", cfg.Paths.Home, err)
		return func() {}
	}
	if err := logging.Initialize(cfg.Paths.LogsDir, logging.ParseLevel(f.logLevel)); err != nil {
		fmt.Fprintf(stderr, "Warning: could not initialize logging: %v\n", err)
		return func() {}
	}
	logging.SetEnabled(f.logLevel != "off")

	var panics atomic.Int32
	safego.SetPanicHandler(func(string, any, []byte) {
		panics.Add(1)
	})
	return func() {
		safego.SetPanicHandler(nil)
		perf.Flush("exit")
		if n := panics.Load(); n > 0 && f.logLevel != "off" {
			fmt.Fprintf(stderr, "%d background task(s) panicked, details in %s\n", n, logging.GetLogPath())
		}
		_ = logging.Close()
	}
}

// exitError lets commands return a specific exit code without printing an error.
type exitError struct {
	code int
}

func (e exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}
