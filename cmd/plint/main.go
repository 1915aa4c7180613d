package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"plint/internal/prof"
	"plint/internal/version"
)

// errChecksFailed makes the process exit with status 1 without printing
// anything more: the diagnostics already explain the failure.
var errChecksFailed = errors.New("checks failed")

// newRootCmd builds the command tree. The returned function flushes and
// closes the tracer and must run after Execute, whatever it returned.
func newRootCmd() (*cobra.Command, func()) {
	root := &cobra.Command{
		Use:           "plint",
		Short:         "Static checker for PHP sources",
		Long:          `plint type-checks PHP programs, follows their requires and reports unused code and undeclared exceptions`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Глобальные флаги
	flags := root.PersistentFlags()
	flags.String("color", "", "colorize output (auto|on|off), default from plint.toml")
	flags.Bool("quiet", false, "hide notices and the totals line")
	flags.Bool("timings", false, "show timing information")
	flags.Int("max-diagnostics", 0, "maximum number of diagnostics per entry file, 0 = unlimited (default from plint.toml)")
	flags.String("config", "", "path to plint.toml (default: search upwards from the working directory)")
	flags.String("trace", "", "trace output file (- for stderr)")
	flags.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	flags.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	flags.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	flags.Int("trace-ring-size", 4096, "events kept by the trace ring buffer")
	flags.Duration("trace-heartbeat", 0, "emit a trace heartbeat at this interval (0 disables)")
	flags.String("cpu-profile", "", "write a CPU profile to this file")
	flags.String("mem-profile", "", "write a heap profile to this file on exit")
	flags.String("runtime-trace", "", "write a Go runtime trace to this file")

	var (
		cleanupTrace func()
		profiles     *prof.Session
	)
	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		cleanup, err := setupTracing(cmd)
		if err != nil {
			return err
		}
		cleanupTrace = cleanup
		profiles, err = setupProfiling(cmd)
		return err
	}

	root.AddCommand(newCheckCmd())
	root.AddCommand(newTokenizeCmd())
	root.AddCommand(newVersionCmd())
	root.AddCommand(newCleanCmd())
	return root, func() {
		if err := profiles.Stop(); err != nil {
			fmt.Fprintf(os.Stderr, "plint: %v\n", err)
		}
		if cleanupTrace != nil {
			cleanupTrace()
		}
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	root, cleanup := newRootCmd()
	err := root.ExecuteContext(ctx)
	cleanup()
	stop()
	if err == nil {
		return
	}
	if !errors.Is(err, errChecksFailed) {
		fmt.Fprintf(os.Stderr, "plint: %v\n", err)
	}
	os.Exit(1)
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// useColor resolves auto|on|off against the terminal state of f.
func useColor(mode string, f *os.File) bool {
	switch mode {
	case "on":
		return true
	case "off":
		return false
	default:
		return os.Getenv("NO_COLOR") == "" && isTerminal(f)
	}
}
