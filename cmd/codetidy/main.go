package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"codetidy/internal/version"
)

// errFindings signals exit status 1 after the findings were already printed.
var errFindings = errors.New("error codes check failed")

// newRootCmd builds the command tree; tests get a fresh tree per run. The
// returned finish releases the tracer and profilers and must run after
// Execute, because PersistentPostRun is skipped when RunE fails.
func newRootCmd() (*cobra.Command, func()) {
	var cleanup func()

	rootCmd := &cobra.Command{
		Use:   "codetidy",
		Short: "Error-code catalog consistency checker",
		Long: `codetidy cross-checks the error code registry of a compiler against its
long-form explanations, its UI test outputs and the compiler sources`,
		Version:      version.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := setupColor(cmd); err != nil {
				return err
			}
			stopProfile, err := setupProfiling(cmd)
			if err != nil {
				return err
			}
			stopTrace, err := setupTracing(cmd)
			if err != nil {
				stopProfile()
				return err
			}
			cleanup = func() {
				stopTrace()
				stopProfile()
			}
			return nil
		},
	}

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show (0 = all)")
	rootCmd.PersistentFlags().String("config", "", "path to codetidy.toml or codetidy.yaml (default: search upwards from the root)")
	rootCmd.PersistentFlags().String("trace", "", "write trace events to file (- for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	rootCmd.PersistentFlags().String("trace-format", "auto", "trace format (auto|text|ndjson)")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a heap profile to file on exit")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a Go runtime trace to file")

	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newExplainCmd())
	rootCmd.AddCommand(newCodesCmd())
	rootCmd.AddCommand(newVersionCmd())

	finish := func() {
		if cleanup != nil {
			cleanup()
			cleanup = nil
		}
	}
	return rootCmd, finish
}

// main runs the command tree and exits with status 1 on any error, including
// a check that reported findings.
func main() {
	rootCmd, finish := newRootCmd()
	err := rootCmd.Execute()
	finish()
	if err != nil {
		os.Exit(1)
	}
}

func setupColor(cmd *cobra.Command) error {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	switch mode {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	case "auto":
		color.NoColor = !isTerminal(os.Stdout)
	default:
		return fmt.Errorf("invalid --color value %q (expected auto|on|off)", mode)
	}
	return nil
}

// useColor reports whether rendering to stdout should be colored.
func useColor() bool {
	return !color.NoColor
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
