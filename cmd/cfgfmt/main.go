package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"cfgfmt/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "cfgfmt",
	Short: "Whitespace formatter for game configuration files",
	Long: `cfgfmt normalizes whitespace and column alignment in .cfg files
without changing their meaning: commands, arguments and line order are
preserved exactly, and every write is gated by a whitespace-insensitive
content check.`,
}

// main registers subcommands and persistent flags, then executes the root
// command. The exit code comes from the run outcome: typed exit errors
// carry the batch result code, anything else is a setup failure (2).
func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(formatCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "only show failures and the summary")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "show run configuration and extra context")

	if err := rootCmd.Execute(); err != nil {
		var exitErr *exitCodeError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.code)
		}
		os.Exit(2)
	}
}

// exitCodeError carries a batch exit code through cobra's error return.
// The run output was already rendered by the time it is raised.
type exitCodeError struct {
	code int
}

func (e *exitCodeError) Error() string {
	switch e.code {
	case 1:
		return "formatting changes required"
	default:
		return "some files failed"
	}
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
