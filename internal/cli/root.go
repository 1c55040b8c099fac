// Package cli implements the cobra-based CLI commands for venvup.
//
// Each subcommand (up, status, run, remove) is defined in its own file
// within this package. This file defines the root command that serves as
// the parent for all subcommands and handles global flags.
//
// Running the bare binary with no arguments performs the bootstrap (the
// `up` subcommand): the original setup script took no arguments, and that
// contract is preserved.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/venvup/internal/model"
)

// Global flag variables shared across all subcommands.
// These are bound to cobra persistent flags on the root command,
// which makes them available to every subcommand automatically.
var (
	// jsonOutput controls whether command output is formatted as JSON.
	// When true, all output uses structured JSON format for machine consumption.
	// When false (default), output uses human-readable text format.
	jsonOutput bool

	// verbose enables detailed logging output for debugging.
	// When true, additional information about operations is printed to stderr.
	verbose bool
)

// version, commit, and date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// NewRootCommand creates and configures the root cobra command.
// This is the entry point for the entire CLI application.
func NewRootCommand() *cobra.Command {
	// The bootstrap flags live on the up command; the bare-invocation
	// path runs the same logic with all-default flags.
	upCmd := NewUpCommand()

	rootCmd := &cobra.Command{
		Use:   "venvup",
		Short: "Python virtual environment bootstrapper",
		Long: `venvup bootstraps an isolated Python development environment for the
current project: it resolves a Python interpreter, creates the virtual
environment if needed, installs dependencies from requirements.txt, and
prints how to activate the environment in your shell.

Run without arguments to bootstrap. Fixed paths (environment directory,
manifest) can be overridden in an optional venvup.json project file.`,

		// No positional arguments on the root command.
		Args: cobra.NoArgs,

		// Bare invocation bootstraps with defaults, preserving the
		// original zero-argument contract.
		RunE: upCmd.RunE,

		// SilenceUsage prevents cobra from printing usage on every error.
		// We handle error output ourselves for cleaner UX.
		SilenceUsage: true,

		// SilenceErrors prevents cobra from printing errors automatically.
		// We format errors ourselves (text or JSON based on --json flag).
		SilenceErrors: true,

		// Version is displayed when --version flag is used.
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),
	}

	// PersistentFlags are inherited by all subcommands. This is the cobra
	// mechanism for global flags — any flag defined here is automatically
	// available in every subcommand without re-declaration.
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	// Register subcommands. Each subcommand is defined in its own file
	// (up.go, status.go, etc.) and returns a *cobra.Command.
	rootCmd.AddCommand(upCmd)
	rootCmd.AddCommand(NewStatusCommand())
	rootCmd.AddCommand(NewRunCommand())
	rootCmd.AddCommand(NewRemoveCommand())

	return rootCmd
}

// Execute runs the root command and handles exit codes.
// This is the main entry point called from main.go.
//
// It inspects errors returned by cobra commands and translates them
// into appropriate OS exit codes. CLIError types carry their own
// exit codes; other errors default to exit code 1.
func Execute(rootCmd *cobra.Command) {
	if err := rootCmd.Execute(); err != nil {
		// Check if the error is a CLIError with a specific exit code.
		// errors.As would also work here, but a type assertion is simpler
		// for this single-level check.
		if cliErr, ok := err.(*model.CLIError); ok {
			printError(cliErr.Message, cliErr.Err)
			os.Exit(int(cliErr.Code))
		}

		// Generic error — exit with code 1.
		printError(err.Error(), nil)
		os.Exit(int(model.ExitGeneralError))
	}
}

// printError outputs an error message in the appropriate format
// (JSON or text) based on the --json global flag.
func printError(message string, underlying error) {
	if jsonOutput {
		errObj := map[string]interface{}{
			"error": map[string]interface{}{
				"message": message,
			},
		}
		if underlying != nil {
			if errMap, ok := errObj["error"].(map[string]interface{}); ok {
				errMap["detail"] = underlying.Error()
			}
		}
		// We write to stderr for errors, even in JSON mode, because stdout
		// is reserved for successful command output.
		data, _ := json.MarshalIndent(errObj, "", "  ")
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		// Text format: "Error: <message>" on stderr.
		if underlying != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", message, underlying)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %s\n", message)
		}
	}
}

// printWarning outputs a non-fatal warning to stderr. Warnings do not
// change the exit code — the missing-manifest path warns and still
// completes with exit 0.
func printWarning(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Warning: "+format+"\n", args...)
}

// VerboseLog prints a message to stderr only when verbose mode is enabled.
// This is used throughout the CLI for debug/trace output that helps
// users understand what operations are being performed.
func VerboseLog(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[verbose] "+format+"\n", args...)
	}
}

// IsJSONOutput returns whether the --json flag is set.
// Subcommands use this to decide their output format.
func IsJSONOutput() bool {
	return jsonOutput
}
