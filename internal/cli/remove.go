// Package cli — remove.go implements the "venvup remove" command.
//
// The remove command deletes the virtual environment directory, including
// the state record inside it. The project's source tree and manifest are
// never touched — the environment is fully reproducible from them via a
// fresh bootstrap.
//
// By default, the command prompts for confirmation before proceeding.
// The --force flag skips the confirmation prompt.
package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/venvup/internal/model"
	"github.com/mmr-tortoise/venvup/internal/venv"
)

// removeFlags holds the flag values for the remove command.
type removeFlags struct {
	envDir string // --env-dir: environment directory override

	// force skips the interactive confirmation prompt when true.
	force bool
}

// NewRemoveCommand creates the "remove" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewRemoveCommand() *cobra.Command {
	flags := &removeFlags{}

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Delete the project's virtual environment",
		Long: `Delete the project's virtual environment directory.

The source tree and dependency manifest are untouched; a subsequent
"venvup" recreates the environment from scratch.

Unless --force is specified, the command prompts for confirmation.

Examples:
  venvup remove
  venvup remove --force`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemove(flags)
		},
	}

	cmd.Flags().StringVar(&flags.envDir, "env-dir", "", "Environment directory (default: \"env\" or venvup.json)")
	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Remove without confirmation")

	return cmd
}

// runRemove is the main logic function for the remove command.
func runRemove(flags *removeFlags) error {
	cwd, err := os.Getwd()
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to get current directory", err)
	}

	cfg, err := loadConfig(cwd, flags.envDir, "", "")
	if err != nil {
		return err
	}

	mgr, err := venv.NewManager(cfg.EnvPath(cwd))
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to resolve environment directory", err)
	}

	// Nothing to do when the environment is already absent. This is not
	// an error: the desired end state (no environment) already holds.
	if !mgr.Exists() {
		fmt.Printf("No virtual environment found at %s.\n", cfg.EnvDir)
		return nil
	}

	// Prompt for confirmation unless --force is specified. The removal
	// is recursive and unrecoverable, so an accidental bare "remove"
	// should not be able to destroy a large environment silently.
	if !flags.force {
		confirmed, promptErr := promptConfirmation(cfg.EnvDir)
		if promptErr != nil {
			return model.WrapCLIError(model.ExitGeneralError, "failed to read user input", promptErr)
		}
		if !confirmed {
			return model.NewCLIError(model.ExitUserCancelled, "operation cancelled by user")
		}
	}

	VerboseLog("Removing virtual environment at %s...", mgr.EnvDir())
	if err := os.RemoveAll(mgr.EnvDir()); err != nil {
		return model.WrapCLIError(model.ExitGeneralError,
			fmt.Sprintf("failed to remove virtual environment at %s", mgr.EnvDir()), err)
	}

	printRemoveResult(cfg.EnvDir)
	return nil
}

// promptConfirmation asks the user to confirm the remove operation.
// It reads a single line from stdin and checks for "y" or "yes".
// Returns true if the user confirmed, false otherwise.
func promptConfirmation(envDir string) (bool, error) {
	fmt.Printf("About to remove the virtual environment at %s.\n", envDir)
	fmt.Print("Continue? [y/N] ")

	// Read a line from stdin. bufio.Scanner handles different line endings
	// across platforms (LF on Unix, CRLF on Windows).
	scanner := bufio.NewScanner(os.Stdin)
	if scanner.Scan() {
		answer := strings.TrimSpace(strings.ToLower(scanner.Text()))
		return answer == "y" || answer == "yes", nil
	}

	// If stdin is closed or an error occurred, treat it as "no".
	if err := scanner.Err(); err != nil {
		return false, err
	}

	return false, nil
}

// printRemoveResult outputs the remove command result in text or JSON format.
func printRemoveResult(envDir string) {
	if IsJSONOutput() {
		result := map[string]interface{}{
			"envDir": envDir,
			"action": "removed",
		}
		data, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(data))
		return
	}

	fmt.Printf("Removed virtual environment at %s.\n", envDir)
}
