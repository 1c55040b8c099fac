// Package cli — status.go implements the "venvup status" command.
//
// The status command inspects the project's virtual environment without
// modifying anything: lifecycle state (ready/broken/missing), recorded
// bootstrap metadata from the yaml state file, and the manifest's
// presence and declared-dependency count. Output is a human-readable
// summary or JSON, depending on the --json flag.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/venvup/internal/config"
	"github.com/mmr-tortoise/venvup/internal/manifest"
	"github.com/mmr-tortoise/venvup/internal/model"
	"github.com/mmr-tortoise/venvup/internal/venv"
)

// statusFlags holds the flag values for the status command.
type statusFlags struct {
	envDir       string // --env-dir: environment directory override
	requirements string // --requirements: manifest path override
}

// NewStatusCommand creates the "status" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewStatusCommand() *cobra.Command {
	flags := &statusFlags{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the state of the project's virtual environment",
		Long: `Show the state of the project's virtual environment.

Reports whether the environment exists and is usable (activation entry
point present), which interpreter bootstrapped it, and whether a
dependency manifest is present along with its declared dependency count.

Examples:
  venvup status
  venvup status --json`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(flags)
		},
	}

	cmd.Flags().StringVar(&flags.envDir, "env-dir", "", "Environment directory (default: \"env\" or venvup.json)")
	cmd.Flags().StringVar(&flags.requirements, "requirements", "", "Dependency manifest path (default: \"requirements.txt\" or venvup.json)")

	return cmd
}

// runStatus gathers the environment information and prints it.
func runStatus(flags *statusFlags) error {
	cwd, err := os.Getwd()
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to get current directory", err)
	}

	cfg, err := loadConfig(cwd, flags.envDir, flags.requirements, "")
	if err != nil {
		return err
	}

	info, err := GatherEnvInfo(cfg, cwd)
	if err != nil {
		return err
	}

	printStatusResult(info)
	return nil
}

// GatherEnvInfo builds the EnvInfo aggregate for the configured
// environment by combining live filesystem probing with the recorded
// bootstrap metadata.
//
// Exported for testing: the probe logic is the interesting part of the
// status command, and it has no terminal side effects.
func GatherEnvInfo(cfg *config.Config, projectDir string) (*model.EnvInfo, error) {
	mgr, err := venv.NewManager(cfg.EnvPath(projectDir))
	if err != nil {
		return nil, model.WrapCLIError(model.ExitGeneralError, "failed to resolve environment directory", err)
	}

	info := &model.EnvInfo{
		EnvDir:           cfg.EnvDir,
		Status:           mgr.Status(),
		ActivationScript: mgr.ActivationScript(),
	}

	// Enrich from the state record when one exists. A missing or
	// unreadable record degrades to live probing only.
	if state, stateErr := mgr.ReadState(); stateErr != nil {
		VerboseLog("Could not read environment state: %v", stateErr)
	} else if state != nil {
		info.Interpreter = state.Interpreter
		info.InterpreterPath = state.InterpreterPath
		info.PythonVersion = state.PythonVersion
		info.ManifestPath = state.Manifest
		info.CreatedAt = state.CreatedAt
		info.UpdatedAt = state.UpdatedAt
	}

	// Probe the manifest live: its presence now matters more than what
	// the last bootstrap saw.
	manifestPath := cfg.RequirementsPath(projectDir)
	if manifest.Exists(manifestPath) {
		info.ManifestPresent = true
		info.ManifestPath = cfg.Requirements

		count, countErr := manifest.CountDependencies(manifestPath)
		if countErr != nil {
			VerboseLog("Could not count manifest dependencies: %v", countErr)
		} else {
			info.DependencyCount = count
		}
	}

	return info, nil
}

// printStatusResult outputs the environment info in text or JSON format,
// depending on the global --json flag.
func printStatusResult(info *model.EnvInfo) {
	if IsJSONOutput() {
		// EnvInfo carries its own JSON tags, so it marshals directly.
		data, _ := json.MarshalIndent(info, "", "  ")
		fmt.Println(string(data))
		return
	}

	fmt.Printf("Environment:  %s (%s)\n", info.EnvDir, info.Status)

	if info.Interpreter != "" {
		interpreter := info.Interpreter
		if info.PythonVersion != "" {
			interpreter = fmt.Sprintf("%s (Python %s)", interpreter, info.PythonVersion)
		}
		fmt.Printf("Interpreter:  %s\n", interpreter)
	}

	if info.ManifestPresent {
		fmt.Printf("Manifest:     %s (%s)\n", info.ManifestPath, FormatDependencyCount(info.DependencyCount))
	} else {
		fmt.Println("Manifest:     not found")
	}

	if !info.CreatedAt.IsZero() {
		fmt.Printf("Created:      %s\n", info.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	}

	// Nudge toward the fix when the environment is not usable.
	switch info.Status {
	case model.StatusMissing:
		fmt.Println()
		fmt.Println("Run \"venvup\" to create the environment.")
	case model.StatusBroken:
		fmt.Println()
		fmt.Printf("The activation entry point is missing. Remove %s and run \"venvup\" again.\n", info.EnvDir)
	}
}

// FormatDependencyCount renders a declared-dependency count for the text
// output, with correct pluralization.
//
// This function is exported for testing purposes (tested in cli_test.go).
func FormatDependencyCount(count int) string {
	if count == 1 {
		return "1 dependency"
	}
	return fmt.Sprintf("%d dependencies", count)
}
