// Package cli — up.go implements the "venvup up" command.
//
// The up command is the bootstrap operation and the default action of the
// bare binary. It performs the single linear pass of the original setup
// script:
//
//  1. Resolve a Python interpreter (fatal if none found)
//  2. Ensure the environment directory exists (create via `python -m venv`)
//  3. Verify the activation entry point (fatal if absent)
//  4. Install dependencies if the manifest exists (warn and continue if not)
//  5. Print the manual reactivation hint
//
// There is no retry, backoff, or rollback: each step is an existence
// check followed by an action.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/venvup/internal/config"
	"github.com/mmr-tortoise/venvup/internal/manifest"
	"github.com/mmr-tortoise/venvup/internal/model"
	"github.com/mmr-tortoise/venvup/internal/python"
	"github.com/mmr-tortoise/venvup/internal/venv"
)

// upFlags holds the flag values for the up command.
// These are bound to cobra flags in NewUpCommand. Empty string values
// mean "not set" and defer to venvup.json or the built-in defaults.
type upFlags struct {
	envDir       string // --env-dir: environment directory override
	requirements string // --requirements: manifest path override
	python       string // --python: single interpreter candidate override
	skipInstall  bool   // --skip-install: stop after activation check
}

// NewUpCommand creates the "up" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewUpCommand() *cobra.Command {
	flags := &upFlags{}

	cmd := &cobra.Command{
		Use:   "up",
		Short: "Bootstrap the project's virtual environment",
		Long: `Bootstrap the project's Python virtual environment.

The command resolves a Python interpreter, creates the environment
directory with "python -m venv" if it does not exist, verifies the
activation entry point, and installs dependencies from the manifest
when one is present. A missing manifest is a warning, not an error.

Examples:
  venvup up
  venvup up --env-dir .venv
  venvup up --python python3.12
  venvup up --skip-install`,

		Args: cobra.NoArgs,

		// RunE is used instead of Run so we can return errors. Cobra will
		// pass them to the Execute error handler in root.go.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUp(cmd.Context(), flags)
		},
	}

	// Register command-specific flags.
	cmd.Flags().StringVar(&flags.envDir, "env-dir", "", "Environment directory (default: \"env\" or venvup.json)")
	cmd.Flags().StringVar(&flags.requirements, "requirements", "", "Dependency manifest path (default: \"requirements.txt\" or venvup.json)")
	cmd.Flags().StringVar(&flags.python, "python", "", "Interpreter command to use (default: probe python3, then python)")
	cmd.Flags().BoolVar(&flags.skipInstall, "skip-install", false, "Skip dependency installation")

	return cmd
}

// runUp is the main orchestration function for the bootstrap.
func runUp(ctx context.Context, flags *upFlags) error {
	// Step 0: Load project configuration and apply flag overrides.
	// The config supplies defaults that reproduce the original fixed
	// literals; flags take precedence over the file.
	cwd, err := os.Getwd()
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to get current directory", err)
	}

	cfg, err := loadConfig(cwd, flags.envDir, flags.requirements, flags.python)
	if err != nil {
		return err // loadConfig already returns CLIError
	}

	// Step 1: Resolve the Python interpreter. This must happen before
	// any side effect: a machine without Python exits 1 here with the
	// "Python not found" diagnostic and nothing on disk changed.
	interp, err := python.Resolve(cfg.PythonCandidates)
	if err != nil {
		return err // Resolve already returns CLIError with exit code 1
	}
	VerboseLog("Resolved interpreter: %s (%s)", interp.Command, interp.Path)

	// The version probe is informational; a failure degrades to an
	// empty version rather than aborting the bootstrap.
	pyVersion, verErr := interp.Version(ctx)
	if verErr != nil {
		VerboseLog("Version probe failed: %v", verErr)
	} else {
		VerboseLog("Interpreter version: %s", pyVersion)
	}

	mgr, err := venv.NewManager(cfg.EnvPath(cwd))
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to resolve environment directory", err)
	}

	// Step 2: Ensure the environment directory exists. Creation is
	// gated purely on directory presence: an existing directory is
	// never re-created, matching the idempotence contract.
	if mgr.Exists() {
		VerboseLog("Environment directory %s exists, skipping creation", cfg.EnvDir)
	} else {
		fmt.Printf("Creating virtual environment in %s...\n", cfg.EnvDir)
		if createErr := mgr.Create(ctx, interp); createErr != nil {
			return createErr // Create already returns CLIError
		}
		VerboseLog("Virtual environment created")
	}

	// Step 3: Verify the activation entry point. Absence is fatal with
	// exit code 1 and no dependency installation may follow.
	if err := mgr.VerifyActivation(); err != nil {
		return err
	}
	VerboseLog("Activation entry point verified: %s", mgr.ActivationScript())

	// Step 4: Install dependencies when the manifest is present. The
	// install runs on EVERY bootstrap (not skip-on-repeat), because pip
	// is the component that knows whether anything needs doing.
	manifestPath := cfg.RequirementsPath(cwd)
	manifestPresent := manifest.Exists(manifestPath)
	installed := false

	switch {
	case !manifestPresent:
		// Non-fatal: degrade to "no dependencies installed".
		printWarning("%s not found; skipping dependency install", cfg.Requirements)
	case flags.skipInstall:
		VerboseLog("Skipping dependency install (--skip-install)")
	default:
		fmt.Printf("Installing dependencies from %s...\n", cfg.Requirements)
		if installErr := manifest.Install(ctx, mgr.Python(), manifestPath, mgr.Environ()); installErr != nil {
			return installErr // Install already returns CLIError
		}
		installed = true
	}

	// Record bootstrap metadata in the environment. The record is
	// informational, so a write failure is a warning rather than a
	// failed bootstrap.
	state := &venv.State{
		Interpreter:     interp.Command,
		InterpreterPath: interp.Path,
		PythonVersion:   pyVersion,
		UpdatedAt:       time.Now().UTC(),
	}
	// The Manifest field means "manifest the bootstrap installed from",
	// so it stays empty when the install was skipped or no manifest
	// existed.
	if installed {
		state.Manifest = cfg.Requirements
	}
	if stateErr := mgr.WriteState(state); stateErr != nil {
		printWarning("failed to record environment state: %v", stateErr)
	}

	// Step 5: Report completion with the manual reactivation hint.
	printUpResult(cfg, interp, pyVersion, installed)
	return nil
}

// loadConfig loads venvup.json from the project directory and applies
// CLI flag overrides on top. Shared by the up, status, run, and remove
// commands so every command agrees on which environment is meant.
func loadConfig(projectDir, envDir, requirements, pythonCandidate string) (*config.Config, error) {
	cfg, err := config.Load(projectDir)
	if err != nil {
		return nil, err
	}

	if envDir != "" {
		cfg.EnvDir = envDir
	}
	if requirements != "" {
		cfg.Requirements = requirements
	}
	if pythonCandidate != "" {
		// An explicit --python bypasses the probe order entirely.
		cfg.PythonCandidates = []string{pythonCandidate}
	}

	if err := cfg.Validate(); err != nil {
		return nil, model.WrapCLIError(model.ExitConfigError, "invalid configuration", err)
	}

	return cfg, nil
}

// printUpResult outputs the bootstrap result in text or JSON format.
func printUpResult(cfg *config.Config, interp *python.Interpreter, pyVersion string, installed bool) {
	if IsJSONOutput() {
		printUpResultJSON(cfg, interp, pyVersion, installed)
	} else {
		printUpResultText(cfg, pyVersion, installed)
	}
}

// printUpResultJSON outputs the bootstrap result as structured JSON.
func printUpResultJSON(cfg *config.Config, interp *python.Interpreter, pyVersion string, installed bool) {
	type resultJSON struct {
		EnvDir         string `json:"envDir"`
		Interpreter    string `json:"interpreter"`
		PythonVersion  string `json:"pythonVersion,omitempty"`
		Installed      bool   `json:"dependenciesInstalled"`
		ActivationHint string `json:"activationHint"`
	}

	result := resultJSON{
		EnvDir:         cfg.EnvDir,
		Interpreter:    interp.Command,
		PythonVersion:  pyVersion,
		Installed:      installed,
		ActivationHint: venv.ActivationHint(cfg.EnvDir),
	}

	data, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(data))
}

// printUpResultText outputs the bootstrap result as human-readable text,
// closing with the static reactivation hint.
func printUpResultText(cfg *config.Config, pyVersion string, installed bool) {
	summary := "Virtual environment ready"
	if pyVersion != "" {
		summary = fmt.Sprintf("%s (Python %s)", summary, pyVersion)
	}
	fmt.Println(summary)

	if !installed {
		fmt.Println("No dependencies were installed.")
	}

	fmt.Println()
	fmt.Println("To activate the environment in your shell, run:")
	fmt.Printf("  %s\n", venv.ActivationHint(cfg.EnvDir))
}
