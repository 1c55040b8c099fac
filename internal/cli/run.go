// Package cli — run.go implements the "venvup run" command.
//
// The run command executes Python scripts sequentially with the virtual
// environment's interpreter and the venv-augmented process environment,
// stopping at the first failure. With no arguments it runs the `scripts`
// list from venvup.json, which makes a project's standard pipeline a
// single command after bootstrap.
//
// All script paths are verified to exist before anything is executed, so
// a typo in the middle of a pipeline fails fast instead of after the
// earlier scripts have already run.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/venvup/internal/config"
	"github.com/mmr-tortoise/venvup/internal/model"
	"github.com/mmr-tortoise/venvup/internal/venv"
)

// runFlags holds the flag values for the run command.
type runFlags struct {
	envDir string // --env-dir: environment directory override
}

// NewRunCommand creates the "run" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewRunCommand() *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run [script ...]",
		Short: "Run Python scripts inside the virtual environment",
		Long: `Run Python scripts sequentially inside the virtual environment.

Each script is executed with the environment's own interpreter and an
augmented process environment (VIRTUAL_ENV set, the environment's bin
directory first on PATH), so imports and subprocesses resolve to the
isolated environment. Execution stops at the first failing script.

Without arguments, the "scripts" list from venvup.json is used.

Examples:
  venvup run scripts/fetch.py
  venvup run scripts/fetch.py scripts/convert.py
  venvup run`,

		Args: cobra.ArbitraryArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd.Context(), flags, args)
		},
	}

	cmd.Flags().StringVar(&flags.envDir, "env-dir", "", "Environment directory (default: \"env\" or venvup.json)")

	return cmd
}

// runRun resolves the script list and executes it sequentially.
func runRun(ctx context.Context, flags *runFlags, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to get current directory", err)
	}

	cfg, err := loadConfig(cwd, flags.envDir, "", "")
	if err != nil {
		return err
	}

	scripts, err := ResolveScripts(args, cfg)
	if err != nil {
		return err
	}

	mgr, err := venv.NewManager(cfg.EnvPath(cwd))
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to resolve environment directory", err)
	}

	// The environment must be usable before anything runs. A missing
	// environment points the user at the bootstrap instead of failing
	// with a cryptic exec error.
	if !mgr.Exists() {
		return model.NewCLIError(
			model.ExitGeneralError,
			fmt.Sprintf("no virtual environment at %s; run \"venvup\" first", cfg.EnvDir),
		)
	}
	if err := mgr.VerifyActivation(); err != nil {
		return err
	}

	// Verify every script exists before executing any of them.
	for _, script := range scripts {
		if _, statErr := os.Stat(script); statErr != nil {
			return model.NewCLIError(
				model.ExitGeneralError,
				fmt.Sprintf("script not found: %s", script),
			)
		}
	}

	environ := mgr.Environ()

	// Execute sequentially, stopping at the first failure. Later
	// scripts typically consume the output of earlier ones, so
	// continuing past a failure would work on stale or missing data.
	for _, script := range scripts {
		fmt.Printf("Running %s...\n", script)

		if runErr := runScript(ctx, mgr.Python(), script, cwd, environ); runErr != nil {
			return runErr
		}

		fmt.Printf("✓ %s completed\n", script)
	}

	return nil
}

// ResolveScripts decides which scripts to run: explicit CLI arguments
// win; otherwise the configured list applies. An empty result is an
// error — silently doing nothing would mask a missing configuration.
//
// Exported for testing purposes (tested in cli_test.go).
func ResolveScripts(args []string, cfg *config.Config) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	if len(cfg.Scripts) > 0 {
		return cfg.Scripts, nil
	}
	return nil, model.NewCLIError(
		model.ExitGeneralError,
		"no scripts to run: pass script paths or set \"scripts\" in "+config.FileName,
	)
}

// runScript executes a single script with the venv interpreter, streaming
// its output to the parent's terminal. A non-zero exit is returned as a
// CLIError with ExitScriptFailed.
func runScript(ctx context.Context, venvPython, script, workDir string, environ []string) error {
	// #nosec G204 — the interpreter path is derived from the validated
	// environment directory; the script path was stat-checked above.
	cmd := exec.CommandContext(ctx, venvPython, script)
	cmd.Dir = workDir
	cmd.Env = environ
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return model.WrapCLIError(
			model.ExitScriptFailed,
			fmt.Sprintf("✗ %s failed", script),
			err,
		)
	}

	return nil
}
