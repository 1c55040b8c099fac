// Package venv manages the lifecycle of a Python virtual environment.
//
// This package wraps the interpreter's venv module (via os/exec) to
// create environments, verifies their activation entry point, and builds
// the augmented process environment that replaces in-shell activation.
//
// Design decisions:
//   - We shell out to `python -m venv` rather than recreating the venv
//     layout ourselves, because the layout is owned by the interpreter
//     and varies across Python versions and platforms.
//   - Activation is reinterpreted for a compiled tool: instead of
//     mutating the invoking shell's state (impossible from a child
//     process), Environ() returns a copy of the process environment with
//     VIRTUAL_ENV set, the environment's bin directory prepended to PATH,
//     and PYTHONHOME removed. Every subsequent child process receives it,
//     which is exactly what sourcing the activation script would achieve.
//   - External tool exit codes are checked and propagated as CLIErrors.
//     The original setup script ignored them, which silently masked venv
//     creation failures; surfacing them was an explicit redesign choice.
package venv

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/mmr-tortoise/venvup/internal/model"
	"github.com/mmr-tortoise/venvup/internal/python"
)

// Manager provides lifecycle operations for a single virtual environment
// directory. The directory path should be absolute so that VIRTUAL_ENV
// and PATH entries in Environ() are valid regardless of the working
// directory of child processes.
type Manager struct {
	// envDir is the absolute path of the environment directory.
	envDir string
}

// NewManager creates a Manager for the given environment directory.
// Relative paths are resolved against the current working directory at
// construction time, so later chdirs (or child process working
// directories) cannot change which environment is meant.
func NewManager(envDir string) (*Manager, error) {
	abs, err := filepath.Abs(envDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve environment directory %s: %w", envDir, err)
	}
	return &Manager{envDir: abs}, nil
}

// EnvDir returns the absolute environment directory path.
func (m *Manager) EnvDir() string {
	return m.envDir
}

// Exists reports whether the environment directory exists.
//
// Only directory existence is checked here — a half-created environment
// (directory present, activation script absent) still counts as existing,
// so the bootstrap will NOT re-run creation over it. That mirrors the
// original script: creation is gated purely on directory presence, and a
// broken environment surfaces later as a fatal activation check.
func (m *Manager) Exists() bool {
	info, err := os.Stat(m.envDir)
	return err == nil && info.IsDir()
}

// Create invokes `<python> -m venv <envDir>` with the resolved
// interpreter. The caller is responsible for checking Exists() first;
// running venv over an existing directory is harmless but slow, and the
// bootstrap contract requires the creation tool to be invoked only when
// the directory is absent.
//
// A non-zero exit from the venv module is returned as a CLIError with
// ExitVenvCreateFailed, including the tool's own output for diagnosis.
func (m *Manager) Create(ctx context.Context, interp *python.Interpreter) error {
	// #nosec G204 — the interpreter path comes from exec.LookPath over
	// configured candidates, not from arbitrary user input.
	cmd := exec.CommandContext(ctx, interp.Path, "-m", "venv", m.envDir)

	// CombinedOutput captures both streams; the venv module reports
	// problems (missing ensurepip, read-only target) on stderr.
	output, err := cmd.CombinedOutput()
	if err != nil {
		return model.WrapCLIError(
			model.ExitVenvCreateFailed,
			fmt.Sprintf("%s -m venv %s failed: %s",
				interp.Command, m.envDir, strings.TrimSpace(string(output))),
			err,
		)
	}

	return nil
}

// ActivationScript returns the path of this environment's activation
// entry point.
func (m *Manager) ActivationScript() string {
	return ActivationScript(m.envDir)
}

// Python returns the path of this environment's interpreter.
func (m *Manager) Python() string {
	return PythonPath(m.envDir)
}

// VerifyActivation checks that the activation entry point exists.
//
// A missing entry point is fatal with exit code 1 (the contractual code
// for this failure) and no dependency installation may follow.
func (m *Manager) VerifyActivation() error {
	script := m.ActivationScript()
	if _, err := os.Stat(script); err != nil {
		return model.NewCLIError(
			model.ExitGeneralError,
			fmt.Sprintf("activation entry point not found: %s (the environment may be corrupt; remove %s and re-run)",
				script, m.envDir),
		)
	}
	return nil
}

// Status derives the environment's lifecycle status from the filesystem.
func (m *Manager) Status() model.EnvStatus {
	if !m.Exists() {
		return model.StatusMissing
	}
	if m.VerifyActivation() != nil {
		return model.StatusBroken
	}
	return model.StatusReady
}

// Environ returns a copy of the current process environment augmented the
// way the activation script would augment an interactive shell:
//
//   - VIRTUAL_ENV is set to the environment directory
//   - the environment's bin directory is prepended to PATH
//   - PYTHONHOME is removed (it overrides the venv's interpreter prefix
//     and is the classic cause of venvs resolving system site-packages)
//
// The returned slice is suitable for exec.Cmd.Env. The augmentation is
// scoped to child processes of this run and released automatically at
// process exit; the invoking shell is never touched.
func (m *Manager) Environ() []string {
	base := os.Environ()
	env := make([]string, 0, len(base)+2)

	pathSet := false
	for _, kv := range base {
		key, value, _ := strings.Cut(kv, "=")
		switch {
		case strings.EqualFold(key, "PYTHONHOME"), strings.EqualFold(key, "VIRTUAL_ENV"):
			// Dropped: both would fight the environment we are
			// constructing.
			continue
		case key == "PATH" || (runtime.GOOS == "windows" && strings.EqualFold(key, "Path")):
			env = append(env, key+"="+BinDir(m.envDir)+string(os.PathListSeparator)+value)
			pathSet = true
		default:
			env = append(env, kv)
		}
	}

	// A process can, in principle, start with no PATH at all. The venv
	// bin directory alone still makes the isolated tools resolvable.
	if !pathSet {
		env = append(env, "PATH="+BinDir(m.envDir))
	}

	env = append(env, "VIRTUAL_ENV="+m.envDir)
	return env
}
