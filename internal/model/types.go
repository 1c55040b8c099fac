// Package model defines the domain types for the venvup CLI.
//
// All entities in this package represent the state of a single Python
// virtual environment as observed on disk. These types are used throughout
// the application for passing data between components.
//
// Key design decision: the environment directory itself is the source of
// truth. The state record written at bootstrap time (see internal/venv)
// only adds metadata; when it is missing, every field of EnvInfo can be
// reconstructed by probing the filesystem.
package model

import (
	"fmt"
	"strings"
	"time"
)

// EnvStatus represents the observed state of a virtual environment.
// The possible transitions are:
//
//	[absent] → missing → (up) → ready
//	ready → broken (activation entry point deleted or creation interrupted)
//	ready/broken → (remove) → missing
type EnvStatus string

const (
	// StatusReady indicates the environment directory exists and its
	// activation entry point is present. Dependencies may or may not
	// be installed — venvup does not track install completeness.
	StatusReady EnvStatus = "ready"

	// StatusBroken indicates the environment directory exists but the
	// activation entry point is absent. This typically means an
	// interrupted `python -m venv` run or manual tampering.
	StatusBroken EnvStatus = "broken"

	// StatusMissing indicates the environment directory does not exist.
	StatusMissing EnvStatus = "missing"
)

// String returns the string representation of EnvStatus.
// This method satisfies the fmt.Stringer interface, enabling
// human-readable output in CLI commands and logging.
func (s EnvStatus) String() string {
	return string(s)
}

// IsValid checks whether the EnvStatus value is one of the
// predefined valid states.
func (s EnvStatus) IsValid() bool {
	switch s {
	case StatusReady, StatusBroken, StatusMissing:
		return true
	default:
		return false
	}
}

// ParseEnvStatus converts a string to an EnvStatus.
// Returns an error if the string does not match any valid status.
func ParseEnvStatus(s string) (EnvStatus, error) {
	status := EnvStatus(strings.ToLower(s))
	if !status.IsValid() {
		return "", fmt.Errorf("invalid environment status: %q (valid: ready, broken, missing)", s)
	}
	return status, nil
}

// EnvInfo represents a Python virtual environment managed by venvup.
// This is the primary aggregate entity in the domain.
//
// Fields are populated from two sources: live filesystem probing (status,
// manifest presence) and the yaml state record written at bootstrap time
// (interpreter, version, timestamps). A missing state record leaves the
// record-sourced fields at their zero values.
type EnvInfo struct {
	// EnvDir is the path to the virtual environment directory,
	// relative to the project root or absolute.
	EnvDir string `json:"envDir"`

	// Status is the observed state of the environment.
	Status EnvStatus `json:"status"`

	// Interpreter is the command name of the Python interpreter that
	// created the environment (e.g., "python3").
	Interpreter string `json:"interpreter,omitempty"`

	// InterpreterPath is the absolute path the interpreter command
	// resolved to at creation time.
	InterpreterPath string `json:"interpreterPath,omitempty"`

	// PythonVersion is the version string reported by the interpreter
	// (e.g., "3.12.4").
	PythonVersion string `json:"pythonVersion,omitempty"`

	// ActivationScript is the path to the environment's activation
	// entry point (bin/activate or Scripts\Activate.ps1).
	ActivationScript string `json:"activationScript,omitempty"`

	// ManifestPath is the dependency manifest path the environment was
	// bootstrapped against. Empty if no manifest was present.
	ManifestPath string `json:"manifestPath,omitempty"`

	// ManifestPresent reports whether the manifest currently exists.
	ManifestPresent bool `json:"manifestPresent"`

	// DependencyCount is the number of requirement lines declared in the
	// manifest (comments and option lines excluded). Zero when the
	// manifest is absent.
	DependencyCount int `json:"dependencyCount"`

	// CreatedAt is the timestamp when the environment was first
	// bootstrapped. Zero when the state record is missing.
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is the timestamp of the most recent bootstrap run
	// against this environment.
	UpdatedAt time.Time `json:"updatedAt"`
}

// ValidateEnvDir checks that an environment directory value is usable.
// The directory may be relative or absolute, but must not be empty and
// must not resolve to the project root itself ("." or separators only),
// because `venvup remove` deletes the directory recursively.
func ValidateEnvDir(dir string) error {
	cleaned := strings.Trim(strings.TrimSpace(dir), "/\\")
	if cleaned == "" || cleaned == "." {
		return fmt.Errorf("environment directory must not be empty or the project root")
	}
	return nil
}

// ExitCode defines standard CLI exit codes. These codes allow scripts and
// CI systems to programmatically determine the outcome of a command.
//
// The bootstrap contract fixes two of them: a missing interpreter and a
// missing activation entry point both exit 1 (ExitGeneralError), with
// distinct messages. The remaining codes cover failures the bootstrap
// surfaces from external tools.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully,
	// including the non-fatal missing-manifest warning path.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error. This is also the
	// contractual exit code for "Python not found" and "activation entry
	// point not found".
	ExitGeneralError ExitCode = 1

	// ExitConfigError indicates the project config file exists but
	// could not be read or parsed.
	ExitConfigError ExitCode = 2

	// ExitVenvCreateFailed indicates `python -m venv` exited non-zero.
	ExitVenvCreateFailed ExitCode = 3

	// ExitInstallFailed indicates `pip install -r` exited non-zero.
	ExitInstallFailed ExitCode = 4

	// ExitScriptFailed indicates a script launched by `venvup run`
	// exited non-zero.
	ExitScriptFailed ExitCode = 5

	// ExitUserCancelled indicates the user declined an interactive
	// confirmation prompt.
	ExitUserCancelled ExitCode = 6
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
// This follows Go's error wrapping convention introduced in Go 1.13.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
