// state.go reads and writes the environment state record.
//
// The record (venvup.state.yaml, inside the environment directory) is
// metadata only: which interpreter created the environment, what version
// it reported, which manifest the bootstrap used, and when. Nothing in
// venvup depends on it to function — `status` degrades to live filesystem
// probing when it is missing or unreadable — so a hand-deleted record is
// an inconvenience, not a failure.
package venv

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// StateFileName is the name of the state record inside the environment
// directory. Keeping it inside the directory means `remove` cleans it up
// for free and it never pollutes the project root.
const StateFileName = "venvup.state.yaml"

// State is the yaml-serialized record written after a successful
// bootstrap run.
type State struct {
	// Interpreter is the command name that resolved during bootstrap
	// (e.g., "python3").
	Interpreter string `yaml:"interpreter"`

	// InterpreterPath is the absolute path the command resolved to.
	InterpreterPath string `yaml:"interpreterPath"`

	// PythonVersion is the version string the interpreter reported.
	// May be empty if the version probe failed.
	PythonVersion string `yaml:"pythonVersion,omitempty"`

	// Manifest is the dependency manifest path used by the bootstrap.
	// Empty when no manifest was present (the warning path).
	Manifest string `yaml:"manifest,omitempty"`

	// CreatedAt is when the environment was first bootstrapped.
	CreatedAt time.Time `yaml:"createdAt"`

	// UpdatedAt is when the most recent bootstrap run completed.
	UpdatedAt time.Time `yaml:"updatedAt"`
}

// StatePath returns the state record path for this manager's environment.
func (m *Manager) StatePath() string {
	return filepath.Join(m.envDir, StateFileName)
}

// WriteState serializes the state record into the environment directory.
//
// If a previous record exists, its CreatedAt is preserved so repeated
// bootstrap runs keep the original creation time while refreshing
// UpdatedAt and the interpreter fields.
func (m *Manager) WriteState(state *State) error {
	// Carry the original creation timestamp across re-runs.
	if existing, err := m.ReadState(); err == nil && existing != nil {
		state.CreatedAt = existing.CreatedAt
	}
	if state.CreatedAt.IsZero() {
		state.CreatedAt = state.UpdatedAt
	}

	yamlBytes, err := yaml.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to serialize environment state: %w", err)
	}

	// Header comment warning against manual edits, since the file is
	// regenerated on every bootstrap run.
	header := "# Auto-generated by venvup\n# DO NOT EDIT - this file is rewritten on each bootstrap run\n"

	if err := os.WriteFile(m.StatePath(), []byte(header+string(yamlBytes)), 0o644); err != nil {
		return fmt.Errorf("failed to write environment state to %s: %w", m.StatePath(), err)
	}

	return nil
}

// ReadState loads the state record from the environment directory.
//
// Returns (nil, nil) when the record does not exist — callers treat an
// absent record as "no metadata" rather than an error. A present but
// unparsable record IS an error, because it usually means manual edits.
func (m *Manager) ReadState() (*State, error) {
	data, err := os.ReadFile(m.StatePath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read environment state from %s: %w", m.StatePath(), err)
	}

	var state State
	if err := yaml.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse environment state at %s: %w", m.StatePath(), err)
	}

	return &state, nil
}
