// Package config handles loading and defaulting of the venvup project
// configuration.
//
// The config file (venvup.json) is optional: when absent, the built-in
// defaults reproduce the original fixed-literal behavior (env directory
// "env", manifest "requirements.txt", interpreter candidates python3 then
// python). The file format tolerates JSONC (JSON with Comments), so this
// package uses github.com/tidwall/jsonc to strip comments before parsing
// with the standard encoding/json library.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"

	"github.com/mmr-tortoise/venvup/internal/model"
)

// FileName is the project config file venvup looks for in the
// project root.
const FileName = "venvup.json"

// Config holds the parameters of a bootstrap run. Every field that was a
// fixed literal in the original setup script is a field here, with the
// literal as its default, so tests can point venvup at scratch
// directories without filesystem side effects.
type Config struct {
	// EnvDir is the virtual environment directory, relative to the
	// project root. Default: "env".
	EnvDir string `json:"envDir,omitempty"`

	// Requirements is the dependency manifest path, relative to the
	// project root. Default: "requirements.txt".
	Requirements string `json:"requirements,omitempty"`

	// PythonCandidates are the interpreter command names probed in
	// order during interpreter resolution. Default: ["python3", "python"].
	PythonCandidates []string `json:"pythonCandidates,omitempty"`

	// Scripts lists Python scripts (relative to the project root) that
	// `venvup run` executes sequentially when invoked without arguments.
	Scripts []string `json:"scripts,omitempty"`
}

// Default returns the built-in configuration that reproduces the original
// script's fixed literals.
func Default() *Config {
	return &Config{
		EnvDir:           "env",
		Requirements:     "requirements.txt",
		PythonCandidates: []string{"python3", "python"},
	}
}

// Load reads the project config file at projectDir/venvup.json, strips
// JSONC comments, and parses it on top of the defaults. Fields omitted
// from the file keep their default values; unknown fields are silently
// ignored (the standard encoding/json behavior).
//
// A missing file is not an error: the defaults are returned unchanged.
// An unreadable or syntactically invalid file returns a CLIError with
// ExitConfigError, because proceeding with half-applied configuration
// could bootstrap into the wrong directory.
func Load(projectDir string) (*Config, error) {
	cfg := Default()

	path := filepath.Join(projectDir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// No config file — the defaults apply as-is.
			return cfg, nil
		}
		return nil, model.WrapCLIError(
			model.ExitConfigError,
			fmt.Sprintf("failed to read %s", path),
			err,
		)
	}

	// Strip JSONC comments (// and /* */) and trailing commas before
	// parsing. Project config files are hand-edited, so comments are
	// expected in practice.
	cleanJSON := jsonc.ToJSON(data)

	// Unmarshal into the defaults struct so that absent fields keep
	// their default values instead of being zeroed.
	if err := json.Unmarshal(cleanJSON, cfg); err != nil {
		return nil, model.WrapCLIError(
			model.ExitConfigError,
			fmt.Sprintf("failed to parse %s", path),
			err,
		)
	}

	// Guard against an explicitly empty list in the file wiping out the
	// interpreter candidates: no candidates means nothing can ever be
	// resolved, which is never what the user meant.
	if len(cfg.PythonCandidates) == 0 {
		cfg.PythonCandidates = Default().PythonCandidates
	}

	if err := cfg.Validate(); err != nil {
		return nil, model.WrapCLIError(
			model.ExitConfigError,
			fmt.Sprintf("invalid configuration in %s", path),
			err,
		)
	}

	return cfg, nil
}

// Validate checks the configuration for values that would make a
// bootstrap run unsafe or meaningless.
func (c *Config) Validate() error {
	if err := model.ValidateEnvDir(c.EnvDir); err != nil {
		return err
	}
	if c.Requirements == "" {
		return fmt.Errorf("requirements path must not be empty")
	}
	for _, candidate := range c.PythonCandidates {
		if candidate == "" {
			return fmt.Errorf("python candidate command names must not be empty")
		}
	}
	return nil
}

// EnvPath returns the absolute path of the environment directory for the
// given project root. An already-absolute EnvDir is returned unchanged.
func (c *Config) EnvPath(projectDir string) string {
	if filepath.IsAbs(c.EnvDir) {
		return c.EnvDir
	}
	return filepath.Join(projectDir, c.EnvDir)
}

// RequirementsPath returns the absolute path of the dependency manifest
// for the given project root.
func (c *Config) RequirementsPath(projectDir string) string {
	if filepath.IsAbs(c.Requirements) {
		return c.Requirements
	}
	return filepath.Join(projectDir, c.Requirements)
}
