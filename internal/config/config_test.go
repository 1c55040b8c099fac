package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfig writes a venvup.json with the given contents into dir.
// The helper keeps individual tests focused on the parsing behavior
// rather than file plumbing.
func writeConfig(t *testing.T, dir, contents string) {
	t.Helper()

	err := os.WriteFile(filepath.Join(dir, FileName), []byte(contents), 0o644)
	require.NoError(t, err, "failed to write test config")
}

// TestLoadMissingFile verifies that a project without venvup.json gets the
// built-in defaults, which reproduce the original fixed literals.
func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "env", cfg.EnvDir)
	assert.Equal(t, "requirements.txt", cfg.Requirements)
	assert.Equal(t, []string{"python3", "python"}, cfg.PythonCandidates)
	assert.Empty(t, cfg.Scripts)
}

// TestLoadPartialOverride verifies that fields omitted from the file keep
// their defaults while specified fields are overridden.
func TestLoadPartialOverride(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `{"envDir": ".venv"}`)

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, ".venv", cfg.EnvDir)
	// Unspecified fields fall back to defaults.
	assert.Equal(t, "requirements.txt", cfg.Requirements)
	assert.Equal(t, []string{"python3", "python"}, cfg.PythonCandidates)
}

// TestLoadJSONCComments verifies that comments and trailing commas are
// stripped before parsing, since config files are hand-edited.
func TestLoadJSONCComments(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `{
		// interpreter preference for this project
		"pythonCandidates": ["python3.12", "python3"],
		/* scripts run by "venvup run" */
		"scripts": ["scripts/fetch.py", "scripts/convert.py"],
	}`)

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"python3.12", "python3"}, cfg.PythonCandidates)
	assert.Equal(t, []string{"scripts/fetch.py", "scripts/convert.py"}, cfg.Scripts)
}

// TestLoadInvalidJSON verifies that a syntactically broken config file is
// a hard error rather than silently falling back to defaults.
func TestLoadInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `{"envDir": `)

	_, err := Load(dir)
	assert.Error(t, err)
}

// TestLoadRejectsEmptyEnvDir verifies that a config pointing the
// environment at the project root is rejected: remove would otherwise
// delete the whole project.
func TestLoadRejectsEmptyEnvDir(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `{"envDir": "."}`)

	_, err := Load(dir)
	assert.Error(t, err)
}

// TestLoadEmptyCandidatesFallBack verifies that an explicitly empty
// candidate list is replaced with the defaults instead of making
// interpreter resolution impossible.
func TestLoadEmptyCandidatesFallBack(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `{"pythonCandidates": []}`)

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"python3", "python"}, cfg.PythonCandidates)
}

// TestPathHelpers verifies relative-vs-absolute handling of the derived
// path helpers.
func TestPathHelpers(t *testing.T) {
	cfg := Default()

	assert.Equal(t, filepath.Join("/proj", "env"), cfg.EnvPath("/proj"))
	assert.Equal(t, filepath.Join("/proj", "requirements.txt"), cfg.RequirementsPath("/proj"))

	cfg.EnvDir = "/elsewhere/env"
	assert.Equal(t, "/elsewhere/env", cfg.EnvPath("/proj"))
}
