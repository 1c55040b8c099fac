package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/venvup/internal/config"
	"github.com/mmr-tortoise/venvup/internal/model"
	"github.com/mmr-tortoise/venvup/internal/venv"
)

// TestFormatDependencyCount verifies the pluralization of the status
// command's manifest summary.
func TestFormatDependencyCount(t *testing.T) {
	assert.Equal(t, "0 dependencies", FormatDependencyCount(0))
	assert.Equal(t, "1 dependency", FormatDependencyCount(1))
	assert.Equal(t, "4 dependencies", FormatDependencyCount(4))
}

// TestResolveScripts verifies the precedence between explicit arguments
// and the configured script list, and that an empty result is an error.
func TestResolveScripts(t *testing.T) {
	cfg := config.Default()
	cfg.Scripts = []string{"scripts/fetch.py", "scripts/convert.py"}

	// Explicit arguments win over the configured list.
	scripts, err := ResolveScripts([]string{"other.py"}, cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"other.py"}, scripts)

	// No arguments: the configured list applies.
	scripts, err = ResolveScripts(nil, cfg)
	require.NoError(t, err)
	assert.Equal(t, cfg.Scripts, scripts)

	// Neither arguments nor configuration: error rather than a no-op.
	_, err = ResolveScripts(nil, config.Default())
	assert.Error(t, err)
}

// TestLoadConfigFlagOverrides verifies that CLI flags take precedence
// over venvup.json and that an explicit --python collapses the candidate
// list to a single entry.
func TestLoadConfigFlagOverrides(t *testing.T) {
	dir := t.TempDir()
	configJSON := `{"envDir": ".venv", "requirements": "deps.txt"}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte(configJSON), 0o644))

	cfg, err := loadConfig(dir, "override-env", "", "python3.12")
	require.NoError(t, err)

	assert.Equal(t, "override-env", cfg.EnvDir, "flag should override the config file")
	assert.Equal(t, "deps.txt", cfg.Requirements, "unset flag should defer to the config file")
	assert.Equal(t, []string{"python3.12"}, cfg.PythonCandidates)
}

// makeFakeEnv lays a minimal ready environment (directory plus activation
// script) under projectDir using the configured environment directory.
func makeFakeEnv(t *testing.T, cfg *config.Config, projectDir string) {
	t.Helper()

	envDir := cfg.EnvPath(projectDir)
	require.NoError(t, os.MkdirAll(venv.BinDir(envDir), 0o755))
	require.NoError(t, os.WriteFile(venv.ActivationScript(envDir), []byte{}, 0o644))
}

// TestGatherEnvInfoMissing verifies status reporting for a project that
// has never been bootstrapped.
func TestGatherEnvInfoMissing(t *testing.T) {
	dir := t.TempDir()

	info, err := GatherEnvInfo(config.Default(), dir)
	require.NoError(t, err)

	assert.Equal(t, model.StatusMissing, info.Status)
	assert.False(t, info.ManifestPresent)
	assert.Zero(t, info.DependencyCount)
}

// TestGatherEnvInfoReady verifies status reporting for a bootstrapped
// project with a manifest, including the declared-dependency count.
func TestGatherEnvInfoReady(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	makeFakeEnv(t, cfg, dir)

	requirements := "requests\ngspread\n# comment\n"
	require.NoError(t, os.WriteFile(cfg.RequirementsPath(dir), []byte(requirements), 0o644))

	info, err := GatherEnvInfo(cfg, dir)
	require.NoError(t, err)

	assert.Equal(t, model.StatusReady, info.Status)
	assert.True(t, info.ManifestPresent)
	assert.Equal(t, 2, info.DependencyCount)
	assert.Equal(t, "requirements.txt", info.ManifestPath)
}

// TestGatherEnvInfoBroken verifies that a directory without an activation
// entry point is reported as broken, the state that makes the bootstrap
// fail fatally.
func TestGatherEnvInfoBroken(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()

	// Environment directory exists but holds no activation script.
	require.NoError(t, os.MkdirAll(cfg.EnvPath(dir), 0o755))

	info, err := GatherEnvInfo(cfg, dir)
	require.NoError(t, err)
	assert.Equal(t, model.StatusBroken, info.Status)
}
