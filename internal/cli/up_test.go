package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/venvup/internal/model"
	"github.com/mmr-tortoise/venvup/internal/venv"
)

// stubPython installs a fake python3 on a test-scoped PATH and returns
// the path of its invocation log. The stub appends its argv to the log
// on every call, so tests can assert exactly which external tools the
// bootstrap invoked (and, more importantly, which it did not).
//
// Behaviors mimicked:
//   - `--version` prints a version banner
//   - `-m venv <dir>` lays out a minimal environment, including a copy
//     of the stub as the environment's own interpreter so that later
//     `-m pip` invocations through the venv python land in the same log
//   - everything else (notably `-m pip install`) succeeds silently
func stubPython(t *testing.T) (logPath string) {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("stub interpreters use shell scripts; not runnable on windows")
	}

	dir := t.TempDir()
	logPath = filepath.Join(dir, "invocations.log")

	script := `#!/bin/sh
echo "$@" >> "` + logPath + `"
case "$1" in
--version)
	echo "Python 3.12.4"
	;;
-m)
	if [ "$2" = "venv" ]; then
		mkdir -p "$3/bin"
		touch "$3/bin/activate"
		cp "$0" "$3/bin/python"
	fi
	;;
esac
exit 0
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "python3"), []byte(script), 0o755))

	// Prepend the stub directory so interpreter resolution finds the
	// stub before any real python3 on the host. The rest of PATH stays:
	// the stub script itself needs mkdir, touch, and cp.
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
	return logPath
}

// readInvocations returns the stub's invocation log contents. A missing
// log means nothing was ever invoked.
func readInvocations(t *testing.T, logPath string) string {
	t.Helper()

	data, err := os.ReadFile(logPath)
	if os.IsNotExist(err) {
		return ""
	}
	require.NoError(t, err)
	return string(data)
}

// setupProject creates a temp project directory and makes it the working
// directory for the duration of the test, since the bootstrap resolves
// everything relative to the invocation location.
func setupProject(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

// makeReadyEnv lays a minimal ready environment under the project's
// default "env" directory without going through the creation tool.
func makeReadyEnv(t *testing.T, projectDir string) string {
	t.Helper()

	envDir := filepath.Join(projectDir, "env")
	require.NoError(t, os.MkdirAll(venv.BinDir(envDir), 0o755))
	require.NoError(t, os.WriteFile(venv.ActivationScript(envDir), []byte{}, 0o644))
	return envDir
}

// captureStderr runs fn with os.Stderr redirected to a pipe and returns
// what was written, so tests can assert on warnings.
func captureStderr(t *testing.T, fn func()) string {
	t.Helper()

	old := os.Stderr
	r, w, err := os.Pipe()
	require.NoError(t, err)

	os.Stderr = w
	defer func() { os.Stderr = old }()

	fn()

	require.NoError(t, w.Close())
	os.Stderr = old

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(data)
}

// TestRunUpCreatesEnvironment verifies the full bootstrap on a fresh
// project with a manifest: the creation tool runs once, pip installs
// from the manifest through the venv interpreter, and the state record
// reflects the manifest that was installed from.
func TestRunUpCreatesEnvironment(t *testing.T) {
	logPath := stubPython(t)
	dir := setupProject(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "requirements.txt"), []byte("requests\n"), 0o644))

	err := runUp(context.Background(), &upFlags{})
	require.NoError(t, err)

	envDir := filepath.Join(dir, "env")
	assert.FileExists(t, venv.ActivationScript(envDir))

	log := readInvocations(t, logPath)
	assert.Contains(t, log, "-m venv "+envDir)
	assert.Contains(t, log, "-m pip install -r "+filepath.Join(dir, "requirements.txt"))

	// The state record names the manifest the bootstrap installed from.
	mgr, err := venv.NewManager(envDir)
	require.NoError(t, err)
	state, err := mgr.ReadState()
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, "requirements.txt", state.Manifest)
	assert.Equal(t, "3.12.4", state.PythonVersion)
}

// TestRunUpExistingEnvSkipsCreation verifies that an existing
// environment directory is never re-created: the venv module must not
// be invoked when the directory is already present.
func TestRunUpExistingEnvSkipsCreation(t *testing.T) {
	logPath := stubPython(t)
	dir := setupProject(t)
	makeReadyEnv(t, dir)

	err := runUp(context.Background(), &upFlags{})
	require.NoError(t, err)

	log := readInvocations(t, logPath)
	assert.NotContains(t, log, "-m venv", "creation tool must not run when the environment exists")
}

// TestRunUpMissingManifestWarns verifies the non-fatal degrade path: no
// manifest means a warning, no installer invocation, and a successful
// completion (nil error, which Execute maps to exit 0).
func TestRunUpMissingManifestWarns(t *testing.T) {
	logPath := stubPython(t)
	dir := setupProject(t)
	makeReadyEnv(t, dir)

	var err error
	stderr := captureStderr(t, func() {
		err = runUp(context.Background(), &upFlags{})
	})

	require.NoError(t, err)
	assert.Contains(t, stderr, "requirements.txt not found")

	log := readInvocations(t, logPath)
	assert.NotContains(t, log, "pip", "installer must not run without a manifest")
}

// TestRunUpBrokenEnvNoInstall verifies the fatal-ordering property: when
// the activation entry point is absent, the bootstrap fails with exit
// code 1 and dependency installation never happens, even with a
// manifest present.
func TestRunUpBrokenEnvNoInstall(t *testing.T) {
	logPath := stubPython(t)
	dir := setupProject(t)

	// Environment directory exists (so creation is skipped) but holds
	// no activation script.
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "env"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "requirements.txt"), []byte("requests\n"), 0o644))

	err := runUp(context.Background(), &upFlags{})
	require.Error(t, err)

	var cliErr *model.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, model.ExitGeneralError, cliErr.Code)
	assert.Contains(t, err.Error(), "activation entry point not found")

	log := readInvocations(t, logPath)
	assert.NotContains(t, log, "pip", "installer must not run after a failed activation check")
}

// TestRunUpSkipInstallStateRecord verifies that --skip-install leaves
// pip uninvoked and the state record's manifest field empty: the record
// only names a manifest the bootstrap actually installed from.
func TestRunUpSkipInstallStateRecord(t *testing.T) {
	logPath := stubPython(t)
	dir := setupProject(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "requirements.txt"), []byte("requests\n"), 0o644))

	err := runUp(context.Background(), &upFlags{skipInstall: true})
	require.NoError(t, err)

	log := readInvocations(t, logPath)
	assert.NotContains(t, log, "pip")

	mgr, err := venv.NewManager(filepath.Join(dir, "env"))
	require.NoError(t, err)
	state, err := mgr.ReadState()
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Empty(t, state.Manifest, "a skipped install must not be recorded as installed-from")
}

// TestRunUpNoInterpreterNoSideEffects verifies the first contractual
// failure: with no resolvable interpreter the bootstrap exits 1 with the
// "Python not found" diagnostic and leaves the project untouched.
func TestRunUpNoInterpreterNoSideEffects(t *testing.T) {
	// An empty directory on PATH guarantees no candidate resolves.
	t.Setenv("PATH", t.TempDir())
	dir := setupProject(t)

	err := runUp(context.Background(), &upFlags{})
	require.Error(t, err)

	var cliErr *model.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, model.ExitGeneralError, cliErr.Code)
	assert.Contains(t, err.Error(), "Python not found")

	assert.NoDirExists(t, filepath.Join(dir, "env"))
}
