// Package manifest handles the dependency manifest (requirements.txt)
// side of the bootstrap: discovery, declared-dependency counting, and
// delegation to pip for the actual install.
//
// Design decisions:
//   - No dependency resolution happens here. pip owns resolution,
//     download, and build entirely; this package only decides whether to
//     invoke it and reports how it went.
//   - Installs run `<venv-python> -m pip` rather than a bare `pip`
//     binary. Invoking pip through the environment's own interpreter is
//     the documented way to guarantee packages land in the isolated
//     environment, independent of what `pip` happens to mean on PATH.
//   - pip's output streams through to the user's terminal. Dependency
//     installs are long-running and pip's progress output is the only
//     feedback the user gets, so capturing it until failure (as venvup
//     does for short-lived tools) would make the bootstrap look hung.
package manifest

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/mmr-tortoise/venvup/internal/model"
)

// Exists reports whether the manifest file is present. Absence is the
// non-fatal "no dependencies installed" path of the bootstrap.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// CountDependencies counts the requirement lines declared in a manifest.
//
// The count is informational (shown by `venvup status`), so the parsing
// is deliberately shallow: it recognizes the line shapes of the
// requirements file format without interpreting them.
//
//   - blank lines and full-line comments are skipped
//   - inline comments (" #" onward) are stripped before judging the line
//   - option lines ("-r", "--index-url", ...) are skipped, EXCEPT
//     editable installs ("-e", "--editable"), which declare a dependency
//
// Continuation lines (trailing backslash) are folded into the line they
// continue, so a wrapped requirement counts once.
func CountDependencies(path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open manifest %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	count := 0
	continued := false

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Fold continuation lines into the logical line that started
		// them: only the first physical line of a requirement counts.
		wasContinued := continued
		continued = strings.HasSuffix(line, "\\")
		if wasContinued {
			continue
		}

		// Strip inline comments. The format requires whitespace before
		// the '#' so URL fragments like "pkg#egg=name" stay intact.
		if idx := strings.Index(line, " #"); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "-") && !isEditableFlag(line) {
			// Option lines (-r includes, index URLs, hash modes, ...)
			// do not declare a dependency themselves.
			continue
		}

		count++
	}

	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}

	return count, nil
}

// isEditableFlag reports whether an option line is an editable install,
// which does declare a dependency.
func isEditableFlag(line string) bool {
	return strings.HasPrefix(line, "-e ") ||
		strings.HasPrefix(line, "--editable ") ||
		strings.HasPrefix(line, "--editable=")
}

// Install invokes `<venvPython> -m pip install -r <manifestPath>` with
// the provided (venv-augmented) process environment.
//
// pip's stdout/stderr stream through to the parent's terminal. A non-zero
// exit is returned as a CLIError with ExitInstallFailed — the original
// setup script ignored the installer's exit status, which silently masked
// failed installs; surfacing it was an explicit redesign choice.
func Install(ctx context.Context, venvPython, manifestPath string, environ []string) error {
	// #nosec G204 — both paths are derived from validated configuration,
	// not from arbitrary user input.
	cmd := exec.CommandContext(ctx, venvPython, "-m", "pip", "install", "-r", manifestPath)
	cmd.Env = environ
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return model.WrapCLIError(
			model.ExitInstallFailed,
			fmt.Sprintf("pip install -r %s failed (see output above)", manifestPath),
			err,
		)
	}

	return nil
}
