// Package python implements Python interpreter discovery for the venvup CLI.
//
// Discovery probes a list of candidate command names (default: python3,
// then python) against the process PATH via exec.LookPath. The first
// resolvable candidate wins; if none resolves, the bootstrap must stop
// before any filesystem side effect occurs.
//
// Design decisions:
//   - We use exec.LookPath rather than spawning `which`/`where`, because
//     LookPath asks the same resolution machinery exec.Command would use,
//     so the interpreter we report is the interpreter we will run.
//   - Version probing shells out to `<python> --version` instead of
//     parsing installation metadata, because the interpreter's own report
//     is authoritative across distributions and pyenv-style shims.
package python

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/mmr-tortoise/venvup/internal/model"
)

// Interpreter describes a resolved Python interpreter.
type Interpreter struct {
	// Command is the candidate name that resolved (e.g., "python3").
	Command string

	// Path is the absolute executable path the command resolved to.
	Path string
}

// Resolve probes the candidate command names in order and returns the
// first one found on PATH.
//
// The candidate order matters: "python3" is preferred over "python"
// because on many systems the bare "python" is either absent or an
// outdated interpreter.
//
// Returns a model.CLIError with ExitGeneralError when no candidate
// resolves. The message starts with "Python not found" — this exact
// diagnostic is part of the CLI contract and is printed before any other
// action is taken.
func Resolve(candidates []string) (*Interpreter, error) {
	for _, candidate := range candidates {
		path, err := exec.LookPath(candidate)
		if err != nil {
			// Not on PATH (or not executable) — try the next candidate.
			continue
		}
		return &Interpreter{Command: candidate, Path: path}, nil
	}

	return nil, model.NewCLIError(
		model.ExitGeneralError,
		fmt.Sprintf("Python not found (tried %s); install Python and ensure it is on PATH",
			strings.Join(candidates, ", ")),
	)
}

// Version runs `<python> --version` and returns the bare version string
// (e.g., "3.12.4").
//
// Output is read from combined stdout+stderr because Python 2 printed its
// version banner to stderr; modern interpreters use stdout. The leading
// "Python " prefix is stripped when present.
//
// A probe failure is reported as an error rather than masked, but callers
// generally treat the version as informational and degrade to an empty
// string on error.
func (i *Interpreter) Version(ctx context.Context) (string, error) {
	cmd := exec.CommandContext(ctx, i.Path, "--version")

	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("failed to probe %s version: %w", i.Command, err)
	}

	return ParseVersion(string(output)), nil
}

// ParseVersion extracts the bare version number from a `python --version`
// banner. The banner format is "Python X.Y.Z" followed by a newline;
// anything after the first line is ignored.
func ParseVersion(banner string) string {
	line := banner
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx]
	}
	line = strings.TrimSpace(line)
	return strings.TrimPrefix(line, "Python ")
}
