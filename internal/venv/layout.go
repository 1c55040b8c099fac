// layout.go derives the platform-specific paths inside a virtual
// environment directory.
//
// The venv module lays environments out differently per platform:
//
//	Unix:     env/bin/activate,          env/bin/python
//	Windows:  env\Scripts\Activate.ps1,  env\Scripts\python.exe
//
// Every path venvup touches inside the environment is derived here, from
// the environment directory plus runtime.GOOS, so the rest of the
// codebase never hard-codes a segment.
package venv

import (
	"path/filepath"
	"runtime"
)

// BinDirName returns the name of the directory holding the environment's
// executables: "Scripts" on Windows, "bin" everywhere else.
func BinDirName() string {
	if runtime.GOOS == "windows" {
		return "Scripts"
	}
	return "bin"
}

// BinDir returns the path of the environment's executable directory.
func BinDir(envDir string) string {
	return filepath.Join(envDir, BinDirName())
}

// ActivationScript returns the path of the environment's activation entry
// point. venvup never sources this file itself (child processes get an
// augmented environment instead), but its presence is the contractual
// signal that the environment was created successfully.
func ActivationScript(envDir string) string {
	if runtime.GOOS == "windows" {
		return filepath.Join(envDir, "Scripts", "Activate.ps1")
	}
	return filepath.Join(envDir, "bin", "activate")
}

// PythonPath returns the path of the interpreter inside the environment.
// This is the binary used for dependency installation and script runs,
// which guarantees pip and the scripts see the isolated environment even
// though the parent shell was never activated.
func PythonPath(envDir string) string {
	if runtime.GOOS == "windows" {
		return filepath.Join(envDir, "Scripts", "python.exe")
	}
	return filepath.Join(envDir, "bin", "python")
}

// ActivationHint returns the shell command a user runs to activate the
// environment manually in their own session. Printed as the closing line
// of a successful bootstrap.
func ActivationHint(envDir string) string {
	if runtime.GOOS == "windows" {
		return filepath.Join(envDir, "Scripts", "Activate.ps1")
	}
	return "source " + filepath.Join(envDir, "bin", "activate")
}
