// Package venv manages Python virtual environment directories for the
// venvup CLI.
//
// It derives the platform-specific environment layout (bin directory,
// activation entry point, interpreter path), creates environments by
// shelling out to `python -m venv`, builds the augmented child-process
// environment that stands in for shell activation, and persists a small
// yaml state record with bootstrap metadata.
package venv
