// Package manifest discovers the dependency manifest, counts its
// declared requirements for status reporting, and delegates installation
// to pip inside the virtual environment.
package manifest
