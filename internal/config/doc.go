// Package config loads the optional venvup.json project configuration.
//
// The configuration replaces the fixed literals of the original setup
// script (environment directory, manifest path, interpreter candidates)
// with overridable parameters that default to those literals. Files are
// parsed as JSONC via github.com/tidwall/jsonc, so comments and trailing
// commas are tolerated.
package config
