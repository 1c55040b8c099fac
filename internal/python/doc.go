// Package python resolves a Python interpreter from a list of candidate
// command names and probes its version.
//
// Resolution uses exec.LookPath so the answer matches what exec.Command
// would actually run. A failed resolution is fatal to the bootstrap and
// carries the contractual "Python not found" diagnostic.
package python
