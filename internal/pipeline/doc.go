// Package pipeline orchestrates the fail-fast build sequence that installs
// Python dependencies, clears stale artifacts, packages the entry point into
// a single-file executable, and announces the produced binary.
package pipeline
