// Package artifacts removes disposable build output so packaging always runs
// against a clean tree, and exposes the standalone clean command.
package artifacts
