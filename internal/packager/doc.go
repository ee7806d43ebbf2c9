// Package packager drives PyInstaller to turn a Python entry point into a
// single-file executable and verifies the expected binary exists afterwards.
package packager
