// Package execshell provides structured helpers for invoking external tools.
//
// It wraps os/exec with logging via ShellExecutor, exposes OSCommandRunner for
// default process execution, and defines abstractions used throughout pybundle
// to run pip, PyInstaller, and the Python interpreter in a testable manner.
package execshell
