// Package cli assembles the pybundle root command, resolves configuration from
// embedded defaults, configuration files, and environment variables, and wires
// the build and clean subcommands.
package cli
