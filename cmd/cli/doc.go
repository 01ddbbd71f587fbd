// Package cli wires the runcap command-line application: the root command,
// persistent configuration and logging flags, and the capture subcommands.
package cli
