// Package cli defines the Cobra command tree for the sublimeavr CLI. Each file
// in this package registers one top-level command (new, devices, plugin, etc.)
// with the root command. Command implementations delegate to internal packages
// for the work and only handle flags, prompting and output.
package cli
