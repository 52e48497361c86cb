// Package cli wires the cobra command tree: dependency checks, explicit
// installation, listings, configuration, and the long-running watch mode.
package cli
