// Package reconcile implements the missing-dependency contribution: the
// set computation over running extension identifiers, the auto-install
// policy gated by configuration, and the gallery-backed install flow.
package reconcile
