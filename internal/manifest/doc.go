// Package manifest handles parsing and validation of extension manifests.
// An extension directory carries an extension.yaml describing its identity,
// workbench engine constraint, and declared extension dependencies; the
// package validates manifests against an embedded JSON Schema.
package manifest
