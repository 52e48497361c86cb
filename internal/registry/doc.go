// Package registry manages the local installed-extension store: querying
// what is installed, unpacking gallery packages, and checking workbench
// engine compatibility.
package registry
