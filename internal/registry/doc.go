// Package registry maps the element type names used in pipeline files to
// the Go factories that build them.
//
// Modules register their kinds at startup. The registry is then validated
// once: every factory is instantiated and wrapped into an element so that
// broken port or property declarations fail before any pipeline is built.
package registry
