// Package render projects page markup trees through a component map into
// HTML. Output is deterministic: the same record and components always
// produce byte-identical HTML.
package render
