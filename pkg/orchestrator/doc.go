// Package orchestrator wires the template → form model → value collection →
// substitution → inference pipeline, providing dependency injection friendly
// helpers for consumers that prefer a single entry point.
package orchestrator
