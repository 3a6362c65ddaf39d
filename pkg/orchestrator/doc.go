// Package orchestrator runs a FormController through one request: load the
// taxonomy, apply a selection, optionally analyze, then render the final page
// with a named renderer. HTTP handlers and the CLI use it when they need a
// whole page rather than an interactive session.
package orchestrator
