// Package form drives a multi-section form: it keeps the answers and the
// per-field validation messages, gates forward navigation on the active
// section being valid, and hands the answers to a Submitter once the last
// section passes.
//
// The orchestrator knows nothing about rendering. The wizard TUI feeds it
// value changes and navigation requests and reads its state back to draw
// the active section.
package form
