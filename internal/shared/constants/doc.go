// Package constants centralizes defaults shared across the CLI and the audit engine.
//
// Probe timeouts, body limits and file permissions live here so cmd/ and
// internal/ reference the same values without import cycles.
package constants
