package errors

import "errors"

// Domain errors
var (
	// Probe errors
	ErrProbeTimeout     = errors.New("probe timed out")
	ErrProbeUnreachable = errors.New("probe target unreachable")
	ErrInvalidURL       = errors.New("invalid target URL")
	ErrMethodNotAllowed = errors.New("probe method not allowed")

	// Check errors
	ErrCheckPanicked      = errors.New("check panicked")
	ErrInvalidCheckStatus = errors.New("invalid check status")
	ErrUnknownCategory    = errors.New("unknown audit category")
	ErrVersionUnknown     = errors.New("runtime version not reported")
	ErrInvalidVersion     = errors.New("invalid runtime version")

	// Environment errors
	ErrSnapshotRead       = errors.New("host environment snapshot could not be read")
	ErrInvalidMemoryLimit = errors.New("invalid memory limit")

	// Report errors
	ErrUnsupportedFormat   = errors.New("unsupported report format")
	ErrScoreBelowThreshold = errors.New("audit score below threshold")
	ErrPathEscape          = errors.New("path escapes base directory")

	// Validation errors
	ErrInvalidInput    = errors.New("invalid input")
	ErrMissingRequired = errors.New("missing required field")
)
