package audit

import (
	"fmt"
	"strings"

	sharederrors "github.com/khanhnv2901/wpinspect/internal/shared/errors"
)

// Status is the outcome of a single check.
type Status string

const (
	StatusPass    Status = "pass"
	StatusWarning Status = "warning"
	StatusFail    Status = "fail"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// Valid reports whether s is one of the three permitted statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPass, StatusWarning, StatusFail:
		return true
	}
	return false
}

// Weight is the scoring weight of the status.
func (s Status) Weight() int {
	switch s {
	case StatusPass:
		return 100
	case StatusWarning:
		return 50
	default:
		return 0
	}
}

// UnmarshalText rejects anything but the three permitted statuses.
func (s *Status) UnmarshalText(text []byte) error {
	parsed := Status(strings.ToLower(strings.TrimSpace(string(text))))
	if !parsed.Valid() {
		return fmt.Errorf("%w: %q", sharederrors.ErrInvalidCheckStatus, string(text))
	}
	*s = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %q", sharederrors.ErrInvalidCheckStatus, string(s))
	}
	return []byte(s), nil
}

// Result is the structured outcome of one check.
type Result struct {
	Title       string `json:"title" yaml:"title"`
	Status      Status `json:"status" yaml:"status"`
	Message     string `json:"message" yaml:"message"`
	Explanation string `json:"explanation,omitempty" yaml:"explanation,omitempty"`
	Fix         string `json:"fix,omitempty" yaml:"fix,omitempty"`
}

// NewResult builds a result. The fix is dropped for passing results.
func NewResult(title string, status Status, message, explanation, fix string) Result {
	if status == StatusPass {
		fix = ""
	}
	return Result{
		Title:       title,
		Status:      status,
		Message:     message,
		Explanation: explanation,
		Fix:         fix,
	}
}

// Pass builds a passing result.
func Pass(title, message, explanation string) Result {
	return NewResult(title, StatusPass, message, explanation, "")
}

// Warn builds a warning result.
func Warn(title, message, explanation, fix string) Result {
	return NewResult(title, StatusWarning, message, explanation, fix)
}

// Fail builds a failing result.
func Fail(title, message, explanation, fix string) Result {
	return NewResult(title, StatusFail, message, explanation, fix)
}

// Passed returns true if the check passed.
func (r Result) Passed() bool {
	return r.Status == StatusPass
}
