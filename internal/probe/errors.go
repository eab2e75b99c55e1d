package probe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"

	sharederrors "github.com/khanhnv2901/wpinspect/internal/shared/errors"
)

// ErrorKind classifies why a probe could not produce a response.
type ErrorKind string

const (
	KindTimeout     ErrorKind = "timeout"
	KindRefused     ErrorKind = "refused"
	KindUnreachable ErrorKind = "unreachable"
)

// Error is returned by Prober.Do when the request never produced a response.
type Error struct {
	Kind ErrorKind
	URL  string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("probe %s: %s: %v", e.URL, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets callers match probe failures against the shared sentinel errors.
func (e *Error) Is(target error) bool {
	switch target {
	case sharederrors.ErrProbeTimeout:
		return e.Kind == KindTimeout
	case sharederrors.ErrProbeUnreachable:
		return e.Kind == KindRefused || e.Kind == KindUnreachable
	}
	return false
}

// KindOf returns the classification of a probe failure, "" for other errors.
func KindOf(err error) ErrorKind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}

// IsRefused reports whether err is a probe failure caused by the remote side
// refusing or resetting the connection.
func IsRefused(err error) bool {
	var pe *Error
	return errors.As(err, &pe) && pe.Kind == KindRefused
}

// IsTimeout reports whether err is a probe failure caused by the deadline.
func IsTimeout(err error) bool {
	var pe *Error
	return errors.As(err, &pe) && pe.Kind == KindTimeout
}

func classify(url string, err error) *Error {
	pe := &Error{URL: url, Err: err, Kind: KindUnreachable}

	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		pe.Kind = KindTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		pe.Kind = KindTimeout
	case errors.Is(err, syscall.ECONNREFUSED), errors.Is(err, syscall.ECONNRESET):
		pe.Kind = KindRefused
	}
	return pe
}
