package geolocation

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	PermissionDenied ErrorKind = iota + 1
	PositionUnavailable
	Timeout
	Unsupported
)

func (k ErrorKind) String() string {
	switch k {
	case PermissionDenied:
		return "permission_denied"
	case PositionUnavailable:
		return "position_unavailable"
	case Timeout:
		return "timeout"
	case Unsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// Message is the user-facing explanation for each kind.
func (k ErrorKind) Message() string {
	switch k {
	case PermissionDenied:
		return "Location permission was denied. Enable location access to check in."
	case PositionUnavailable:
		return "Location information is unavailable."
	case Timeout:
		return "Timed out while acquiring the location."
	case Unsupported:
		return "Geolocation is not supported by this device."
	default:
		return "Unknown location error."
	}
}

// KindFromCode maps device geolocation error codes (1 denied, 2 unavailable,
// 3 timeout). Anything else is treated as unavailable.
func KindFromCode(code int) ErrorKind {
	switch code {
	case 1:
		return PermissionDenied
	case 2:
		return PositionUnavailable
	case 3:
		return Timeout
	default:
		return PositionUnavailable
	}
}

type PositionError struct {
	Kind ErrorKind
	Err  error
}

func (e *PositionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("geolocation %s: %v", e.Kind, e.Err)
	}
	return "geolocation " + e.Kind.String()
}

func (e *PositionError) Unwrap() error { return e.Err }

func NewPositionError(kind ErrorKind, err error) *PositionError {
	return &PositionError{Kind: kind, Err: err}
}

// AsPositionError extracts a *PositionError from err.
func AsPositionError(err error) (*PositionError, bool) {
	var pe *PositionError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
