package client

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failed remote call. Both clients return the same
// error shape so callers handle failures with one discipline.
type Kind int

const (
	// KindTransport covers timeouts, refused connections and DNS errors.
	KindTransport Kind = iota
	// KindStatus is a completed request with a non-2xx status.
	KindStatus
	// KindDecode is a 2xx response whose body could not be parsed.
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

type Error struct {
	Op     string
	Kind   Kind
	Status int
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == KindStatus:
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s error: %v", e.Op, e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s: %s error", e.Op, e.Kind)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a remote 404. Callers treat this as
// "no result" rather than a failure.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == KindStatus && apiErr.Status == http.StatusNotFound
}
