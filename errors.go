package khiopsdriver

import "fmt"

// Kind classifies a DriverError so callers can branch on failure category
// without string matching.
type Kind string

const (
	KindInvalidParameter = Kind("invalid_parameter")
	KindMissingParameter = Kind("missing_parameter")
	KindNotFound         = Kind("not_found")
	KindAccessDenied     = Kind("access_denied")
	KindNetwork          = Kind("network")
	KindInternal         = Kind("internal")
	KindNotConnected     = Kind("not_connected")
)

// DriverError is the error type returned by the exported Driver methods,
// except Disconnect, which returns one aggregate error holding the
// DriverError of each failed abort. It carries a Kind so the facade can pick the right C-style status code and
// wraps the underlying cause (store error, parse error, overflow) so that
// errors.Is/errors.As still see through to it.
type DriverError struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *DriverError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *DriverError) Unwrap() error { return e.Err }

func newErr(kind Kind, msg string, cause error) *DriverError {
	return &DriverError{Kind: kind, Msg: msg, Err: cause}
}

// ErrNotConnected is returned by every operation when the driver has not
// been (or is no longer) connected.
var ErrNotConnected = newErr(KindNotConnected, "driver is not connected", nil)

// Sentinel string-constant errors for the handful of cases where carrying a
// Kind would be more ceremony than the call site needs, mirroring the
// reference stack's own lightweight Error-as-string pattern.
type constError string

func (e constError) Error() string { return string(e) }

const (
	errSeekInvalidOffset = constError("seek: invalid offset")
	errSeekInvalidWhence = constError("seek: invalid whence")
	errEmptyHeader       = constError("resolve: empty header")
)
