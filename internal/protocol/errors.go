package protocol

import (
	"errors"
	"fmt"
)

// ErrDecode marks every locally detected wire-format violation. Concrete
// decode failures wrap it so callers can classify with errors.Is.
var ErrDecode = errors.New("dvrip: malformed data")

var (
	ErrInvalidMagic       = fmt.Errorf("%w: invalid magic", ErrDecode)
	ErrUnsupportedVersion = fmt.Errorf("%w: unsupported version", ErrDecode)
	ErrBodyTooLarge       = fmt.Errorf("%w: body too large", ErrDecode)
	ErrTruncated          = fmt.Errorf("%w: truncated body", ErrDecode)
)

// ErrRequest marks device-side rejection of a well-formed request.
var ErrRequest = errors.New("dvrip: request failed")

// RequestError is a non-success status reported by the device. The wire
// format itself was sound; this is never conflated with a decode failure.
type RequestError struct {
	Code Status
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("dvrip: request failed: %s", e.Code.Message())
}

func (e *RequestError) Unwrap() error { return ErrRequest }
