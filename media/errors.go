// SPDX-License-Identifier: EPL-2.0

package media

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfiguration reports a construction-time parameter that can
	// never work (zero frame size, unknown sample format, ...).
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrUnsupportedFrame reports a frame the component cannot process
	// (hardware resident frame, unsupported format, mismatched geometry).
	ErrUnsupportedFrame = errors.New("unsupported frame")

	// ErrCodecFailure is matched by every *CodecError.
	ErrCodecFailure = errors.New("codec failure")

	// ErrIOFailure reports that the underlying stream failed or returned a
	// negative sentinel.
	ErrIOFailure = errors.New("i/o failure")

	// ErrBufferOverrun reports a destination line or byte width smaller than
	// required.
	ErrBufferOverrun = errors.New("buffer overrun")

	// ErrSessionClosed is returned by any call on a session that has ended.
	ErrSessionClosed = errors.New("session closed")
)

// CodeUnknown is used when a backend failure carries no numeric code.
const CodeUnknown = -1

// CodecError is a fatal error raised by a codec backend.
type CodecError struct {
	Op   string
	Code int
	Err  error
}

func (e *CodecError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: codec failure (code %d): %v", e.Op, e.Code, e.Err)
	}
	return fmt.Sprintf("%s: codec failure (code %d)", e.Op, e.Code)
}

func (e *CodecError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrCodecFailure) hold for every CodecError.
func (e *CodecError) Is(target error) bool { return target == ErrCodecFailure }

// Invalidf wraps ErrInvalidConfiguration with a formatted reason.
func Invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfiguration, fmt.Sprintf(format, args...))
}

// Unsupportedf wraps ErrUnsupportedFrame with a formatted reason.
func Unsupportedf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUnsupportedFrame, fmt.Sprintf(format, args...))
}
