// SPDX-License-Identifier: EPL-2.0

package codec

import "errors"

// Backend signals. A backend returns ErrAgain when it needs more input
// before it can produce output, and ErrEOF once it is fully drained.
var (
	ErrAgain = errors.New("codec: resource temporarily unavailable")
	ErrEOF   = errors.New("codec: end of stream")
)

// Session misuse.
var (
	ErrReceivePending = errors.New("codec: output pending, receive until NeedInput before sending")
	ErrDraining       = errors.New("codec: session is draining")
	ErrUnknownCodec   = errors.New("codec: unknown codec")
	ErrNoEncoder      = errors.New("codec: codec has no encoder")
	ErrNoDecoder      = errors.New("codec: codec has no decoder")
)

// Coder is implemented by backend errors that carry a native error code.
type Coder interface {
	Code() int
}
