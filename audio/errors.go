// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrClosed          = errors.New("audio: use of closed component")
	ErrFinished        = errors.New("audio: converter already finished")
	ErrFormatChanged   = errors.New("audio: source format changed mid-stream")
	ErrNegativeSamples = errors.New("audio: negative sample count")
	ErrOffsetRange     = errors.New("audio: peek offset out of range")
)
