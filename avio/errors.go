// SPDX-License-Identifier: EPL-2.0

package avio

import "errors"

var (
	ErrNotSeekable = errors.New("avio: stream is not seekable")
	ErrNotReadable = errors.New("avio: stream is not readable")
	ErrNotWritable = errors.New("avio: stream is not writable")
	ErrClosed      = errors.New("avio: adapter closed")
)

// Negative sentinels returned by the callbacks.
const (
	CodeEOF         = -541478725
	CodeIO          = -5
	CodeInvalid     = -22
	CodeUnknownSize = -38
)
