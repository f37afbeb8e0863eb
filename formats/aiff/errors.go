// SPDX-License-Identifier: EPL-2.0

package aiff

import "errors"

var (
	// ErrNotAiffFile indicates the input is not a valid AIFF file
	ErrNotAiffFile = errors.New("not an AIFF file")

	// ErrUnsupportedAiffLayout indicates a bit depth or channel setup the
	// demuxer cannot carry
	ErrUnsupportedAiffLayout = errors.New("unsupported AIFF layout")
)
