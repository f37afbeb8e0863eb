// SPDX-License-Identifier: EPL-2.0

package media

import "strings"

// PixelFormat identifies the memory layout of a video frame.
type PixelFormat int

const (
	PixFmtNone PixelFormat = iota
	PixFmtGray8
	PixFmtRGB24
	PixFmtRGBA
	PixFmtYUV420P
)

var pixelFormatNames = [...]string{
	PixFmtNone:    "none",
	PixFmtGray8:   "gray",
	PixFmtRGB24:   "rgb24",
	PixFmtRGBA:    "rgba",
	PixFmtYUV420P: "yuv420p",
}

func (p PixelFormat) Valid() bool { return p > PixFmtNone && p <= PixFmtYUV420P }

func (p PixelFormat) String() string {
	if p < 0 || int(p) >= len(pixelFormatNames) {
		return "unknown"
	}
	return pixelFormatNames[p]
}

// Planes returns the number of image planes.
func (p PixelFormat) Planes() int {
	switch p {
	case PixFmtYUV420P:
		return 3
	case PixFmtGray8, PixFmtRGB24, PixFmtRGBA:
		return 1
	default:
		return 0
	}
}

// PlaneSize returns the minimum line width in bytes and the row count of
// plane i for an image of w×h pixels.
func (p PixelFormat) PlaneSize(i, w, h int) (linesize, rows int) {
	switch p {
	case PixFmtGray8:
		return w, h
	case PixFmtRGB24:
		return w * 3, h
	case PixFmtRGBA:
		return w * 4, h
	case PixFmtYUV420P:
		if i == 0 {
			return w, h
		}
		return (w + 1) / 2, (h + 1) / 2
	default:
		return 0, 0
	}
}

// ParsePixelFormat resolves a name such as "rgba" or "yuv420p".
func ParsePixelFormat(name string) (PixelFormat, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range pixelFormatNames {
		if i > 0 && n == name {
			return PixelFormat(i), nil
		}
	}
	return PixFmtNone, Invalidf("unknown pixel format %q", name)
}
