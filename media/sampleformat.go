// SPDX-License-Identifier: EPL-2.0

package media

import "strings"

// SampleFormat identifies how audio samples are stored.
type SampleFormat int

const (
	SampleFmtNone SampleFormat = iota
	SampleFmtU8
	SampleFmtS16
	SampleFmtS32
	SampleFmtFLT
	SampleFmtDBL
	SampleFmtU8P
	SampleFmtS16P
	SampleFmtS32P
	SampleFmtFLTP
	SampleFmtDBLP
)

var sampleFormatNames = [...]string{
	SampleFmtNone: "none",
	SampleFmtU8:   "u8",
	SampleFmtS16:  "s16",
	SampleFmtS32:  "s32",
	SampleFmtFLT:  "flt",
	SampleFmtDBL:  "dbl",
	SampleFmtU8P:  "u8p",
	SampleFmtS16P: "s16p",
	SampleFmtS32P: "s32p",
	SampleFmtFLTP: "fltp",
	SampleFmtDBLP: "dblp",
}

// Valid reports whether f is a concrete sample format.
func (f SampleFormat) Valid() bool {
	return f > SampleFmtNone && f <= SampleFmtDBLP
}

func (f SampleFormat) String() string {
	if f < 0 || int(f) >= len(sampleFormatNames) {
		return "unknown"
	}
	return sampleFormatNames[f]
}

// IsPlanar reports whether each channel lives in its own plane.
func (f SampleFormat) IsPlanar() bool {
	return f >= SampleFmtU8P && f <= SampleFmtDBLP
}

// Packed returns the interleaved variant of f.
func (f SampleFormat) Packed() SampleFormat {
	if f.IsPlanar() {
		return f - (SampleFmtU8P - SampleFmtU8)
	}
	return f
}

// Planar returns the planar variant of f.
func (f SampleFormat) Planar() SampleFormat {
	if f.Valid() && !f.IsPlanar() {
		return f + (SampleFmtU8P - SampleFmtU8)
	}
	return f
}

// BytesPerSample returns the size of a single sample of one channel, or 0
// for an invalid format.
func (f SampleFormat) BytesPerSample() int {
	switch f.Packed() {
	case SampleFmtU8:
		return 1
	case SampleFmtS16:
		return 2
	case SampleFmtS32, SampleFmtFLT:
		return 4
	case SampleFmtDBL:
		return 8
	default:
		return 0
	}
}

// ParseSampleFormat resolves a name such as "s16" or "fltp".
func ParseSampleFormat(name string) (SampleFormat, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range sampleFormatNames {
		if i > 0 && n == name {
			return SampleFormat(i), nil
		}
	}
	return SampleFmtNone, Invalidf("unknown sample format %q", name)
}
