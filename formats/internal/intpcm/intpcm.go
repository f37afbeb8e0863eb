// SPDX-License-Identifier: EPL-2.0

// Package intpcm converts go-audio integer sample buffers to and from
// little-endian PCM packet payloads.
package intpcm

import (
	"encoding/binary"

	"github.com/ik5/mediaflow/media"
)

// Layout maps one source bit depth onto a PCM codec.
type Layout struct {
	Bits      int
	CodecName string
	Format    media.SampleFormat

	shift   uint
	offset8 int
}

// ForBitDepth picks the codec for bits. 8-bit input is unsigned unless
// signed8 is set. 24-bit input is widened to s32 by shifting left.
func ForBitDepth(bits int, signed8 bool) (Layout, error) {
	switch bits {
	case 8:
		l := Layout{Bits: 8, CodecName: "pcm_u8", Format: media.SampleFmtU8}
		if signed8 {
			l.offset8 = 128
		}
		return l, nil
	case 16:
		return Layout{Bits: 16, CodecName: "pcm_s16le", Format: media.SampleFmtS16}, nil
	case 24:
		return Layout{Bits: 24, CodecName: "pcm_s32le", Format: media.SampleFmtS32, shift: 8}, nil
	case 32:
		return Layout{Bits: 32, CodecName: "pcm_s32le", Format: media.SampleFmtS32}, nil
	default:
		return Layout{}, media.Unsupportedf("%d-bit samples", bits)
	}
}

// ForCodec is the inverse of ForBitDepth for little-endian codec names.
func ForCodec(name string) (Layout, error) {
	switch name {
	case "pcm_u8":
		return ForBitDepth(8, false)
	case "pcm_s16le":
		return ForBitDepth(16, false)
	case "pcm_s32le":
		return ForBitDepth(32, false)
	default:
		return Layout{}, media.Unsupportedf("codec %s", name)
	}
}

// Pack appends src encoded as the layout's sample format to dst[:0].
func (l Layout) Pack(dst []byte, src []int) []byte {
	size := l.Format.BytesPerSample()
	dst = grow(dst, len(src)*size)
	for i, v := range src {
		switch size {
		case 1:
			dst[i] = byte(v + l.offset8)
		case 2:
			binary.LittleEndian.PutUint16(dst[2*i:], uint16(int16(v)))
		default:
			binary.LittleEndian.PutUint32(dst[4*i:], uint32(int32(v)<<l.shift))
		}
	}
	return dst
}

// Unpack decodes src into dst[:0], undoing Pack.
func (l Layout) Unpack(dst []int, src []byte) []int {
	size := l.Format.BytesPerSample()
	n := len(src) / size
	if cap(dst) < n {
		dst = make([]int, n)
	}
	dst = dst[:n]
	for i := range dst {
		switch size {
		case 1:
			dst[i] = int(src[i]) - l.offset8
		case 2:
			dst[i] = int(int16(binary.LittleEndian.Uint16(src[2*i:])))
		default:
			dst[i] = int(int32(binary.LittleEndian.Uint32(src[4*i:])) >> l.shift)
		}
	}
	return dst
}

func grow(b []byte, n int) []byte {
	if cap(b) < n {
		return make([]byte, n)
	}
	return b[:n]
}
