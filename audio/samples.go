// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"encoding/binary"
	"math"

	"github.com/ik5/mediaflow/media"
	"github.com/ik5/mediaflow/utils"
)

// unpack decodes n samples per channel from planes into dst, one float64
// slice per channel, starting at sample offset off of the source.
func unpack(dst [][]float64, planes [][]byte, format media.SampleFormat, channels, off, n int) {
	bps := format.BytesPerSample()
	planar := format.IsPlanar()
	packed := format.Packed()

	for ch := range channels {
		out := dst[ch][:n]
		plane, stride, base := planes[0], channels*bps, (off*channels+ch)*bps
		if planar {
			plane, stride, base = planes[ch], bps, off*bps
		}
		for i := range out {
			out[i] = decodeSample(plane[base+i*stride:], packed)
		}
	}
}

// pack encodes n samples per channel from src into planes starting at
// sample offset off of the destination.
func pack(planes [][]byte, src [][]float64, format media.SampleFormat, channels, off, n int) {
	bps := format.BytesPerSample()
	planar := format.IsPlanar()
	packed := format.Packed()

	for ch := range channels {
		in := src[ch][:n]
		plane, stride, base := planes[0], channels*bps, (off*channels+ch)*bps
		if planar {
			plane, stride, base = planes[ch], bps, off*bps
		}
		for i, v := range in {
			encodeSample(plane[base+i*stride:], packed, v)
		}
	}
}

func decodeSample(b []byte, packed media.SampleFormat) float64 {
	switch packed {
	case media.SampleFmtU8:
		return utils.U8ToFloat(b[0])
	case media.SampleFmtS16:
		return utils.S16ToFloat(int16(binary.LittleEndian.Uint16(b)))
	case media.SampleFmtS32:
		return utils.S32ToFloat(int32(binary.LittleEndian.Uint32(b)))
	case media.SampleFmtFLT:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
	default:
		return math.Float64frombits(binary.LittleEndian.Uint64(b))
	}
}

func encodeSample(b []byte, packed media.SampleFormat, v float64) {
	switch packed {
	case media.SampleFmtU8:
		b[0] = utils.FloatToU8(v)
	case media.SampleFmtS16:
		binary.LittleEndian.PutUint16(b, uint16(utils.FloatToS16(v)))
	case media.SampleFmtS32:
		binary.LittleEndian.PutUint32(b, uint32(utils.FloatToS32(v)))
	case media.SampleFmtFLT:
		binary.LittleEndian.PutUint32(b, math.Float32bits(float32(v)))
	default:
		binary.LittleEndian.PutUint64(b, math.Float64bits(v))
	}
}
