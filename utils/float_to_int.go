// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// FloatToS16 quantises a normalised sample in [-1, 1) to int16.
// Values produced by S16ToFloat convert back unchanged.
func FloatToS16(x float64) int16 {
	v := math.Round(x * 32768.0)
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}

// FloatToS32 quantises a normalised sample in [-1, 1) to int32.
func FloatToS32(x float64) int32 {
	v := math.Round(x * 2147483648.0)
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	if v < math.MinInt32 {
		return math.MinInt32
	}
	return int32(v)
}

// FloatToU8 quantises a normalised sample to offset-binary uint8.
func FloatToU8(x float64) uint8 {
	v := math.Round(x*128.0) + 128
	if v > math.MaxUint8 {
		return math.MaxUint8
	}
	if v < 0 {
		return 0
	}
	return uint8(v)
}

// S16ToFloat normalises an int16 sample.
func S16ToFloat(v int16) float64 { return float64(v) / 32768.0 }

// S32ToFloat normalises an int32 sample.
func S32ToFloat(v int32) float64 { return float64(v) / 2147483648.0 }

// U8ToFloat normalises an offset-binary uint8 sample.
func U8ToFloat(v uint8) float64 { return (float64(v) - 128) / 128.0 }
