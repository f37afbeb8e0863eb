// SPDX-License-Identifier: EPL-2.0

package utils

import (
	"math"
	"testing"
)

func TestFloatToS16(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input float64
		want  int16
	}{
		{"zero", 0, 0},
		{"max negative", -1, math.MinInt16},
		{"just below one", 32767.0 / 32768.0, math.MaxInt16},
		{"one clamps", 1, math.MaxInt16},
		{"half", 0.5, 16384},
		{"negative half", -0.5, -16384},
		{"clamp over max", 1.5, math.MaxInt16},
		{"clamp under min", -100, math.MinInt16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := FloatToS16(tt.input); got != tt.want {
				t.Errorf("FloatToS16(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// TestS16RoundTrip checks every int16 value survives normalisation.
func TestS16RoundTrip(t *testing.T) {
	t.Parallel()

	for v := math.MinInt16; v <= math.MaxInt16; v++ {
		if got := FloatToS16(S16ToFloat(int16(v))); got != int16(v) {
			t.Fatalf("round trip of %d gave %d", v, got)
		}
	}
}

func TestS32RoundTrip(t *testing.T) {
	t.Parallel()

	for _, v := range []int32{math.MinInt32, -1 << 20, -1, 0, 1, 123456789, math.MaxInt32} {
		if got := FloatToS32(S32ToFloat(v)); got != v {
			t.Errorf("round trip of %d gave %d", v, got)
		}
	}
}

func TestU8RoundTrip(t *testing.T) {
	t.Parallel()

	for v := 0; v <= math.MaxUint8; v++ {
		if got := FloatToU8(U8ToFloat(uint8(v))); got != uint8(v) {
			t.Fatalf("round trip of %d gave %d", v, got)
		}
	}

	if FloatToU8(2) != math.MaxUint8 || FloatToU8(-2) != 0 {
		t.Error("FloatToU8 should clamp out-of-range input")
	}
}

func BenchmarkFloatToS16(b *testing.B) {
	samples := make([]float64, 8000)
	out := make([]int16, len(samples))
	for i := range samples {
		samples[i] = math.Sin(float64(i) * 0.1)
	}

	b.ReportAllocs()

	for b.Loop() {
		for j, s := range samples {
			out[j] = FloatToS16(s)
		}
	}
}

func TestFloatToS16_ZeroAllocs(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping allocation test in short mode")
	}

	allocs := testing.AllocsPerRun(1000, func() {
		_ = FloatToS16(0.5)
	})

	if allocs > 0 {
		t.Errorf("FloatToS16 allocated %v times, want 0", allocs)
	}
}
