// SPDX-License-Identifier: EPL-2.0

package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleFormat_Properties(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format SampleFormat
		bps    int
		planar bool
		packed SampleFormat
	}{
		{SampleFmtU8, 1, false, SampleFmtU8},
		{SampleFmtS16, 2, false, SampleFmtS16},
		{SampleFmtS32, 4, false, SampleFmtS32},
		{SampleFmtFLT, 4, false, SampleFmtFLT},
		{SampleFmtDBL, 8, false, SampleFmtDBL},
		{SampleFmtU8P, 1, true, SampleFmtU8},
		{SampleFmtS16P, 2, true, SampleFmtS16},
		{SampleFmtS32P, 4, true, SampleFmtS32},
		{SampleFmtFLTP, 4, true, SampleFmtFLT},
		{SampleFmtDBLP, 8, true, SampleFmtDBL},
	}

	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			t.Parallel()

			assert.True(t, tt.format.Valid())
			assert.Equal(t, tt.bps, tt.format.BytesPerSample())
			assert.Equal(t, tt.planar, tt.format.IsPlanar())
			assert.Equal(t, tt.packed, tt.format.Packed())
			assert.True(t, tt.format.Planar().IsPlanar())

			parsed, err := ParseSampleFormat(tt.format.String())
			require.NoError(t, err)
			assert.Equal(t, tt.format, parsed)
		})
	}
}

func TestSampleFormat_Invalid(t *testing.T) {
	t.Parallel()

	assert.False(t, SampleFmtNone.Valid())
	assert.False(t, SampleFormat(99).Valid())
	assert.Equal(t, 0, SampleFmtNone.BytesPerSample())
	assert.Equal(t, "unknown", SampleFormat(99).String())

	_, err := ParseSampleFormat("s24")
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}
