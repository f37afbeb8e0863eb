// SPDX-License-Identifier: EPL-2.0

package media

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAudioFrame_Packed(t *testing.T) {
	t.Parallel()

	f, err := NewAudioFrame(SampleFmtS16, LayoutStereo, 1024, 48000)
	require.NoError(t, err)

	assert.True(t, f.IsAudio())
	assert.Equal(t, 2, f.Channels)
	assert.Equal(t, 1, f.Planes())
	require.Len(t, f.Data, 1)
	assert.Len(t, f.Data[0], 1024*2*2)
	assert.Equal(t, 1024*2*2, f.AudioBytes())
}

func TestNewAudioFrame_Planar(t *testing.T) {
	t.Parallel()

	f, err := NewAudioFrame(SampleFmtFLTP, Layout5Point1, 256, 44100)
	require.NoError(t, err)

	assert.Equal(t, 6, f.Planes())
	require.Len(t, f.Data, 6)
	for _, p := range f.Data {
		assert.Len(t, p, 256*4)
	}
}

func TestNewAudioFrame_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		format SampleFormat
		layout ChannelLayout
		nb     int
	}{
		{"no format", SampleFmtNone, LayoutMono, 10},
		{"no layout", SampleFmtS16, 0, 10},
		{"negative samples", SampleFmtS16, LayoutMono, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewAudioFrame(tt.format, tt.layout, tt.nb, 8000)
			if !errors.Is(err, ErrInvalidConfiguration) {
				t.Errorf("NewAudioFrame() error = %v, want ErrInvalidConfiguration", err)
			}
		})
	}
}

func TestFrame_ResizeReusesStorage(t *testing.T) {
	t.Parallel()

	f, err := NewAudioFrame(SampleFmtS16, LayoutMono, 100, 8000)
	require.NoError(t, err)
	before := &f.Data[0][0]

	f.ResizeAudio(40)
	assert.Equal(t, 40, f.NbSamples)
	assert.Len(t, f.Data[0], 80)
	assert.Same(t, before, &f.Data[0][0])
}

func TestNewVideoFrame_YUV420P(t *testing.T) {
	t.Parallel()

	f, err := NewVideoFrame(33, 17, PixFmtYUV420P)
	require.NoError(t, err)

	require.Len(t, f.Data, 3)
	assert.Equal(t, []int{33, 17, 17}, f.Linesize)
	assert.Len(t, f.Data[0], 33*17)
	assert.Len(t, f.Data[1], 17*9)
}

func TestFrame_CloneIsDeep(t *testing.T) {
	t.Parallel()

	f, err := NewAudioFrame(SampleFmtU8, LayoutMono, 4, 8000)
	require.NoError(t, err)
	f.SideData = []SideData{{Type: SideDataReplayGain, Data: []byte{1}}}

	c := f.Clone()
	c.Data[0][0] = 0xff
	c.SideData[0].Data[0] = 9

	assert.Equal(t, byte(0), f.Data[0][0])
	assert.Equal(t, byte(1), f.SideData[0].Data[0])
}

func TestFrame_RemoveSideData(t *testing.T) {
	t.Parallel()

	f := &Frame{SideData: []SideData{
		{Type: SideDataA53CC},
		{Type: SideDataReplayGain},
		{Type: SideDataA53CC},
	}}

	n := f.RemoveSideData(func(sd SideData) bool { return sd.Type == SideDataA53CC })
	assert.Equal(t, 2, n)
	require.Len(t, f.SideData, 1)
	_, ok := f.SideDataOf(SideDataA53CC)
	assert.False(t, ok)
}

func TestCodecError_Is(t *testing.T) {
	t.Parallel()

	inner := errors.New("bitstream corrupt")
	var err error = &CodecError{Op: "decode", Code: -22, Err: inner}

	assert.ErrorIs(t, err, ErrCodecFailure)
	assert.ErrorIs(t, err, inner)

	var ce *CodecError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, -22, ce.Code)
}
