// SPDX-License-Identifier: EPL-2.0

package mediaflow

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/mediaflow/codec"
	"github.com/ik5/mediaflow/formats"
	"github.com/ik5/mediaflow/formats/wav"
	"github.com/ik5/mediaflow/media"
)

// writeWAV stores frames of interleaved s16 values in a temp WAV file.
func writeWAV(t *testing.T, rate, channels int, values []int16) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "in.wav")
	f, err := os.Create(path)
	require.NoError(t, err)

	m, err := wav.NewMuxer(f, codec.Parameters{
		CodecName:    "pcm_s16le",
		MediaType:    media.MediaTypeAudio,
		SampleFormat: media.SampleFmtS16,
		Channels:     channels,
		SampleRate:   rate,
	}, nil)
	require.NoError(t, err)

	data := make([]byte, 2*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint16(data[2*i:], uint16(v))
	}
	require.NoError(t, m.WritePacket(&media.Packet{Data: data}))
	require.NoError(t, m.Close())
	return path
}

func resampleFile(t *testing.T, path string, rate, frameSize int) ([]int16, int) {
	t.Helper()

	d, err := OpenFile(path, nil)
	require.NoError(t, err)
	defer d.Close()

	pcm16, got, err := ResampleToMono16(d, rate, frameSize)
	require.NoError(t, err)
	return pcm16, got
}

func TestResampleToMono16_StereoDownsample(t *testing.T) {
	t.Parallel()

	values := make([]int16, 2*44100)
	for i := range values {
		values[i] = 1000
		if i%2 == 1 {
			values[i] = 3000
		}
	}
	path := writeWAV(t, 44100, 2, values)

	pcm16, rate, err := func() ([]int16, int, error) {
		d, err := OpenFile(path, nil)
		require.NoError(t, err)
		defer d.Close()
		return ResampleToMono16(d, 16000, 1024)
	}()
	require.NoError(t, err)
	assert.Equal(t, 16000, rate)
	require.Len(t, pcm16, 16000)
	for i, s := range pcm16 {
		require.InDelta(t, 2000, s, 1, "sample %d", i)
	}
}

func TestResampleToMono16_KeepsRate(t *testing.T) {
	t.Parallel()

	values := make([]int16, 1000)
	for i := range values {
		values[i] = int16((i%200)*100 - 10000)
	}
	pcm16, rate := resampleFile(t, writeWAV(t, 8000, 1, values), 0, 256)

	assert.Equal(t, 8000, rate)
	assert.Equal(t, values, pcm16)
}

func TestResampleToMono16_FrameSizeDoesNotMatter(t *testing.T) {
	t.Parallel()

	values := make([]int16, 8000)
	for i := range values {
		values[i] = int16((i * 37) % 20000)
	}
	path := writeWAV(t, 8000, 1, values)

	small, _ := resampleFile(t, path, 11025, 7)
	large, _ := resampleFile(t, path, 11025, 4096)
	assert.Equal(t, large, small)
}

func TestResampleToMono16_BadFrameSize(t *testing.T) {
	t.Parallel()

	d, err := OpenFile(writeWAV(t, 8000, 1, []int16{1, 2, 3}), nil)
	require.NoError(t, err)
	defer d.Close()

	_, _, err = ResampleToMono16(d, 8000, 0)
	require.ErrorIs(t, err, media.ErrInvalidConfiguration)
}

func TestOpenFile_Errors(t *testing.T) {
	t.Parallel()

	_, err := OpenFile(filepath.Join(t.TempDir(), "missing.wav"), nil)
	require.ErrorIs(t, err, media.ErrIOFailure)

	other := filepath.Join(t.TempDir(), "song.flac")
	require.NoError(t, os.WriteFile(other, []byte("fLaC"), 0o600))
	_, err = OpenFile(other, nil)
	require.ErrorIs(t, err, formats.ErrUnknownFormat)

	notWav := filepath.Join(t.TempDir(), "fake.wav")
	require.NoError(t, os.WriteFile(notWav, []byte("plain text"), 0o600))
	_, err = OpenFile(notWav, nil)
	require.ErrorIs(t, err, wav.ErrNotWavFile)
}

func TestDefaultRegistries(t *testing.T) {
	t.Parallel()

	names := DefaultCodecs().Names()
	assert.Contains(t, names, "opus")
	assert.Contains(t, names, "pcm_s16le")
	assert.Contains(t, names, "pcm_f32le")

	assert.Equal(t, []string{"aif", "aiff", "mp3", "oga", "ogg", "wav", "wave"}, DefaultFormats(nil).Extensions())
}
