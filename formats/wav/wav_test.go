// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/mediaflow/codec"
	"github.com/ik5/mediaflow/formats"
	"github.com/ik5/mediaflow/media"
)

// streamOnly hides Seek so the demuxer has to buffer the input.
type streamOnly struct{ r io.Reader }

func (s *streamOnly) Read(p []byte) (int, error) { return s.r.Read(p) }

func s16Payload(values ...int16) []byte {
	b := make([]byte, 2*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint16(b[2*i:], uint16(v))
	}
	return b
}

func stereoS16() codec.Parameters {
	return codec.Parameters{
		CodecName:    "pcm_s16le",
		MediaType:    media.MediaTypeAudio,
		SampleFormat: media.SampleFmtS16,
		Channels:     2,
		SampleRate:   8000,
	}
}

// writeFile muxes packets of the given interleaved values and returns the
// file path.
func writeFile(t *testing.T, params codec.Parameters, packets ...[]byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "out.wav")
	f, err := os.Create(path)
	require.NoError(t, err)

	m, err := NewMuxer(f, params, nil)
	require.NoError(t, err)
	for _, p := range packets {
		require.NoError(t, m.WritePacket(&media.Packet{Data: p}))
	}
	require.NoError(t, m.Close())
	return path
}

func readPackets(t *testing.T, d formats.Demuxer) []byte {
	t.Helper()

	var out []byte
	for {
		pkt, err := d.ReadPacket()
		if err == io.EOF {
			return out
		}
		require.NoError(t, err)
		out = append(out, pkt.Data...)
	}
}

func TestMuxer_RoundTrip(t *testing.T) {
	t.Parallel()

	first := s16Payload(0, 1, -1, 2, -2, 3)
	second := s16Payload(32767, -32768)
	path := writeFile(t, stereoS16(), first, second)

	f, err := os.Open(path)
	require.NoError(t, err)

	d, err := Format{PacketSamples: 2}.Open(f)
	require.NoError(t, err)
	defer d.Close()

	p := d.Parameters()
	assert.Equal(t, "pcm_s16le", p.CodecName)
	assert.Equal(t, media.SampleFmtS16, p.SampleFormat)
	assert.Equal(t, 2, p.Channels)
	assert.Equal(t, media.LayoutStereo, p.ChannelLayout)
	assert.Equal(t, 8000, p.SampleRate)
	assert.Equal(t, 8000*2*16, p.BitRate)

	assert.Equal(t, append(first, second...), readPackets(t, d))
}

func TestFormat_OpenUnseekable(t *testing.T) {
	t.Parallel()

	payload := s16Payload(5, -5, 6, -6)
	data, err := os.ReadFile(writeFile(t, stereoS16(), payload))
	require.NoError(t, err)

	d, err := Format{}.Open(&streamOnly{r: bytes.NewReader(data)})
	require.NoError(t, err)
	defer d.Close()

	pkt, err := d.ReadPacket()
	require.NoError(t, err)
	assert.Equal(t, payload, pkt.Data)
	assert.Equal(t, int64(2), pkt.Duration)

	_, err = d.ReadPacket()
	require.ErrorIs(t, err, io.EOF)
}

func TestFormat_NotWav(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: nil},
		{name: "text", data: []byte("This is not WAV data at all, just some text")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Format{}.Open(bytes.NewReader(tt.data))
			require.ErrorIs(t, err, ErrNotWavFile)
		})
	}
}

func TestNewMuxer_Rejects(t *testing.T) {
	t.Parallel()

	params := stereoS16()
	params.CodecName = "pcm_f32le"
	params.SampleFormat = media.SampleFmtFLT

	f, err := os.Create(filepath.Join(t.TempDir(), "x.wav"))
	require.NoError(t, err)
	defer f.Close()

	_, err = NewMuxer(f, params, nil)
	require.ErrorIs(t, err, media.ErrUnsupportedFrame)

	params.SampleRate = 0
	_, err = NewMuxer(f, params, nil)
	require.ErrorIs(t, err, media.ErrInvalidConfiguration)
}

func TestMuxer_PartialSample(t *testing.T) {
	t.Parallel()

	f, err := os.Create(filepath.Join(t.TempDir(), "x.wav"))
	require.NoError(t, err)

	m, err := NewMuxer(f, stereoS16(), nil)
	require.NoError(t, err)
	err = m.WritePacket(&media.Packet{Data: []byte{1, 2, 3}})
	require.ErrorIs(t, err, media.ErrUnsupportedFrame)

	require.NoError(t, m.Close())
	require.NoError(t, m.Close())
	require.Error(t, m.WritePacket(&media.Packet{Data: s16Payload(1, 2)}))
}

func TestWriteWAV16(t *testing.T) {
	t.Parallel()

	samples := []int16{100, -100, 200, -200, 0}
	path := filepath.Join(t.TempDir(), "mono.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, WriteWAV16(f, 16000, samples))

	r, err := os.Open(path)
	require.NoError(t, err)
	d, err := Format{}.Open(r)
	require.NoError(t, err)
	defer d.Close()

	assert.Equal(t, 1, d.Parameters().Channels)
	assert.Equal(t, 16000, d.Parameters().SampleRate)
	assert.Equal(t, s16Payload(samples...), readPackets(t, d))
}

func TestRegister(t *testing.T) {
	t.Parallel()

	r := formats.NewRegistry()
	Register(r, Format{})

	_, ok := r.Get(".WAV")
	assert.True(t, ok)
	assert.Equal(t, []string{"wav", "wave"}, r.Extensions())
}
