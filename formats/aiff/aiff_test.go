// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/mediaflow/formats"
	"github.com/ik5/mediaflow/media"
)

// mockAiffReader simulates the aiff.Decoder for testing
type mockAiffReader struct {
	sampleRate int
	channels   int
	samples    []int
	offset     int
	noFormat   bool
}

func (m *mockAiffReader) Format() *goaudio.Format {
	if m.noFormat {
		return nil
	}
	return &goaudio.Format{SampleRate: m.sampleRate, NumChannels: m.channels}
}

func (m *mockAiffReader) PCMBuffer(buf *goaudio.IntBuffer) (int, error) {
	if m.offset >= len(m.samples) {
		return 0, io.EOF
	}
	n := copy(buf.Data, m.samples[m.offset:])
	m.offset += n
	return n, nil
}

func readAll(t *testing.T, d formats.Demuxer) []*media.Packet {
	t.Helper()

	var pkts []*media.Packet
	for {
		pkt, err := d.ReadPacket()
		if err == io.EOF {
			return pkts
		}
		require.NoError(t, err)
		pkts = append(pkts, pkt)
	}
}

func TestFormat_BitDepths(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		bits   int
		codec  string
		format media.SampleFormat
		sample int
		packed []byte
	}{
		{name: "8-bit", bits: 8, codec: "pcm_u8", format: media.SampleFmtU8, sample: -128, packed: []byte{0}},
		{name: "16-bit", bits: 16, codec: "pcm_s16le", format: media.SampleFmtS16, sample: -2, packed: []byte{0xfe, 0xff}},
		{name: "24-bit", bits: 24, codec: "pcm_s32le", format: media.SampleFmtS32, sample: 1, packed: []byte{0, 1, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dec := &mockAiffReader{sampleRate: 22050, channels: 1, samples: []int{tt.sample}}
			d, err := Format{}.newDemuxer(dec, tt.bits, nil)
			require.NoError(t, err)

			p := d.Parameters()
			assert.Equal(t, tt.codec, p.CodecName)
			assert.Equal(t, tt.format, p.SampleFormat)
			assert.Equal(t, 22050, p.SampleRate)
			assert.Equal(t, media.LayoutMono, p.ChannelLayout)

			pkts := readAll(t, d)
			require.Len(t, pkts, 1)
			assert.Equal(t, tt.packed, pkts[0].Data)
		})
	}
}

func TestFormat_PacketSize(t *testing.T) {
	t.Parallel()

	samples := make([]int, 2*2500)
	dec := &mockAiffReader{sampleRate: 44100, channels: 2, samples: samples}
	d, err := Format{}.newDemuxer(dec, 16, nil)
	require.NoError(t, err)

	var durations []int64
	for _, p := range readAll(t, d) {
		durations = append(durations, p.Duration)
	}
	assert.Equal(t, []int64{1024, 1024, 452}, durations)
}

func TestFormat_UnsupportedLayout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		dec  *mockAiffReader
		bits int
	}{
		{name: "no format", dec: &mockAiffReader{noFormat: true}, bits: 16},
		{name: "12-bit", dec: &mockAiffReader{sampleRate: 8000, channels: 1}, bits: 12},
		{name: "no channels", dec: &mockAiffReader{sampleRate: 8000}, bits: 16},
		{name: "no rate", dec: &mockAiffReader{channels: 1}, bits: 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Format{}.newDemuxer(tt.dec, tt.bits, nil)
			require.ErrorIs(t, err, ErrUnsupportedAiffLayout)
		})
	}
}

func TestFormat_InvalidInput(t *testing.T) {
	t.Parallel()

	for _, data := range [][]byte{nil, []byte("This is not AIFF data")} {
		_, err := Format{}.Open(bytes.NewReader(data))
		require.ErrorIs(t, err, ErrNotAiffFile)
	}
}

func TestFormat_OpenEncodedFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tone.aiff")
	f, err := os.Create(path)
	require.NoError(t, err)

	values := []int{0, 100, -100, 32767, -32768, 7}
	enc := aiff.NewEncoder(f, 8000, 16, 1)
	require.NoError(t, enc.Write(&goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: 8000},
		Data:           values,
		SourceBitDepth: 16,
	}))
	require.NoError(t, enc.Close())
	_ = f.Close()

	r, err := os.Open(path)
	require.NoError(t, err)
	d, err := Format{PacketSamples: 4}.Open(r)
	require.NoError(t, err)
	defer d.Close()

	assert.Equal(t, "pcm_s16le", d.Parameters().CodecName)
	assert.Equal(t, 8000, d.Parameters().SampleRate)

	var got []byte
	for _, p := range readAll(t, d) {
		got = append(got, p.Data...)
	}
	assert.Equal(t, []byte{0, 0, 100, 0, 0x9c, 0xff, 0xff, 0x7f, 0, 0x80, 7, 0}, got)
}
