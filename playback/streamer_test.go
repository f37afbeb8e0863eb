// SPDX-License-Identifier: EPL-2.0

package playback

import (
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/gopxl/beep/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/mediaflow/codec"
	"github.com/ik5/mediaflow/codec/pcm"
	"github.com/ik5/mediaflow/media"
)

// monoDemuxer hands out pcm_s16le mono packets of a constant value.
type monoDemuxer struct {
	rate    int
	packets int
	samples int
	value   int16
	err     error
	read    int
	closed  bool
	handed  []*media.Packet
}

func (d *monoDemuxer) Parameters() codec.Parameters {
	return codec.Parameters{
		CodecName:    "pcm_s16le",
		MediaType:    media.MediaTypeAudio,
		SampleFormat: media.SampleFmtS16,
		Channels:     1,
		SampleRate:   d.rate,
	}
}

func (d *monoDemuxer) ReadPacket() (*media.Packet, error) {
	if d.read == d.packets {
		if d.err != nil {
			return nil, d.err
		}
		return nil, io.EOF
	}
	d.read++
	data := make([]byte, 2*d.samples)
	for i := range d.samples {
		binary.LittleEndian.PutUint16(data[2*i:], uint16(d.value))
	}
	pkt := &media.Packet{Data: data}
	d.handed = append(d.handed, pkt)
	return pkt, nil
}

func (d *monoDemuxer) Close() error {
	d.closed = true
	return nil
}

func newCodecs() *codec.Registry {
	r := codec.NewRegistry()
	pcm.Register(r)
	return r
}

// drain streams everything in reads of size n.
func drain(s beep.Streamer, n int) [][2]float64 {
	var all [][2]float64
	buf := make([][2]float64, n)
	for {
		got, ok := s.Stream(buf)
		all = append(all, buf[:got]...)
		if !ok {
			return all
		}
	}
}

func TestStreamer_MonoToStereo(t *testing.T) {
	t.Parallel()

	dmx := &monoDemuxer{rate: 8000, packets: 10, samples: 300, value: 16384}
	s, err := New(Config{Demuxer: dmx, Codecs: newCodecs()})
	require.NoError(t, err)

	f := s.Format()
	assert.Equal(t, beep.SampleRate(8000), f.SampleRate)
	assert.Equal(t, 2, f.NumChannels)

	got := drain(s, 700)
	require.NoError(t, s.Err())
	require.Len(t, got, 3000)
	assert.Equal(t, int64(3000), s.Position())
	for _, v := range got {
		require.InDelta(t, 0.5, v[0], 1e-9)
		require.InDelta(t, 0.5, v[1], 1e-9)
	}

	require.Len(t, dmx.handed, 10)
	for _, pkt := range dmx.handed {
		assert.Nil(t, pkt.Data)
	}

	require.NoError(t, s.Close())
	assert.True(t, dmx.closed)
}

func TestStreamer_Resamples(t *testing.T) {
	t.Parallel()

	dmx := &monoDemuxer{rate: 8000, packets: 8, samples: 1000}
	s, err := New(Config{Demuxer: dmx, Codecs: newCodecs(), SampleRate: 48000})
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, beep.SampleRate(48000), s.Format().SampleRate)
	assert.Len(t, drain(s, 512), 48000)
}

func TestStreamer_DemuxError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	dmx := &monoDemuxer{rate: 8000, packets: 1, samples: 100, err: boom}
	s, err := New(Config{Demuxer: dmx, Codecs: newCodecs()})
	require.NoError(t, err)
	defer s.Close()

	// The engine holds samples until a full chunk, so nothing is played
	// before the error.
	got := drain(s, 64)
	assert.Empty(t, got)
	require.ErrorIs(t, s.Err(), boom)
}

func TestNew_Invalid(t *testing.T) {
	t.Parallel()

	_, err := New(Config{Codecs: newCodecs()})
	require.ErrorIs(t, err, media.ErrInvalidConfiguration)

	dmx := &monoDemuxer{rate: 8000}
	_, err = New(Config{Demuxer: dmx, Codecs: codec.NewRegistry()})
	require.ErrorIs(t, err, codec.ErrUnknownCodec)
}
