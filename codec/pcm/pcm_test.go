// SPDX-License-Identifier: EPL-2.0

package pcm

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/mediaflow/codec"
	"github.com/ik5/mediaflow/media"
)

func params(name string, channels, frameSize int) codec.Parameters {
	return codec.Parameters{
		CodecName:  name,
		MediaType:  media.MediaTypeAudio,
		Channels:   channels,
		SampleRate: 8000,
		FrameSize:  frameSize,
	}
}

func newRegistry() *codec.Registry {
	r := codec.NewRegistry()
	Register(r)
	return r
}

func TestDecoder_FrameSizeBuffering(t *testing.T) {
	t.Parallel()

	s, err := newRegistry().NewDecodeSession(params("pcm_s16le", 1, 4), codec.SessionConfig{})
	require.NoError(t, err)
	defer s.Close()

	var sizes []int
	var pts []int64
	collect := func(f *media.Frame, err error) {
		require.NoError(t, err)
		sizes = append(sizes, f.NbSamples)
		pts = append(pts, f.PTS)
	}

	for range 2 {
		for f, err := range s.Decode(&media.Packet{Data: make([]byte, 2*6)}) {
			collect(f, err)
		}
	}
	for f, err := range s.Decode(&media.Packet{Data: make([]byte, 2*3)}) {
		collect(f, err)
	}
	for f, err := range s.Flush() {
		collect(f, err)
	}

	assert.Equal(t, []int{4, 4, 4, 3}, sizes)
	assert.Equal(t, []int64{0, 4, 8, 12}, pts)
	assert.Equal(t, codec.StateEnded, s.State())
}

func TestDecoder_PacketPerFrame(t *testing.T) {
	t.Parallel()

	dec, err := NewDecoder(params("pcm_f32le", 2, 0))
	require.NoError(t, err)

	require.NoError(t, dec.SendPacket(&media.Packet{Data: make([]byte, 8*10)}))
	f, err := dec.ReceiveFrame()
	require.NoError(t, err)
	assert.Equal(t, 10, f.NbSamples)
	assert.Equal(t, media.SampleFmtFLT, f.SampleFormat)
	assert.Equal(t, media.LayoutStereo, f.ChannelLayout)

	_, err = dec.ReceiveFrame()
	require.ErrorIs(t, err, codec.ErrAgain)
}

func TestDecoder_BigEndian(t *testing.T) {
	t.Parallel()

	dec, err := NewDecoder(params("pcm_s16be", 1, 0))
	require.NoError(t, err)

	require.NoError(t, dec.SendPacket(&media.Packet{Data: []byte{0x12, 0x34, 0xff, 0xfe}}))
	f, err := dec.ReceiveFrame()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x34, 0x12, 0xfe, 0xff}, f.Data[0])
}

func TestDecoder_DirectSessionFillsLayout(t *testing.T) {
	t.Parallel()

	p := params("pcm_s16le", 2, 0)
	dec, err := NewDecoder(p)
	require.NoError(t, err)

	s := codec.NewDecodeSession(dec, p, codec.SessionConfig{})
	defer s.Close()

	var frames int
	for f, err := range s.Decode(&media.Packet{Data: make([]byte, 16)}) {
		require.NoError(t, err)
		assert.Equal(t, 4, f.NbSamples)
		assert.Equal(t, media.LayoutStereo, f.ChannelLayout)
		frames++
	}
	assert.Equal(t, 1, frames)
	assert.NotEqual(t, codec.StateEnded, s.State())
}

func TestEncoder_ParametersFillLayout(t *testing.T) {
	t.Parallel()

	enc, err := NewEncoder(params("pcm_s16le", 1, 0))
	require.NoError(t, err)
	assert.Equal(t, media.LayoutMono, enc.Parameters().ChannelLayout)
	assert.Equal(t, media.SampleFmtS16, enc.Parameters().SampleFormat)
}

func TestDecoder_TruncatedSample(t *testing.T) {
	t.Parallel()

	s, err := newRegistry().NewDecodeSession(params("pcm_s16le", 2, 0), codec.SessionConfig{})
	require.NoError(t, err)
	defer s.Close()

	var frames int
	for _, err := range s.Decode(&media.Packet{Data: make([]byte, 4*2+3)}) {
		require.NoError(t, err)
		frames++
	}
	assert.Equal(t, 1, frames)

	var failure error
	for _, err := range s.Flush() {
		failure = err
	}
	require.ErrorIs(t, failure, media.ErrCodecFailure)
	assert.Equal(t, codec.StateEnded, s.State())
}

func TestEncoder_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, c := range Codecs() {
		t.Run(c.Name, func(t *testing.T) {
			t.Parallel()

			r := newRegistry()
			p := params(c.Name, 2, 0)
			dec, err := r.NewDecodeSession(p, codec.SessionConfig{})
			require.NoError(t, err)
			defer dec.Close()

			p.FrameSize = 5
			enc, err := r.NewEncodeSession(p, codec.SessionConfig{})
			require.NoError(t, err)
			defer enc.Close()

			input := make([]byte, 7*2*c.Format.BytesPerSample())
			for i := range input {
				input[i] = byte(i * 7)
			}

			var out bytes.Buffer
			var durations []int64
			encode := func(f *media.Frame) {
				for pkt, err := range enc.Encode(f) {
					require.NoError(t, err)
					out.Write(pkt.Data)
					durations = append(durations, pkt.Duration)
				}
			}
			for f, err := range dec.Decode(&media.Packet{Data: input}) {
				require.NoError(t, err)
				encode(f)
			}
			for pkt, err := range enc.Flush() {
				require.NoError(t, err)
				out.Write(pkt.Data)
				durations = append(durations, pkt.Duration)
			}

			assert.Equal(t, input, out.Bytes())
			assert.Equal(t, []int64{5, 2}, durations)
		})
	}
}

func TestEncoder_RejectsOtherFormats(t *testing.T) {
	t.Parallel()

	s, err := newRegistry().NewEncodeSession(params("pcm_s16le", 1, 0), codec.SessionConfig{})
	require.NoError(t, err)
	defer s.Close()

	f, err := media.NewAudioFrame(media.SampleFmtFLT, media.LayoutMono, 4, 8000)
	require.NoError(t, err)

	err = s.Send(f)
	require.ErrorIs(t, err, media.ErrCodecFailure)
	require.ErrorIs(t, err, media.ErrUnsupportedFrame)
}

func TestLookup(t *testing.T) {
	t.Parallel()

	c, ok := Lookup("pcm_s32le")
	require.True(t, ok)
	assert.Equal(t, media.SampleFmtS32, c.Format)

	_, ok = Lookup("pcm_alaw")
	assert.False(t, ok)

	name, ok := NameFor(media.SampleFmtS16P)
	require.True(t, ok)
	assert.Equal(t, "pcm_s16le", name)

	_, err := NewDecoder(params("pcm_alaw", 1, 0))
	require.ErrorIs(t, err, codec.ErrUnknownCodec)
}
