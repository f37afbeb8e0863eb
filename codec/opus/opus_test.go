// SPDX-License-Identifier: EPL-2.0

package opus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/mediaflow/codec"
	"github.com/ik5/mediaflow/media"
)

func TestPacketSamples(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    []byte
		want    int
		wantErr bool
	}{
		{"silk nb 10ms", []byte{0 << 3}, 480, false},
		{"silk wb 60ms", []byte{11 << 3}, 2880, false},
		{"hybrid fb 20ms", []byte{15 << 3}, 960, false},
		{"celt 2.5ms", []byte{16 << 3}, 120, false},
		{"celt fb 20ms stereo", []byte{31<<3 | 0x04}, 960, false},
		{"two frames", []byte{1<<3 | 1}, 1920, false},
		{"code 3 with 6 frames", []byte{16<<3 | 3, 6}, 720, false},
		{"too long", []byte{3<<3 | 3, 3}, 0, true},
		{"code 3 truncated", []byte{3}, 0, true},
		{"zero frames", []byte{3, 0}, 0, true},
		{"empty", nil, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := PacketSamples(tt.data)
			if tt.wantErr {
				require.ErrorIs(t, err, media.ErrInvalidConfiguration)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTOC(t *testing.T) {
	t.Parallel()

	toc := ParseTOC(13<<3 | 0x04 | 2)
	assert.Equal(t, 13, toc.Config)
	assert.True(t, toc.Stereo)
	assert.Equal(t, 2, toc.Code)
	assert.Equal(t, ModeHybrid, toc.Mode())
	assert.Equal(t, "celt", ParseTOC(20<<3).Mode().String())
}

func TestDecoder_Protocol(t *testing.T) {
	t.Parallel()

	r := codec.NewRegistry()
	Register(r)

	s, err := r.NewDecodeSession(codec.Parameters{
		CodecName:  Name,
		MediaType:  media.MediaTypeAudio,
		Channels:   1,
		SampleRate: SampleRate,
	}, codec.SessionConfig{})
	require.NoError(t, err)
	defer s.Close()

	assert.True(t, s.Receive().IsNeedInput())

	err = s.Send(&media.Packet{})
	require.ErrorIs(t, err, media.ErrCodecFailure, "empty packets cannot be decoded")
	assert.Equal(t, codec.StateEnded, s.State())

	_, err = r.NewEncodeSession(codec.Parameters{CodecName: Name, MediaType: media.MediaTypeAudio, Channels: 1, SampleRate: SampleRate}, codec.SessionConfig{})
	require.ErrorIs(t, err, codec.ErrNoEncoder)
}

func TestDecoder_FlushWithoutInput(t *testing.T) {
	t.Parallel()

	d, err := NewDecoder(codec.Parameters{CodecName: Name, MediaType: media.MediaTypeAudio, Channels: 2, SampleRate: SampleRate})
	require.NoError(t, err)

	_, err = d.ReceiveFrame()
	require.ErrorIs(t, err, codec.ErrAgain)
	require.NoError(t, d.SendPacket(nil))
	_, err = d.ReceiveFrame()
	require.ErrorIs(t, err, codec.ErrEOF)
	require.NoError(t, d.Close())

	_, err = NewDecoder(codec.Parameters{CodecName: "vorbis", MediaType: media.MediaTypeAudio, Channels: 2, SampleRate: SampleRate})
	require.ErrorIs(t, err, codec.ErrUnknownCodec)
}
