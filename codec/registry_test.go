// SPDX-License-Identifier: EPL-2.0

package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/mediaflow/media"
)

func TestRegistry_Sessions(t *testing.T) {
	t.Parallel()

	dec := &mockDecoder{perPacket: 1}
	r := NewRegistry()
	r.Register("mock", Factory{
		NewDecoder: func(Parameters) (Decoder, error) { return dec, nil },
	})
	r.Register("broken", Factory{
		NewDecoder: func(Parameters) (Decoder, error) { return nil, errMockOpen },
	})

	s, err := r.NewDecodeSession(audioParams, SessionConfig{})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Parameters().Channels, "parameters come back validated")
	require.NoError(t, s.Close())
	assert.Equal(t, 1, dec.closes)

	_, err = r.NewEncodeSession(audioParams, SessionConfig{})
	require.ErrorIs(t, err, ErrNoEncoder)

	p := audioParams
	p.CodecName = "nope"
	_, err = r.NewDecodeSession(p, SessionConfig{})
	require.ErrorIs(t, err, ErrUnknownCodec)

	p.CodecName = "broken"
	_, err = r.NewDecodeSession(p, SessionConfig{})
	require.ErrorIs(t, err, errMockOpen)

	p.SampleRate = 0
	_, err = r.NewDecodeSession(p, SessionConfig{})
	require.ErrorIs(t, err, media.ErrInvalidConfiguration)

	assert.Equal(t, []string{"broken", "mock"}, r.Names())
}
