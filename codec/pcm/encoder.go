// SPDX-License-Identifier: EPL-2.0

package pcm

import (
	"github.com/ik5/mediaflow/codec"
	"github.com/ik5/mediaflow/media"
)

// Encoder packs frames into PCM packets of FrameSize samples, or one
// packet per frame when FrameSize is zero.
type Encoder struct {
	codec   Codec
	params  codec.Parameters
	block   int
	buf     []byte
	pts     int64
	flushed bool
}

func NewEncoder(params codec.Parameters) (*Encoder, error) {
	c, params, err := lookupParams(params)
	if err != nil {
		return nil, err
	}
	return &Encoder{
		codec:  c,
		params: params,
		block:  c.Format.BytesPerSample() * params.Channels,
	}, nil
}

// Parameters returns the stream parameters with the sample format this
// encoder expects.
func (e *Encoder) Parameters() codec.Parameters {
	p := e.params
	p.SampleFormat = e.codec.Format
	return p
}

func (e *Encoder) SendFrame(f *media.Frame) error {
	if f == nil {
		e.flushed = true
		return nil
	}
	if e.flushed {
		return codec.ErrEOF
	}
	if !f.IsAudio() || f.SampleFormat != e.codec.Format || f.Channels != e.params.Channels {
		return media.Unsupportedf("%s expects %s with %d channels, got %s %s with %d",
			e.codec.Name, e.codec.Format, e.params.Channels, f.Type, f.SampleFormat, f.Channels)
	}

	start := len(e.buf)
	e.buf = append(e.buf, f.Data[0][:f.NbSamples*e.block]...)
	if e.codec.BigEndian {
		swap(e.buf[start:], e.codec.Format.BytesPerSample())
	}
	return nil
}

func (e *Encoder) ReceivePacket() (*media.Packet, error) {
	n := len(e.buf) / e.block
	if e.params.FrameSize > 0 && n >= e.params.FrameSize {
		n = e.params.FrameSize
	} else if e.params.FrameSize > 0 && !e.flushed {
		n = 0
	}

	if n == 0 {
		if e.flushed {
			return nil, codec.ErrEOF
		}
		return nil, codec.ErrAgain
	}

	size := n * e.block
	pkt := &media.Packet{
		Data:     append([]byte(nil), e.buf[:size]...),
		PTS:      e.pts,
		DTS:      e.pts,
		Duration: int64(n),
		Flags:    media.PacketKey,
	}
	e.buf = e.buf[:copy(e.buf, e.buf[size:])]
	e.pts += int64(n)
	return pkt, nil
}

func (e *Encoder) Close() error {
	e.buf = nil
	return nil
}
