// SPDX-License-Identifier: EPL-2.0

package pcm

import (
	"github.com/ik5/mediaflow/codec"
	"github.com/ik5/mediaflow/media"
)

// Decoder turns PCM packets into frames. With a FrameSize in the
// parameters every frame but the last holds exactly that many samples;
// otherwise each packet becomes one frame.
type Decoder struct {
	codec     Codec
	params    codec.Parameters
	block     int
	buf       []byte
	pts       int64
	flushed   bool
	truncated bool
}

func NewDecoder(params codec.Parameters) (*Decoder, error) {
	c, params, err := lookupParams(params)
	if err != nil {
		return nil, err
	}
	return &Decoder{
		codec:  c,
		params: params,
		block:  c.Format.BytesPerSample() * params.Channels,
	}, nil
}

func (d *Decoder) SendPacket(pkt *media.Packet) error {
	if pkt == nil {
		d.flushed = true
		return nil
	}
	if d.flushed {
		return codec.ErrEOF
	}
	d.buf = append(d.buf, pkt.Data...)
	return nil
}

func (d *Decoder) ReceiveFrame() (*media.Frame, error) {
	if d.truncated {
		return nil, codec.ErrEOF
	}

	avail := len(d.buf) / d.block
	n := avail
	if d.params.FrameSize > 0 {
		n = min(avail, d.params.FrameSize)
		if n < d.params.FrameSize && !d.flushed {
			n = 0
		}
	}

	if n == 0 {
		if !d.flushed {
			return nil, codec.ErrAgain
		}
		if len(d.buf) > 0 {
			d.truncated = true
			return nil, &media.CodecError{
				Op:   "pcm: decode",
				Code: media.CodeUnknown,
				Err:  media.Invalidf("%d trailing bytes do not form a sample", len(d.buf)),
			}
		}
		return nil, codec.ErrEOF
	}

	f, err := media.NewAudioFrame(d.codec.Format, d.params.ChannelLayout, n, d.params.SampleRate)
	if err != nil {
		return nil, err
	}
	size := n * d.block
	copy(f.Data[0], d.buf[:size])
	if d.codec.BigEndian {
		swap(f.Data[0], d.codec.Format.BytesPerSample())
	}
	d.buf = d.buf[:copy(d.buf, d.buf[size:])]

	f.PTS = d.pts
	d.pts += int64(n)
	return f, nil
}

func (d *Decoder) Close() error {
	d.buf = nil
	return nil
}
