// SPDX-License-Identifier: EPL-2.0

// Package opus wraps the pure Go pion/opus decoder as a codec backend.
// Packets decode to mono s16 at 48kHz.
package opus

import (
	"fmt"

	"github.com/pion/opus"

	"github.com/ik5/mediaflow/codec"
	"github.com/ik5/mediaflow/media"
)

// Name is the registry name of the codec.
const Name = "opus"

// Register adds the opus decoder to r.
func Register(r *codec.Registry) {
	r.Register(Name, codec.Factory{
		NewDecoder: func(p codec.Parameters) (codec.Decoder, error) { return NewDecoder(p) },
	})
}

// Decoder decodes one opus packet into one frame.
type Decoder struct {
	dec     opus.Decoder
	params  codec.Parameters
	pending *media.Frame
	scratch []byte
	pts     int64
	flushed bool

	// Bandwidth and Stereo report what the last packet declared.
	Bandwidth opus.Bandwidth
	Stereo    bool
}

func NewDecoder(params codec.Parameters) (*Decoder, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if params.CodecName != Name {
		return nil, fmt.Errorf("%w: %s", codec.ErrUnknownCodec, params.CodecName)
	}
	return &Decoder{dec: opus.NewDecoder(), params: params}, nil
}

func (d *Decoder) SendPacket(pkt *media.Packet) error {
	if pkt == nil {
		d.flushed = true
		return nil
	}
	if d.flushed {
		return codec.ErrEOF
	}

	n, err := PacketSamples(pkt.Data)
	if err != nil {
		return err
	}
	if cap(d.scratch) < 2*n {
		d.scratch = make([]byte, 2*n)
	}
	out := d.scratch[:2*n]
	clear(out)

	bw, stereo, err := d.dec.Decode(pkt.Data, out)
	if err != nil {
		return fmt.Errorf("opus decode: %w", err)
	}
	d.Bandwidth, d.Stereo = bw, stereo

	f, err := media.NewAudioFrame(media.SampleFmtS16, media.LayoutMono, n, SampleRate)
	if err != nil {
		return err
	}
	copy(f.Data[0], out)
	f.PTS = d.pts
	d.pts += int64(n)
	d.pending = f
	return nil
}

func (d *Decoder) ReceiveFrame() (*media.Frame, error) {
	if f := d.pending; f != nil {
		d.pending = nil
		return f, nil
	}
	if d.flushed {
		return nil, codec.ErrEOF
	}
	return nil, codec.ErrAgain
}

func (d *Decoder) Close() error {
	d.pending, d.scratch = nil, nil
	return nil
}
