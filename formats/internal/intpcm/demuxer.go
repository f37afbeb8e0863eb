// SPDX-License-Identifier: EPL-2.0

package intpcm

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	goaudio "github.com/go-audio/audio"

	"github.com/ik5/mediaflow/codec"
	"github.com/ik5/mediaflow/formats"
	"github.com/ik5/mediaflow/internal/logx"
	"github.com/ik5/mediaflow/media"
)

// Source is the part of the go-audio wav and aiff decoders a Demuxer
// needs.
type Source interface {
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// Demuxer emits PCM packets read from a go-audio decoder.
type Demuxer struct {
	src    Source
	params codec.Parameters
	layout Layout
	closer io.Closer
	log    *log.Logger

	buf    *goaudio.IntBuffer
	pts    int64
	err    error
	closed bool
}

// NewDemuxer reads packetSamples samples per channel at a time from src.
// closer, when not nil, is closed by Close.
func NewDemuxer(src Source, params codec.Parameters, layout Layout, packetSamples int,
	closer io.Closer, logger *log.Logger,
) *Demuxer {
	n := formats.PacketSamples(packetSamples) * params.Channels
	d := &Demuxer{
		src:    src,
		params: params,
		layout: layout,
		closer: closer,
		log:    logx.OrDiscard(logger),
		buf: &goaudio.IntBuffer{
			Data: make([]int, n),
			Format: &goaudio.Format{
				NumChannels: params.Channels,
				SampleRate:  params.SampleRate,
			},
			SourceBitDepth: layout.Bits,
		},
	}
	d.log.Debug("opened", "params", params.String(), "bits", layout.Bits)
	return d
}

func (d *Demuxer) Parameters() codec.Parameters { return d.params }

// ReadPacket returns the next packet. A read error is reported after the
// samples read before it.
func (d *Demuxer) ReadPacket() (*media.Packet, error) {
	if d.closed {
		return nil, formats.ErrClosed
	}
	if d.err != nil {
		return nil, d.err
	}

	d.buf.Data = d.buf.Data[:cap(d.buf.Data)]
	n, err := d.src.PCMBuffer(d.buf)
	n -= n % d.params.Channels
	switch {
	case err == nil || errors.Is(err, io.EOF):
		if n == 0 || err != nil {
			d.err = io.EOF
		}
	default:
		d.err = fmt.Errorf("%w: %w", media.ErrIOFailure, err)
	}
	if n == 0 {
		return nil, d.err
	}

	samples := int64(n / d.params.Channels)
	pkt := &media.Packet{
		Data:     d.layout.Pack(nil, d.buf.Data[:n]),
		PTS:      d.pts,
		DTS:      d.pts,
		Duration: samples,
		Flags:    media.PacketKey,
	}
	d.pts += samples
	return pkt, nil
}

// Close releases the source. It is safe to call more than once.
func (d *Demuxer) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	if d.closer != nil {
		return d.closer.Close()
	}
	return nil
}
