// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/log"
	"github.com/jfreymuth/oggvorbis"

	"github.com/ik5/mediaflow/codec"
	"github.com/ik5/mediaflow/formats"
	"github.com/ik5/mediaflow/internal/logx"
	"github.com/ik5/mediaflow/media"
)

// oggReader is an interface for oggvorbis.Reader to allow testing.
// Read fills p with interleaved samples and returns the number of values
// written.
type oggReader interface {
	SampleRate() int
	Channels() int
	Read(p []float32) (int, error)
}

// Extensions handled by Format.
var Extensions = []string{"ogg", "oga"}

// Format opens Ogg Vorbis streams.
type Format struct {
	// PacketSamples is the number of samples per channel in each packet.
	PacketSamples int
	Logger        *log.Logger
}

// Open decodes r with oggvorbis. Packets are interleaved pcm_f32le.
func (f Format) Open(r io.Reader) (formats.Demuxer, error) {
	s, err := formats.NewStream(r, f.Logger)
	if err != nil {
		return nil, err
	}

	dec, err := oggvorbis.NewReader(s.Reader)
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("%w: %w", ErrNotVorbisFile, err)
	}

	d, err := f.newDemuxer(dec, s)
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	return d, nil
}

func (f Format) newDemuxer(dec oggReader, closer io.Closer) (*Demuxer, error) {
	ch := dec.Channels()
	params, err := formats.AudioParameters("pcm_f32le", media.SampleFmtFLT, ch, dec.SampleRate(), 32)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotVorbisFile, err)
	}

	d := &Demuxer{
		dec:    dec,
		params: params,
		closer: closer,
		buf:    make([]float32, formats.PacketSamples(f.PacketSamples)*ch),
		log:    logx.Component(f.Logger, "vorbis"),
	}
	d.log.Debug("opened", "params", params.String())
	return d, nil
}

// Demuxer emits the decoded PCM of a Vorbis stream.
type Demuxer struct {
	dec    oggReader
	params codec.Parameters
	closer io.Closer
	buf    []float32
	log    *log.Logger

	pts    int64
	err    error
	closed bool
}

func (d *Demuxer) Parameters() codec.Parameters { return d.params }

// ReadPacket fills a packet from as many decoder reads as it takes.
func (d *Demuxer) ReadPacket() (*media.Packet, error) {
	if d.closed {
		return nil, formats.ErrClosed
	}
	if d.err != nil {
		return nil, d.err
	}

	n := 0
	for n < len(d.buf) {
		m, err := d.dec.Read(d.buf[n:])
		n += m
		if err != nil {
			if errors.Is(err, io.EOF) {
				d.err = io.EOF
			} else {
				d.err = fmt.Errorf("%w: vorbis: %w", media.ErrIOFailure, err)
			}
			break
		}
		if m == 0 {
			d.err = io.EOF
			break
		}
	}

	n -= n % d.params.Channels
	if n == 0 {
		return nil, d.err
	}

	data := make([]byte, 4*n)
	for i, v := range d.buf[:n] {
		binary.LittleEndian.PutUint32(data[4*i:], math.Float32bits(v))
	}
	samples := int64(n / d.params.Channels)
	pkt := &media.Packet{
		Data:     data,
		PTS:      d.pts,
		DTS:      d.pts,
		Duration: samples,
		Flags:    media.PacketKey,
	}
	d.pts += samples
	return pkt, nil
}

// Close releases the input. It is safe to call more than once.
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

// Register adds Format to r under Extensions.
func Register(r *formats.Registry, f Format) {
	r.Register(f, Extensions...)
}
