// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	gomp3 "github.com/hajimehoshi/go-mp3"

	"github.com/ik5/mediaflow/codec"
	"github.com/ik5/mediaflow/formats"
	"github.com/ik5/mediaflow/internal/logx"
	"github.com/ik5/mediaflow/media"
)

// go-mp3 always decodes to interleaved 16-bit little-endian stereo.
const (
	channels   = 2
	frameBytes = 2 * channels
)

// mp3Reader is an interface for gomp3.Decoder to allow testing
type mp3Reader interface {
	Read([]byte) (int, error)
	SampleRate() int
}

// Extensions handled by Format.
var Extensions = []string{"mp3"}

// Format opens MPEG-1/2 Layer III streams.
type Format struct {
	// PacketSamples is the number of samples per channel in each packet.
	PacketSamples int
	Logger        *log.Logger
}

// Open decodes r with go-mp3. The demuxer's packets are pcm_s16le stereo
// regardless of the channel mode of the file.
func (f Format) Open(r io.Reader) (formats.Demuxer, error) {
	s, err := formats.NewStream(r, f.Logger)
	if err != nil {
		return nil, err
	}

	dec, err := gomp3.NewDecoder(s.Reader)
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("%w: %w", ErrNotMP3File, err)
	}

	d, err := f.newDemuxer(dec, s)
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	return d, nil
}

func (f Format) newDemuxer(dec mp3Reader, closer io.Closer) (*Demuxer, error) {
	params, err := formats.AudioParameters("pcm_s16le", media.SampleFmtS16, channels, dec.SampleRate(), 16)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotMP3File, err)
	}

	d := &Demuxer{
		dec:    dec,
		params: params,
		closer: closer,
		size:   formats.PacketSamples(f.PacketSamples) * frameBytes,
		log:    logx.Component(f.Logger, "mp3"),
	}
	d.log.Debug("opened", "params", params.String())
	return d, nil
}

// Demuxer emits the decoded PCM of an MP3 stream.
type Demuxer struct {
	dec    mp3Reader
	params codec.Parameters
	closer io.Closer
	size   int
	log    *log.Logger

	pts    int64
	err    error
	closed bool
}

func (d *Demuxer) Parameters() codec.Parameters { return d.params }

func (d *Demuxer) ReadPacket() (*media.Packet, error) {
	if d.closed {
		return nil, formats.ErrClosed
	}
	if d.err != nil {
		return nil, d.err
	}

	buf := make([]byte, d.size)
	n, err := io.ReadFull(d.dec, buf)
	switch {
	case err == nil:
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		d.err = io.EOF
	default:
		d.err = fmt.Errorf("%w: mp3: %w", media.ErrIOFailure, err)
	}

	n -= n % frameBytes
	if n == 0 {
		return nil, d.err
	}

	samples := int64(n / frameBytes)
	pkt := &media.Packet{
		Data:     buf[:n],
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
