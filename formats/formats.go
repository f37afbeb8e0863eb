// SPDX-License-Identifier: EPL-2.0

// Package formats defines the container layer: demuxers that turn a byte
// stream into packets for one audio stream, and muxers that write packets
// back out.
//
// The subpackages wav, aiff, mp3 and vorbis wrap the go-audio, go-mp3 and
// oggvorbis readers. Each produces PCM packets described by a
// codec.Parameters value so a codec.DecodeSession can turn them into frames.
package formats

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/ik5/mediaflow/avio"
	"github.com/ik5/mediaflow/codec"
	"github.com/ik5/mediaflow/internal/registry"
	"github.com/ik5/mediaflow/media"
)

// DefaultPacketSamples is the number of samples per channel a demuxer puts
// in one packet when its PacketSamples is zero.
const DefaultPacketSamples = 1024

var (
	ErrUnknownFormat = errors.New("unknown container format")
	ErrClosed        = errors.New("demuxer closed")
)

// Demuxer reads the packets of a single audio stream. ReadPacket returns
// io.EOF after the last packet.
type Demuxer interface {
	Parameters() codec.Parameters
	ReadPacket() (*media.Packet, error)
	Close() error
}

// Muxer writes packets. Close finalizes the container.
type Muxer interface {
	WritePacket(pkt *media.Packet) error
	Close() error
}

// Opener creates demuxers. The demuxer owns r and closes it when r is an
// io.Closer.
type Opener interface {
	Open(r io.Reader) (Demuxer, error)
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(r io.Reader) (Demuxer, error)

func (f OpenerFunc) Open(r io.Reader) (Demuxer, error) { return f(r) }

// Registry maps file extensions, without the dot, to openers.
type Registry struct {
	r *registry.Registry[Opener]
}

func NewRegistry() *Registry {
	return &Registry{r: registry.New[Opener]()}
}

// Register binds every extension in exts to o.
func (r *Registry) Register(o Opener, exts ...string) {
	for _, ext := range exts {
		r.r.Register(strings.TrimPrefix(ext, "."), o)
	}
}

func (r *Registry) Get(ext string) (Opener, bool) {
	return r.r.Get(strings.TrimPrefix(ext, "."))
}

// Extensions lists the registered extensions.
func (r *Registry) Extensions() []string { return r.r.Names() }

// Open picks the opener by the extension of name and opens rd with it.
func (r *Registry) Open(name string, rd io.Reader) (Demuxer, error) {
	ext := filepath.Ext(name)
	o, ok := r.Get(ext)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
	return o.Open(rd)
}

// Input is a demuxer's view of its source: a seekable reader driven
// through an avio adapter.
type Input struct {
	io.ReadSeeker
	a *avio.Adapter
}

// NewInput wraps r. Seekable streams are read through a buffered
// avio.IOContext; anything else is read fully into memory first.
func NewInput(r io.Reader, logger *log.Logger) (*Input, error) {
	a, err := avio.NewAdapter(r, avio.Config{Logger: logger})
	if err != nil {
		return nil, err
	}
	ctx := a.IOContext()
	if ctx.Seekable() {
		return &Input{ReadSeeker: ctx, a: a}, nil
	}

	data, err := io.ReadAll(ctx)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("%w: %w", media.ErrIOFailure, err)
	}
	return &Input{ReadSeeker: bytes.NewReader(data), a: a}, nil
}

// Close closes the underlying stream.
func (in *Input) Close() error { return in.a.Close() }

// Stream is the source of a demuxer whose decoder only needs io.Reader.
type Stream struct {
	io.Reader
	a *avio.Adapter
}

// readerOnly hides Seek from decoders that probe for io.Seeker.
type readerOnly struct{ io.Reader }

// NewStream wraps r in a buffered avio.IOContext. Reader implements
// io.Seeker only when r does.
func NewStream(r io.Reader, logger *log.Logger) (*Stream, error) {
	a, err := avio.NewAdapter(r, avio.Config{Logger: logger})
	if err != nil {
		return nil, err
	}
	ctx := a.IOContext()
	if ctx.Seekable() {
		return &Stream{Reader: ctx, a: a}, nil
	}
	return &Stream{Reader: readerOnly{ctx}, a: a}, nil
}

// Close closes the underlying stream.
func (s *Stream) Close() error { return s.a.Close() }

// PacketSamples returns n, or DefaultPacketSamples when n is not positive.
func PacketSamples(n int) int {
	if n < 1 {
		return DefaultPacketSamples
	}
	return n
}

// AudioParameters fills the fields every PCM demuxer reports.
func AudioParameters(codecName string, format media.SampleFormat, channels, rate, bits int) (codec.Parameters, error) {
	p := codec.Parameters{
		CodecName:    codecName,
		MediaType:    media.MediaTypeAudio,
		SampleFormat: format,
		Channels:     channels,
		SampleRate:   rate,
		BitRate:      rate * channels * bits,
	}
	if err := p.Validate(); err != nil {
		return codec.Parameters{}, err
	}
	return p, nil
}
