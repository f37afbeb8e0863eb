// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/ik5/mediaflow/avio"
	"github.com/ik5/mediaflow/codec"
	"github.com/ik5/mediaflow/formats/internal/intpcm"
	"github.com/ik5/mediaflow/internal/logx"
	"github.com/ik5/mediaflow/media"
)

// Muxer writes pcm_u8, pcm_s16le or pcm_s32le packets into a WAV file.
type Muxer struct {
	a      *avio.Adapter
	ctx    *avio.IOContext
	enc    *wav.Encoder
	params codec.Parameters
	layout intpcm.Layout
	log    *log.Logger

	buf     *goaudio.IntBuffer
	samples int64
	closed  bool
}

// NewMuxer starts a WAV file on w, which the muxer owns. The header is
// completed by Close, so w must be seekable.
func NewMuxer(w io.WriteSeeker, params codec.Parameters, logger *log.Logger) (*Muxer, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	layout, err := intpcm.ForCodec(params.CodecName)
	if err != nil {
		return nil, err
	}

	a, err := avio.NewAdapter(w, avio.Config{Logger: logger})
	if err != nil {
		return nil, err
	}
	ctx := a.IOContext()

	m := &Muxer{
		a:      a,
		ctx:    ctx,
		enc:    wav.NewEncoder(ctx, params.SampleRate, layout.Bits, params.Channels, wavFormatPCM),
		params: params,
		layout: layout,
		log:    logx.Component(logger, "wav"),
		buf: &goaudio.IntBuffer{
			Format: &goaudio.Format{
				NumChannels: params.Channels,
				SampleRate:  params.SampleRate,
			},
			SourceBitDepth: layout.Bits,
		},
	}
	return m, nil
}

// WritePacket appends the samples in pkt.
func (m *Muxer) WritePacket(pkt *media.Packet) error {
	if m.closed {
		return avio.ErrClosed
	}
	block := m.layout.Format.BytesPerSample() * m.params.Channels
	if len(pkt.Data)%block != 0 {
		return media.Unsupportedf("wav: packet of %d bytes is not a multiple of %d", len(pkt.Data), block)
	}
	if len(pkt.Data) == 0 {
		return nil
	}

	m.buf.Data = m.layout.Unpack(m.buf.Data, pkt.Data)
	if err := m.enc.Write(m.buf); err != nil {
		return fmt.Errorf("%w: wav: %w", media.ErrIOFailure, err)
	}
	m.samples += int64(len(pkt.Data) / block)
	return nil
}

// Samples is the number of samples per channel written so far.
func (m *Muxer) Samples() int64 { return m.samples }

// Close finalizes the header and closes the output.
func (m *Muxer) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true

	err := m.enc.Close()
	if err == nil {
		err = m.ctx.Flush()
	}
	if cerr := m.a.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("%w: wav: %w", media.ErrIOFailure, err)
	}
	m.log.Debug("closed", "params", m.params.String(), "samples", m.samples)
	return nil
}

// WriteWAV16 writes a mono 16-bit PCM WAV at sampleRate and closes w.
func WriteWAV16(w io.WriteSeeker, sampleRate int, samples []int16) error {
	m, err := NewMuxer(w, codec.Parameters{
		CodecName:    "pcm_s16le",
		MediaType:    media.MediaTypeAudio,
		SampleFormat: media.SampleFmtS16,
		Channels:     1,
		SampleRate:   sampleRate,
	}, nil)
	if err != nil {
		return err
	}

	data := make([]byte, 2*len(samples))
	for i, s := range samples {
		data[2*i] = byte(s)
		data[2*i+1] = byte(uint16(s) >> 8)
	}
	if err := m.WritePacket(&media.Packet{Data: data}); err != nil {
		_ = m.Close()
		return err
	}
	return m.Close()
}
