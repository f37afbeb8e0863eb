// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"

	"github.com/ik5/mediaflow/formats"
	"github.com/ik5/mediaflow/formats/internal/intpcm"
)

// aiffReader is the part of aiff.Decoder the demuxer uses, to allow testing
type aiffReader interface {
	intpcm.Source
	Format() *goaudio.Format
}

// Extensions handled by Format.
var Extensions = []string{"aif", "aiff"}

// Format opens AIFF streams.
type Format struct {
	// PacketSamples is the number of samples per channel in each packet.
	PacketSamples int
	Logger        *log.Logger
}

// Open probes r and returns a demuxer for its sound data. AIFF stores
// big-endian signed samples; packets are little-endian, with 8-bit data
// offset to pcm_u8.
func (f Format) Open(r io.Reader) (formats.Demuxer, error) {
	in, err := formats.NewInput(r, f.Logger)
	if err != nil {
		return nil, err
	}

	dec := aiff.NewDecoder(in)
	if !dec.IsValidFile() {
		_ = in.Close()
		return nil, ErrNotAiffFile
	}
	dec.ReadInfo()

	d, err := f.newDemuxer(dec, int(dec.BitDepth), in)
	if err != nil {
		_ = in.Close()
		return nil, err
	}
	return d, nil
}

func (f Format) newDemuxer(dec aiffReader, bitDepth int, closer io.Closer) (formats.Demuxer, error) {
	format := dec.Format()
	if format == nil {
		return nil, ErrUnsupportedAiffLayout
	}

	layout, err := intpcm.ForBitDepth(bitDepth, true)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedAiffLayout, err)
	}
	params, err := formats.AudioParameters(layout.CodecName, layout.Format,
		format.NumChannels, format.SampleRate, bitDepth)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedAiffLayout, err)
	}

	return intpcm.NewDemuxer(dec, params, layout, f.PacketSamples, closer, f.Logger), nil
}

// Register adds Format to r under Extensions.
func Register(r *formats.Registry, f Format) {
	r.Register(f, Extensions...)
}
