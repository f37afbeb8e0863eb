// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/go-audio/wav"

	"github.com/ik5/mediaflow/formats"
	"github.com/ik5/mediaflow/formats/internal/intpcm"
)

// wavFormatPCM is the WAVE_FORMAT_PCM format tag.
const wavFormatPCM = 1

// Extensions handled by Format.
var Extensions = []string{"wav", "wave"}

// Format opens WAV streams.
type Format struct {
	// PacketSamples is the number of samples per channel in each packet.
	PacketSamples int
	Logger        *log.Logger
}

// Open probes r and returns a demuxer for its PCM data.
func (f Format) Open(r io.Reader) (formats.Demuxer, error) {
	in, err := formats.NewInput(r, f.Logger)
	if err != nil {
		return nil, err
	}

	d, err := f.open(in)
	if err != nil {
		_ = in.Close()
		return nil, err
	}
	return d, nil
}

func (f Format) open(in *formats.Input) (formats.Demuxer, error) {
	dec := wav.NewDecoder(in)
	if !dec.IsValidFile() {
		return nil, ErrNotWavFile
	}
	if dec.WavAudioFormat != wavFormatPCM {
		return nil, fmt.Errorf("%w: format tag %d", ErrUnsupportedWavLayout, dec.WavAudioFormat)
	}

	layout, err := intpcm.ForBitDepth(int(dec.BitDepth), false)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedWavLayout, err)
	}
	params, err := formats.AudioParameters(layout.CodecName, layout.Format,
		int(dec.NumChans), int(dec.SampleRate), int(dec.BitDepth))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedWavLayout, err)
	}

	return intpcm.NewDemuxer(dec, params, layout, f.PacketSamples, in, f.Logger), nil
}

// Register adds Format to r under Extensions.
func Register(r *formats.Registry, f Format) {
	r.Register(f, Extensions...)
}
