// SPDX-License-Identifier: EPL-2.0

package mediaflow

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/ik5/mediaflow/audio"
	"github.com/ik5/mediaflow/codec"
	"github.com/ik5/mediaflow/codec/opus"
	"github.com/ik5/mediaflow/codec/pcm"
	"github.com/ik5/mediaflow/formats"
	"github.com/ik5/mediaflow/formats/aiff"
	"github.com/ik5/mediaflow/formats/mp3"
	"github.com/ik5/mediaflow/formats/vorbis"
	"github.com/ik5/mediaflow/formats/wav"
	"github.com/ik5/mediaflow/media"
)

// DefaultCodecs returns a registry with every built-in codec.
func DefaultCodecs() *codec.Registry {
	r := codec.NewRegistry()
	pcm.Register(r)
	opus.Register(r)
	return r
}

// DefaultFormats returns a registry with every built-in demuxer, keyed by
// file extension.
func DefaultFormats(logger *log.Logger) *formats.Registry {
	r := formats.NewRegistry()
	wav.Register(r, wav.Format{Logger: logger})
	aiff.Register(r, aiff.Format{Logger: logger})
	mp3.Register(r, mp3.Format{Logger: logger})
	vorbis.Register(r, vorbis.Format{Logger: logger})
	return r
}

// OpenFile opens name with the demuxer registered for its extension. The
// demuxer owns the file.
func OpenFile(name string, logger *log.Logger) (formats.Demuxer, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", media.ErrIOFailure, err)
	}
	d, err := DefaultFormats(logger).Open(name, f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return d, nil
}

// ResampleToMono16 decodes everything d produces, converting it to mono
// 16-bit PCM at targetRate. frameSize is the number of samples converted
// per step; it does not change the result.
//
// A targetRate of 0 keeps the stream's rate, which is then returned. d is
// not closed.
func ResampleToMono16(d formats.Demuxer, targetRate, frameSize int) ([]int16, int, error) {
	dec, err := DefaultCodecs().NewDecodeSession(d.Parameters(), codec.SessionConfig{})
	if err != nil {
		return nil, targetRate, err
	}
	defer dec.Close()

	eng, err := audio.NewEngine(audio.EngineConfig{
		Format:     media.SampleFmtS16,
		Layout:     media.LayoutMono,
		SampleRate: targetRate,
		FrameSize:  frameSize,
	})
	if err != nil {
		return nil, targetRate, err
	}
	defer eng.Close()

	pcm16 := make([]int16, 0, targetRate)
	collect := func(f *media.Frame) {
		data := f.Data[0]
		for i := range f.NbSamples {
			pcm16 = append(pcm16, int16(binary.LittleEndian.Uint16(data[2*i:])))
		}
	}
	convert := func(f *media.Frame) error {
		defer f.Unref()
		for out, err := range eng.Convert(f) {
			if err != nil {
				return err
			}
			collect(out)
		}
		return nil
	}

	for {
		pkt, err := d.ReadPacket()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, targetRate, fmt.Errorf("demux: %w", err)
		}
		for f, err := range dec.Decode(pkt) {
			if err != nil {
				return nil, targetRate, err
			}
			if err := convert(f); err != nil {
				return nil, targetRate, err
			}
		}
		pkt.Unref()
	}

	for f, err := range dec.Flush() {
		if err != nil {
			return nil, targetRate, err
		}
		if err := convert(f); err != nil {
			return nil, targetRate, err
		}
	}
	for out, err := range eng.Flush() {
		if err != nil {
			return nil, targetRate, err
		}
		collect(out)
	}
	rest, ok, err := eng.Remainder()
	if err != nil {
		return nil, targetRate, err
	}
	if ok {
		collect(rest)
	}
	return pcm16, eng.SampleRate(), nil
}
