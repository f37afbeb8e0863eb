// SPDX-License-Identifier: EPL-2.0

// Package playback exposes a demuxed stream as a beep.Streamer, decoding
// and resampling to interleaved float stereo on demand.
package playback

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep/v2"

	"github.com/ik5/mediaflow/audio"
	"github.com/ik5/mediaflow/codec"
	"github.com/ik5/mediaflow/formats"
	"github.com/ik5/mediaflow/internal/logx"
	"github.com/ik5/mediaflow/media"
)

// chunk is the number of samples per channel the engine produces at once.
const chunk = 512

// Config describes what to play.
type Config struct {
	Demuxer formats.Demuxer
	Codecs  *codec.Registry
	// SampleRate of 0 plays at the stream's own rate.
	SampleRate int
	Logger     *log.Logger
}

// Streamer implements beep.Streamer. It is not safe for concurrent use,
// so guard it with speaker.Lock when it is playing.
type Streamer struct {
	dmx formats.Demuxer
	dec *codec.DecodeSession
	eng *audio.Engine
	log *log.Logger

	rate    int
	pending [][2]float64
	played  int64
	eof     bool
	err     error
}

// New opens a decoder for cfg.Demuxer. The demuxer is closed by Close.
func New(cfg Config) (*Streamer, error) {
	if cfg.Demuxer == nil || cfg.Codecs == nil {
		return nil, media.Invalidf("playback needs a demuxer and a codec registry")
	}

	params := cfg.Demuxer.Parameters()
	rate := cfg.SampleRate
	if rate == 0 {
		rate = params.SampleRate
	}

	dec, err := cfg.Codecs.NewDecodeSession(params, codec.SessionConfig{Logger: cfg.Logger})
	if err != nil {
		return nil, err
	}
	eng, err := audio.NewEngine(audio.EngineConfig{
		Format:     media.SampleFmtDBL,
		Layout:     media.LayoutStereo,
		SampleRate: rate,
		FrameSize:  chunk,
		Logger:     cfg.Logger,
	})
	if err != nil {
		_ = dec.Close()
		return nil, err
	}

	return &Streamer{
		dmx:  cfg.Demuxer,
		dec:  dec,
		eng:  eng,
		log:  logx.Component(cfg.Logger, "playback"),
		rate: rate,
	}, nil
}

// Format is the format of the samples Stream produces.
func (s *Streamer) Format() beep.Format {
	return beep.Format{
		SampleRate:  beep.SampleRate(s.rate),
		NumChannels: 2,
		Precision:   2,
	}
}

// Position is the number of samples streamed so far.
func (s *Streamer) Position() int64 { return s.played }

// Stream fills samples, decoding more of the input as needed.
func (s *Streamer) Stream(samples [][2]float64) (int, bool) {
	n := 0
	for n < len(samples) {
		if len(s.pending) == 0 {
			if s.eof || s.err != nil {
				break
			}
			s.pending = s.pending[:0]
			if err := s.refill(); err != nil {
				s.err = err
				s.log.Error("playback stopped", "err", err)
				break
			}
			continue
		}
		c := copy(samples[n:], s.pending)
		s.pending = s.pending[c:]
		n += c
	}
	s.played += int64(n)
	return n, n > 0
}

func (s *Streamer) Err() error { return s.err }

// Close releases the decoder, engine and demuxer.
func (s *Streamer) Close() error {
	return errors.Join(s.eng.Close(), s.dec.Close(), s.dmx.Close())
}

// refill reads one packet, or drains everything at the end of the input,
// and appends the converted samples to pending.
func (s *Streamer) refill() error {
	pkt, err := s.dmx.ReadPacket()
	if errors.Is(err, io.EOF) {
		s.eof = true
		return s.finish()
	}
	if err != nil {
		return fmt.Errorf("demux: %w", err)
	}

	defer pkt.Unref()
	for f, err := range s.dec.Decode(pkt) {
		if err != nil {
			return err
		}
		if err := s.convert(f); err != nil {
			return err
		}
	}
	return nil
}

func (s *Streamer) convert(f *media.Frame) error {
	defer f.Unref()
	for out, err := range s.eng.Convert(f) {
		if err != nil {
			return err
		}
		s.append(out)
	}
	return nil
}

func (s *Streamer) finish() error {
	for f, err := range s.dec.Flush() {
		if err != nil {
			return err
		}
		if err := s.convert(f); err != nil {
			return err
		}
	}
	for out, err := range s.eng.Flush() {
		if err != nil {
			return err
		}
		s.append(out)
	}
	rest, ok, err := s.eng.Remainder()
	if err != nil {
		return err
	}
	if ok {
		s.append(rest)
	}
	return nil
}

// append decodes an interleaved dbl stereo frame.
func (s *Streamer) append(f *media.Frame) {
	data := f.Data[0]
	for i := range f.NbSamples {
		l := math.Float64frombits(binary.LittleEndian.Uint64(data[16*i:]))
		r := math.Float64frombits(binary.LittleEndian.Uint64(data[16*i+8:]))
		s.pending = append(s.pending, [2]float64{l, r})
	}
}
