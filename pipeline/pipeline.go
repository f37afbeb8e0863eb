// SPDX-License-Identifier: EPL-2.0

// Package pipeline runs a transcode as two concurrent stages: the first
// demuxes, decodes and resamples, the second encodes and muxes. Each stage
// exclusively owns its components; frames cross between them by value
// over a bounded channel.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/ik5/mediaflow/audio"
	"github.com/ik5/mediaflow/codec"
	"github.com/ik5/mediaflow/formats"
	"github.com/ik5/mediaflow/internal/logx"
	"github.com/ik5/mediaflow/media"
)

const (
	// DefaultFrameSize is used when the encoder parameters leave FrameSize
	// at zero.
	DefaultFrameSize = 1024
	// DefaultQueueDepth is the number of frames buffered between stages.
	DefaultQueueDepth = 8
)

var ErrNoSink = errors.New("pipeline has no sink")

// Config wires the components of a transcode. Run does not close the
// demuxer or the sink.
type Config struct {
	Demuxer formats.Demuxer
	Codecs  *codec.Registry
	// Encoder describes the output stream. Its sample format, layout, rate
	// and frame size drive the resampler.
	Encoder    codec.Parameters
	Sink       formats.Muxer
	QueueDepth int
	Logger     *log.Logger
}

// Stats are the counts of a finished run.
type Stats struct {
	PacketsRead    int
	FramesDecoded  int
	FramesEncoded  int
	PacketsWritten int
	// Samples is the number of samples per channel handed to the encoder.
	Samples int64
}

// Pipeline is a configured transcode. Run may be called once.
type Pipeline struct {
	cfg Config
	log *log.Logger
}

// New validates cfg and opens nothing yet.
func New(cfg Config) (*Pipeline, error) {
	if cfg.Demuxer == nil {
		return nil, media.Invalidf("pipeline has no demuxer")
	}
	if cfg.Sink == nil {
		return nil, fmt.Errorf("%w: %w", media.ErrInvalidConfiguration, ErrNoSink)
	}
	if cfg.Codecs == nil {
		return nil, media.Invalidf("pipeline has no codec registry")
	}
	if cfg.QueueDepth < 0 {
		return nil, media.Invalidf("pipeline queue depth %d", cfg.QueueDepth)
	}
	if cfg.QueueDepth == 0 {
		cfg.QueueDepth = DefaultQueueDepth
	}
	if cfg.Encoder.FrameSize == 0 {
		cfg.Encoder.FrameSize = DefaultFrameSize
	}
	if cfg.Encoder.MediaType == media.MediaTypeUnknown {
		cfg.Encoder.MediaType = media.MediaTypeAudio
	}
	if err := cfg.Encoder.Validate(); err != nil {
		return nil, err
	}
	if !cfg.Encoder.SampleFormat.Valid() {
		return nil, media.Invalidf("pipeline encoder %s has no sample format", cfg.Encoder.CodecName)
	}

	return &Pipeline{cfg: cfg, log: logx.Component(cfg.Logger, "pipeline")}, nil
}

// Run transcodes until the demuxer is exhausted, a component fails or ctx
// is cancelled.
func (p *Pipeline) Run(ctx context.Context) (Stats, error) {
	sc := codec.SessionConfig{Logger: p.cfg.Logger}

	dec, err := p.cfg.Codecs.NewDecodeSession(p.cfg.Demuxer.Parameters(), sc)
	if err != nil {
		return Stats{}, err
	}
	defer dec.Close()

	enc, err := p.cfg.Codecs.NewEncodeSession(p.cfg.Encoder, sc)
	if err != nil {
		return Stats{}, err
	}
	defer enc.Close()

	eng, err := audio.NewEngine(audio.EngineConfig{
		Format:     p.cfg.Encoder.SampleFormat,
		Layout:     p.cfg.Encoder.ChannelLayout,
		SampleRate: p.cfg.Encoder.SampleRate,
		FrameSize:  p.cfg.Encoder.FrameSize,
		Logger:     p.cfg.Logger,
	})
	if err != nil {
		return Stats{}, err
	}
	defer eng.Close()

	p.log.Info("transcoding", "in", dec.Parameters().String(), "out", enc.Parameters().String())

	var in, out Stats
	frames := make(chan *media.Frame, p.cfg.QueueDepth)
	g, ctx := errgroup.WithContext(ctx)

	// frames is closed only after a clean decode. On failure the encode
	// stage ends through ctx without flushing.
	g.Go(func() error {
		if err := p.decode(ctx, dec, eng, frames, &in); err != nil {
			return err
		}
		close(frames)
		return nil
	})
	g.Go(func() error {
		return p.encode(ctx, enc, frames, &out)
	})

	err = g.Wait()
	stats := Stats{
		PacketsRead:    in.PacketsRead,
		FramesDecoded:  in.FramesDecoded,
		FramesEncoded:  out.FramesEncoded,
		PacketsWritten: out.PacketsWritten,
		Samples:        out.Samples,
	}
	if err != nil {
		return stats, err
	}

	p.log.Info("done", "packets_in", stats.PacketsRead, "packets_out", stats.PacketsWritten,
		"samples", stats.Samples)
	return stats, nil
}

// decode is the first stage.
func (p *Pipeline) decode(ctx context.Context, dec *codec.DecodeSession, eng *audio.Engine,
	frames chan<- *media.Frame, st *Stats,
) error {
	emit := func(f *media.Frame) error {
		select {
		case frames <- f.Clone():
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	resample := func(seq iter.Seq2[*media.Frame, error]) error {
		for f, err := range seq {
			if err != nil {
				return fmt.Errorf("resample: %w", err)
			}
			if err := emit(f); err != nil {
				return err
			}
		}
		return nil
	}
	decoded := func(seq iter.Seq2[*media.Frame, error]) error {
		for f, err := range seq {
			if err != nil {
				return err
			}
			st.FramesDecoded++
			err = resample(eng.Convert(f))
			f.Unref()
			if err != nil {
				return err
			}
		}
		return nil
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		pkt, err := p.cfg.Demuxer.ReadPacket()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("demux: %w", err)
		}
		st.PacketsRead++

		err = decoded(dec.Decode(pkt))
		pkt.Unref()
		if err != nil {
			return err
		}
	}

	if err := decoded(dec.Flush()); err != nil {
		return err
	}
	if err := resample(eng.Flush()); err != nil {
		return err
	}
	rest, ok, err := eng.Remainder()
	if err != nil {
		return fmt.Errorf("resample: %w", err)
	}
	if ok {
		return emit(rest)
	}
	return nil
}

// encode is the second stage.
func (p *Pipeline) encode(ctx context.Context, enc *codec.EncodeSession, frames <-chan *media.Frame, st *Stats) error {
	write := func(seq iter.Seq2[*media.Packet, error]) error {
		for pkt, err := range seq {
			if err != nil {
				return err
			}
			if err := p.cfg.Sink.WritePacket(pkt); err != nil {
				return fmt.Errorf("mux: %w", err)
			}
			st.PacketsWritten++
		}
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case f, ok := <-frames:
			if !ok {
				if err := ctx.Err(); err != nil {
					return err
				}
				return write(enc.Flush())
			}
			st.FramesEncoded++
			st.Samples += int64(f.NbSamples)
			err := write(enc.Encode(f))
			f.Unref()
			if err != nil {
				return err
			}
		}
	}
}
