// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"iter"

	"github.com/charmbracelet/log"

	"github.com/ik5/mediaflow/internal/logx"
	"github.com/ik5/mediaflow/media"
)

// EngineConfig describes the frames an Engine produces.
type EngineConfig struct {
	Format media.SampleFormat
	// Layout may be left unset, in which case the default layout for
	// Channels is used.
	Layout   media.ChannelLayout
	Channels int
	// SampleRate of 0 keeps the source rate.
	SampleRate int
	// FrameSize is the exact number of samples per channel in every output
	// frame except the final remainder.
	FrameSize int
	Logger    *log.Logger
}

// Result is the outcome of feeding one frame to ConvertFrame.
type Result struct {
	// Frame is nil when fewer than FrameSize samples are buffered.
	Frame         *media.Frame
	SamplesOutput int
	SamplesCached int
}

// Engine converts decoded audio frames of any format, layout and rate into
// frames of exactly FrameSize samples in the configured target format.
// Converted samples are queued in a SampleFifo until a full frame exists.
//
// Frames returned by the engine are owned by it and are overwritten by the
// next call; Clone a frame to keep it. Engine is not safe for concurrent use.
type Engine struct {
	cfg    EngineConfig
	layout media.ChannelLayout
	log    *log.Logger

	conv    *Converter
	fifo    *SampleFifo
	staging *media.Frame
	out     *media.Frame

	srcFormat media.SampleFormat
	srcLayout media.ChannelLayout
	srcRate   int

	pts    int64
	closed bool
}

// NewEngine validates cfg. The converter itself is created when the first
// frame arrives, since only then is the source format known.
func NewEngine(cfg EngineConfig) (*Engine, error) {
	if !cfg.Format.Valid() {
		return nil, media.Invalidf("engine sample format %s", cfg.Format)
	}
	if cfg.FrameSize < 1 {
		return nil, media.Invalidf("engine frame size %d", cfg.FrameSize)
	}
	if cfg.SampleRate < 0 {
		return nil, media.Invalidf("engine sample rate %d", cfg.SampleRate)
	}

	layout := cfg.Layout
	if layout == 0 {
		var err error
		if layout, err = media.DefaultChannelLayout(cfg.Channels); err != nil {
			return nil, err
		}
	} else if cfg.Channels != 0 && cfg.Channels != layout.Channels() {
		return nil, media.Invalidf("engine layout %s has %d channels, config says %d",
			layout, layout.Channels(), cfg.Channels)
	}

	fifo, err := NewSampleFifo(cfg.Format, layout.Channels(), 0)
	if err != nil {
		return nil, err
	}

	return &Engine{
		cfg:    cfg,
		layout: layout,
		log:    logx.Component(cfg.Logger, "resample"),
		fifo:   fifo,
	}, nil
}

// Layout is the resolved output channel layout.
func (e *Engine) Layout() media.ChannelLayout { return e.layout }

// SampleRate is the output rate, or 0 before the first frame when the
// config keeps the source rate.
func (e *Engine) SampleRate() int {
	if e.cfg.SampleRate != 0 {
		return e.cfg.SampleRate
	}
	return e.srcRate
}

// Cached is the number of converted samples waiting for a full frame.
func (e *Engine) Cached() int {
	if e.closed {
		return 0
	}
	return e.fifo.Size()
}

// Convert feeds src and yields every complete frame that becomes
// available. The input is consumed when iteration starts; samples not
// yielded because the caller stopped early stay queued.
func (e *Engine) Convert(src *media.Frame) iter.Seq2[*media.Frame, error] {
	return func(yield func(*media.Frame, error) bool) {
		if err := e.push(src); err != nil {
			yield(nil, err)
			return
		}
		e.drain(yield)
	}
}

// ConvertFrame feeds src and returns at most one complete frame.
func (e *Engine) ConvertFrame(src *media.Frame) (Result, error) {
	if err := e.push(src); err != nil {
		return Result{}, err
	}

	var res Result
	if e.fifo.Size() >= e.cfg.FrameSize {
		f, err := e.pop(e.cfg.FrameSize)
		if err != nil {
			return Result{}, err
		}
		res.Frame, res.SamplesOutput = f, f.NbSamples
	}
	res.SamplesCached = e.fifo.Size()
	return res, nil
}

// Flush ends the input, moves the converter's lookahead tail into the
// queue and yields the complete frames that results in. Remainder returns
// whatever is left afterwards.
func (e *Engine) Flush() iter.Seq2[*media.Frame, error] {
	return func(yield func(*media.Frame, error) bool) {
		if e.closed {
			yield(nil, ErrClosed)
			return
		}
		if e.conv != nil && !e.conv.Finished() {
			e.conv.Finish()
			if err := e.pull(); err != nil {
				yield(nil, err)
				return
			}
			e.log.Debug("flushed", "cached", e.fifo.Size())
		}
		e.drain(yield)
	}
}

// Remainder returns the final short frame, if any samples are queued.
func (e *Engine) Remainder() (*media.Frame, bool, error) {
	if e.closed {
		return nil, false, ErrClosed
	}
	n := e.fifo.Size()
	if n == 0 {
		return nil, false, nil
	}
	f, err := e.pop(n)
	if err != nil {
		return nil, false, err
	}
	return f, true, nil
}

// Close releases the queue and converter. It is safe to call more than once.
func (e *Engine) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	if n := e.fifo.Size(); n > 0 {
		e.log.Warn("closing with queued samples", "samples", n)
	}
	e.conv = nil
	e.staging, e.out = nil, nil
	return e.fifo.Close()
}

func (e *Engine) drain(yield func(*media.Frame, error) bool) {
	for !e.closed && e.fifo.Size() >= e.cfg.FrameSize {
		f, err := e.pop(e.cfg.FrameSize)
		if !yield(f, err) || err != nil {
			return
		}
	}
}

func (e *Engine) push(src *media.Frame) error {
	if e.closed {
		return ErrClosed
	}
	if err := e.bind(src); err != nil {
		return err
	}
	if src.NbSamples == 0 {
		return nil
	}

	n, err := e.conv.Convert(e.staging.Data, e.cfg.FrameSize, src.Data, src.NbSamples)
	if err != nil {
		return err
	}
	if _, err := e.fifo.Write(e.staging.Data, n); err != nil {
		return err
	}
	return e.pull()
}

// pull moves everything the converter still holds into the queue.
func (e *Engine) pull() error {
	for e.conv.Pending() > 0 {
		n, err := e.conv.Convert(e.staging.Data, e.cfg.FrameSize, nil, 0)
		if err != nil {
			return err
		}
		if _, err := e.fifo.Write(e.staging.Data, n); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) pop(n int) (*media.Frame, error) {
	e.out.ResizeAudio(n)
	if _, err := e.fifo.Read(e.out.Data, n); err != nil {
		return nil, err
	}
	e.out.PTS = e.pts
	e.pts += int64(n)
	return e.out, nil
}

// bind checks src against the engine and creates the converter on the
// first frame.
func (e *Engine) bind(src *media.Frame) error {
	switch {
	case src == nil:
		return media.Invalidf("nil frame")
	case !src.IsAudio():
		return media.Unsupportedf("%s frame given to audio engine", src.Type)
	case src.HWResident:
		return media.Unsupportedf("hardware-resident audio frame")
	case !src.SampleFormat.Valid():
		return media.Unsupportedf("frame sample format %s", src.SampleFormat)
	case src.SampleRate < 1:
		return media.Unsupportedf("frame sample rate %d", src.SampleRate)
	}

	layout := src.ChannelLayout
	if layout == 0 {
		var err error
		if layout, err = media.DefaultChannelLayout(src.Channels); err != nil {
			return media.Unsupportedf("frame channel count %d", src.Channels)
		}
	} else if src.Channels != 0 && src.Channels != layout.Channels() {
		return media.Unsupportedf("frame layout %s disagrees with %d channels", layout, src.Channels)
	}

	if e.conv != nil {
		if src.SampleFormat != e.srcFormat || layout != e.srcLayout || src.SampleRate != e.srcRate {
			return fmt.Errorf("%w: %w: %s/%s/%d after %s/%s/%d", media.ErrUnsupportedFrame, ErrFormatChanged,
				src.SampleFormat, layout, src.SampleRate, e.srcFormat, e.srcLayout, e.srcRate)
		}
		return nil
	}

	rate := e.cfg.SampleRate
	if rate == 0 {
		rate = src.SampleRate
	}

	conv, err := NewConverter(ConverterConfig{
		SrcFormat: src.SampleFormat,
		SrcLayout: layout,
		SrcRate:   src.SampleRate,
		DstFormat: e.cfg.Format,
		DstLayout: e.layout,
		DstRate:   rate,
	})
	if err != nil {
		return err
	}

	if e.staging, err = media.NewAudioFrame(e.cfg.Format, e.layout, e.cfg.FrameSize, rate); err != nil {
		return err
	}
	if e.out, err = media.NewAudioFrame(e.cfg.Format, e.layout, e.cfg.FrameSize, rate); err != nil {
		return err
	}

	e.conv = conv
	e.srcFormat, e.srcLayout, e.srcRate = src.SampleFormat, layout, src.SampleRate
	e.log.Debug("converter ready",
		"src_format", src.SampleFormat, "src_layout", layout, "src_rate", src.SampleRate,
		"dst_format", e.cfg.Format, "dst_layout", e.layout, "dst_rate", rate,
		"frame_size", e.cfg.FrameSize)
	return nil
}
