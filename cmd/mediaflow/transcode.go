// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/ctrlc"
	"github.com/spf13/cobra"

	"github.com/ik5/mediaflow"
	"github.com/ik5/mediaflow/codec"
	"github.com/ik5/mediaflow/codec/pcm"
	"github.com/ik5/mediaflow/formats/wav"
	"github.com/ik5/mediaflow/media"
	"github.com/ik5/mediaflow/pipeline"
)

type transcodeOptions struct {
	rate      int
	channels  int
	format    string
	frameSize int
	queue     int
}

func newTranscodeCmd(a *app) *cobra.Command {
	var opts transcodeOptions

	cmd := &cobra.Command{
		Use:   "transcode <input> <output.wav>",
		Short: "Convert a file to WAV",
		Example: `  mediaflow transcode song.mp3 song.wav --rate 16000 --channels 1
  mediaflow transcode voice.aiff voice.wav --format u8`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			return ctrlc.Default.Run(ctx, func() error {
				return a.transcode(ctx, args[0], args[1], opts)
			})
		},
	}

	f := cmd.Flags()
	f.IntVarP(&opts.rate, "rate", "r", 0, "output sample rate, 0 keeps the input rate")
	f.IntVarP(&opts.channels, "channels", "c", 0, "output channel count, 0 keeps the input count")
	f.StringVarP(&opts.format, "format", "f", "s16", "output sample format: u8, s16 or s32")
	f.IntVar(&opts.frameSize, "frame-size", pipeline.DefaultFrameSize, "samples per channel in each output packet")
	f.IntVar(&opts.queue, "queue", pipeline.DefaultQueueDepth, "frames buffered between the decode and encode stages")
	return cmd
}

// encoderParams derives the output stream from the input and opts.
func encoderParams(in codec.Parameters, opts transcodeOptions) (codec.Parameters, error) {
	format, err := media.ParseSampleFormat(opts.format)
	if err != nil {
		return codec.Parameters{}, err
	}
	name, ok := pcm.NameFor(format)
	if !ok {
		return codec.Parameters{}, media.Unsupportedf("output format %s", opts.format)
	}

	out := codec.Parameters{
		CodecName:     name,
		MediaType:     media.MediaTypeAudio,
		SampleFormat:  format.Packed(),
		SampleRate:    in.SampleRate,
		Channels:      in.Channels,
		ChannelLayout: in.ChannelLayout,
		FrameSize:     opts.frameSize,
	}
	if opts.rate > 0 {
		out.SampleRate = opts.rate
	}
	if opts.channels > 0 && opts.channels != in.Channels {
		layout, err := media.DefaultChannelLayout(opts.channels)
		if err != nil {
			return codec.Parameters{}, err
		}
		out.Channels = opts.channels
		out.ChannelLayout = layout
	}
	out.BitRate = out.SampleRate * out.Channels * out.SampleFormat.BytesPerSample() * 8
	if err := out.Validate(); err != nil {
		return codec.Parameters{}, err
	}
	return out, nil
}

func (a *app) transcode(ctx context.Context, input, output string, opts transcodeOptions) (err error) {
	d, err := mediaflow.OpenFile(input, a.log)
	if err != nil {
		return err
	}
	defer d.Close()

	params, err := encoderParams(d.Parameters(), opts)
	if err != nil {
		return err
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("%w: %w", media.ErrIOFailure, err)
	}
	mux, err := wav.NewMuxer(f, params, a.log)
	if err != nil {
		_ = f.Close()
		return err
	}
	defer func() {
		err = errors.Join(err, mux.Close())
		if err != nil {
			_ = os.Remove(output)
		}
	}()

	p, err := pipeline.New(pipeline.Config{
		Demuxer:    d,
		Codecs:     mediaflow.DefaultCodecs(),
		Encoder:    params,
		Sink:       mux,
		QueueDepth: opts.queue,
		Logger:     a.log,
	})
	if err != nil {
		return err
	}

	stats, err := p.Run(ctx)
	if err != nil {
		return err
	}
	a.log.Info("done",
		"output", output,
		"params", params.String(),
		"packets", stats.PacketsWritten,
		"samples", stats.Samples,
	)
	return nil
}
