// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/spf13/cobra"

	"github.com/ik5/mediaflow"
	"github.com/ik5/mediaflow/playback"
)

func newPlayCmd(a *app) *cobra.Command {
	var (
		rate   int
		buffer time.Duration
	)

	cmd := &cobra.Command{
		Use:   "play <file>",
		Short: "Play a file on the default output device",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.play(cmd.Context(), args[0], rate, buffer)
		},
	}
	cmd.Flags().IntVarP(&rate, "rate", "r", 0, "device sample rate, 0 uses the file's rate")
	cmd.Flags().DurationVar(&buffer, "buffer", 100*time.Millisecond, "speaker buffer length")
	return cmd
}

func (a *app) play(ctx context.Context, name string, rate int, buffer time.Duration) error {
	d, err := mediaflow.OpenFile(name, a.log)
	if err != nil {
		return err
	}

	s, err := playback.New(playback.Config{
		Demuxer:    d,
		Codecs:     mediaflow.DefaultCodecs(),
		SampleRate: rate,
		Logger:     a.log,
	})
	if err != nil {
		_ = d.Close()
		return err
	}
	defer s.Close()

	sr := s.Format().SampleRate
	if err := speaker.Init(sr, sr.N(buffer)); err != nil {
		return err
	}
	defer speaker.Close()

	a.log.Info("playing", "file", name, "params", d.Parameters().String(), "rate", int(sr))

	done := make(chan struct{})
	speaker.Play(beep.Seq(s, beep.Callback(func() { close(done) })))

	select {
	case <-done:
	case <-ctx.Done():
		speaker.Clear()
	}

	speaker.Lock()
	pos := s.Position()
	speaker.Unlock()
	a.log.Debug("stopped", "samples", pos, "played", sr.D(int(pos)).Round(time.Millisecond))
	return s.Err()
}
