// SPDX-License-Identifier: EPL-2.0

package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/ik5/mediaflow"
	"github.com/ik5/mediaflow/formats"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	keyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
)

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info <file>...",
		Short: "Print stream information",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range args {
				if err := a.info(cmd.OutOrStdout(), name); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func (a *app) info(w io.Writer, name string) error {
	d, err := mediaflow.OpenFile(name, a.log)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	defer d.Close()

	packets, samples, err := count(d)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	p := d.Parameters()
	duration := time.Duration(samples) * time.Second / time.Duration(p.SampleRate)
	rows := [][2]string{
		{"codec", p.CodecName},
		{"format", p.SampleFormat.String()},
		{"rate", fmt.Sprintf("%d Hz", p.SampleRate)},
		{"channels", fmt.Sprintf("%d (%s)", p.Channels, p.ChannelLayout)},
		{"bitrate", fmt.Sprintf("%d kb/s", p.BitRate/1000)},
		{"packets", fmt.Sprint(packets)},
		{"samples", fmt.Sprint(samples)},
		{"duration", duration.Round(time.Millisecond).String()},
	}

	fmt.Fprintln(w, titleStyle.Render(name))
	for _, r := range rows {
		fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top, keyStyle.Render(r[0]), valueStyle.Render(r[1])))
	}
	return nil
}

// count reads d to the end.
func count(d formats.Demuxer) (packets int, samples int64, err error) {
	for {
		pkt, err := d.ReadPacket()
		if errors.Is(err, io.EOF) {
			return packets, samples, nil
		}
		if err != nil {
			return packets, samples, err
		}
		packets++
		samples += pkt.Duration
	}
}
