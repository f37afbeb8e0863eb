// SPDX-License-Identifier: EPL-2.0

package main

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// app holds what every subcommand shares.
type app struct {
	verbose bool
	log     *log.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "mediaflow",
		Short: "Inspect, transcode and play audio files",
		Long: `mediaflow reads WAV, AIFF, MP3 and Ogg Vorbis files.

It can print stream information, convert a file to WAV at another sample
format, channel count or rate, and play a file on the default output device.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			a.log = newLogger(cmd.ErrOrStderr(), a.verbose)
		},
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "V", false, "enable debug logging")

	root.AddCommand(
		newInfoCmd(a),
		newTranscodeCmd(a),
		newPlayCmd(a),
	)
	return root
}

func newLogger(w io.Writer, verbose bool) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "mediaflow",
	})
	if verbose {
		l.SetLevel(log.DebugLevel)
	}
	return l
}
