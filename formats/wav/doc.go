// SPDX-License-Identifier: EPL-2.0

// Package wav reads and writes RIFF WAVE files with
// github.com/go-audio/wav.
//
// # Demuxing
//
// Format.Open probes the stream and returns a formats.Demuxer whose
// packets carry the PCM data:
//
//	8-bit   pcm_u8
//	16-bit  pcm_s16le
//	24-bit  pcm_s32le (samples shifted into the high bytes)
//	32-bit  pcm_s32le
//
// Non-PCM format tags fail with ErrUnsupportedWavLayout; input that is not
// a WAVE file fails with ErrNotWavFile. Seekable input is read through an
// avio.IOContext, other readers are buffered in memory.
//
// # Muxing
//
// Muxer accepts pcm_u8, pcm_s16le and pcm_s32le packets and writes the
// header on Close:
//
//	f, _ := os.Create("out.wav")
//	m, err := wav.NewMuxer(f, params, logger)
//	if err != nil {
//	    return err
//	}
//	for pkt := range packets {
//	    if err := m.WritePacket(pkt); err != nil {
//	        return err
//	    }
//	}
//	return m.Close()
//
// WriteWAV16 is a shortcut for a mono 16-bit file.
package wav
