// SPDX-License-Identifier: EPL-2.0

// Package mp3 demuxes MP3 files using github.com/hajimehoshi/go-mp3.
//
// go-mp3 decodes while reading, so the packets of the returned demuxer are
// already PCM:
//   - codec: pcm_s16le
//   - channels: 2 (mono files are duplicated by go-mp3)
//   - sample rate: that of the file, typically 44.1kHz or 48kHz
//
// To get mono or another rate, feed the decoded frames to an audio.Engine:
//
//	d, err := mp3.Format{}.Open(f)
//	if err != nil {
//	    return err
//	}
//	defer d.Close()
//	dec, err := codecs.NewDecodeSession(d.Parameters(), codec.SessionConfig{})
//
// A seekable input lets go-mp3 compute the stream length up front; other
// readers are decoded as they arrive.
package mp3
