// SPDX-License-Identifier: EPL-2.0

// Package aiff demuxes AIFF (Audio Interchange File Format) files using
// github.com/go-audio/aiff.
//
// Format.Open returns a formats.Demuxer producing pcm_u8, pcm_s16le or
// pcm_s32le packets depending on the file's bit depth (24-bit samples are
// widened to 32). Any sample rate and channel count is accepted.
//
//	f, _ := os.Open("audio.aif")
//	d, err := aiff.Format{}.Open(f)
//	if err != nil {
//	    return err
//	}
//	defer d.Close()
//	fmt.Println(d.Parameters())
//
// Input that go-audio does not recognize fails with ErrNotAiffFile.
package aiff
