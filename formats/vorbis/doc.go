// SPDX-License-Identifier: EPL-2.0

// Package vorbis demuxes Ogg Vorbis files using github.com/jfreymuth/oggvorbis.
//
// oggvorbis decodes while reading, so the demuxer hands out interleaved
// pcm_f32le packets at the stream's own rate and channel count:
//
//	d, err := vorbis.Format{PacketSamples: 2048}.Open(f)
//	if err != nil {
//	    return err
//	}
//	defer d.Close()
//	for {
//	    pkt, err := d.ReadPacket()
//	    if err == io.EOF {
//	        break
//	    }
//	    ...
//	}
package vorbis
