// SPDX-License-Identifier: EPL-2.0

// Package media defines the data model shared by every stage of the pipeline:
// decoded frames, compressed packets, sample and pixel formats, channel
// layouts, and the error taxonomy.
//
// # Frames
//
// A Frame owns its raw buffers. Audio frames carry one plane for packed
// sample formats and one plane per channel for planar formats:
//
//	f, err := media.NewAudioFrame(media.SampleFmtS16, media.LayoutStereo, 1024, 48000)
//	// f.Data[0] holds 1024*2 interleaved int16 samples (little-endian)
//
// Video frames carry one plane per image component.
//
// # Packets
//
// A Packet is one compressed unit plus timing metadata. Ownership moves from
// the demuxer to the decoder, and from the encoder to the muxer; the last
// owner calls Unref.
//
// # Errors
//
// NeedInput and EndOfStream are never errors: they are control states of the
// codec Result type. Everything else is one of the sentinels in errors.go and
// can be matched with errors.Is.
package media
