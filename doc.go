// SPDX-License-Identifier: EPL-2.0

// Package mediaflow is the top of a small media transcoding toolkit:
// demuxers turn files into packets, codec sessions turn packets into
// frames and back, and the audio engine converts frames between sample
// formats, channel layouts and rates in fixed-size chunks.
//
// # Packages
//
//   - avio: adapts Go streams to buffered, seekable I/O contexts
//   - formats and its subpackages: WAV, AIFF, MP3 and Ogg Vorbis demuxers,
//     a WAV muxer
//   - codec: the send/receive session state machine, with pcm and opus
//     backends
//   - audio: SampleFifo, Converter and the frame-size Engine
//   - video: the pixel format and size Scaler
//   - pipeline: a two-stage concurrent transcode
//   - playback: a beep.Streamer over a demuxed file
//
// # Quick Start
//
// ResampleToMono16 decodes a whole stream to 16-bit mono PCM:
//
//	f, _ := os.Open("audio.mp3")
//	d, err := mediaflow.DefaultFormats(nil).Open("audio.mp3", f)
//	if err != nil {
//	    return err
//	}
//	defer d.Close()
//
//	samples, rate, err := mediaflow.ResampleToMono16(d, 8000, 1024)
//
// # Building Blocks
//
// The same conversion by hand, with frames delivered as they are ready:
//
//	dec, _ := mediaflow.DefaultCodecs().NewDecodeSession(d.Parameters(), codec.SessionConfig{})
//	eng, _ := audio.NewEngine(audio.EngineConfig{
//	    Format:     media.SampleFmtS16,
//	    Channels:   1,
//	    SampleRate: 16000,
//	    FrameSize:  320,
//	})
//	for {
//	    pkt, err := d.ReadPacket()
//	    if err == io.EOF {
//	        break
//	    }
//	    for frame, err := range dec.Decode(pkt) {
//	        for out, err := range eng.Convert(frame) {
//	            // out holds exactly 320 samples
//	        }
//	    }
//	}
//
// Components are not safe for concurrent use. The pipeline package runs
// decode and encode on separate goroutines, each owning its components.
package mediaflow
