// SPDX-License-Identifier: EPL-2.0

// Package audio converts decoded audio between sample formats, channel
// layouts and sample rates, and regroups it into fixed-size frames.
//
// # Building blocks
//
//   - SampleFifo is a growable ring buffer of samples in one format.
//   - Mixer remaps channels between two layouts.
//   - Converter changes format, layout and rate, using cubic interpolation
//     for rate changes. Pending reports buffered output explicitly.
//   - Engine ties a Converter and a SampleFifo together and emits frames of
//     exactly FrameSize samples, which is what most encoders require.
//
// # Engine
//
//	eng, err := audio.NewEngine(audio.EngineConfig{
//	    Format:     media.SampleFmtS16,
//	    Channels:   1,
//	    SampleRate: 16000,
//	    FrameSize:  320,
//	})
//	if err != nil {
//	    return err
//	}
//	defer eng.Close()
//
//	for frame, err := range eng.Convert(decoded) {
//	    if err != nil {
//	        return err
//	    }
//	    // frame is reused by the next call, Clone it to keep it.
//	}
//
// At end of stream call Flush and then Remainder so that no sample held in
// the converter or the queue is lost.
//
// Samples are handled as float64 internally, normalised to [-1, 1).
// Integer formats round trip exactly when no rate or layout change applies.
package audio
