// SPDX-License-Identifier: EPL-2.0

// Package audiotest generates synthetic audio frames for tests.
package audiotest

import (
	"encoding/binary"
	"math"

	"github.com/ik5/mediaflow/media"
	"github.com/ik5/mediaflow/utils"
)

// Waveform returns the normalised value of a sample on a channel.
type Waveform func(sample, channel int) float64

// Silence is an all-zero waveform.
func Silence(int, int) float64 { return 0 }

// Constant returns a waveform fixed at v.
func Constant(v float64) Waveform {
	return func(int, int) float64 { return v }
}

// Sine returns a sine of freq Hz at half scale for a stream at rate.
func Sine(rate int, freq float64) Waveform {
	return func(sample, _ int) float64 {
		return 0.5 * math.Sin(2*math.Pi*freq*float64(sample)/float64(rate))
	}
}

// Ramp returns a waveform whose value encodes sample index and channel, so
// reordering or duplication shows up in assertions. Values stay exact in
// every sample format for layouts of up to 16 channels.
func Ramp(sample, channel int) float64 {
	return float64((sample%100)-50+channel*4) / 128
}

// MockSource produces consecutive audio frames from a waveform.
type MockSource struct {
	format       media.SampleFormat
	layout       media.ChannelLayout
	sampleRate   int
	totalSamples int
	generated    int
	waveform     Waveform
}

// NewMockSource creates a source of totalSamples samples per channel.
func NewMockSource(format media.SampleFormat, layout media.ChannelLayout, sampleRate, totalSamples int, w Waveform) *MockSource {
	return &MockSource{
		format:       format,
		layout:       layout,
		sampleRate:   sampleRate,
		totalSamples: totalSamples,
		waveform:     w,
	}
}

func (m *MockSource) Remaining() int { return m.totalSamples - m.generated }

// Reset rewinds the source.
func (m *MockSource) Reset() { m.generated = 0 }

// Next returns a frame of up to n samples, or false when exhausted.
func (m *MockSource) Next(n int) (*media.Frame, bool) {
	n = min(n, m.Remaining())
	if n <= 0 {
		return nil, false
	}
	f := Frame(m.format, m.layout, m.sampleRate, m.generated, n, m.waveform)
	m.generated += n
	return f, true
}

// Frame builds an audio frame holding samples start..start+n of w.
func Frame(format media.SampleFormat, layout media.ChannelLayout, rate, start, n int, w Waveform) *media.Frame {
	f, err := media.NewAudioFrame(format, layout, n, rate)
	if err != nil {
		panic(err)
	}
	f.PTS = int64(start)

	bps := format.BytesPerSample()
	for ch := range f.Channels {
		for i := range n {
			encode(f.Data[planeOf(f, ch)][offsetOf(f, ch, i, bps):], format.Packed(), w(start+i, ch))
		}
	}
	return f
}

// Samples decodes channel ch of f.
func Samples(f *media.Frame, ch int) []float64 {
	bps := f.SampleFormat.BytesPerSample()
	out := make([]float64, f.NbSamples)
	for i := range out {
		out[i] = decode(f.Data[planeOf(f, ch)][offsetOf(f, ch, i, bps):], f.SampleFormat.Packed())
	}
	return out
}

func planeOf(f *media.Frame, ch int) int {
	if f.SampleFormat.IsPlanar() {
		return ch
	}
	return 0
}

func offsetOf(f *media.Frame, ch, i, bps int) int {
	if f.SampleFormat.IsPlanar() {
		return i * bps
	}
	return (i*f.Channels + ch) * bps
}

func encode(b []byte, format media.SampleFormat, v float64) {
	switch format {
	case media.SampleFmtU8:
		b[0] = utils.FloatToU8(v)
	case media.SampleFmtS16:
		binary.LittleEndian.PutUint16(b, uint16(utils.FloatToS16(v)))
	case media.SampleFmtS32:
		binary.LittleEndian.PutUint32(b, uint32(utils.FloatToS32(v)))
	case media.SampleFmtFLT:
		binary.LittleEndian.PutUint32(b, math.Float32bits(float32(v)))
	case media.SampleFmtDBL:
		binary.LittleEndian.PutUint64(b, math.Float64bits(v))
	}
}

func decode(b []byte, format media.SampleFormat) float64 {
	switch format {
	case media.SampleFmtU8:
		return utils.U8ToFloat(b[0])
	case media.SampleFmtS16:
		return utils.S16ToFloat(int16(binary.LittleEndian.Uint16(b)))
	case media.SampleFmtS32:
		return utils.S32ToFloat(int32(binary.LittleEndian.Uint32(b)))
	case media.SampleFmtFLT:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
	case media.SampleFmtDBL:
		return math.Float64frombits(binary.LittleEndian.Uint64(b))
	}
	return 0
}
