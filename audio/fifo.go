// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"

	"github.com/ik5/mediaflow/media"
)

// SampleFifo is a growable ring buffer of audio samples in one fixed sample
// format. It keeps one buffer per plane (one for packed formats), grows to
// exactly the size needed when a write would overflow, and never shrinks.
//
// SampleFifo is not safe for concurrent use.
type SampleFifo struct {
	format    media.SampleFormat
	channels  int
	blockSize int // bytes per sample in one plane

	planes   [][]byte
	capacity int
	size     int
	head     int

	grows  int
	closed bool
}

// NewSampleFifo allocates a FIFO holding capacity samples per channel.
// A zero capacity is valid; the first write allocates.
func NewSampleFifo(format media.SampleFormat, channels, capacity int) (*SampleFifo, error) {
	if !format.Valid() {
		return nil, media.Invalidf("fifo sample format %s", format)
	}
	if channels < 1 || channels > media.MaxChannels {
		return nil, media.Invalidf("fifo channel count %d", channels)
	}
	if capacity < 0 {
		return nil, media.Invalidf("fifo capacity %d", capacity)
	}

	nplanes, block := 1, format.BytesPerSample()*channels
	if format.IsPlanar() {
		nplanes, block = channels, format.BytesPerSample()
	}

	f := &SampleFifo{
		format:    format,
		channels:  channels,
		blockSize: block,
		planes:    make([][]byte, nplanes),
		capacity:  capacity,
	}
	for i := range f.planes {
		f.planes[i] = make([]byte, capacity*block)
	}
	return f, nil
}

func (f *SampleFifo) Format() media.SampleFormat { return f.format }
func (f *SampleFifo) Channels() int              { return f.channels }

// Size is the number of samples available for reading.
func (f *SampleFifo) Size() int { return f.size }

// Space is the number of samples that can be written without growing.
func (f *SampleFifo) Space() int { return f.capacity - f.size }

// Capacity is Size()+Space().
func (f *SampleFifo) Capacity() int { return f.capacity }

// Grows reports how many reallocations the FIFO has performed.
func (f *SampleFifo) Grows() int { return f.grows }

// Realloc grows the FIFO to hold nbSamples. Smaller values are ignored.
func (f *SampleFifo) Realloc(nbSamples int) error {
	if f.closed {
		return ErrClosed
	}
	if nbSamples <= f.capacity {
		return nil
	}

	for i, old := range f.planes {
		grown := make([]byte, nbSamples*f.blockSize)
		f.copyOutAt(old, grown, 0, f.size)
		f.planes[i] = grown
	}
	f.head = 0
	f.capacity = nbSamples
	f.grows++
	return nil
}

// Write appends nbSamples from data, growing the buffer to exactly
// Size()+nbSamples first when Space() is too small.
func (f *SampleFifo) Write(data [][]byte, nbSamples int) (int, error) {
	if f.closed {
		return 0, ErrClosed
	}
	if nbSamples < 0 {
		return 0, ErrNegativeSamples
	}
	if err := f.checkPlanes(data, nbSamples); err != nil {
		return 0, err
	}
	if nbSamples == 0 {
		return 0, nil
	}

	if f.Space() < nbSamples {
		if err := f.Realloc(f.size + nbSamples); err != nil {
			return 0, err
		}
	}

	tail := (f.head + f.size) % f.capacity
	first := min(nbSamples, f.capacity-tail)
	for i, p := range f.planes {
		src := data[i]
		copy(p[tail*f.blockSize:], src[:first*f.blockSize])
		copy(p, src[first*f.blockSize:nbSamples*f.blockSize])
	}
	f.size += nbSamples
	return nbSamples, nil
}

// Peek copies up to nbSamples from the front without consuming them.
func (f *SampleFifo) Peek(dst [][]byte, nbSamples int) (int, error) {
	return f.PeekAt(dst, nbSamples, 0)
}

// PeekAt copies up to nbSamples starting offset samples past the front.
func (f *SampleFifo) PeekAt(dst [][]byte, nbSamples, offset int) (int, error) {
	if f.closed {
		return 0, ErrClosed
	}
	if nbSamples < 0 {
		return 0, ErrNegativeSamples
	}
	if offset < 0 || offset > f.size {
		return 0, fmt.Errorf("%w: offset %d, size %d", ErrOffsetRange, offset, f.size)
	}

	n := min(nbSamples, f.size-offset)
	if err := f.checkPlanes(dst, n); err != nil {
		return 0, err
	}
	for i, p := range f.planes {
		f.copyOutAt(p, dst[i], offset, n)
	}
	return n, nil
}

// Read copies up to nbSamples from the front and consumes them. Reading
// n <= Size() samples always returns exactly n.
func (f *SampleFifo) Read(dst [][]byte, nbSamples int) (int, error) {
	n, err := f.Peek(dst, nbSamples)
	if err != nil {
		return 0, err
	}
	f.consume(n)
	return n, nil
}

// Drain discards up to nbSamples from the front.
func (f *SampleFifo) Drain(nbSamples int) error {
	if f.closed {
		return ErrClosed
	}
	if nbSamples < 0 {
		return ErrNegativeSamples
	}
	f.consume(min(nbSamples, f.size))
	return nil
}

// Reset empties the FIFO and keeps its capacity.
func (f *SampleFifo) Reset() {
	f.size = 0
	f.head = 0
}

// Close releases the buffers. It is safe to call more than once.
func (f *SampleFifo) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	f.planes = nil
	f.capacity, f.size, f.head = 0, 0, 0
	return nil
}

func (f *SampleFifo) consume(n int) {
	if n == 0 {
		return
	}
	f.head = (f.head + n) % f.capacity
	f.size -= n
	if f.size == 0 {
		f.head = 0
	}
}

func (f *SampleFifo) checkPlanes(data [][]byte, nbSamples int) error {
	if len(data) < len(f.planes) {
		return fmt.Errorf("%w: %d planes, fifo needs %d", media.ErrBufferOverrun, len(data), len(f.planes))
	}
	need := nbSamples * f.blockSize
	for i := range f.planes {
		if len(data[i]) < need {
			return fmt.Errorf("%w: plane %d holds %d bytes, need %d", media.ErrBufferOverrun, i, len(data[i]), need)
		}
	}
	return nil
}

// copyOutAt copies n samples starting offset past head into dst, unwrapping
// the ring.
func (f *SampleFifo) copyOutAt(plane, dst []byte, offset, n int) {
	if n == 0 {
		return
	}
	start := (f.head + offset) % f.capacity
	first := min(n, f.capacity-start)
	copy(dst, plane[start*f.blockSize:(start+first)*f.blockSize])
	copy(dst[first*f.blockSize:], plane[:(n-first)*f.blockSize])
}
