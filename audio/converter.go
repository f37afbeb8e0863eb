// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"

	"github.com/ik5/mediaflow/media"
	"github.com/ik5/mediaflow/utils"
)

// ConverterConfig describes both ends of a Converter.
type ConverterConfig struct {
	SrcFormat media.SampleFormat
	SrcLayout media.ChannelLayout
	SrcRate   int

	DstFormat media.SampleFormat
	DstLayout media.ChannelLayout
	DstRate   int
}

func (c ConverterConfig) validate() error {
	switch {
	case !c.SrcFormat.Valid() || !c.DstFormat.Valid():
		return media.Invalidf("converter formats %s -> %s", c.SrcFormat, c.DstFormat)
	case c.SrcLayout == 0 || c.DstLayout == 0:
		return media.Invalidf("converter layouts %s -> %s", c.SrcLayout, c.DstLayout)
	case c.SrcRate < 1 || c.DstRate < 1:
		return media.Invalidf("converter rates %d -> %d", c.SrcRate, c.DstRate)
	}
	return nil
}

// Converter changes sample format, channel layout and sample rate of a
// stream of samples.
//
// Rate conversion uses Catmull-Rom cubic interpolation and needs two samples
// of lookahead, so output trails input until Finish is called. Samples that
// do not fit the destination stay buffered; Pending reports how many, and
// calling Convert with a nil source emits them.
//
// Converter is not safe for concurrent use.
type Converter struct {
	cfg    ConverterConfig
	srcCh  int
	dstCh  int
	mixer  *Mixer
	srcNum int64 // reduced rate ratio srcNum/dstNum
	dstNum int64

	// hist holds remixed input per destination channel; hist[c][0] is
	// input sample number base.
	hist     [][]float64
	base     int64
	produced int64
	finished bool

	in    [][]float64
	mixed [][]float64
	out   [][]float64
}

// NewConverter validates cfg and prepares a Converter.
func NewConverter(cfg ConverterConfig) (*Converter, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	mixer, err := NewMixer(cfg.SrcLayout, cfg.DstLayout)
	if err != nil {
		return nil, err
	}

	g := gcd(int64(cfg.SrcRate), int64(cfg.DstRate))
	c := &Converter{
		cfg:    cfg,
		srcCh:  cfg.SrcLayout.Channels(),
		dstCh:  cfg.DstLayout.Channels(),
		mixer:  mixer,
		srcNum: int64(cfg.SrcRate) / g,
		dstNum: int64(cfg.DstRate) / g,
	}
	c.hist = make([][]float64, c.dstCh)
	c.in = make([][]float64, c.srcCh)
	c.mixed = make([][]float64, c.dstCh)
	c.out = make([][]float64, c.dstCh)
	return c, nil
}

func (c *Converter) Config() ConverterConfig { return c.cfg }

// Convert feeds nbSrc samples from src and writes at most dstCap converted
// samples to dst, returning how many were written. A nil src only drains
// buffered output.
func (c *Converter) Convert(dst [][]byte, dstCap int, src [][]byte, nbSrc int) (int, error) {
	if dstCap < 0 || nbSrc < 0 {
		return 0, ErrNegativeSamples
	}
	if src != nil && nbSrc > 0 {
		if c.finished {
			return 0, ErrFinished
		}
		if err := checkBuffer(src, c.cfg.SrcFormat, c.srcCh, nbSrc); err != nil {
			return 0, fmt.Errorf("source: %w", err)
		}
		c.push(src, nbSrc)
	}

	n := min(dstCap, c.Pending())
	if n == 0 {
		return 0, nil
	}
	if err := checkBuffer(dst, c.cfg.DstFormat, c.dstCh, n); err != nil {
		return 0, fmt.Errorf("destination: %w", err)
	}

	c.render(n)
	pack(dst, c.out, c.cfg.DstFormat, c.dstCh, 0, n)
	c.compact()
	return n, nil
}

// Pending is the number of output samples that can be produced from input
// already consumed.
func (c *Converter) Pending() int {
	last := c.lastUsable()
	if last < 0 {
		return 0
	}
	// Outputs k land on input floor(k*srcNum/dstNum); count those <= last.
	until := ((last+1)*c.dstNum + c.srcNum - 1) / c.srcNum
	if until <= c.produced {
		return 0
	}
	return int(until - c.produced)
}

// Finish marks end of input. Buffered samples held back for lookahead
// become available and the last input sample is repeated past the end.
func (c *Converter) Finish() { c.finished = true }

// Finished reports whether Finish was called.
func (c *Converter) Finished() bool { return c.finished }

// Reset drops all buffered samples and clears the finished state.
func (c *Converter) Reset() {
	for i := range c.hist {
		c.hist[i] = c.hist[i][:0]
	}
	c.base, c.produced, c.finished = 0, 0, false
}

// lastUsable is the highest absolute input index an output may sit on.
func (c *Converter) lastUsable() int64 {
	total := c.base + int64(len(c.hist[0]))
	if c.finished || c.srcNum == c.dstNum {
		return total - 1
	}
	return total - 3
}

func (c *Converter) push(src [][]byte, n int) {
	for ch := range c.in {
		c.in[ch] = grow(c.in[ch], n)
	}
	unpack(c.in, src, c.cfg.SrcFormat, c.srcCh, 0, n)

	for ch := range c.mixed {
		c.mixed[ch] = grow(c.mixed[ch], n)
	}
	c.mixer.Mix(c.mixed, c.in, n)

	for ch := range c.hist {
		c.hist[ch] = append(c.hist[ch], c.mixed[ch][:n]...)
	}
}

func (c *Converter) render(n int) {
	for ch := range c.out {
		c.out[ch] = grow(c.out[ch], n)
	}

	if c.srcNum == c.dstNum {
		off := int(c.produced - c.base)
		for ch, h := range c.hist {
			copy(c.out[ch], h[off:off+n])
		}
		c.produced += int64(n)
		return
	}

	total := c.base + int64(len(c.hist[0]))
	at := func(h []float64, i int64) float64 {
		i = max(0, min(i, total-1))
		return h[i-c.base]
	}

	for k := range n {
		num := (c.produced + int64(k)) * c.srcNum
		i := num / c.dstNum
		x := float64(num%c.dstNum) / float64(c.dstNum)
		for ch, h := range c.hist {
			c.out[ch][k] = utils.CubicInterpolate(at(h, i-1), at(h, i), at(h, i+1), at(h, i+2), x)
		}
	}
	c.produced += int64(n)
}

// compact drops history no future output can reach.
func (c *Converter) compact() {
	next := c.produced * c.srcNum / c.dstNum
	keep := next - 1
	if keep <= c.base {
		return
	}
	drop := int(min(keep-c.base, int64(len(c.hist[0]))))
	for ch, h := range c.hist {
		c.hist[ch] = h[:copy(h, h[drop:])]
	}
	c.base += int64(drop)
}

func checkBuffer(planes [][]byte, format media.SampleFormat, channels, n int) error {
	want, size := 1, format.BytesPerSample()*channels*n
	if format.IsPlanar() {
		want, size = channels, format.BytesPerSample()*n
	}
	if len(planes) < want {
		return fmt.Errorf("%w: %d planes, need %d", media.ErrBufferOverrun, len(planes), want)
	}
	for i := range want {
		if len(planes[i]) < size {
			return fmt.Errorf("%w: plane %d holds %d bytes, need %d", media.ErrBufferOverrun, i, len(planes[i]), size)
		}
	}
	return nil
}

func grow(s []float64, n int) []float64 {
	if cap(s) < n {
		return make([]float64, n)
	}
	return s[:n]
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
