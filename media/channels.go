// SPDX-License-Identifier: EPL-2.0

package media

import (
	"math/bits"
	"strconv"
)

// ChannelLayout is a bit mask of speaker positions. Bit order follows the
// conventional WAVE_FORMAT_EXTENSIBLE channel mask, which is also the order in
// which channels are interleaved.
type ChannelLayout uint64

const (
	ChFrontLeft ChannelLayout = 1 << iota
	ChFrontRight
	ChFrontCenter
	ChLowFrequency
	ChBackLeft
	ChBackRight
	ChFrontLeftOfCenter
	ChFrontRightOfCenter
	ChBackCenter
	ChSideLeft
	ChSideRight
	ChTopCenter
)

const (
	LayoutMono        = ChFrontCenter
	LayoutStereo      = ChFrontLeft | ChFrontRight
	Layout2Point1     = LayoutStereo | ChLowFrequency
	LayoutSurround    = LayoutStereo | ChFrontCenter
	Layout4Point0     = LayoutSurround | ChBackCenter
	LayoutQuad        = LayoutStereo | ChBackLeft | ChBackRight
	Layout5Point0     = LayoutSurround | ChSideLeft | ChSideRight
	Layout5Point0Back = LayoutSurround | ChBackLeft | ChBackRight
	Layout5Point1     = Layout5Point0 | ChLowFrequency
	Layout5Point1Back = Layout5Point0Back | ChLowFrequency
	Layout6Point1     = Layout5Point1 | ChBackCenter
	Layout7Point1     = Layout5Point1 | ChBackLeft | ChBackRight
)

// MaxChannels is the widest layout a 64-bit mask can describe.
const MaxChannels = 64

var defaultLayouts = [...]ChannelLayout{
	1: LayoutMono,
	2: LayoutStereo,
	3: LayoutSurround,
	4: Layout4Point0,
	5: Layout5Point0Back,
	6: Layout5Point1Back,
	7: Layout6Point1,
	8: Layout7Point1,
}

// DefaultChannelLayout returns the canonical layout for a channel count.
// Counts without a named layout get the lowest n position bits.
func DefaultChannelLayout(channels int) (ChannelLayout, error) {
	if channels < 1 || channels > MaxChannels {
		return 0, Invalidf("cannot derive a layout for %d channels", channels)
	}
	if channels < len(defaultLayouts) {
		return defaultLayouts[channels], nil
	}
	if channels == MaxChannels {
		return ^ChannelLayout(0), nil
	}
	return ChannelLayout(1)<<channels - 1, nil
}

// Channels returns the number of positions set in the layout.
func (l ChannelLayout) Channels() int { return bits.OnesCount64(uint64(l)) }

// Has reports whether every position of ch is present in l.
func (l ChannelLayout) Has(ch ChannelLayout) bool { return ch != 0 && l&ch == ch }

// Index returns the interleave index of the single position ch, or -1.
func (l ChannelLayout) Index(ch ChannelLayout) int {
	if !l.Has(ch) || bits.OnesCount64(uint64(ch)) != 1 {
		return -1
	}
	return bits.OnesCount64(uint64(l & (ch - 1)))
}

// Positions lists the single-bit positions in interleave order.
func (l ChannelLayout) Positions() []ChannelLayout {
	out := make([]ChannelLayout, 0, l.Channels())
	for m := uint64(l); m != 0; m &= m - 1 {
		out = append(out, ChannelLayout(m&-m))
	}
	return out
}

var layoutNames = map[ChannelLayout]string{
	LayoutMono:        "mono",
	LayoutStereo:      "stereo",
	Layout2Point1:     "2.1",
	LayoutSurround:    "3.0",
	Layout4Point0:     "4.0",
	LayoutQuad:        "quad",
	Layout5Point0:     "5.0(side)",
	Layout5Point0Back: "5.0",
	Layout5Point1:     "5.1(side)",
	Layout5Point1Back: "5.1",
	Layout6Point1:     "6.1",
	Layout7Point1:     "7.1",
}

func (l ChannelLayout) String() string {
	if l == 0 {
		return "unset"
	}
	if n, ok := layoutNames[l]; ok {
		return n
	}
	return "0x" + strconv.FormatUint(uint64(l), 16)
}
