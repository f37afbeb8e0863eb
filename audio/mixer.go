// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"math"

	"github.com/ik5/mediaflow/media"
)

const foldGain = math.Sqrt2 / 2

// Mixer remaps channels between two layouts with a fixed gain matrix.
//
// Identical layouts pass through. A mono source is copied to the centre
// speaker, or to both front speakers when the target has no centre. A mono
// target averages every non-LFE source channel. Anything else keeps the
// positions both layouts share and folds the rest into the nearest present
// speakers at -3 dB, dropping LFE when the target has none.
type Mixer struct {
	src, dst media.ChannelLayout
	matrix   [][]float64 // [dst][src]
	identity bool
}

// NewMixer builds the matrix for src to dst.
func NewMixer(src, dst media.ChannelLayout) (*Mixer, error) {
	if src == 0 || dst == 0 {
		return nil, media.Invalidf("mixer layouts %s -> %s", src, dst)
	}

	m := &Mixer{src: src, dst: dst, identity: src == dst}
	if m.identity {
		return m, nil
	}

	srcPos, dstPos := src.Positions(), dst.Positions()
	m.matrix = make([][]float64, len(dstPos))
	for i := range m.matrix {
		m.matrix[i] = make([]float64, len(srcPos))
	}

	switch {
	case len(srcPos) == 1:
		m.fanOut()
	case len(dstPos) == 1:
		m.average(srcPos)
	default:
		for si, pos := range srcPos {
			m.route(si, pos)
		}
		m.normalize()
	}
	return m, nil
}

// Identity reports whether Mix is a plain copy.
func (m *Mixer) Identity() bool { return m.identity }

// Mix writes n remixed samples per channel from in to out.
func (m *Mixer) Mix(out, in [][]float64, n int) {
	if m.identity {
		for ch := range out {
			copy(out[ch][:n], in[ch][:n])
		}
		return
	}

	for d, row := range m.matrix {
		o := out[d][:n]
		clear(o)
		for s, g := range row {
			if g == 0 {
				continue
			}
			for i, v := range in[s][:n] {
				o[i] += v * g
			}
		}
	}
}

func (m *Mixer) fanOut() {
	if i := m.dst.Index(media.ChFrontCenter); i >= 0 {
		m.matrix[i][0] = 1
		return
	}
	if m.dst.Has(media.LayoutStereo) {
		m.matrix[m.dst.Index(media.ChFrontLeft)][0] = 1
		m.matrix[m.dst.Index(media.ChFrontRight)][0] = 1
		return
	}
	for i := range m.matrix {
		m.matrix[i][0] = 1
	}
}

func (m *Mixer) average(srcPos []media.ChannelLayout) {
	var n int
	for _, p := range srcPos {
		if p != media.ChLowFrequency {
			n++
		}
	}
	if n == 0 {
		n = len(srcPos)
	}
	for si, p := range srcPos {
		if p == media.ChLowFrequency && n != len(srcPos) {
			continue
		}
		m.matrix[0][si] = 1 / float64(n)
	}
}

// fallbacks lists, per source position, the speaker pairs to fold into
// when the target lacks that position. The first pair fully present wins.
var fallbacks = map[media.ChannelLayout][][2]media.ChannelLayout{
	media.ChFrontCenter: {
		{media.ChFrontLeft, media.ChFrontRight},
	},
	media.ChFrontLeftOfCenter: {
		{media.ChFrontLeft, 0},
		{media.ChFrontCenter, 0},
	},
	media.ChFrontRightOfCenter: {
		{media.ChFrontRight, 0},
		{media.ChFrontCenter, 0},
	},
	media.ChBackLeft: {
		{media.ChSideLeft, 0},
		{media.ChFrontLeft, 0},
	},
	media.ChBackRight: {
		{media.ChSideRight, 0},
		{media.ChFrontRight, 0},
	},
	media.ChSideLeft: {
		{media.ChBackLeft, 0},
		{media.ChFrontLeft, 0},
	},
	media.ChSideRight: {
		{media.ChBackRight, 0},
		{media.ChFrontRight, 0},
	},
	media.ChBackCenter: {
		{media.ChBackLeft, media.ChBackRight},
		{media.ChSideLeft, media.ChSideRight},
		{media.ChFrontLeft, media.ChFrontRight},
	},
	media.ChTopCenter: {
		{media.ChFrontCenter, 0},
		{media.ChFrontLeft, media.ChFrontRight},
	},
}

func (m *Mixer) route(si int, pos media.ChannelLayout) {
	if di := m.dst.Index(pos); di >= 0 {
		m.matrix[di][si] = 1
		return
	}
	if pos == media.ChLowFrequency {
		return
	}

	for _, pair := range fallbacks[pos] {
		a, b := m.dst.Index(pair[0]), -1
		if pair[1] != 0 {
			b = m.dst.Index(pair[1])
			if b < 0 {
				continue
			}
		}
		if a < 0 {
			continue
		}
		m.matrix[a][si] += foldGain
		if b >= 0 {
			m.matrix[b][si] += foldGain
		}
		return
	}
}

// normalize scales rows whose gains sum above unity so that a full-scale
// input on every channel cannot clip.
func (m *Mixer) normalize() {
	for _, row := range m.matrix {
		var sum float64
		for _, g := range row {
			sum += g
		}
		if sum <= 1 {
			continue
		}
		for i := range row {
			row[i] /= sum
		}
	}
}
