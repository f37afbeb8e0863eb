// SPDX-License-Identifier: EPL-2.0

package opus

import "github.com/ik5/mediaflow/media"

// SampleRate is the rate opus packets are decoded at.
const SampleRate = 48000

// maxPacketSamples is 120ms at 48kHz, the longest packet RFC 6716 allows.
const maxPacketSamples = 5760

// frameSamples maps a TOC configuration number to samples per frame at
// 48kHz.
var frameSamples = [32]int{
	// SILK: 10, 20, 40, 60 ms for each of NB, MB, WB.
	480, 960, 1920, 2880,
	480, 960, 1920, 2880,
	480, 960, 1920, 2880,
	// Hybrid: 10, 20 ms for SWB and FB.
	480, 960,
	480, 960,
	// CELT: 2.5, 5, 10, 20 ms for NB, WB, SWB, FB.
	120, 240, 480, 960,
	120, 240, 480, 960,
	120, 240, 480, 960,
	120, 240, 480, 960,
}

// Mode is the coding mode named by a TOC byte.
type Mode int

const (
	ModeSILK Mode = iota
	ModeHybrid
	ModeCELT
)

func (m Mode) String() string {
	switch m {
	case ModeSILK:
		return "silk"
	case ModeHybrid:
		return "hybrid"
	default:
		return "celt"
	}
}

// TOC is a decoded table-of-contents byte.
type TOC struct {
	Config int
	Stereo bool
	Code   int
}

func ParseTOC(b byte) TOC {
	return TOC{Config: int(b >> 3), Stereo: b&0x04 != 0, Code: int(b & 0x03)}
}

func (t TOC) Mode() Mode {
	switch {
	case t.Config < 12:
		return ModeSILK
	case t.Config < 16:
		return ModeHybrid
	default:
		return ModeCELT
	}
}

// FrameSamples is the per-frame sample count at 48kHz.
func (t TOC) FrameSamples() int { return frameSamples[t.Config] }

// PacketSamples returns the number of samples per channel a packet decodes
// to at 48kHz.
func PacketSamples(data []byte) (int, error) {
	if len(data) == 0 {
		return 0, media.Invalidf("empty opus packet")
	}

	toc := ParseTOC(data[0])
	frames := 1
	switch toc.Code {
	case 1, 2:
		frames = 2
	case 3:
		if len(data) < 2 {
			return 0, media.Invalidf("opus code 3 packet without frame count")
		}
		frames = int(data[1] & 0x3f)
		if frames == 0 {
			return 0, media.Invalidf("opus packet with zero frames")
		}
	}

	n := frames * toc.FrameSamples()
	if n > maxPacketSamples {
		return 0, media.Invalidf("opus packet of %d samples exceeds 120ms", n)
	}
	return n, nil
}
