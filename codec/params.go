// SPDX-License-Identifier: EPL-2.0

package codec

import (
	"fmt"

	"github.com/ik5/mediaflow/media"
)

// Parameters describe one elementary stream.
type Parameters struct {
	CodecName string
	MediaType media.MediaType

	SampleFormat  media.SampleFormat
	ChannelLayout media.ChannelLayout
	Channels      int
	SampleRate    int
	// FrameSize is the number of samples per channel in each frame the
	// codec produces or expects. Zero means any size.
	FrameSize int

	Width       int
	Height      int
	PixelFormat media.PixelFormat

	BitRate int
}

// Validate checks the fields relevant to the media type and fills in the
// channel layout or count when only one of them is set.
func (p *Parameters) Validate() error {
	if p.CodecName == "" {
		return media.Invalidf("codec name is empty")
	}

	switch p.MediaType {
	case media.MediaTypeAudio:
		return p.validateAudio()
	case media.MediaTypeVideo:
		if p.Width < 1 || p.Height < 1 {
			return media.Invalidf("%s: frame size %dx%d", p.CodecName, p.Width, p.Height)
		}
		if !p.PixelFormat.Valid() {
			return media.Invalidf("%s: pixel format %s", p.CodecName, p.PixelFormat)
		}
		return nil
	default:
		return media.Invalidf("%s: media type %s", p.CodecName, p.MediaType)
	}
}

func (p *Parameters) validateAudio() error {
	if p.SampleRate < 1 {
		return media.Invalidf("%s: sample rate %d", p.CodecName, p.SampleRate)
	}
	if p.FrameSize < 0 {
		return media.Invalidf("%s: frame size %d", p.CodecName, p.FrameSize)
	}

	switch {
	case p.ChannelLayout == 0:
		l, err := media.DefaultChannelLayout(p.Channels)
		if err != nil {
			return fmt.Errorf("%s: %w", p.CodecName, err)
		}
		p.ChannelLayout = l
	case p.Channels == 0:
		p.Channels = p.ChannelLayout.Channels()
	case p.Channels != p.ChannelLayout.Channels():
		return media.Invalidf("%s: layout %s has %d channels, not %d",
			p.CodecName, p.ChannelLayout, p.ChannelLayout.Channels(), p.Channels)
	}
	return nil
}

func (p Parameters) String() string {
	switch p.MediaType {
	case media.MediaTypeAudio:
		return fmt.Sprintf("%s %s %dHz %s", p.CodecName, p.SampleFormat, p.SampleRate, p.ChannelLayout)
	case media.MediaTypeVideo:
		return fmt.Sprintf("%s %s %dx%d", p.CodecName, p.PixelFormat, p.Width, p.Height)
	default:
		return p.CodecName
	}
}
