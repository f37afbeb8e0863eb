// SPDX-License-Identifier: EPL-2.0

package media

import "slices"

// MediaType tells audio frames from video frames.
type MediaType int

const (
	MediaTypeUnknown MediaType = iota
	MediaTypeAudio
	MediaTypeVideo
)

func (t MediaType) String() string {
	switch t {
	case MediaTypeAudio:
		return "audio"
	case MediaTypeVideo:
		return "video"
	default:
		return "unknown"
	}
}

// SideDataType names auxiliary per-frame metadata.
type SideDataType int

const (
	// SideDataA53CC carries ATSC A/53 closed caption bytes.
	SideDataA53CC SideDataType = iota + 1
	// SideDataSEI carries a raw H.264/H.265 SEI payload.
	SideDataSEI
	// SideDataReplayGain carries replay gain values for audio.
	SideDataReplayGain
)

// SideData is one piece of auxiliary metadata attached to a frame.
type SideData struct {
	Type SideDataType
	Data []byte
}

// Frame is one decoded unit of audio or video. It owns its buffers.
type Frame struct {
	Type MediaType

	SampleFormat  SampleFormat
	ChannelLayout ChannelLayout
	Channels      int
	SampleRate    int
	NbSamples     int

	Width       int
	Height      int
	PixelFormat PixelFormat

	// PTS is in sample units for audio produced by this module; decoders
	// pass through whatever the packet carried.
	PTS int64

	Data     [][]byte
	Linesize []int
	SideData []SideData

	// HWResident marks a frame whose pixels live in device memory.
	HWResident bool
}

// NewAudioFrame allocates a zeroed audio frame.
func NewAudioFrame(format SampleFormat, layout ChannelLayout, nbSamples, sampleRate int) (*Frame, error) {
	if !format.Valid() {
		return nil, Invalidf("sample format %s", format)
	}
	if layout == 0 {
		return nil, Invalidf("channel layout is unset")
	}
	if nbSamples < 0 || sampleRate < 0 {
		return nil, Invalidf("nb_samples=%d sample_rate=%d", nbSamples, sampleRate)
	}

	f := &Frame{
		Type:          MediaTypeAudio,
		SampleFormat:  format,
		ChannelLayout: layout,
		Channels:      layout.Channels(),
		SampleRate:    sampleRate,
	}
	f.ResizeAudio(nbSamples)
	return f, nil
}

// ResizeAudio sets NbSamples and sizes the planes to match, reusing the
// existing storage when it is large enough.
func (f *Frame) ResizeAudio(nbSamples int) {
	planes, linesize := 1, nbSamples*f.SampleFormat.BytesPerSample()*f.Channels
	if f.SampleFormat.IsPlanar() {
		planes, linesize = f.Channels, nbSamples*f.SampleFormat.BytesPerSample()
	}
	if len(f.Data) != planes {
		f.Data = make([][]byte, planes)
		f.Linesize = make([]int, planes)
	}
	for i := range f.Data {
		if cap(f.Data[i]) < linesize {
			f.Data[i] = make([]byte, linesize)
		}
		f.Data[i] = f.Data[i][:linesize]
		f.Linesize[i] = linesize
	}
	f.NbSamples = nbSamples
}

// NewVideoFrame allocates a zeroed video frame with tightly packed lines.
func NewVideoFrame(width, height int, format PixelFormat) (*Frame, error) {
	if !format.Valid() {
		return nil, Invalidf("pixel format %s", format)
	}
	if width < 1 || height < 1 {
		return nil, Invalidf("frame size %dx%d", width, height)
	}

	f := &Frame{
		Type:        MediaTypeVideo,
		Width:       width,
		Height:      height,
		PixelFormat: format,
		Data:        make([][]byte, format.Planes()),
		Linesize:    make([]int, format.Planes()),
	}
	for i := range f.Data {
		ls, rows := format.PlaneSize(i, width, height)
		f.Data[i] = make([]byte, ls*rows)
		f.Linesize[i] = ls
	}
	return f, nil
}

func (f *Frame) IsAudio() bool { return f.Type == MediaTypeAudio }
func (f *Frame) IsVideo() bool { return f.Type == MediaTypeVideo }

// Planes returns the number of data planes the frame format requires.
func (f *Frame) Planes() int {
	switch f.Type {
	case MediaTypeAudio:
		if f.SampleFormat.IsPlanar() {
			return f.Channels
		}
		return 1
	case MediaTypeVideo:
		return f.PixelFormat.Planes()
	default:
		return 0
	}
}

// AudioBytes returns the number of valid bytes in each audio plane.
func (f *Frame) AudioBytes() int {
	n := f.NbSamples * f.SampleFormat.BytesPerSample()
	if !f.SampleFormat.IsPlanar() {
		n *= f.Channels
	}
	return n
}

// SideDataOf returns the first side data entry of type t.
func (f *Frame) SideDataOf(t SideDataType) (SideData, bool) {
	for _, sd := range f.SideData {
		if sd.Type == t {
			return sd, true
		}
	}
	return SideData{}, false
}

// RemoveSideData drops every entry for which drop returns true and reports
// how many were removed.
func (f *Frame) RemoveSideData(drop func(SideData) bool) int {
	before := len(f.SideData)
	f.SideData = slices.DeleteFunc(f.SideData, drop)
	return before - len(f.SideData)
}

// Clone returns a deep copy of f.
func (f *Frame) Clone() *Frame {
	c := *f
	c.Data = make([][]byte, len(f.Data))
	for i, p := range f.Data {
		c.Data[i] = slices.Clone(p)
	}
	c.Linesize = slices.Clone(f.Linesize)
	if f.SideData != nil {
		c.SideData = make([]SideData, len(f.SideData))
		for i, sd := range f.SideData {
			c.SideData[i] = SideData{Type: sd.Type, Data: slices.Clone(sd.Data)}
		}
	}
	return &c
}

// Unref releases the buffers. The frame metadata is kept.
func (f *Frame) Unref() {
	f.Data = nil
	f.Linesize = nil
	f.SideData = nil
	f.NbSamples = 0
}
