// SPDX-License-Identifier: EPL-2.0

package video

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/ik5/mediaflow/internal/logx"
	"github.com/ik5/mediaflow/media"
)

// ScaleConfig is the output of a Scaler.
type ScaleConfig struct {
	Format media.PixelFormat
	Width  int
	Height int
	Logger *log.Logger
}

// Scaler converts frames of one source geometry into the configured output.
//
// A Scaler is not safe for concurrent use.
type Scaler struct {
	cfg ScaleConfig
	log *log.Logger

	bound  bool
	srcW   int
	srcH   int
	srcFmt media.PixelFormat

	rgba   []byte
	scaled []byte
}

// NewScaler validates cfg. The source side is bound on the first frame.
func NewScaler(cfg ScaleConfig) (*Scaler, error) {
	if !cfg.Format.Valid() {
		return nil, media.Invalidf("scaler pixel format %s", cfg.Format)
	}
	if cfg.Width < 1 || cfg.Height < 1 {
		return nil, media.Invalidf("scaler output size %dx%d", cfg.Width, cfg.Height)
	}
	return &Scaler{cfg: cfg, log: logx.Component(cfg.Logger, "scaler")}, nil
}

func (s *Scaler) Config() ScaleConfig { return s.cfg }

// Scale converts src into a newly allocated frame.
func (s *Scaler) Scale(src *media.Frame) (*media.Frame, error) {
	dst, err := media.NewVideoFrame(s.cfg.Width, s.cfg.Height, s.cfg.Format)
	if err != nil {
		return nil, err
	}
	if err := s.ScaleInto(src, dst); err != nil {
		return nil, err
	}
	return dst, nil
}

// ScaleInto converts src into dst, which must have the configured format
// and size. A plane line shorter than the image width fails with
// media.ErrBufferOverrun.
func (s *Scaler) ScaleInto(src, dst *media.Frame) error {
	if err := s.accepts(src); err != nil {
		return err
	}
	if err := checkPlanes(src, "source"); err != nil {
		return err
	}
	if dst == nil || !dst.IsVideo() || dst.HWResident {
		return media.Unsupportedf("scaler destination is not a video frame in memory")
	}
	if dst.PixelFormat != s.cfg.Format || dst.Width != s.cfg.Width || dst.Height != s.cfg.Height {
		return media.Unsupportedf("scaler destination %dx%d %s, want %dx%d %s",
			dst.Width, dst.Height, dst.PixelFormat, s.cfg.Width, s.cfg.Height, s.cfg.Format)
	}
	if err := checkPlanes(dst, "destination"); err != nil {
		return err
	}
	s.bind(src)

	switch {
	case s.srcFmt == s.cfg.Format:
		for i := range s.cfg.Format.Planes() {
			scalePlane(planeOf(dst, i), planeOf(src, i))
		}
	default:
		s.rgba = grow(s.rgba, s.srcW*s.srcH*4)
		toRGBA(s.rgba, src)
		rgba := s.rgba
		if s.srcW != s.cfg.Width || s.srcH != s.cfg.Height {
			s.scaled = grow(s.scaled, s.cfg.Width*s.cfg.Height*4)
			scalePlane(
				plane{data: s.scaled, stride: s.cfg.Width * 4, w: s.cfg.Width, h: s.cfg.Height, comps: 4},
				plane{data: s.rgba, stride: s.srcW * 4, w: s.srcW, h: s.srcH, comps: 4},
			)
			rgba = s.scaled
		}
		fromRGBA(dst, rgba)
	}

	dst.PTS = src.PTS
	return nil
}

// accepts reports whether src can be scaled by s, without binding it.
func (s *Scaler) accepts(src *media.Frame) error {
	if src == nil {
		return media.Invalidf("scaler source frame is nil")
	}
	if !src.IsVideo() || src.HWResident {
		return media.Unsupportedf("scaler source is not a video frame in memory")
	}
	if !src.PixelFormat.Valid() || src.Width < 1 || src.Height < 1 {
		return media.Unsupportedf("scaler source %dx%d %s", src.Width, src.Height, src.PixelFormat)
	}

	if s.bound {
		if src.Width != s.srcW || src.Height != s.srcH || src.PixelFormat != s.srcFmt {
			return media.Unsupportedf("scaler bound to %dx%d %s, got %dx%d %s",
				s.srcW, s.srcH, s.srcFmt, src.Width, src.Height, src.PixelFormat)
		}
	}
	return nil
}

// bind fixes the source geometry on the first accepted frame.
func (s *Scaler) bind(src *media.Frame) {
	if s.bound {
		return
	}
	s.bound = true
	s.srcW, s.srcH, s.srcFmt = src.Width, src.Height, src.PixelFormat
	s.log.Debug("context ready", "src", sizeString(s.srcW, s.srcH, s.srcFmt),
		"dst", sizeString(s.cfg.Width, s.cfg.Height, s.cfg.Format))
}

// checkPlanes verifies every plane holds rows of at least the minimum
// line width.
func checkPlanes(f *media.Frame, side string) error {
	n := f.PixelFormat.Planes()
	if len(f.Data) < n || len(f.Linesize) < n {
		return fmt.Errorf("%w: %s frame has %d planes, want %d", media.ErrBufferOverrun, side, len(f.Data), n)
	}
	for i := range n {
		ls, rows := f.PixelFormat.PlaneSize(i, f.Width, f.Height)
		if f.Linesize[i] < ls {
			return fmt.Errorf("%w: %s plane %d linesize %d < %d", media.ErrBufferOverrun, side, i, f.Linesize[i], ls)
		}
		if need := (rows-1)*f.Linesize[i] + ls; len(f.Data[i]) < need {
			return fmt.Errorf("%w: %s plane %d holds %d bytes < %d", media.ErrBufferOverrun, side, i, len(f.Data[i]), need)
		}
	}
	return nil
}

func planeOf(f *media.Frame, i int) plane {
	ls, rows := f.PixelFormat.PlaneSize(i, f.Width, f.Height)
	w := (f.Width + 1) / 2
	comps := 1
	switch f.PixelFormat {
	case media.PixFmtRGB24:
		comps = 3
	case media.PixFmtRGBA:
		comps = 4
	}
	if f.PixelFormat != media.PixFmtYUV420P || i == 0 {
		w = ls / comps
	}
	return plane{data: f.Data[i], stride: f.Linesize[i], w: w, h: rows, comps: comps}
}

func grow(b []byte, n int) []byte {
	if cap(b) < n {
		return make([]byte, n)
	}
	return b[:n]
}

func sizeString(w, h int, f media.PixelFormat) string {
	return fmt.Sprintf("%dx%d %s", w, h, f)
}
