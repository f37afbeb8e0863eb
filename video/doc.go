// SPDX-License-Identifier: EPL-2.0

// Package video converts video frames between sizes and pixel formats.
//
// A Scaler converts to one fixed output format and size. Its source
// geometry is taken from the first frame it sees; every later frame must
// have the same width, height and pixel format:
//
//	s, err := video.NewScaler(video.ScaleConfig{
//	    Format: media.PixFmtYUV420P,
//	    Width:  640,
//	    Height: 360,
//	})
//	if err != nil {
//	    return err
//	}
//	out, err := s.Scale(frame)
//
// Sizes are changed with bilinear interpolation. Frames of the same format
// are scaled plane by plane; format changes go through an RGBA
// intermediate using BT.601 limited-range coefficients for YUV. When source
// and output match exactly the pixels are copied unchanged.
package video
