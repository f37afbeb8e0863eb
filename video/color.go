// SPDX-License-Identifier: EPL-2.0

package video

import "github.com/ik5/mediaflow/media"

// BT.601 limited range: Y in [16,235], Cb and Cr in [16,240].
const (
	yScale = 219.0 / 255.0
	cScale = 224.0 / 255.0
)

func rgbToY(r, g, b float64) float64 {
	return 16 + yScale*(0.299*r+0.587*g+0.114*b)
}

func rgbToUV(r, g, b float64) (u, v float64) {
	u = 128 + cScale*(-0.168736*r-0.331264*g+0.5*b)
	v = 128 + cScale*(0.5*r-0.418688*g-0.081312*b)
	return u, v
}

func yuvToRGB(y, u, v byte) (r, g, b byte) {
	c := (float64(y) - 16) / yScale
	d := (float64(u) - 128) / cScale
	e := (float64(v) - 128) / cScale
	return clamp8(c + 1.402*e), clamp8(c - 0.344136*d - 0.714136*e), clamp8(c + 1.772*d)
}

// toRGBA writes the w×h image in f to out as tightly packed RGBA.
func toRGBA(out []byte, f *media.Frame) {
	w, h := f.Width, f.Height
	for y := range h {
		o := out[y*w*4:]
		switch f.PixelFormat {
		case media.PixFmtRGBA:
			copy(o[:w*4], f.Data[0][y*f.Linesize[0]:])
		case media.PixFmtRGB24:
			row := f.Data[0][y*f.Linesize[0]:]
			for x := range w {
				o[4*x], o[4*x+1], o[4*x+2], o[4*x+3] = row[3*x], row[3*x+1], row[3*x+2], 255
			}
		case media.PixFmtGray8:
			row := f.Data[0][y*f.Linesize[0]:]
			for x := range w {
				o[4*x], o[4*x+1], o[4*x+2], o[4*x+3] = row[x], row[x], row[x], 255
			}
		case media.PixFmtYUV420P:
			yr := f.Data[0][y*f.Linesize[0]:]
			ur := f.Data[1][(y/2)*f.Linesize[1]:]
			vr := f.Data[2][(y/2)*f.Linesize[2]:]
			for x := range w {
				r, g, b := yuvToRGB(yr[x], ur[x/2], vr[x/2])
				o[4*x], o[4*x+1], o[4*x+2], o[4*x+3] = r, g, b, 255
			}
		}
	}
}

// fromRGBA writes the tightly packed w×h RGBA image in in to f.
func fromRGBA(f *media.Frame, in []byte) {
	w, h := f.Width, f.Height
	for y := range h {
		row := in[y*w*4:]
		switch f.PixelFormat {
		case media.PixFmtRGBA:
			copy(f.Data[0][y*f.Linesize[0]:], row[:w*4])
		case media.PixFmtRGB24:
			o := f.Data[0][y*f.Linesize[0]:]
			for x := range w {
				o[3*x], o[3*x+1], o[3*x+2] = row[4*x], row[4*x+1], row[4*x+2]
			}
		case media.PixFmtGray8:
			o := f.Data[0][y*f.Linesize[0]:]
			for x := range w {
				r, g, b := float64(row[4*x]), float64(row[4*x+1]), float64(row[4*x+2])
				o[x] = clamp8(0.299*r + 0.587*g + 0.114*b)
			}
		case media.PixFmtYUV420P:
			o := f.Data[0][y*f.Linesize[0]:]
			for x := range w {
				o[x] = clamp8(rgbToY(float64(row[4*x]), float64(row[4*x+1]), float64(row[4*x+2])))
			}
		}
	}
	if f.PixelFormat == media.PixFmtYUV420P {
		chromaFromRGBA(f, in)
	}
}

// chromaFromRGBA averages each 2×2 block, clipped at odd edges, into one
// Cb and Cr sample.
func chromaFromRGBA(f *media.Frame, in []byte) {
	w, h := f.Width, f.Height
	for cy := range (h + 1) / 2 {
		for cx := range (w + 1) / 2 {
			var r, g, b, n float64
			for y := 2 * cy; y < min(2*cy+2, h); y++ {
				for x := 2 * cx; x < min(2*cx+2, w); x++ {
					p := in[(y*w+x)*4:]
					r += float64(p[0])
					g += float64(p[1])
					b += float64(p[2])
					n++
				}
			}
			u, v := rgbToUV(r/n, g/n, b/n)
			f.Data[1][cy*f.Linesize[1]+cx] = clamp8(u)
			f.Data[2][cy*f.Linesize[2]+cx] = clamp8(v)
		}
	}
}
