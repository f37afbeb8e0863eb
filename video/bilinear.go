// SPDX-License-Identifier: EPL-2.0

package video

// plane is a view of one image plane with comps interleaved components per
// pixel.
type plane struct {
	data   []byte
	stride int
	w, h   int
	comps  int
}

// scalePlane resizes src into dst with bilinear interpolation. Output
// pixel x samples the source at x*src.w/dst.w.
func scalePlane(dst, src plane) {
	if dst.w == src.w && dst.h == src.h {
		copyPlane(dst, src)
		return
	}

	xRatio := float64(src.w) / float64(dst.w)
	yRatio := float64(src.h) / float64(dst.h)

	for y := range dst.h {
		sy := float64(y) * yRatio
		y1 := int(sy)
		y2 := min(y1+1, src.h-1)
		fy := sy - float64(y1)

		row1 := src.data[y1*src.stride:]
		row2 := src.data[y2*src.stride:]
		out := dst.data[y*dst.stride:]

		for x := range dst.w {
			sx := float64(x) * xRatio
			x1 := int(sx)
			x2 := min(x1+1, src.w-1)
			fx := sx - float64(x1)

			for c := range src.comps {
				p11 := float64(row1[x1*src.comps+c])
				p12 := float64(row1[x2*src.comps+c])
				p21 := float64(row2[x1*src.comps+c])
				p22 := float64(row2[x2*src.comps+c])

				top := p11*(1-fx) + p12*fx
				bottom := p21*(1-fx) + p22*fx
				out[x*dst.comps+c] = clamp8(top*(1-fy) + bottom*fy)
			}
		}
	}
}

func copyPlane(dst, src plane) {
	n := src.w * src.comps
	for y := range src.h {
		copy(dst.data[y*dst.stride:y*dst.stride+n], src.data[y*src.stride:])
	}
}

// clamp8 rounds v to the nearest byte value.
func clamp8(v float64) byte {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return byte(v + 0.5)
	}
}
