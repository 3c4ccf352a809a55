package geometry

import (
	"errors"
	"image"
	"math"

	"github.com/disintegration/imaging"
)

var errDegenerateSegment = errors.New("reference points are collinear")

// affine is a 2x3 transform mapping (x, y) to (a*x+b*y+c, d*x+e*y+f).
type affine struct {
	a, b, c float64
	d, e, f float64
}

func (m affine) apply(x, y float64) (float64, float64) {
	return m.a*x + m.b*y + m.c, m.d*x + m.e*y + m.f
}

func (m affine) invert() (affine, error) {
	det := m.a*m.e - m.b*m.d
	if math.Abs(det) < 1e-12 {
		return affine{}, errDegenerateSegment
	}
	return affine{
		a: m.e / det,
		b: -m.b / det,
		c: (m.b*m.f - m.c*m.e) / det,
		d: -m.d / det,
		e: m.a / det,
		f: (m.c*m.d - m.a*m.f) / det,
	}, nil
}

// solveAffine computes the transform mapping the three src points onto the
// three dst points.
func solveAffine(src, dst [3][2]float64) (affine, error) {
	// Cramer's rule on [[x1,y1,1],[x2,y2,1],[x3,y3,1]].
	x1, y1 := src[0][0], src[0][1]
	x2, y2 := src[1][0], src[1][1]
	x3, y3 := src[2][0], src[2][1]

	det := x1*(y2-y3) - y1*(x2-x3) + (x2*y3 - x3*y2)
	if math.Abs(det) < 1e-12 {
		return affine{}, errDegenerateSegment
	}

	solveRow := func(r1, r2, r3 float64) (float64, float64, float64) {
		da := r1*(y2-y3) - y1*(r2-r3) + (r2*y3 - r3*y2)
		db := x1*(r2-r3) - r1*(x2-x3) + (x2*r3 - x3*r2)
		dc := x1*(y2*r3-y3*r2) - y1*(x2*r3-x3*r2) + r1*(x2*y3-x3*y2)
		return da / det, db / det, dc / det
	}

	m := affine{}
	m.a, m.b, m.c = solveRow(dst[0][0], dst[1][0], dst[2][0])
	m.d, m.e, m.f = solveRow(dst[0][1], dst[1][1], dst[2][1])
	return m, nil
}

// deskewTransform builds the affine transform that maps the reference
// segment onto the horizontal line through its left endpoint. A third
// point offset vertically from the left endpoint pins the vertical scale.
func deskewTransform(seg Segment) (affine, error) {
	const anchorOffset = 10
	src := [3][2]float64{
		{seg.X1, seg.Y1},
		{seg.X2, seg.Y2},
		{seg.X1, seg.Y1 + anchorOffset},
	}
	dst := [3][2]float64{
		{seg.X1, seg.Y1},
		{seg.X2, seg.Y1},
		{seg.X1, seg.Y1 + anchorOffset},
	}
	return solveAffine(src, dst)
}

// warpAffine applies m to img via inverse mapping with bicubic sampling.
// The output canvas matches the input dimensions; samples outside the
// source replicate the nearest edge pixel.
func warpAffine(img image.Image, m affine) *image.NRGBA {
	src := imaging.Clone(img)
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))

	inv, err := m.invert()
	if err != nil {
		copy(dst.Pix, src.Pix)
		return dst
	}

	for y := range h {
		for x := range w {
			sx, sy := inv.apply(float64(x), float64(y))
			r, g, bl, a := sampleBicubic(src, sx, sy)
			i := dst.PixOffset(x, y)
			dst.Pix[i] = r
			dst.Pix[i+1] = g
			dst.Pix[i+2] = bl
			dst.Pix[i+3] = a
		}
	}
	return dst
}

// cubicWeight is the Catmull-Rom kernel (a = -0.5).
func cubicWeight(t float64) float64 {
	t = math.Abs(t)
	switch {
	case t <= 1:
		return 1.5*t*t*t - 2.5*t*t + 1
	case t < 2:
		return -0.5*t*t*t + 2.5*t*t - 4*t + 2
	default:
		return 0
	}
}

func clampByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}

// sampleBicubic samples src at floating-point coordinates using a 4x4
// Catmull-Rom kernel with edge replication.
func sampleBicubic(src *image.NRGBA, x, y float64) (uint8, uint8, uint8, uint8) {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()

	x0 := int(math.Floor(x))
	y0 := int(math.Floor(y))
	fx := x - float64(x0)
	fy := y - float64(y0)

	var sum [4]float64
	var wsum float64
	for j := -1; j <= 2; j++ {
		wy := cubicWeight(float64(j) - fy)
		if wy == 0 {
			continue
		}
		py := clampInt(y0+j, 0, h-1)
		for i := -1; i <= 2; i++ {
			wx := cubicWeight(float64(i) - fx)
			if wx == 0 {
				continue
			}
			px := clampInt(x0+i, 0, w-1)
			wgt := wx * wy
			o := src.PixOffset(px, py)
			sum[0] += wgt * float64(src.Pix[o])
			sum[1] += wgt * float64(src.Pix[o+1])
			sum[2] += wgt * float64(src.Pix[o+2])
			sum[3] += wgt * float64(src.Pix[o+3])
			wsum += wgt
		}
	}
	if wsum == 0 {
		return 0, 0, 0, 255
	}
	return clampByte(sum[0] / wsum), clampByte(sum[1] / wsum),
		clampByte(sum[2] / wsum), clampByte(sum[3] / wsum)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
