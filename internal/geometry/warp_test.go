package geometry

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolveAffine_Identity(t *testing.T) {
	pts := [3][2]float64{{0, 0}, {10, 0}, {0, 10}}
	m, err := solveAffine(pts, pts)
	require.NoError(t, err)

	x, y := m.apply(3.5, 7.25)
	assert.InDelta(t, 3.5, x, 1e-9)
	assert.InDelta(t, 7.25, y, 1e-9)
}

func TestSolveAffine_Collinear(t *testing.T) {
	src := [3][2]float64{{0, 0}, {5, 5}, {10, 10}}
	_, err := solveAffine(src, src)
	assert.Error(t, err)
}

func TestDeskewTransform_MapsSegmentHorizontal(t *testing.T) {
	seg := Segment{X1: 10, Y1: 20, X2: 110, Y2: 35}
	m, err := deskewTransform(seg)
	require.NoError(t, err)

	// Left endpoint is pinned.
	x, y := m.apply(seg.X1, seg.Y1)
	assert.InDelta(t, seg.X1, x, 1e-9)
	assert.InDelta(t, seg.Y1, y, 1e-9)

	// Right endpoint lands on the left endpoint's row.
	x, y = m.apply(seg.X2, seg.Y2)
	assert.InDelta(t, seg.X2, x, 1e-9)
	assert.InDelta(t, seg.Y1, y, 1e-9)
}

func TestAffineInvert_RoundTrip(t *testing.T) {
	m := affine{a: 0.9, b: 0.1, c: 5, d: -0.2, e: 1.1, f: -3}
	inv, err := m.invert()
	require.NoError(t, err)

	x, y := m.apply(12, 34)
	bx, by := inv.apply(x, y)
	assert.InDelta(t, 12.0, bx, 1e-9)
	assert.InDelta(t, 34.0, by, 1e-9)
}

func TestWarpAffine_IdentityPreservesPixels(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 16, 12))
	for y := range 12 {
		for x := range 16 {
			src.Set(x, y, color.NRGBA{R: uint8(x * 15), G: uint8(y * 20), B: 100, A: 255})
		}
	}

	out := warpAffine(src, affine{a: 1, e: 1})
	require.Equal(t, src.Bounds().Size(), out.Bounds().Size())
	assert.Equal(t, src.Pix, out.Pix)
}

func TestWarpAffine_OutputIsFreshBuffer(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	out := warpAffine(src, affine{a: 1, e: 1})
	out.Set(0, 0, color.NRGBA{R: 255, A: 255})
	assert.Equal(t, uint8(0), src.Pix[0])
}

func TestSegment_AngleAndLength(t *testing.T) {
	tests := []struct {
		name      string
		seg       Segment
		wantAngle float64
		wantLen   float64
	}{
		{"horizontal", Segment{0, 0, 100, 0}, 0, 100},
		{"rising", Segment{0, 0, 100, 100}, 45, 141.42},
		{"falling", Segment{0, 100, 100, 0}, -45, 141.42},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.wantAngle, tt.seg.AngleDegrees(), 0.01)
			assert.InDelta(t, tt.wantLen, tt.seg.Length(), 0.01)
		})
	}
}

func TestNormalizeSegment(t *testing.T) {
	s := normalizeSegment(100, 50, 10, 20)
	assert.InDelta(t, 10.0, s.X1, 1e-9)
	assert.InDelta(t, 20.0, s.Y1, 1e-9)
	assert.InDelta(t, 100.0, s.X2, 1e-9)
	assert.InDelta(t, 50.0, s.Y2, 1e-9)
}
