package testutil

import (
	"bytes"
	"image"
	"image/color"
	"image/png"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// LabelBorderBlue approximates the printed blue border color of kitchen
// labels.
var LabelBorderBlue = color.NRGBA{R: 30, G: 60, B: 200, A: 255}

// CreateLabelImage renders a synthetic kitchen label: white background,
// blue border band along the top edge, and the given text lines in a
// basic monospace face.
func CreateLabelImage(width, height int, lines []string) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		for x := range width {
			img.Set(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}

	// Border band along the top, inset like a printed frame.
	for y := 4; y < 10 && y < height; y++ {
		for x := 4; x < width-4; x++ {
			img.Set(x, y, LabelBorderBlue)
		}
	}

	face := basicfont.Face7x13
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.NRGBA{A: 255}),
		Face: face,
	}
	y := 26
	for _, line := range lines {
		drawer.Dot = fixed.P(10, y)
		drawer.DrawString(line)
		y += face.Height + 4
	}
	return img
}

// EncodePNG encodes img for use as an upload body in handler tests.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
