package geometry

import (
	"errors"
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
	"github.com/lucasb-eyer/go-colorful"
)

var (
	errHueRange    = errors.New("hue window must satisfy 0 <= lower < upper <= 360")
	errSkewRange   = errors.New("max skew must be in (0, 90) degrees")
	errEmptyRegion = errors.New("empty region")
)

// colorMask produces a binary mask of pixels whose HSV values fall inside
// the configured border-color window.
func (c *Corrector) colorMask(img image.Image) *image.Gray {
	b := img.Bounds()
	mask := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			cf, ok := colorful.MakeColor(img.At(x, y))
			if !ok {
				continue
			}
			h, s, v := cf.Hsv()
			if h >= c.cfg.LowerHue && h <= c.cfg.UpperHue &&
				s >= c.cfg.MinSaturation && v >= c.cfg.MinValue {
				mask.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return mask
}

// edgeMap converts the region into a binary edge image of the border mask:
// color threshold, Gaussian smoothing, Sobel gradient, binary threshold.
func (c *Corrector) edgeMap(img image.Image) *image.Gray {
	mask := c.colorMask(img)
	smoothed := blur.Gaussian(mask, c.cfg.BlurRadius)
	grad := effect.Sobel(smoothed)

	b := grad.Bounds()
	edges := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			g := color.GrayModel.Convert(grad.At(x, y)).(color.Gray)
			if g.Y >= c.cfg.EdgeThreshold {
				edges.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return edges
}
