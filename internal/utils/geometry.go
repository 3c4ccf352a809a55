package utils

import "image"

// Point represents a 2D point with floating-point coordinates.
type Point struct {
	X, Y float64
}

// Box is an axis-aligned rectangle in pixel coordinates.
type Box struct {
	MinX, MinY, MaxX, MaxY float64
}

// NewBox creates a box from two corner points, normalizing the order.
func NewBox(x1, y1, x2, y2 float64) Box {
	if x2 < x1 {
		x1, x2 = x2, x1
	}
	if y2 < y1 {
		y1, y2 = y2, y1
	}
	return Box{MinX: x1, MinY: y1, MaxX: x2, MaxY: y2}
}

// NewBoxFromCenter creates a box from a center point and dimensions.
// Detector predictions arrive in this form.
func NewBoxFromCenter(cx, cy, w, h float64) Box {
	return NewBox(cx-w/2, cy-h/2, cx+w/2, cy+h/2)
}

func (b Box) Width() float64  { return b.MaxX - b.MinX }
func (b Box) Height() float64 { return b.MaxY - b.MinY }

// Center returns the center point of the box.
func (b Box) Center() Point {
	return Point{X: (b.MinX + b.MaxX) / 2, Y: (b.MinY + b.MaxY) / 2}
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

// ToRect converts the box to an integer rectangle clamped to the given
// image bounds. Boxes that lie partly or wholly outside the bounds are
// clipped rather than rejected; the result may be empty.
func (b Box) ToRect(bounds image.Rectangle) image.Rectangle {
	x0 := clampInt(int(b.MinX), bounds.Min.X, bounds.Max.X)
	y0 := clampInt(int(b.MinY), bounds.Min.Y, bounds.Max.Y)
	x1 := clampInt(int(b.MaxX+0.5), bounds.Min.X, bounds.Max.X)
	y1 := clampInt(int(b.MaxY+0.5), bounds.Min.Y, bounds.Max.Y)
	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}
	return image.Rect(x0, y0, x1, y1)
}
