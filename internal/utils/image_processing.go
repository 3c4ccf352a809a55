package utils

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// ImageProcessingError provides context about which operation failed.
type ImageProcessingError struct {
	Operation string
	Err       error
}

func (e *ImageProcessingError) Error() string {
	return fmt.Sprintf("image processing failed during %s: %v", e.Operation, e.Err)
}

func (e *ImageProcessingError) Unwrap() error {
	return e.Err
}

// NewImageProcessingError creates a new processing error with context.
func NewImageProcessingError(operation string, err error) *ImageProcessingError {
	return &ImageProcessingError{Operation: operation, Err: err}
}

// CropImageBox extracts the sub-image covered by box, clamped to the
// image bounds. The result is always a copy, never a view of the source.
// A box with no area inside the image yields an empty image.
func CropImageBox(img image.Image, box Box) *image.NRGBA {
	rect := box.ToRect(img.Bounds())
	if rect.Dx() == 0 || rect.Dy() == 0 {
		return imaging.New(0, 0, color.Transparent)
	}
	return imaging.Crop(img, rect)
}

// CloneImage returns an independent NRGBA copy of img.
func CloneImage(img image.Image) *image.NRGBA {
	return imaging.Clone(img)
}

// ValidImage reports whether img is usable for processing.
func ValidImage(img image.Image) bool {
	if img == nil {
		return false
	}
	b := img.Bounds()
	return b.Dx() > 0 && b.Dy() > 0
}
