package utils

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
)

// LoadImage loads an image from file, supporting JPEG, PNG, GIF and BMP.
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path) //nolint:gosec // caller-provided path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to open image file %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, NewImageProcessingError("decode", fmt.Errorf("%s: %w", path, err))
	}
	return img, nil
}

// DecodeImageBytes decodes an in-memory encoded image.
func DecodeImageBytes(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, NewImageProcessingError("decode", err)
	}
	return img, nil
}

// EncodeJPEG encodes img as JPEG with the given quality (1-100).
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	if quality <= 0 || quality > 100 {
		quality = 90
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, NewImageProcessingError("encode", err)
	}
	return buf.Bytes(), nil
}

// SaveImage writes img to path; the format is inferred from the extension.
func SaveImage(img image.Image, path string) error {
	if err := imaging.Save(img, path); err != nil {
		return NewImageProcessingError("save", fmt.Errorf("%s: %w", path, err))
	}
	return nil
}
