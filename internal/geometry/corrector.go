// Package geometry estimates and removes label skew using the printed
// colored border as a reference line.
package geometry

import (
	"image"
	"log/slog"
	"math"

	"github.com/Raincor5/kitchen-system/internal/utils"
)

// Config holds tuning parameters for skew estimation.
type Config struct {
	// Hue window (degrees, 0-360) selecting the border color.
	LowerHue float64
	UpperHue float64
	// Minimum saturation and value (0-1) for a pixel to count as border.
	MinSaturation float64
	MinValue      float64
	// Gaussian blur radius applied to the mask before edge detection.
	BlurRadius float64
	// Edge magnitude threshold (0-255) for the binary edge map.
	EdgeThreshold uint8
	// Hough parameters for segment extraction.
	HoughVoteThreshold int
	HoughMinLineLength int
	HoughMaxLineGap    int
	// Segments steeper than this are ignored as non-horizontal.
	MaxSkewDegrees float64
}

// DefaultConfig returns parameters tuned for the printed blue label border.
func DefaultConfig() Config {
	return Config{
		LowerHue:           180,
		UpperHue:           260,
		MinSaturation:      0.2,
		MinValue:           0.2,
		BlurRadius:         1.4,
		EdgeThreshold:      80,
		HoughVoteThreshold: 50,
		HoughMinLineLength: 50,
		HoughMaxLineGap:    10,
		MaxSkewDegrees:     30,
	}
}

// Validate checks configuration sanity.
func (c Config) Validate() error {
	if c.LowerHue < 0 || c.UpperHue > 360 || c.LowerHue >= c.UpperHue {
		return utils.NewImageProcessingError("config", errHueRange)
	}
	if c.MaxSkewDegrees <= 0 || c.MaxSkewDegrees >= 90 {
		return utils.NewImageProcessingError("config", errSkewRange)
	}
	return nil
}

// Result holds a deskewed image and the rotation that was removed.
type Result struct {
	Image                image.Image
	RotationAngleDegrees float64
}

// Corrector performs reference-line based skew correction.
type Corrector struct {
	cfg    Config
	logger *slog.Logger
}

// NewCorrector builds a corrector with the given configuration.
func NewCorrector(cfg Config, logger *slog.Logger) (*Corrector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Corrector{cfg: cfg, logger: logger.With("component", "geometry")}, nil
}

// Correct estimates skew from the first near-horizontal border segment and
// returns a deskewed copy of region. When no reference segment is found the
// input is returned unchanged with angle zero. The returned image is always
// an independent buffer.
func (c *Corrector) Correct(region image.Image) (Result, error) {
	if !utils.ValidImage(region) {
		return Result{}, utils.NewImageProcessingError("correct", errEmptyRegion)
	}

	edges := c.edgeMap(region)
	segments := houghSegments(edges, c.cfg.HoughVoteThreshold, c.cfg.HoughMinLineLength, c.cfg.HoughMaxLineGap)

	seg, ok := firstReferenceSegment(segments, c.cfg.MaxSkewDegrees)
	if !ok {
		c.logger.Debug("no reference segment found, skipping correction",
			"segments", len(segments))
		return Result{Image: utils.CloneImage(region), RotationAngleDegrees: 0}, nil
	}

	angle := seg.AngleDegrees()
	c.logger.Debug("estimated skew", "angle_degrees", angle,
		"segment_length", seg.Length())

	m, err := deskewTransform(seg)
	if err != nil {
		// Degenerate segment geometry; leave the region as-is.
		c.logger.Warn("degenerate reference segment", "error", err)
		return Result{Image: utils.CloneImage(region), RotationAngleDegrees: 0}, nil
	}

	warped := warpAffine(region, m)
	return Result{Image: warped, RotationAngleDegrees: angle}, nil
}

// firstReferenceSegment returns the first segment whose inclination is
// within maxSkew degrees of horizontal.
func firstReferenceSegment(segments []Segment, maxSkew float64) (Segment, bool) {
	for _, s := range segments {
		if math.Abs(s.AngleDegrees()) < maxSkew {
			return s, true
		}
	}
	return Segment{}, false
}
