// Package detector locates label regions in kitchen photos. Detection is
// best-effort: implementations never fail and never return an empty set,
// falling back to a single region covering the whole image so downstream
// stages always have something to work on.
package detector

import (
	"context"
	"image"
	"log/slog"
	"time"

	"github.com/Raincor5/kitchen-system/internal/utils"
)

// FallbackClass is the class label assigned to the whole-image fallback
// region.
const FallbackClass = "label"

// Detection is a single predicted label region. Coordinates are pixels in
// the source image, center-based; boxes may extend past the image bounds
// and are clamped at crop time.
type Detection struct {
	CenterX    float64 `json:"x"`
	CenterY    float64 `json:"y"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Confidence float64 `json:"confidence"`
	Class      string  `json:"class"`
}

// Box returns the detection as an axis-aligned box.
func (d Detection) Box() utils.Box {
	return utils.NewBoxFromCenter(d.CenterX, d.CenterY, d.Width, d.Height)
}

// Detector finds label regions in an image.
type Detector interface {
	// Detect returns at least one detection. It never fails; any backend
	// problem degrades to the full-image fallback region.
	Detect(ctx context.Context, img image.Image) []Detection
}

// Config holds detector backend settings. The remote backend is used only
// when all four connection fields are set.
type Config struct {
	Endpoint string
	APIKey   string
	Project  string
	Version  string
	Timeout  time.Duration
	TempDir  string
}

// DefaultConfig returns detector defaults (no remote backend).
func DefaultConfig() Config {
	return Config{Timeout: 30 * time.Second}
}

// RemoteConfigured reports whether the remote backend is fully specified.
func (c Config) RemoteConfigured() bool {
	return c.Endpoint != "" && c.APIKey != "" && c.Project != "" && c.Version != ""
}

// FullImageDetection builds the fallback region spanning the entire image.
func FullImageDetection(img image.Image) Detection {
	b := img.Bounds()
	w := float64(b.Dx())
	h := float64(b.Dy())
	return Detection{
		CenterX:    w / 2,
		CenterY:    h / 2,
		Width:      w,
		Height:     h,
		Confidence: 1.0,
		Class:      FallbackClass,
	}
}

// NullDetector always reports the full-image fallback region. It serves
// deployments without a detection backend.
type NullDetector struct{}

// Detect implements Detector.
func (NullDetector) Detect(_ context.Context, img image.Image) []Detection {
	return []Detection{FullImageDetection(img)}
}

// NewFromConfig builds a detector for the given configuration: the remote
// backend when fully configured, otherwise the null detector.
func NewFromConfig(cfg Config, logger *slog.Logger) Detector {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.RemoteConfigured() {
		return NewRemoteDetector(cfg, logger)
	}
	logger.Info("detection backend not configured, using full-image fallback")
	return NullDetector{}
}
