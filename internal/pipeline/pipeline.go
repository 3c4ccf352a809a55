// Package pipeline orchestrates label extraction: region detection, skew
// correction and text recognition composed into a single processing run.
package pipeline

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/Raincor5/kitchen-system/internal/detector"
	"github.com/Raincor5/kitchen-system/internal/geometry"
	"github.com/Raincor5/kitchen-system/internal/recognizer"
)

// skewCorrector is the part of the geometry stage the pipeline depends on.
type skewCorrector interface {
	Correct(region image.Image) (geometry.Result, error)
}

// Config aggregates the configuration of all pipeline stages.
type Config struct {
	Detector   detector.Config
	Geometry   geometry.Config
	Recognizer recognizer.Config
}

// DefaultConfig returns a pipeline configuration with stage defaults.
func DefaultConfig() Config {
	return Config{
		Detector:   detector.DefaultConfig(),
		Geometry:   geometry.DefaultConfig(),
		Recognizer: recognizer.DefaultConfig(),
	}
}

// Pipeline runs the full label extraction flow. A pipeline holds no
// per-request state and is safe for concurrent use as long as its stage
// implementations are.
type Pipeline struct {
	cfg        Config
	detector   detector.Detector
	corrector  skewCorrector
	recognizer recognizer.Recognizer
	logger     *slog.Logger
}

// Config returns the pipeline configuration.
func (p *Pipeline) Config() Config {
	return p.cfg
}

// Builder assembles a pipeline step by step.
type Builder struct {
	cfg        Config
	detector   detector.Detector
	recognizer recognizer.Recognizer
	logger     *slog.Logger
}

// NewBuilder creates a builder seeded with default configuration.
func NewBuilder() *Builder {
	return &Builder{cfg: DefaultConfig()}
}

// WithConfig replaces the entire stage configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.cfg = cfg
	return b
}

// WithDetector injects a detector, overriding config-based construction.
func (b *Builder) WithDetector(d detector.Detector) *Builder {
	b.detector = d
	return b
}

// WithRecognizer injects a recognizer, overriding config-based construction.
func (b *Builder) WithRecognizer(r recognizer.Recognizer) *Builder {
	b.recognizer = r
	return b
}

// WithLogger sets the logger used by the pipeline and its stages.
func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

// Build validates the configuration and assembles the pipeline.
func (b *Builder) Build() (*Pipeline, error) {
	logger := b.logger
	if logger == nil {
		logger = slog.Default()
	}

	corrector, err := geometry.NewCorrector(b.cfg.Geometry, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build geometry corrector: %w", err)
	}

	det := b.detector
	if det == nil {
		det = detector.NewFromConfig(b.cfg.Detector, logger)
	}
	rec := b.recognizer
	if rec == nil {
		rec = recognizer.NewFromConfig(b.cfg.Recognizer, logger)
	}

	return &Pipeline{
		cfg:        b.cfg,
		detector:   det,
		corrector:  corrector,
		recognizer: rec,
		logger:     logger.With("component", "pipeline"),
	}, nil
}
