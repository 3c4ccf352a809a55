// Package recognizer extracts text from label region images. Recognition
// is best-effort: implementations never fail, reporting an empty string
// when no text can be read.
package recognizer

import (
	"context"
	"image"
	"log/slog"
)

// Supported engine names.
const (
	EngineTesseract = "tesseract"
	EngineNone      = "none"
)

// Recognizer reads text from an image region.
type Recognizer interface {
	// Recognize returns the extracted text, trimmed of surrounding
	// whitespace. An empty string means no text was read; backend
	// failures are absorbed and reported the same way.
	Recognize(ctx context.Context, img image.Image) string
}

// Config holds recognizer settings.
type Config struct {
	Engine         string
	Language       string
	TessdataPrefix string
}

// DefaultConfig returns recognizer defaults.
func DefaultConfig() Config {
	return Config{
		Engine:   EngineTesseract,
		Language: "eng",
	}
}

// NullRecognizer reads nothing. It serves deployments without an OCR
// engine and keeps tests hermetic.
type NullRecognizer struct{}

// Recognize implements Recognizer.
func (NullRecognizer) Recognize(context.Context, image.Image) string { return "" }

// NewFromConfig builds a recognizer for the given configuration.
func NewFromConfig(cfg Config, logger *slog.Logger) Recognizer {
	if logger == nil {
		logger = slog.Default()
	}
	switch cfg.Engine {
	case EngineTesseract:
		return NewTesseractRecognizer(cfg, logger)
	default:
		logger.Info("text recognition disabled", "engine", cfg.Engine)
		return NullRecognizer{}
	}
}
