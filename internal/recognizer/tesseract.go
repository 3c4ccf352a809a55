package recognizer

import (
	"context"
	"image"
	"log/slog"
	"strings"
	"time"

	"github.com/otiai10/gosseract/v2"

	"github.com/Raincor5/kitchen-system/internal/utils"
)

// TesseractRecognizer runs OCR through the Tesseract engine. A fresh
// client is created per call; gosseract clients are not safe for
// concurrent use.
type TesseractRecognizer struct {
	cfg    Config
	logger *slog.Logger
}

// NewTesseractRecognizer creates a Tesseract-backed recognizer.
func NewTesseractRecognizer(cfg Config, logger *slog.Logger) *TesseractRecognizer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Language == "" {
		cfg.Language = DefaultConfig().Language
	}
	return &TesseractRecognizer{cfg: cfg, logger: logger.With("component", "recognizer")}
}

// Recognize implements Recognizer.
func (r *TesseractRecognizer) Recognize(ctx context.Context, img image.Image) string {
	if ctx.Err() != nil || !utils.ValidImage(img) {
		return ""
	}
	start := time.Now()

	data, err := utils.EncodeJPEG(img, 95)
	if err != nil {
		r.logger.Warn("failed to encode region for recognition", "error", err)
		return ""
	}

	client := gosseract.NewClient()
	defer func() { _ = client.Close() }()

	if r.cfg.TessdataPrefix != "" {
		if err := client.SetTessdataPrefix(r.cfg.TessdataPrefix); err != nil {
			r.logger.Warn("failed to set tessdata prefix", "error", err)
			return ""
		}
	}
	if err := client.SetLanguage(r.cfg.Language); err != nil {
		r.logger.Warn("failed to set recognition language",
			"language", r.cfg.Language, "error", err)
		return ""
	}
	if err := client.SetImageFromBytes(data); err != nil {
		r.logger.Warn("failed to load region into recognizer", "error", err)
		return ""
	}

	text, err := client.Text()
	if err != nil {
		r.logger.Warn("text recognition failed", "error", err)
		return ""
	}

	text = strings.TrimSpace(text)
	r.logger.Debug("recognized region text",
		"chars", len(text), "duration_ms", time.Since(start).Milliseconds())
	return text
}
