package recognizer

import (
	"context"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNullRecognizer(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	assert.Equal(t, "", NullRecognizer{}.Recognize(context.Background(), img))
}

func TestNewFromConfig(t *testing.T) {
	tests := []struct {
		name   string
		engine string
		want   any
	}{
		{"tesseract engine", EngineTesseract, &TesseractRecognizer{}},
		{"disabled", EngineNone, NullRecognizer{}},
		{"unknown engine falls back to null", "whisper", NullRecognizer{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Engine = tt.engine
			assert.IsType(t, tt.want, NewFromConfig(cfg, nil))
		})
	}
}

func TestTesseractRecognizer_ShortCircuits(t *testing.T) {
	r := NewTesseractRecognizer(DefaultConfig(), nil)

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
		assert.Equal(t, "", r.Recognize(ctx, img))
	})

	t.Run("nil image", func(t *testing.T) {
		assert.Equal(t, "", r.Recognize(context.Background(), nil))
	})

	t.Run("empty image", func(t *testing.T) {
		img := image.NewNRGBA(image.Rect(0, 0, 0, 0))
		assert.Equal(t, "", r.Recognize(context.Background(), img))
	})
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, EngineTesseract, cfg.Engine)
	assert.Equal(t, "eng", cfg.Language)
}
