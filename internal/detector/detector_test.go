package detector

import (
	"context"
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFullImageDetection(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 640, 480))
	d := FullImageDetection(img)

	assert.InDelta(t, 320.0, d.CenterX, 1e-9)
	assert.InDelta(t, 240.0, d.CenterY, 1e-9)
	assert.InDelta(t, 640.0, d.Width, 1e-9)
	assert.InDelta(t, 480.0, d.Height, 1e-9)
	assert.InDelta(t, 1.0, d.Confidence, 1e-9)
	assert.Equal(t, FallbackClass, d.Class)
}

func TestDetection_Box(t *testing.T) {
	d := Detection{CenterX: 100, CenterY: 50, Width: 60, Height: 20}
	b := d.Box()
	assert.InDelta(t, 70.0, b.MinX, 1e-9)
	assert.InDelta(t, 40.0, b.MinY, 1e-9)
	assert.InDelta(t, 130.0, b.MaxX, 1e-9)
	assert.InDelta(t, 60.0, b.MaxY, 1e-9)
}

func TestNullDetector(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 100, 80))
	dets := NullDetector{}.Detect(context.Background(), img)

	require.Len(t, dets, 1)
	assert.Equal(t, FullImageDetection(img), dets[0])
}

func TestConfig_RemoteConfigured(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want bool
	}{
		{"empty", Config{}, false},
		{"missing key", Config{Endpoint: "https://x", Project: "p", Version: "1"}, false},
		{
			"complete",
			Config{Endpoint: "https://x", APIKey: "k", Project: "p", Version: "1"},
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.RemoteConfigured())
		})
	}
}

func TestNewFromConfig(t *testing.T) {
	d := NewFromConfig(Config{}, nil)
	assert.IsType(t, NullDetector{}, d)

	d = NewFromConfig(Config{
		Endpoint: "https://detect.example.com",
		APIKey:   "key",
		Project:  "labels",
		Version:  "3",
		Timeout:  time.Second,
	}, nil)
	assert.IsType(t, &RemoteDetector{}, d)
}
