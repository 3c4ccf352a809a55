package detector

import (
	"context"
	"image"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRemoteForTest(t *testing.T, handler http.HandlerFunc) (*RemoteDetector, string) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	tempDir := t.TempDir()
	det := NewRemoteDetector(Config{
		Endpoint: srv.URL,
		APIKey:   "test-key",
		Project:  "labels",
		Version:  "1",
		Timeout:  5 * time.Second,
		TempDir:  tempDir,
	}, nil)
	return det, tempDir
}

func testImage() image.Image {
	return image.NewNRGBA(image.Rect(0, 0, 320, 240))
}

func TestRemoteDetector_Predictions(t *testing.T) {
	det, _ := newRemoteForTest(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/labels/1", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))

		require.NoError(t, r.ParseMultipartForm(10<<20))
		_, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		assert.NotZero(t, hdr.Size)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"predictions":[
			{"x":100,"y":80,"width":120,"height":60,"confidence":0.91,"class":"label"},
			{"x":250,"y":180,"width":90,"height":50,"confidence":0.72,"class":"label"}
		]}`))
	})

	dets := det.Detect(context.Background(), testImage())
	require.Len(t, dets, 2)
	assert.InDelta(t, 100.0, dets[0].CenterX, 1e-9)
	assert.InDelta(t, 0.91, dets[0].Confidence, 1e-9)
	assert.InDelta(t, 0.72, dets[1].Confidence, 1e-9)
	assert.Equal(t, "label", dets[1].Class)
}

func TestRemoteDetector_FallbackCases(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("not json"))
			},
		},
		{
			name: "zero predictions",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"predictions":[]}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			det, _ := newRemoteForTest(t, tt.handler)
			img := testImage()

			dets := det.Detect(context.Background(), img)
			require.Len(t, dets, 1)
			assert.Equal(t, FullImageDetection(img), dets[0])
		})
	}
}

func TestRemoteDetector_UnreachableEndpoint(t *testing.T) {
	det := NewRemoteDetector(Config{
		Endpoint: "http://127.0.0.1:1",
		APIKey:   "k",
		Project:  "p",
		Version:  "1",
		Timeout:  time.Second,
		TempDir:  t.TempDir(),
	}, nil)

	img := testImage()
	dets := det.Detect(context.Background(), img)
	require.Len(t, dets, 1)
	assert.Equal(t, FullImageDetection(img), dets[0])
}

func TestRemoteDetector_ArtifactCleanup(t *testing.T) {
	t.Run("after success", func(t *testing.T) {
		det, tempDir := newRemoteForTest(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"predictions":[{"x":1,"y":1,"width":2,"height":2,"confidence":0.5,"class":"label"}]}`))
		})

		det.Detect(context.Background(), testImage())
		assertDirEmpty(t, tempDir)
	})

	t.Run("after failure", func(t *testing.T) {
		det, tempDir := newRemoteForTest(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})

		det.Detect(context.Background(), testImage())
		assertDirEmpty(t, tempDir)
	})
}

func assertDirEmpty(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		t.Errorf("leftover artifact: %s", filepath.Join(dir, e.Name()))
	}
}

func TestRemoteDetector_ContextCancellation(t *testing.T) {
	det, tempDir := newRemoteForTest(t, func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{"predictions":[]}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	img := testImage()
	dets := det.Detect(ctx, img)
	require.Len(t, dets, 1)
	assert.Equal(t, FullImageDetection(img), dets[0])
	assertDirEmpty(t, tempDir)
}
