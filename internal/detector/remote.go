package detector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"

	"github.com/Raincor5/kitchen-system/internal/utils"
)

// RemoteDetector calls a hosted object-detection endpoint. The image is
// staged as a JPEG file artifact for the upload; the artifact is removed
// on every exit path.
type RemoteDetector struct {
	cfg    Config
	client *http.Client
	logger *slog.Logger
}

// NewRemoteDetector creates a detector backed by a remote inference API.
func NewRemoteDetector(cfg Config, logger *slog.Logger) *RemoteDetector {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	return &RemoteDetector{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger.With("component", "detector"),
	}
}

type remotePrediction struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Confidence float64 `json:"confidence"`
	Class      string  `json:"class"`
}

type remoteResponse struct {
	Predictions []remotePrediction `json:"predictions"`
}

// Detect implements Detector. Transport errors, bad responses and empty
// prediction sets all degrade to the full-image fallback.
func (d *RemoteDetector) Detect(ctx context.Context, img image.Image) []Detection {
	preds, err := d.infer(ctx, img)
	if err != nil {
		d.logger.Warn("remote detection failed, using full-image fallback", "error", err)
		return []Detection{FullImageDetection(img)}
	}
	if len(preds) == 0 {
		d.logger.Debug("remote detection returned no regions, using full-image fallback")
		return []Detection{FullImageDetection(img)}
	}

	detections := make([]Detection, 0, len(preds))
	for _, p := range preds {
		detections = append(detections, Detection{
			CenterX:    p.X,
			CenterY:    p.Y,
			Width:      p.Width,
			Height:     p.Height,
			Confidence: p.Confidence,
			Class:      p.Class,
		})
	}
	return detections
}

func (d *RemoteDetector) infer(ctx context.Context, img image.Image) ([]remotePrediction, error) {
	path, err := d.stageArtifact(img)
	if err != nil {
		return nil, err
	}
	defer func() {
		if rmErr := os.Remove(path); rmErr != nil {
			d.logger.Warn("failed to remove detection artifact", "path", path, "error", rmErr)
		}
	}()

	req, err := d.buildRequest(ctx, path)
	if err != nil {
		return nil, err
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("detection request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("detection endpoint returned status %d", resp.StatusCode)
	}

	var parsed remoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode detection response: %w", err)
	}
	return parsed.Predictions, nil
}

// stageArtifact writes the image as a uniquely named temporary JPEG and
// returns its path. The caller owns removal.
func (d *RemoteDetector) stageArtifact(img image.Image) (string, error) {
	data, err := utils.EncodeJPEG(img, 90)
	if err != nil {
		return "", fmt.Errorf("failed to encode detection artifact: %w", err)
	}

	f, err := os.CreateTemp(d.cfg.TempDir, "detect-*.jpg")
	if err != nil {
		return "", fmt.Errorf("failed to create detection artifact: %w", err)
	}
	path := f.Name()

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("failed to write detection artifact: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("failed to close detection artifact: %w", err)
	}
	return path, nil
}

func (d *RemoteDetector) buildRequest(ctx context.Context, path string) (*http.Request, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from os.CreateTemp above
	if err != nil {
		return nil, fmt.Errorf("failed to open detection artifact: %w", err)
	}
	defer func() { _ = f.Close() }()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "image.jpg")
	if err != nil {
		return nil, fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("failed to copy detection artifact: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize upload form: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s/%s?api_key=%s",
		d.cfg.Endpoint, d.cfg.Project, d.cfg.Version, url.QueryEscape(d.cfg.APIKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create detection request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req, nil
}
