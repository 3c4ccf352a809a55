package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Raincor5/kitchen-system/internal/labelparse"
	"github.com/Raincor5/kitchen-system/internal/storage"
	"github.com/Raincor5/kitchen-system/internal/utils"
	"github.com/Raincor5/kitchen-system/internal/version"
)

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Time    string `json:"time"`
}

// APIResponse is the generic success/error envelope.
type APIResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// ProcessedLabel is one detected label with its parsed fields.
type ProcessedLabel struct {
	LabelID    string                 `json:"label_id"`
	RawText    string                 `json:"raw_text"`
	Confidence float64                `json:"confidence"`
	Parsed     labelparse.ParsedLabel `json:"parsed_data"`
}

// ImageInfo describes the dimensions of an uploaded image.
type ImageInfo struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ProcessImageResponse is returned by the process-image endpoint.
type ProcessImageResponse struct {
	Success   bool             `json:"success"`
	Text      string           `json:"text"`
	Labels    []ProcessedLabel `json:"labels"`
	ImageInfo *ImageInfo       `json:"image_info,omitempty"`
	Error     string           `json:"error,omitempty"`
}

// ListLabelsResponse is returned by the label listing endpoint.
type ListLabelsResponse struct {
	Labels []storage.StoredLabel `json:"labels"`
	Count  int                   `json:"count"`
}

// PrintResponse is returned by the print endpoint.
type PrintResponse struct {
	Success   bool   `json:"success"`
	Delivered bool   `json:"delivered"`
	LabelID   string `json:"label_id"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	s.writeJSON(w, statusCode, APIResponse{Success: false, Error: message})
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Version: version.GetVersion(),
		Time:    time.Now().UTC().Format(time.RFC3339),
	})
}

// processImageHandler accepts a multipart image upload, runs the pipeline
// and parses every extracted text into structured label fields.
func (s *Server) processImageHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeErrorResponse(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes())
	if err := r.ParseMultipartForm(s.maxUploadBytes()); err != nil {
		s.writeErrorResponse(w, "Invalid multipart form or file too large", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeErrorResponse(w, "Missing 'file' upload field", http.StatusBadRequest)
		return
	}
	defer func() { _ = file.Close() }()
	uploadSizeBytes.Observe(float64(header.Size))

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeErrorResponse(w, "Failed to read upload", http.StatusBadRequest)
		return
	}

	img, err := utils.DecodeImageBytes(data)
	if err != nil {
		processRequestsTotal.WithLabelValues("invalid").Inc()
		s.writeErrorResponse(w, "Invalid image", http.StatusBadRequest)
		return
	}

	start := time.Now()
	result := s.pipeline.ProcessImage(r.Context(), img)
	processingDuration.Observe(time.Since(start).Seconds())

	if result.Error != "" {
		processRequestsTotal.WithLabelValues("error").Inc()
		status := http.StatusInternalServerError
		if result.Error == "invalid image" {
			status = http.StatusBadRequest
		}
		s.writeJSON(w, status, ProcessImageResponse{
			Success: false,
			Labels:  []ProcessedLabel{},
			Error:   result.Error,
		})
		return
	}

	products := s.vocab.Products(r.Context())
	employees := s.vocab.Employees(r.Context())

	labels := make([]ProcessedLabel, 0, len(result.AllResults))
	for _, rec := range result.AllResults {
		labels = append(labels, ProcessedLabel{
			LabelID:    rec.DetectionID,
			RawText:    rec.Text,
			Confidence: rec.Confidence,
			Parsed:     labelparse.Parse(rec.Text, products, employees),
		})
	}

	processRequestsTotal.WithLabelValues("ok").Inc()
	regionsPerImage.Observe(float64(len(labels)))
	extractedTextLength.Observe(float64(len(result.Text)))

	bounds := img.Bounds()
	s.writeJSON(w, http.StatusOK, ProcessImageResponse{
		Success:   true,
		Text:      result.Text,
		Labels:    labels,
		ImageInfo: &ImageInfo{Width: bounds.Dx(), Height: bounds.Dy()},
	})
}

// labelsHandler serves the label collection: save on POST, list on GET.
func (s *Server) labelsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.saveLabel(w, r)
	case http.MethodGet:
		s.listLabels(w, r)
	default:
		s.writeErrorResponse(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) saveLabel(w http.ResponseWriter, r *http.Request) {
	var label storage.StoredLabel
	if err := json.NewDecoder(r.Body).Decode(&label); err != nil {
		s.writeErrorResponse(w, "Invalid label payload", http.StatusBadRequest)
		return
	}
	if label.LabelID == "" {
		s.writeErrorResponse(w, "label_id is required", http.StatusBadRequest)
		return
	}
	if label.Timestamp.IsZero() {
		label.Timestamp = time.Now().UTC()
	}

	if err := s.store.Save(r.Context(), label); err != nil {
		s.logger.Error("failed to save label", "label_id", label.LabelID, "error", err)
		s.writeErrorResponse(w, "Failed to save label", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, http.StatusOK, APIResponse{Success: true})
}

func (s *Server) listLabels(w http.ResponseWriter, r *http.Request) {
	labels, err := s.store.List(r.Context())
	if err != nil {
		s.logger.Error("failed to list labels", "error", err)
		s.writeErrorResponse(w, "Failed to list labels", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, http.StatusOK, ListLabelsResponse{Labels: labels, Count: len(labels)})
}

// labelByIDHandler serves /labels/{id} and /labels/{id}/print.
func (s *Server) labelByIDHandler(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/labels/")
	if rest == "" {
		s.writeErrorResponse(w, "Label id missing", http.StatusBadRequest)
		return
	}

	if id, ok := strings.CutSuffix(rest, "/print"); ok {
		s.printLabel(w, r, id)
		return
	}
	if strings.Contains(rest, "/") {
		s.writeErrorResponse(w, "Not found", http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.getLabel(w, r, rest)
	case http.MethodDelete:
		s.deleteLabel(w, r, rest)
	default:
		s.writeErrorResponse(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) getLabel(w http.ResponseWriter, r *http.Request, id string) {
	label, ok, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.logger.Error("failed to load label", "label_id", id, "error", err)
		s.writeErrorResponse(w, "Failed to load label", http.StatusInternalServerError)
		return
	}
	if !ok {
		s.writeErrorResponse(w, "Label not found", http.StatusNotFound)
		return
	}
	s.writeJSON(w, http.StatusOK, label)
}

func (s *Server) deleteLabel(w http.ResponseWriter, r *http.Request, id string) {
	deleted, err := s.store.Delete(r.Context(), id)
	if err != nil {
		s.logger.Error("failed to delete label", "label_id", id, "error", err)
		s.writeErrorResponse(w, "Failed to delete label", http.StatusInternalServerError)
		return
	}
	if !deleted {
		s.writeErrorResponse(w, "Label not found", http.StatusNotFound)
		return
	}
	s.writeJSON(w, http.StatusOK, APIResponse{Success: true})
}

func (s *Server) printLabel(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		s.writeErrorResponse(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.printer == nil {
		s.writeErrorResponse(w, "Printing not configured", http.StatusServiceUnavailable)
		return
	}

	label, ok, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.logger.Error("failed to load label for printing", "label_id", id, "error", err)
		s.writeErrorResponse(w, "Failed to load label", http.StatusInternalServerError)
		return
	}
	if !ok {
		s.writeErrorResponse(w, "Label not found", http.StatusNotFound)
		return
	}

	delivered := s.printer.PrintText(r.Context(), label.RawText)
	s.writeJSON(w, http.StatusOK, PrintResponse{
		Success:   true,
		Delivered: delivered,
		LabelID:   id,
	})
}
