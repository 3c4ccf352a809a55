package pipeline

import (
	"context"
	"fmt"
	"image"

	"github.com/gofrs/uuid"

	"github.com/Raincor5/kitchen-system/internal/detector"
	"github.com/Raincor5/kitchen-system/internal/utils"
)

// DetectionRecord is the outcome of one detected region: its identifier,
// the text read from it and the originating detection.
type DetectionRecord struct {
	DetectionID string             `json:"detection_id"`
	Text        string             `json:"text"`
	Confidence  float64            `json:"confidence"`
	BBox        detector.Detection `json:"bbox"`
}

// Result is the outcome of a full processing run. Text holds the best
// candidate; AllResults lists every region that yielded text. A non-empty
// Error means the run aborted and both other fields are empty.
type Result struct {
	Text       string            `json:"text"`
	AllResults []DetectionRecord `json:"all_results"`
	Error      string            `json:"error,omitempty"`
}

func errorResult(msg string) Result {
	return Result{Text: "", AllResults: []DetectionRecord{}, Error: msg}
}

// ProcessImage runs detection, per-region skew correction and recognition
// on img. It always returns a well-formed Result; faults surface in the
// Error field rather than as panics or Go errors.
func (p *Pipeline) ProcessImage(ctx context.Context, img image.Image) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("processing run panicked", "panic", r)
			result = errorResult(fmt.Sprintf("internal error: %v", r))
		}
	}()

	if !utils.ValidImage(img) {
		return errorResult("invalid image")
	}

	runID, err := uuid.NewV4()
	if err != nil {
		return errorResult(fmt.Sprintf("failed to generate run id: %v", err))
	}

	detections := p.detector.Detect(ctx, img)
	p.logger.Debug("detection complete", "run_id", runID.String(), "regions", len(detections))

	records := make([]DetectionRecord, 0, len(detections))
	for i, det := range detections {
		if ctx.Err() != nil {
			return errorResult(ctx.Err().Error())
		}

		region := utils.CropImageBox(img, det.Box())
		if !utils.ValidImage(region) {
			p.logger.Debug("skipping degenerate region", "run_id", runID.String(), "index", i)
			continue
		}

		corrected, err := p.corrector.Correct(region)
		if err != nil {
			p.logger.Warn("skew correction failed, skipping region",
				"run_id", runID.String(), "index", i, "error", err)
			continue
		}

		text := p.recognizer.Recognize(ctx, corrected.Image)
		if text == "" {
			continue
		}

		records = append(records, DetectionRecord{
			DetectionID: fmt.Sprintf("%s_%d", runID.String(), i),
			Text:        text,
			Confidence:  det.Confidence,
			BBox:        det,
		})
	}

	return Result{Text: bestText(records), AllResults: records}
}

// bestText picks the longest extracted text; earlier records win ties.
// Longer reads correlate with fuller label coverage.
func bestText(records []DetectionRecord) string {
	best := ""
	for _, r := range records {
		if len(r.Text) > len(best) {
			best = r.Text
		}
	}
	return best
}
