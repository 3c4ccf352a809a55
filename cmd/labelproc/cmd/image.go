package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Raincor5/kitchen-system/internal/labelparse"
	"github.com/Raincor5/kitchen-system/internal/utils"
)

// imageCmd represents the image command.
var imageCmd = &cobra.Command{
	Use:   "image <file>",
	Short: "Extract and parse labels from an image file",
	Long: `Run the full processing pipeline on a single image: detect label
regions, correct skew, recognize text and parse the extracted fields.

Vocabularies for product and employee matching can be supplied as plain
text files with one name per line.

Examples:
  labelproc image photo.jpg
  labelproc image photo.jpg --format json
  labelproc image photo.jpg --products products.txt --employees staff.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runImage,
}

func runImage(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	logger := slog.Default()

	img, err := utils.LoadImage(args[0])
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}

	products, err := readNamesFile(cmd, "products")
	if err != nil {
		return err
	}
	employees, err := readNamesFile(cmd, "employees")
	if err != nil {
		return err
	}

	pl, err := buildPipeline(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to build pipeline: %w", err)
	}

	result := pl.ProcessImage(cmd.Context(), img)
	if result.Error != "" {
		return fmt.Errorf("processing failed: %s", result.Error)
	}

	format, _ := cmd.Flags().GetString("format")
	out := cmd.OutOrStdout()

	if format == "json" {
		type parsedRecord struct {
			DetectionID string                 `json:"detection_id"`
			RawText     string                 `json:"raw_text"`
			Confidence  float64                `json:"confidence"`
			Parsed      labelparse.ParsedLabel `json:"parsed_data"`
		}
		payload := struct {
			Text   string         `json:"text"`
			Labels []parsedRecord `json:"labels"`
		}{Text: result.Text}
		for _, rec := range result.AllResults {
			payload.Labels = append(payload.Labels, parsedRecord{
				DetectionID: rec.DetectionID,
				RawText:     rec.Text,
				Confidence:  rec.Confidence,
				Parsed:      labelparse.Parse(rec.Text, products, employees),
			})
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	}

	if len(result.AllResults) == 0 {
		_, _ = fmt.Fprintln(out, "no label text found")
		return nil
	}
	for _, rec := range result.AllResults {
		parsed := labelparse.Parse(rec.Text, products, employees)
		_, _ = fmt.Fprintf(out, "--- %s (confidence %.2f)\n", rec.DetectionID, rec.Confidence)
		printParsed(out, parsed)
	}
	return nil
}

func readNamesFile(cmd *cobra.Command, flag string) ([]string, error) {
	path, _ := cmd.Flags().GetString(flag)
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path) //nolint:gosec // user-provided vocabulary file
	if err != nil {
		return nil, fmt.Errorf("failed to read %s file: %w", flag, err)
	}
	var names []string
	for _, line := range strings.Split(string(data), "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			names = append(names, trimmed)
		}
	}
	return names, nil
}

func init() {
	rootCmd.AddCommand(imageCmd)

	imageCmd.Flags().StringP("format", "f", "text", "output format (text, json)")
	imageCmd.Flags().String("products", "", "file with product names, one per line")
	imageCmd.Flags().String("employees", "", "file with employee names, one per line")
}
