package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Raincor5/kitchen-system/internal/labelparse"
)

// parseCmd represents the parse command.
var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse raw label text into structured fields",
	Long: `Parse already-extracted label text into structured fields without
running detection or OCR. Reads from the given file, or from stdin when
no file is provided.

Examples:
  labelproc parse label.txt
  cat label.txt | labelproc parse
  labelproc parse label.txt --format json --products products.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	var data []byte
	var err error
	if len(args) == 1 {
		data, err = os.ReadFile(args[0]) //nolint:gosec // user-provided label text file
		if err != nil {
			return fmt.Errorf("failed to read input file: %w", err)
		}
	} else {
		data, err = io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
	}

	products, err := readNamesFile(cmd, "products")
	if err != nil {
		return err
	}
	employees, err := readNamesFile(cmd, "employees")
	if err != nil {
		return err
	}

	text := string(data)
	parsed := labelparse.Parse(text, products, employees)

	format, _ := cmd.Flags().GetString("format")
	out := cmd.OutOrStdout()

	if format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(parsed)
	}

	printParsed(out, parsed)
	return nil
}

func printParsed(out io.Writer, parsed labelparse.ParsedLabel) {
	_, _ = fmt.Fprintf(out, "Product:    %s\n", parsed.ProductName)
	_, _ = fmt.Fprintf(out, "RTE status: %s\n", parsed.RTEStatus)
	_, _ = fmt.Fprintf(out, "Employee:   %s\n", parsed.EmployeeName)
	_, _ = fmt.Fprintf(out, "Label type: %s\n", parsed.LabelType)
	_, _ = fmt.Fprintf(out, "Dates:      %s\n", strings.Join(parsed.Dates, "; "))
	_, _ = fmt.Fprintf(out, "Batch no:   %s\n", parsed.BatchNo)
	_, _ = fmt.Fprintf(out, "Expiry day: %s\n", parsed.ExpiryDay)
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringP("format", "f", "text", "output format (text, json)")
	parseCmd.Flags().String("products", "", "file with product names, one per line")
	parseCmd.Flags().String("employees", "", "file with employee names, one per line")
}
