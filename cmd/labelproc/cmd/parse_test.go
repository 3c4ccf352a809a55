package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Raincor5/kitchen-system/internal/labelparse"
)

const sampleLabelText = `Chicken Soup RTE
DEFROSTED
John Smith
Prep 14/03/25 09:30
Use By 15/03/25
Batch No: AB123`

func writeTempText(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "label.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func writeVocabFiles(t *testing.T) (string, string) {
	t.Helper()

	dir := t.TempDir()
	products := filepath.Join(dir, "products.txt")
	employees := filepath.Join(dir, "employees.txt")
	require.NoError(t, os.WriteFile(products, []byte("Chicken Soup\nBeef Stew\n"), 0o644))
	require.NoError(t, os.WriteFile(employees, []byte("John Smith\nJane Doe\n"), 0o644))
	return products, employees
}

func TestParseCommandTextOutput(t *testing.T) {
	path := writeTempText(t, sampleLabelText)
	products, employees := writeVocabFiles(t)

	output, err := executeCommandAndCaptureOutput(t, rootCmd,
		[]string{"parse", path, "--products", products, "--employees", employees})
	require.NoError(t, err)

	assert.Contains(t, output, "Product:    Chicken Soup")
	assert.Contains(t, output, "RTE status: RTE")
	assert.Contains(t, output, "Employee:   John Smith")
	assert.Contains(t, output, "Label type: Defrosted")
	assert.Contains(t, output, "Batch no:   AB123")
	assert.Contains(t, output, "Expiry day: SATURDAY")
}

func TestParseCommandJSONOutput(t *testing.T) {
	path := writeTempText(t, sampleLabelText)
	products, employees := writeVocabFiles(t)

	output, err := executeCommandAndCaptureOutput(t, rootCmd,
		[]string{"parse", path, "--format", "json", "--products", products, "--employees", employees})
	require.NoError(t, err)

	var parsed labelparse.ParsedLabel
	require.NoError(t, json.Unmarshal([]byte(output), &parsed))
	assert.Equal(t, "Chicken Soup", parsed.ProductName)
	assert.Equal(t, "Defrosted", parsed.LabelType)
	assert.Equal(t, "AB123", parsed.BatchNo)
	assert.Len(t, parsed.Dates, 2)
}

func TestParseCommandWithVocabulary(t *testing.T) {
	labelPath := writeTempText(t, "Chickn Soup\nJon Smith")
	productsPath := filepath.Join(t.TempDir(), "products.txt")
	require.NoError(t, os.WriteFile(productsPath, []byte("Chicken Soup\nBeef Stew\n"), 0o644))

	output, err := executeCommandAndCaptureOutput(t, rootCmd,
		[]string{"parse", labelPath, "--products", productsPath, "--format", "json"})
	require.NoError(t, err)

	var parsed labelparse.ParsedLabel
	require.NoError(t, json.Unmarshal([]byte(output), &parsed))
	assert.Equal(t, "Chicken Soup", parsed.ProductName)
}

func TestParseCommandMissingFile(t *testing.T) {
	_, err := executeCommandAndCaptureOutput(t, rootCmd,
		[]string{"parse", filepath.Join(t.TempDir(), "missing.txt")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read input file")
}
