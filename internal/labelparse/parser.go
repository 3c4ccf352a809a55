// Package labelparse extracts structured fields from raw label OCR text
// using heuristics and fuzzy vocabulary matching.
package labelparse

import (
	"regexp"
	"strings"
	"time"
)

// Label type classification values.
const (
	LabelTypeNormal    = "Normal"
	LabelTypeDefrosted = "Defrosted"
)

// NotAvailable marks fields that could not be extracted.
const NotAvailable = "N/A"

// MatchCutoff is the minimum fuzzy similarity for a vocabulary match.
const MatchCutoff = 0.6

var (
	// Date, optionally followed by a time and a trailing qualifier
	// such as "EOD".
	dateRe = regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{2}(?:\s+\d{2}:\d{2})?(?:\s+[A-Za-z.\s]+)?`)

	batchRe = regexp.MustCompile(`(?i)(Batch No[:\s]*)([^\n]+)`)
)

// ParsedLabel holds the structured fields extracted from label text.
type ParsedLabel struct {
	ProductName  string   `json:"product_name"`
	RTEStatus    string   `json:"rte_status"`
	EmployeeName string   `json:"employee_name"`
	LabelType    string   `json:"label_type"`
	Dates        []string `json:"dates"`
	BatchNo      string   `json:"batch_no"`
	ExpiryDay    string   `json:"expiry_day"`
}

// Parse extracts label fields from raw OCR text. Product and employee names
// are resolved against the supplied vocabularies by fuzzy match; unmatched
// fields are left empty rather than guessed. Parse never fails: ill-formed
// input simply yields fewer populated fields.
func Parse(text string, products, employees []string) ParsedLabel {
	lines := splitLines(text)

	product, rte := extractProduct(lines, products)

	labelType := LabelTypeNormal
	for _, line := range lines {
		if strings.Contains(strings.ToUpper(line), "DEFROST") {
			labelType = LabelTypeDefrosted
			break
		}
	}

	employee := ""
	for _, line := range lines {
		if m := closestMatch(line, employees, MatchCutoff); m != "" {
			employee = m
			break
		}
	}

	dates := extractDates(lines)

	return ParsedLabel{
		ProductName:  product,
		RTEStatus:    rte,
		EmployeeName: employee,
		LabelType:    labelType,
		Dates:        dates,
		BatchNo:      extractBatchNumber(lines),
		ExpiryDay:    expiryWeekday(dates),
	}
}

func splitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}

// extractProduct scans lines in order and returns the first fuzzy product
// match. RTE status is taken from the same line the product matched on.
func extractProduct(lines, products []string) (string, string) {
	for _, line := range lines {
		if m := closestMatch(line, products, MatchCutoff); m != "" {
			rte := ""
			if strings.Contains(line, "RTE") {
				rte = "RTE"
			}
			return m, rte
		}
	}
	return "", ""
}

// extractDates collects date expressions in document order, preserving any
// attached time and qualifier text.
func extractDates(lines []string) []string {
	var dates []string
	for _, line := range lines {
		for _, m := range dateRe.FindAllString(line, -1) {
			dates = append(dates, strings.TrimSpace(m))
		}
	}
	return dates
}

func extractBatchNumber(lines []string) string {
	for _, line := range lines {
		m := batchRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		batch := strings.TrimSpace(m[2])
		if len(batch) < 2 {
			return NotAvailable
		}
		return batch
	}
	return NotAvailable
}

// expiryWeekday derives the weekday of the last extracted date, which by
// label convention is the expiry date.
func expiryWeekday(dates []string) string {
	if len(dates) == 0 {
		return NotAvailable
	}
	fields := strings.Fields(dates[len(dates)-1])
	if len(fields) == 0 {
		return NotAvailable
	}
	t, err := time.Parse("2/1/06", fields[0])
	if err != nil {
		return NotAvailable
	}
	return strings.ToUpper(t.Weekday().String())
}
