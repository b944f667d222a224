// Package keys extracts Jira issue keys from CSV exports and free-form
// text input.
package keys

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"regexp"
	"strings"
)

var (
	keyPattern       = regexp.MustCompile(`[A-Z][A-Z0-9]+-\d+`)
	strictKeyPattern = regexp.MustCompile(`^[A-Z][A-Z0-9]+-\d+$`)
)

// Known column names for issue keys in Jira CSV exports.
var csvKeyColumns = []string{"Key", "Issue key", "Issue Key", "issue_key", "key"}

// FromCSV parses a Jira CSV export and extracts issue keys. It looks for
// the standard key column names and falls back to the first column,
// filtered to values matching the issue key format.
func FromCSV(content []byte) ([]string, error) {
	reader := csv.NewReader(bytes.NewReader(content))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) < 2 {
		return nil, nil
	}

	header := records[0]
	rows := records[1:]

	for _, column := range csvKeyColumns {
		for i, cell := range header {
			if strings.TrimSpace(cell) != column {
				continue
			}
			var result []string
			for _, row := range rows {
				if i < len(row) {
					if value := strings.TrimSpace(row[i]); value != "" {
						result = append(result, value)
					}
				}
			}
			return result, nil
		}
	}

	// Fallback: first column, filtered to values that look like issue keys.
	var result []string
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		value := strings.TrimSpace(row[0])
		if strictKeyPattern.MatchString(value) {
			result = append(result, value)
		}
	}
	return result, nil
}

// FromText extracts issue keys from free-form text (newline or comma
// separated, or embedded in prose), preserving order and removing
// duplicates.
func FromText(text string) []string {
	return Dedupe(keyPattern.FindAllString(text, -1))
}

// Dedupe removes duplicate keys while preserving first-occurrence order.
func Dedupe(values []string) []string {
	var result []string
	seen := make(map[string]bool)
	for _, value := range values {
		if seen[value] {
			continue
		}
		seen[value] = true
		result = append(result, value)
	}
	return result
}
