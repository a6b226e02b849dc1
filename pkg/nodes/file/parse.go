// Package file provides the file read/write and upload node handlers.
package file

import (
	"bytes"
	"encoding/base64"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// parseContent turns raw file bytes into structured data based on the file
// name and mime type: CSV and spreadsheets become row maps, JSON is decoded,
// text passes through, and anything else is base64 passthrough.
func parseContent(filename, mimeType string, content []byte) (any, string, error) {
	kind := detectKind(filename, mimeType)

	switch kind {
	case "csv":
		rows, err := parseCSV(content)

		return rows, kind, err
	case "spreadsheet":
		rows, err := parseSpreadsheet(content)

		return rows, kind, err
	case "json":
		var decoded any
		if err := json.Unmarshal(content, &decoded); err != nil {
			return nil, kind, fmt.Errorf("invalid JSON file: %w", err)
		}

		return decoded, kind, nil
	case "text":
		return string(content), kind, nil
	default:
		return base64.StdEncoding.EncodeToString(content), "binary", nil
	}
}

func detectKind(filename, mimeType string) string {
	name := strings.ToLower(filename)

	switch {
	case strings.HasSuffix(name, ".csv") || strings.Contains(mimeType, "csv"):
		return "csv"
	case strings.HasSuffix(name, ".xlsx") || strings.HasSuffix(name, ".xls") ||
		strings.Contains(mimeType, "spreadsheet"):
		return "spreadsheet"
	case strings.HasSuffix(name, ".json") || strings.Contains(mimeType, "json"):
		return "json"
	case strings.HasPrefix(mimeType, "text/") || strings.HasSuffix(name, ".txt") ||
		strings.HasSuffix(name, ".md"):
		return "text"
	default:
		return "binary"
	}
}

// parseCSV reads the first row as the header and returns one map per record.
func parseCSV(content []byte) ([]any, error) {
	reader := csv.NewReader(bytes.NewReader(content))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("invalid CSV file: %w", err)
	}

	return rowsToMaps(records), nil
}

// parseSpreadsheet reads the first sheet of an XLSX workbook.
func parseSpreadsheet(content []byte) ([]any, error) {
	workbook, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("invalid spreadsheet file: %w", err)
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return []any{}, nil
	}

	rows, err := workbook.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	return rowsToMaps(rows), nil
}

func rowsToMaps(rows [][]string) []any {
	if len(rows) == 0 {
		return []any{}
	}

	header := rows[0]
	result := make([]any, 0, len(rows)-1)

	for _, row := range rows[1:] {
		item := make(map[string]any, len(header))

		for col, name := range header {
			if col < len(row) {
				item[name] = row[col]
			} else {
				item[name] = ""
			}
		}

		result = append(result, item)
	}

	return result
}
