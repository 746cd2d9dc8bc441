package wizards

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Accepted upload MIME types
const (
	MimeCSV  = "text/csv"
	MimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MimeXLS  = "application/vnd.ms-excel"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DecodeRows turns an uploaded file into raw string rows. CSV and Excel
// only; anything else is a configuration error.
func DecodeRows(data []byte, mimeType string) ([][]string, error) {
	switch mimeType {
	case MimeCSV:
		return decodeCSV(data)
	case MimeXLSX, MimeXLS:
		return decodeExcel(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFileType, mimeType)
	}
}

func decodeCSV(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	// Legacy exports are often Windows-1252; re-decode when the bytes are
	// not valid UTF-8 so the csv reader never sees mangled runes.
	if !utf8.Valid(data) {
		decoded, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode file charset: %w", err)
		}
		data = decoded
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse CSV: %w", err)
		}
		rows = append(rows, record)
	}
	return rows, nil
}

func decodeExcel(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("spreadsheet has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

// MapRows remaps raw rows through a source-column-index to field-id mapping,
// dropping the header row when one is declared. A mapping that points two
// source columns at the same field is rejected before any row is read.
func MapRows(rows [][]string, mapping map[int]string, hasHeader bool) ([]map[string]string, error) {
	if len(mapping) == 0 {
		return nil, ErrNoColumnMapping
	}

	seen := map[string]int{}
	for col, fieldID := range mapping {
		if prev, dup := seen[fieldID]; dup {
			return nil, fmt.Errorf("%w: field %q mapped from columns %d and %d",
				ErrDuplicateMapping, fieldID, prev, col)
		}
		seen[fieldID] = col
	}

	if hasHeader && len(rows) > 0 {
		rows = rows[1:]
	}

	mapped := make([]map[string]string, 0, len(rows))
	for _, raw := range rows {
		row := make(map[string]string, len(mapping))
		for col, fieldID := range mapping {
			if col >= 0 && col < len(raw) {
				row[fieldID] = raw[col]
			}
		}
		mapped = append(mapped, row)
	}
	return mapped, nil
}
