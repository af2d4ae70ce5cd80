package bulkimport

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrUnsupportedFormat is returned for files other than .csv and .xlsx.
	ErrUnsupportedFormat = errors.New("unsupported file format; upload a .csv or .xlsx file")
	// ErrEmptySheet is returned when no header row is present.
	ErrEmptySheet = errors.New("file has no header row")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Sheet is a parsed upload: the header row plus one value map per data row,
// keyed by header text.
type Sheet struct {
	Headers []string            `json:"headers"`
	Rows    []map[string]string `json:"rows"`
}

// ParseFile reads a CSV or the first worksheet of an XLSX file.
func ParseFile(reader io.Reader, filename string) (*Sheet, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	var records [][]string
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		records, err = readCSV(data)
	case ".xlsx":
		records, err = readXLSX(data)
	default:
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, err
	}
	return buildSheet(records)
}

func readCSV(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return records, nil
}

func readXLSX(data []byte) ([][]string, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer func() { _ = file.Close() }()

	sheetName := file.GetSheetName(0)
	if sheetName == "" {
		return nil, ErrEmptySheet
	}
	rows, err := file.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("read worksheet %q: %w", sheetName, err)
	}
	return rows, nil
}

func buildSheet(records [][]string) (*Sheet, error) {
	headerIdx := -1
	for i, record := range records {
		if !blankRecord(record) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil, ErrEmptySheet
	}

	rawHeaders := records[headerIdx]
	headers := make([]string, 0, len(rawHeaders))
	columns := make([]int, 0, len(rawHeaders))
	seen := make(map[string]bool, len(rawHeaders))
	for i, h := range rawHeaders {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF"))
		if h == "" || seen[h] {
			continue
		}
		seen[h] = true
		headers = append(headers, h)
		columns = append(columns, i)
	}
	if len(headers) == 0 {
		return nil, ErrEmptySheet
	}

	sheet := &Sheet{Headers: headers}
	for _, record := range records[headerIdx+1:] {
		if blankRecord(record) {
			continue
		}
		row := make(map[string]string, len(headers))
		for j, col := range columns {
			if col < len(record) {
				row[headers[j]] = strings.TrimSpace(record[col])
			} else {
				row[headers[j]] = ""
			}
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet, nil
}

func blankRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
