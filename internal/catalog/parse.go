package catalog

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/desertthunder/lineuplens/internal/shared"
)

// Column names in lineup files.
const (
	ColumnOriginalName = "Original Name"
	ColumnMatchedName  = "Matched Name"
	ColumnSpotifyID    = "Spotify ID"
	ColumnMatchType    = "Match Type"
)

// RequiredColumns must all be present in the header row.
var RequiredColumns = []string{ColumnOriginalName, ColumnMatchedName, ColumnSpotifyID}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Row maps trimmed header names to trimmed cell values.
type Row map[string]string

// Has reports whether the row carries column name, even if empty.
func (r Row) Has(name string) bool {
	_, ok := r[name]
	return ok
}

// Table is a parsed lineup file.
type Table struct {
	Headers []string
	Rows    []Row
}

// ParseRows reads CSV text into named rows.
//
// Headers and values are trimmed, blank lines are skipped, and short rows are padded with empty values.
func ParseRows(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read lineup: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return &Table{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse header: %v", shared.ErrInvalidInput, err)
	}

	table := &Table{Headers: make([]string, len(header))}
	for i, h := range header {
		table.Headers[i] = strings.TrimSpace(h)
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: failed to parse lineup: %v", shared.ErrInvalidInput, err)
		}
		if blank(record) {
			continue
		}

		row := make(Row, len(table.Headers))
		for i, name := range table.Headers {
			if name == "" {
				continue
			}
			var v string
			if i < len(record) {
				v = strings.TrimSpace(record[i])
			}
			row[name] = v
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

// ValidateColumns returns [shared.ErrMissingColumns] naming every required column absent from headers.
func ValidateColumns(headers []string) error {
	var missing []string
	for _, col := range RequiredColumns {
		if !slices.Contains(headers, col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", shared.ErrMissingColumns, strings.Join(missing, ", "))
	}
	return nil
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
