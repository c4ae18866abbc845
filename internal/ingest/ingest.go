// Package ingest turns uploaded CSV and XLSX files into DataFrames.
package ingest

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"eda-backend/internal/state"
)

var (
	// ErrUnsupportedType is returned for anything other than .csv or .xlsx.
	ErrUnsupportedType = errors.New("unsupported file type")
	// ErrEmptyFile is returned when a file has no header row.
	ErrEmptyFile = errors.New("file is empty")
)

// ParseError wraps a failure to read tabular content.
type ParseError struct {
	File string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.File, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

var allowedExtensions = map[string]bool{
	".csv":  true,
	".xlsx": true,
}

// AllowedExtension reports whether the filename has an accepted extension.
func AllowedExtension(name string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(name))]
}

// Load reads the file at path, choosing the reader from its extension.
func Load(path string) (*state.DataFrame, error) {
	var (
		df  *state.DataFrame
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		df, err = ReadCSV(path)
	case ".xlsx":
		df, err = ReadXLSX(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}
	df.FilePath = path
	df.FileName = filepath.Base(path)
	return df, nil
}

// buildFrame normalises the header and pads or truncates every record to its width.
func buildFrame(header []string, records [][]string) *state.DataFrame {
	headers := normalizeHeaders(header)
	rows := make([][]string, len(records))
	for i, rec := range records {
		row := make([]string, len(headers))
		copy(row, rec)
		for j := range row {
			row[j] = strings.TrimSpace(row[j])
		}
		rows[i] = row
	}
	return state.NewDataFrame(headers, rows)
}

// normalizeHeaders trims names, fills blanks with "Unnamed: i" and
// de-duplicates repeats with a ".n" suffix.
func normalizeHeaders(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		base := name
		for seen[name] > 0 {
			name = fmt.Sprintf("%s.%d", base, seen[base])
			seen[base]++
		}
		seen[name]++
		out[i] = name
	}
	return out
}
