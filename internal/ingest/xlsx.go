package ingest

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"eda-backend/internal/state"
)

// ReadXLSX parses the first worksheet of a workbook. The first row is the header.
// Numeric cells keep their stored value unless their format is a date, which
// keeps the displayed text.
func ReadXLSX(path string) (*state.DataFrame, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &ParseError{File: filepath.Base(path), Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}
	sheet := sheets[0]
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, &ParseError{File: filepath.Base(path), Err: err}
	}
	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &ParseError{File: filepath.Base(path), Err: err}
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmptyFile
	}

	for i := 1; i < len(rows) && i < len(raw); i++ {
		for j := 0; j < len(rows[i]) && j < len(raw[i]); j++ {
			if rows[i][j] == raw[i][j] {
				continue
			}
			if _, err := strconv.ParseFloat(raw[i][j], 64); err != nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil || isDateCell(f, sheet, cell) {
				continue
			}
			rows[i][j] = raw[i][j]
		}
	}
	return buildFrame(rows[0], rows[1:]), nil
}

// isDateCell reports whether the cell's number format renders a date or time.
func isDateCell(f *excelize.File, sheet, cell string) bool {
	idx, err := f.GetCellStyle(sheet, cell)
	if err != nil {
		return false
	}
	style, err := f.GetStyle(idx)
	if err != nil || style == nil {
		return false
	}
	if style.CustomNumFmt != nil {
		return isDateFormat(*style.CustomNumFmt)
	}
	return isBuiltInDateFormat(style.NumFmt)
}

// Built-in number format ids 14-22, 27-36, 45-47 and 50-58 are dates or times.
func isBuiltInDateFormat(id int) bool {
	switch {
	case id >= 14 && id <= 22, id >= 27 && id <= 36, id >= 45 && id <= 47, id >= 50 && id <= 58:
		return true
	}
	return false
}

// isDateFormat looks for date or time tokens outside quoted literals and [..] sections.
func isDateFormat(format string) bool {
	var b strings.Builder
	inQuote, inBracket := false, false
	for _, r := range strings.ToLower(format) {
		switch {
		case r == '"':
			inQuote = !inQuote
		case inQuote:
		case r == '[':
			inBracket = true
		case r == ']':
			inBracket = false
		case inBracket:
		default:
			b.WriteRune(r)
		}
	}
	return strings.ContainsAny(b.String(), "ydhs")
}
