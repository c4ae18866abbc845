package state

import (
	"math"
	"strings"
	"sync"
)

// ColumnKind is the inferred type of a column after coercion.
type ColumnKind int

const (
	KindText ColumnKind = iota
	KindNumeric
)

func (k ColumnKind) String() string {
	if k == KindNumeric {
		return "numeric"
	}
	return "text"
}

// MarshalText lets the kind appear as a string in JSON summaries.
func (k ColumnKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *ColumnKind) UnmarshalText(b []byte) error {
	if string(b) == "numeric" {
		*k = KindNumeric
	} else {
		*k = KindText
	}
	return nil
}

// Column is one named column of a DataFrame.
// Raw always holds one cell per row. Nums is only populated for numeric
// columns, with NaN marking a missing entry.
type Column struct {
	Name string
	Kind ColumnKind
	Raw  []string
	Nums []float64
}

// DataFrame represents a loaded tabular file, stored column by column.
type DataFrame struct {
	Columns  []*Column
	FilePath string
	FileName string
}

// NewDataFrame builds a text-only DataFrame from a header and row-major records.
// Rows must already be padded to len(headers).
func NewDataFrame(headers []string, rows [][]string) *DataFrame {
	df := &DataFrame{Columns: make([]*Column, len(headers))}
	for j, h := range headers {
		raw := make([]string, len(rows))
		for i, row := range rows {
			raw[i] = row[j]
		}
		df.Columns[j] = &Column{Name: h, Kind: KindText, Raw: raw}
	}
	return df
}

// NumRows returns the row count, which is fixed after ingestion.
func (df *DataFrame) NumRows() int {
	if len(df.Columns) == 0 {
		return 0
	}
	return len(df.Columns[0].Raw)
}

// Headers returns the column names in order.
func (df *DataFrame) Headers() []string {
	out := make([]string, len(df.Columns))
	for i, c := range df.Columns {
		out[i] = c.Name
	}
	return out
}

// Column looks a column up by name.
func (df *DataFrame) Column(name string) *Column {
	for _, c := range df.Columns {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Row returns the display values of row i.
func (df *DataFrame) Row(i int) []string {
	out := make([]string, len(df.Columns))
	for j, c := range df.Columns {
		out[j] = c.Cell(i)
	}
	return out
}

// Clone deep-copies the frame so the original can be kept while cleaning mutates the copy.
func (df *DataFrame) Clone() *DataFrame {
	cp := &DataFrame{
		Columns:  make([]*Column, len(df.Columns)),
		FilePath: df.FilePath,
		FileName: df.FileName,
	}
	for i, c := range df.Columns {
		nc := &Column{Name: c.Name, Kind: c.Kind, Raw: append([]string(nil), c.Raw...)}
		if c.Nums != nil {
			nc.Nums = append([]float64(nil), c.Nums...)
		}
		cp.Columns[i] = nc
	}
	return cp
}

// NumericColumns returns the names of numeric columns in column order.
func (df *DataFrame) NumericColumns() []string {
	var out []string
	for _, c := range df.Columns {
		if c.Kind == KindNumeric {
			out = append(out, c.Name)
		}
	}
	return out
}

// Cell returns the display value of row i.
func (c *Column) Cell(i int) string {
	if c.Kind == KindNumeric && c.Nums != nil {
		return FormatNumber(c.Nums[i])
	}
	return c.Raw[i]
}

// Present returns the non-missing numeric values of a numeric column.
func (c *Column) Present() []float64 {
	out := make([]float64, 0, len(c.Nums))
	for _, v := range c.Nums {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// AppState holds the process-wide pointer to the most recent report.
// Artifacts themselves live in per-report directories.
type AppState struct {
	mu sync.RWMutex

	latestReportID string
}

// State is the global application state instance.
var State = &AppState{}

// SetLatestReport records the id of the most recently generated report.
func (s *AppState) SetLatestReport(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latestReportID = id
}

// LatestReport returns the most recent report id, or "" if none was generated yet.
func (s *AppState) LatestReport() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latestReportID
}

var missingTokens = map[string]bool{
	"":     true,
	"NA":   true,
	"N/A":  true,
	"n/a":  true,
	"NaN":  true,
	"nan":  true,
	"-NaN": true,
	"null": true,
	"NULL": true,
	"None": true,
	"#N/A": true,
	"<NA>": true,
}

// IsMissing reports whether a raw cell counts as a missing value.
func IsMissing(s string) bool {
	return missingTokens[strings.TrimSpace(s)]
}
