package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestAllowedExtension(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"data.csv", true},
		{"DATA.CSV", true},
		{"book.xlsx", true},
		{"notes.txt", false},
		{"legacy.xls", false},
		{"csv", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AllowedExtension(tt.name))
		})
	}
}

func TestReadCSV(t *testing.T) {
	p := writeFile(t, "people.csv", "age,city\n25,NY\n30,LA\n,NY\n40,\n")

	df, err := ReadCSV(p)
	require.NoError(t, err)

	assert.Equal(t, []string{"age", "city"}, df.Headers())
	assert.Equal(t, 4, df.NumRows())
	assert.Equal(t, []string{"", "NY"}, df.Row(2))
	assert.Equal(t, []string{"40", ""}, df.Row(3))
}

func TestReadCSVSniffsDelimiter(t *testing.T) {
	p := writeFile(t, "semi.csv", "a;b;c\n1;2;3\n4;5;6\n")

	df, err := ReadCSV(p)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, df.Headers())
	assert.Equal(t, []string{"4", "5", "6"}, df.Row(1))

	p = writeFile(t, "tabs.csv", "a\tb\n1,5\t2\n")
	df, err = ReadCSV(p)
	require.NoError(t, err)
	assert.Equal(t, []string{"1,5", "2"}, df.Row(0))
}

func TestReadCSVRaggedRows(t *testing.T) {
	p := writeFile(t, "ragged.csv", "a,b,c\n1\n1,2,3,4\n")

	df, err := ReadCSV(p)
	require.NoError(t, err)
	assert.Equal(t, 2, df.NumRows())
	assert.Equal(t, []string{"1", "", ""}, df.Row(0))
	assert.Equal(t, []string{"1", "2", "3"}, df.Row(1))
}

func TestReadCSVHeaders(t *testing.T) {
	p := writeFile(t, "dupes.csv", "\ufeffx,,x,x\n1,2,3,4\n")

	df, err := ReadCSV(p)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "Unnamed: 1", "x.1", "x.2"}, df.Headers())
}

func TestReadCSVQuotedThousands(t *testing.T) {
	p := writeFile(t, "money.csv", "amount,label\n\"1,200\",a\n\"3,400.5\",b\n")

	df, err := ReadCSV(p)
	require.NoError(t, err)
	assert.Equal(t, []string{"1,200", "a"}, df.Row(0))
}

func TestReadCSVEmpty(t *testing.T) {
	p := writeFile(t, "empty.csv", "")

	_, err := ReadCSV(p)
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestReadXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"age", "city", "score"},
		{25, "NY", 1.5},
		{30, "LA", nil},
		{nil, "NY", 2.5},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	p := filepath.Join(t.TempDir(), "book.xlsx")
	require.NoError(t, f.SaveAs(p))

	df, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, "book.xlsx", df.FileName)
	assert.Equal(t, []string{"age", "city", "score"}, df.Headers())
	assert.Equal(t, 3, df.NumRows())
	assert.Equal(t, []string{"25", "NY", "1.5"}, df.Row(0))
	assert.Equal(t, []string{"30", "LA", ""}, df.Row(1))
	assert.Equal(t, []string{"", "NY", "2.5"}, df.Row(2))
}

func TestReadXLSXFormattedNumbers(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"rate", "price", "precise", "when"},
		{0.125, 1234.5, 3.14159, 45000},
		{0.5, 99, 2.71828, 45001},
		{0.75, 0.5, 1.41421, 45002},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	for col, numFmt := range map[string]int{"A": 10, "B": 4, "C": 2, "D": 14} {
		style, err := f.NewStyle(&excelize.Style{NumFmt: numFmt})
		require.NoError(t, err)
		require.NoError(t, f.SetCellStyle(sheet, col+"2", col+"4", style))
	}
	p := filepath.Join(t.TempDir(), "styled.xlsx")
	require.NoError(t, f.SaveAs(p))

	df, err := ReadXLSX(p)
	require.NoError(t, err)

	assert.Equal(t, []string{"0.125", "0.5", "0.75"}, df.Column("rate").Raw)
	assert.Equal(t, []string{"1234.5", "99", "0.5"}, df.Column("price").Raw)
	assert.Equal(t, []string{"3.14159", "2.71828", "1.41421"}, df.Column("precise").Raw)
	// dates keep their displayed form
	for _, v := range df.Column("when").Raw {
		assert.NotEqual(t, "45000", v)
		assert.NotEmpty(t, v)
	}
}

func TestIsDateFormat(t *testing.T) {
	tests := []struct {
		format string
		want   bool
	}{
		{"yyyy-mm-dd", true},
		{"h:mm:ss", true},
		{"[$-409]d-mmm-yy", true},
		{"0.00%", false},
		{"#,##0.00", false},
		{`[$€-407]#,##0.00`, false},
		{`0.00 "days"`, false},
		{"General", false},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			assert.Equal(t, tt.want, isDateFormat(tt.format))
		})
	}
	assert.True(t, isBuiltInDateFormat(14))
	assert.False(t, isBuiltInDateFormat(10))
}

func TestReadXLSXCorrupt(t *testing.T) {
	p := writeFile(t, "broken.xlsx", "this is not a zip archive")

	_, err := Load(p)
	var pe *ParseError
	assert.True(t, errors.As(err, &pe))
}

func TestLoadRejectsUnsupported(t *testing.T) {
	p := writeFile(t, "notes.txt", "a,b\n1,2\n")

	_, err := Load(p)
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"My cool data.csv", "My_cool_data.csv"},
		{"../../../etc/passwd", "etc_passwd"},
		{"C:\\Users\\me\\sales.xlsx", "C_Users_me_sales.xlsx"},
		{"résumé.csv", "resume.csv"},
		{"日本.csv", "csv"},
		{"...", "upload"},
		{"", "upload"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.in))
		})
	}
}

func TestSanitizeFilenameConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	for g := 0; g < 50; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				if got := SanitizeFilename("résumé données ünïcode.csv"); got != "resume_donnees_unicode.csv" {
					t.Errorf("SanitizeFilename = %q", got)
					return
				}
			}
		}()
	}
	wg.Wait()
}
