package service

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eda-backend/internal/ingest"
	"eda-backend/internal/models"
	"eda-backend/internal/state"
)

func newTestService(t *testing.T) (*ReportService, string, string) {
	t.Helper()
	root := t.TempDir()
	up := filepath.Join(root, "uploads")
	static := filepath.Join(root, "static")
	return NewReportService(up, static, zerolog.Nop()), up, static
}

func TestGenerateAgeCity(t *testing.T) {
	svc, _, _ := newTestService(t)
	body := "age,city\n25,NY\n,LA\n40,NY\n30,\n"

	res, err := svc.Generate(context.Background(), Upload{Name: "people.csv", Body: strings.NewReader(body)})
	require.NoError(t, err)

	assert.Equal(t, []string{"age"}, res.Clean.NumericColumns)
	assert.Len(t, res.Images, 2)
	assert.InDelta(t, 31.6667, res.Cleaned.Column("age").Nums[1], 1e-3)
	assert.Equal(t, "NY", res.Cleaned.Column("city").Raw[3])
	// the preview table keeps the gaps
	assert.Equal(t, "", res.Original.Column("age").Raw[1])

	for _, p := range []string{res.Paths.PDF, res.Paths.CSV, res.Paths.Summary} {
		_, err := os.Stat(p)
		assert.NoError(t, err, p)
	}
	assert.Equal(t, res.ID, state.State.LatestReport())
	assert.Equal(t, "/reports/"+res.ID+"/report.pdf", res.Links.PDF)

	back, err := ingest.Load(res.Paths.CSV)
	require.NoError(t, err)
	assert.Equal(t, res.Cleaned.NumRows(), back.NumRows())
	assert.Equal(t, []string{"age", "city"}, back.Headers())
}

func TestGenerateSummary(t *testing.T) {
	svc, _, _ := newTestService(t)
	body := "x,y,label\n1,2,a\n2,4,b\n3,6,a\n4,8,b\n"

	res, err := svc.Generate(context.Background(), Upload{Name: "pairs.csv", Body: strings.NewReader(body)})
	require.NoError(t, err)
	assert.Len(t, res.Images, 5)

	s, err := svc.Summary(res.ID)
	require.NoError(t, err)
	assert.Equal(t, res.ID, s.ID)
	assert.Equal(t, 4, s.Rows)
	assert.Equal(t, []string{"x", "y"}, s.NumericColumns)
	require.Len(t, s.Stats, 2)
	assert.Equal(t, 2.5, s.Stats[0].Mean)
	require.Len(t, s.Correlations, 1)
	require.NotNil(t, s.Correlations[0].Correlation)
	assert.InDelta(t, 1.0, *s.Correlations[0].Correlation, 1e-12)
	assert.Equal(t, "Strong positive", s.Correlations[0].Interpretation)
	assert.InDelta(t, 1.0, s.Correlations[0].MutualInformation, 1e-9)
	assert.Len(t, s.Quality, 3)
	assert.Len(t, s.Images, 5)
}

func TestGenerateRejectsUnsupportedBeforeWriting(t *testing.T) {
	svc, up, static := newTestService(t)

	_, err := svc.Generate(context.Background(), Upload{Name: "notes.txt", Body: strings.NewReader("a,b\n1,2\n")})
	require.ErrorIs(t, err, ingest.ErrUnsupportedType)

	assert.NoDirExists(t, up)
	assert.NoDirExists(t, static)
}

func TestGenerateParseFailureCleansUpload(t *testing.T) {
	svc, up, static := newTestService(t)

	_, err := svc.Generate(context.Background(), Upload{Name: "broken.xlsx", Body: strings.NewReader("not a zip")})
	var pe *ingest.ParseError
	require.True(t, errors.As(err, &pe))

	entries, _ := os.ReadDir(up)
	assert.Empty(t, entries)
	assert.NoDirExists(t, static)
}

func TestGenerateCancelled(t *testing.T) {
	svc, up, static := newTestService(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Generate(ctx, Upload{Name: "a.csv", Body: strings.NewReader("a\n1\n")})
	assert.ErrorIs(t, err, context.Canceled)

	entries, _ := os.ReadDir(up)
	assert.Empty(t, entries)
	assert.NoDirExists(t, static)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestGenerateUploadWriteFailure(t *testing.T) {
	svc, up, _ := newTestService(t)

	_, err := svc.Generate(context.Background(), Upload{Name: "a.csv", Body: failingReader{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save upload")
	var pe *ingest.ParseError
	assert.False(t, errors.As(err, &pe))

	entries, _ := os.ReadDir(up)
	assert.Empty(t, entries)
}

func TestGenerateKeepsExtensionOfNonASCIIName(t *testing.T) {
	svc, up, _ := newTestService(t)

	res, err := svc.Generate(context.Background(), Upload{Name: "日本.csv", Body: strings.NewReader("a\n1\n2\n")})
	require.NoError(t, err)
	assert.Equal(t, "日本.csv", res.Summary.FileName)
	assert.FileExists(t, filepath.Join(up, res.ID, "csv.csv"))
}

func TestPaths(t *testing.T) {
	svc, _, static := newTestService(t)

	_, err := svc.Paths("../../etc")
	assert.ErrorIs(t, err, ErrInvalidReportID)

	id := "6f1c2a3e-9d0b-4c55-8e21-7a9b0c1d2e3f"
	p, err := svc.Paths(id)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(static, "reports", id, "report.pdf"), p.PDF)
	assert.Equal(t, filepath.Join(static, "reports", id, "cleaned_data.csv"), p.CSV)
}

func TestCorrelationsConstantColumn(t *testing.T) {
	df := state.NewDataFrame([]string{"a", "b"}, [][]string{{"1", "5"}, {"2", "5"}, {"3", "5"}})
	df.Columns[0].Kind, df.Columns[0].Nums = state.KindNumeric, []float64{1, 2, 3}
	df.Columns[1].Kind, df.Columns[1].Nums = state.KindNumeric, []float64{5, 5, 5}

	svc, _, _ := newTestService(t)
	got := svc.correlations(df, []string{"a", "b"})
	require.Len(t, got, 1)
	assert.Nil(t, got[0].Correlation)
	assert.Equal(t, "Undefined", got[0].Interpretation)
	assert.Equal(t, models.CorrelationResult{Column1: "a", Column2: "b", Interpretation: "Undefined"}, got[0])
}

func TestCorrelationsSkipsEmptyColumn(t *testing.T) {
	df := state.NewDataFrame([]string{"a", "b"}, [][]string{{"1", ""}, {"2", ""}})
	df.Columns[0].Kind, df.Columns[0].Nums = state.KindNumeric, []float64{1, 2}
	df.Columns[1].Kind, df.Columns[1].Nums = state.KindNumeric, []float64{math.NaN(), math.NaN()}

	svc, _, _ := newTestService(t)
	assert.Nil(t, svc.correlations(df, []string{"a", "b"}))
}
