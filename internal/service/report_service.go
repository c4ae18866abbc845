package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"eda-backend/internal/analysis"
	"eda-backend/internal/cleaning"
	"eda-backend/internal/ingest"
	"eda-backend/internal/models"
	"eda-backend/internal/plots"
	"eda-backend/internal/report"
	"eda-backend/internal/state"
)

// Artifact file names inside a report directory.
const (
	PDFName     = "report.pdf"
	CSVName     = "cleaned_data.csv"
	SummaryName = "summary.json"
)

// ErrInvalidReportID is returned for ids that are not uuids.
var ErrInvalidReportID = errors.New("invalid report id")

// Upload is a file handed to the pipeline.
type Upload struct {
	Name string
	Body io.Reader
}

// Paths locates the artifacts of one report.
type Paths struct {
	Dir     string
	PDF     string
	CSV     string
	Summary string
}

// Result is everything produced for one upload.
type Result struct {
	ID       string
	Original *state.DataFrame
	Cleaned  *state.DataFrame
	Images   []models.Image
	Clean    cleaning.Result
	Summary  models.ReportSummary
	Paths    Paths
	Links    models.ArtifactLinks
}

// ReportService runs the report pipeline and keeps every run in its own directory.
type ReportService struct {
	uploadDir string
	staticDir string
	profiler  *DataQualityProfiler
	stats     *AdvancedStatsCalculator
	logger    zerolog.Logger
}

func NewReportService(uploadDir, staticDir string, logger zerolog.Logger) *ReportService {
	return &ReportService{
		uploadDir: uploadDir,
		staticDir: staticDir,
		profiler:  NewDataQualityProfiler(),
		stats:     NewAdvancedStatsCalculator(),
		logger:    logger,
	}
}

// Paths resolves the artifact locations for id.
func (s *ReportService) Paths(id string) (Paths, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return Paths{}, fmt.Errorf("%w: %q", ErrInvalidReportID, id)
	}
	dir := filepath.Join(s.staticDir, "reports", u.String())
	return Paths{
		Dir:     dir,
		PDF:     filepath.Join(dir, PDFName),
		CSV:     filepath.Join(dir, CSVName),
		Summary: filepath.Join(dir, SummaryName),
	}, nil
}

// Links returns the URLs the HTTP layer serves the artifacts of id under.
func Links(id string) models.ArtifactLinks {
	return models.ArtifactLinks{
		PDF:     "/reports/" + id + "/" + PDFName,
		CSV:     "/reports/" + id + "/" + CSVName,
		Summary: "/api/reports/" + id,
	}
}

// Generate stores the upload and produces the cleaned CSV, the PDF and the summary.
// Unsupported extensions are rejected before anything is written.
func (s *ReportService) Generate(ctx context.Context, up Upload) (*Result, error) {
	if !ingest.AllowedExtension(up.Name) {
		return nil, fmt.Errorf("%w: %s", ingest.ErrUnsupportedType, filepath.Ext(up.Name))
	}

	id := uuid.NewString()
	log := s.logger.With().Str("report_id", id).Logger()

	src, err := s.saveUpload(id, up)
	if err != nil {
		os.RemoveAll(filepath.Join(s.uploadDir, id))
		return nil, err
	}
	// uploads and partial artifacts only outlive a successful run
	done := false
	defer func() {
		if !done {
			os.RemoveAll(filepath.Dir(src))
			if p, err := s.Paths(id); err == nil {
				os.RemoveAll(p.Dir)
			}
		}
	}()

	df, err := ingest.Load(src)
	if err != nil {
		return nil, err
	}
	df.FileName = up.Name
	log.Debug().Str("file", up.Name).Int("rows", df.NumRows()).Int("columns", len(df.Columns)).Msg("file loaded")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	original := df.Clone()
	clean := cleaning.Clean(df)
	for _, w := range clean.Warnings {
		log.Warn().Msg(w)
	}

	images, err := plots.Generate(df, clean.NumericColumns)
	if err != nil {
		return nil, fmt.Errorf("generate plots: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	paths, _ := s.Paths(id)
	if err := os.MkdirAll(paths.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create report dir: %w", err)
	}
	if err := report.WriteCSV(paths.CSV, df); err != nil {
		return nil, err
	}
	if err := report.WritePDF(paths.PDF, df, images); err != nil {
		return nil, err
	}

	links := Links(id)
	summary := models.ReportSummary{
		ID:             id,
		FileName:       up.Name,
		Rows:           df.NumRows(),
		Columns:        len(df.Columns),
		ColumnNames:    df.Headers(),
		NumericColumns: clean.NumericColumns,
		Cleaning:       clean,
		Quality:        s.profiler.ProfileAllColumns(original),
		Stats:          analysis.Describe(df, clean.NumericColumns),
		Correlations:   s.correlations(df, clean.NumericColumns),
		Images:         images,
		Links:          links,
		CreatedAt:      time.Now().UTC().Format(time.RFC3339),
	}
	if err := report.WriteSummary(paths.Summary, summary); err != nil {
		return nil, err
	}

	done = true
	state.State.SetLatestReport(id)
	log.Info().Str("dir", paths.Dir).Int("images", len(images)).Msg("report generated")

	return &Result{
		ID:       id,
		Original: original,
		Cleaned:  df,
		Images:   images,
		Clean:    clean,
		Summary:  summary,
		Paths:    paths,
		Links:    links,
	}, nil
}

// Summary loads the stored summary of a report.
func (s *ReportService) Summary(id string) (models.ReportSummary, error) {
	p, err := s.Paths(id)
	if err != nil {
		return models.ReportSummary{}, err
	}
	return report.ReadSummary(p.Summary)
}

func (s *ReportService) saveUpload(id string, up Upload) (string, error) {
	dir := filepath.Join(s.uploadDir, id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	name := ingest.SanitizeFilename(up.Name)
	// the reader is picked by extension, so it must survive sanitising
	if ext := strings.ToLower(filepath.Ext(up.Name)); strings.ToLower(filepath.Ext(name)) != ext {
		name += ext
	}
	path := filepath.Join(dir, name)

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("save upload: %w", err)
	}
	if _, err := io.Copy(dst, up.Body); err != nil {
		dst.Close()
		return "", fmt.Errorf("save upload: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("save upload: %w", err)
	}
	return path, nil
}

// correlations lists every distinct pair of numeric columns that hold data.
func (s *ReportService) correlations(df *state.DataFrame, numeric []string) []models.CorrelationResult {
	var names []string
	for _, n := range numeric {
		if len(df.Column(n).Present()) > 0 {
			names = append(names, n)
		}
	}
	if len(names) < 2 {
		return nil
	}
	m := plots.CorrelationMatrix(df, names)
	var out []models.CorrelationResult
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			out = append(out, models.CorrelationResult{
				Column1:           names[i],
				Column2:           names[j],
				Correlation:       models.NullFloat(m[i][j]),
				MutualInformation: s.stats.MutualInformation(df, names[i], names[j]),
				Interpretation:    models.InterpretCorrelation(m[i][j]),
			})
		}
	}
	return out
}
