package models

import (
	"math"

	"eda-backend/internal/cleaning"
)

// ColumnStats holds descriptive statistics for a numeric column
type ColumnStats struct {
	Column string   `json:"column"`
	Count  int      `json:"count"`
	Mean   float64  `json:"mean"`
	Std    *float64 `json:"std"`
	Min    float64  `json:"min"`
	Q25    float64  `json:"q25"`
	Median float64  `json:"median"`
	Q75    float64  `json:"q75"`
	Max    float64  `json:"max"`
}

// DataQualityProfile holds quality metrics for a column of the uploaded table
type DataQualityProfile struct {
	ColumnName      string  `json:"column_name"`
	TotalRows       int     `json:"total_rows"`
	NonNullRows     int     `json:"non_null_rows"`
	NullRate        float64 `json:"null_rate"`
	DistinctCount   int     `json:"distinct_count"`
	UniquenessRatio float64 `json:"uniqueness_ratio"`
	Entropy         float64 `json:"entropy"`
	IsPrimaryKey    bool    `json:"is_primary_key"`
	QualityScore    float64 `json:"quality_score"` // 0-1
}

// CorrelationResult represents correlation between column pair
type CorrelationResult struct {
	Column1           string   `json:"column1"`
	Column2           string   `json:"column2"`
	Correlation       *float64 `json:"correlation"`
	MutualInformation float64  `json:"mutual_information"`
	Interpretation    string   `json:"interpretation"`
}

// ArtifactLinks are the URLs of the files generated for one report
type ArtifactLinks struct {
	PDF     string `json:"pdf"`
	CSV     string `json:"csv"`
	Summary string `json:"summary"`
}

// ReportSummary is written next to every report and served by /api/reports/{id}
type ReportSummary struct {
	ID             string               `json:"id"`
	FileName       string               `json:"file_name"`
	Rows           int                  `json:"rows"`
	Columns        int                  `json:"columns"`
	ColumnNames    []string             `json:"column_names"`
	NumericColumns []string             `json:"numeric_columns"`
	Cleaning       cleaning.Result      `json:"cleaning"`
	Quality        []DataQualityProfile `json:"quality"`
	Stats          []ColumnStats        `json:"stats"`
	Correlations   []CorrelationResult  `json:"correlations,omitempty"`
	Images         []Image              `json:"images"`
	Links          ArtifactLinks        `json:"links"`
	CreatedAt      string               `json:"created_at"`
}

// NullFloat returns nil for NaN or infinite values so they encode as JSON null
func NullFloat(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// InterpretCorrelation buckets a coefficient into a human readable strength
func InterpretCorrelation(corr float64) string {
	switch {
	case math.IsNaN(corr):
		return "Undefined"
	case corr > 0.7:
		return "Strong positive"
	case corr < -0.7:
		return "Strong negative"
	case corr > 0.3:
		return "Moderate positive"
	case corr < -0.3:
		return "Moderate negative"
	default:
		return "Weak/None"
	}
}
