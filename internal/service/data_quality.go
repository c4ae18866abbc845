package service

import (
	"math"
	"strings"

	"eda-backend/internal/models"
	"eda-backend/internal/state"
)

// DataQualityProfiler analyzes data quality metrics
type DataQualityProfiler struct{}

// NewDataQualityProfiler creates a new profiler
func NewDataQualityProfiler() *DataQualityProfiler {
	return &DataQualityProfiler{}
}

// ProfileColumn analyzes quality metrics for a single column
func (dqp *DataQualityProfiler) ProfileColumn(df *state.DataFrame, colIdx int) models.DataQualityProfile {
	col := df.Columns[colIdx]
	profile := models.DataQualityProfile{
		ColumnName: col.Name,
		TotalRows:  df.NumRows(),
	}

	// Track unique values and null count
	uniqueValues := make(map[string]int)
	nonNullCount := 0

	for _, value := range col.Raw {
		if state.IsMissing(value) {
			continue
		}
		nonNullCount++
		uniqueValues[strings.TrimSpace(value)]++
	}

	profile.NonNullRows = nonNullCount
	profile.DistinctCount = len(uniqueValues)

	if profile.TotalRows > 0 {
		profile.NullRate = float64(profile.TotalRows-nonNullCount) / float64(profile.TotalRows)
	}
	if nonNullCount > 0 {
		profile.UniquenessRatio = float64(profile.DistinctCount) / float64(nonNullCount)
	}

	profile.Entropy = dqp.calculateEntropy(uniqueValues, nonNullCount)

	// High uniqueness (>95%) and low null rate (<5%)
	profile.IsPrimaryKey = profile.UniquenessRatio > 0.95 && profile.NullRate < 0.05

	profile.QualityScore = dqp.calculateQualityScore(profile)

	return profile
}

// ProfileAllColumns profiles all columns in a dataframe
func (dqp *DataQualityProfiler) ProfileAllColumns(df *state.DataFrame) []models.DataQualityProfile {
	profiles := make([]models.DataQualityProfile, len(df.Columns))
	for i := range df.Columns {
		profiles[i] = dqp.ProfileColumn(df, i)
	}
	return profiles
}

// calculateEntropy computes Shannon entropy
func (dqp *DataQualityProfiler) calculateEntropy(valueCounts map[string]int, total int) float64 {
	if total == 0 {
		return 0
	}

	entropy := 0.0
	for _, count := range valueCounts {
		if count > 0 {
			p := float64(count) / float64(total)
			entropy -= p * math.Log2(p)
		}
	}

	return entropy
}

// calculateQualityScore computes overall quality (0-1)
func (dqp *DataQualityProfiler) calculateQualityScore(profile models.DataQualityProfile) float64 {
	if profile.NonNullRows == 0 {
		return 0
	}
	score := 1.0

	// Penalize high null rates
	score *= (1.0 - profile.NullRate)

	// Ideal entropy is around 3-5 bits
	idealEntropy := 4.0
	entropyPenalty := math.Abs(profile.Entropy-idealEntropy) / 10.0
	score *= math.Max(0.5, 1.0-entropyPenalty)

	return math.Max(0, math.Min(1, score))
}
