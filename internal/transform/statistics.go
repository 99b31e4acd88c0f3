package transform

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/Meesho/BharatMLStack/model-trainer/internal/schema"
	"gonum.org/v1/gonum/stat"
)

// StatsFileName is the file the transform output directory stores its
// normalization parameters under.
const StatsFileName = "transform_stats.json"

// FeatureStatistics are the per-feature normalization parameters computed
// over the reference dataset. Variance is the population variance: the same
// statistics are applied at training and serving time, so the reference
// dataset is the full population, not a sample.
type FeatureStatistics struct {
	Mean     float64 `json:"mean"`
	Variance float64 `json:"variance"`
}

// Statistics holds the transform output: normalization parameters for every
// feature column of the reference dataset.
type Statistics struct {
	Features map[string]FeatureStatistics `json:"features"`
}

// Analyze computes per-feature statistics over the full reference dataset.
func Analyze(spec schema.Spec, recs []schema.Record) (*Statistics, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("transform: reference dataset is empty")
	}
	stats := &Statistics{Features: make(map[string]FeatureStatistics, len(spec.FeatureKeys))}
	values := make([]float64, len(recs))
	for _, key := range spec.FeatureKeys {
		for i, rec := range recs {
			value, err := rec.Feature(key)
			if err != nil {
				return nil, err
			}
			if math.IsNaN(value) || math.IsInf(value, 0) {
				return nil, fmt.Errorf("transform: feature %q has non-finite value in record %d", key, i)
			}
			values[i] = value
		}
		mean := stat.Mean(values, nil)
		variance := stat.MomentAbout(2, values, mean, nil)
		stats.Features[key] = FeatureStatistics{Mean: mean, Variance: variance}
	}
	return stats, nil
}

// Validate checks that the statistics cover every feature of the spec.
func (s *Statistics) Validate(spec schema.Spec) error {
	for _, key := range spec.FeatureKeys {
		fs, ok := s.Features[key]
		if !ok {
			return fmt.Errorf("transform: statistics missing feature %q", key)
		}
		if math.IsNaN(fs.Mean) || math.IsInf(fs.Mean, 0) || math.IsNaN(fs.Variance) || fs.Variance < 0 {
			return fmt.Errorf("transform: statistics for feature %q are not usable", key)
		}
	}
	return nil
}

// Save writes the statistics into the transform output directory, creating
// the directory if needed.
func (s *Statistics) Save(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("transform: creating output dir: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("transform: encoding statistics: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, StatsFileName), data, 0o644)
}

// Load reads statistics from a transform output directory.
func Load(dir string) (*Statistics, error) {
	data, err := os.ReadFile(filepath.Join(dir, StatsFileName))
	if err != nil {
		return nil, fmt.Errorf("transform: reading statistics: %w", err)
	}
	var s Statistics
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("transform: decoding statistics: %w", err)
	}
	return &s, nil
}
