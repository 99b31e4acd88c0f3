// Package schema defines the record layout the trainer adapter consumes: a
// fixed set of numeric feature columns plus one categorical label column,
// and the naming convention tying raw columns to their transformed
// counterparts.
package schema

import "fmt"

// TransformedSuffix is appended to a raw column name once the column has
// passed through the feature transform.
const TransformedSuffix = "_xf"

// Spec names the feature columns and the label column of a record stream.
type Spec struct {
	FeatureKeys []string
	LabelKey    string
}

// Default returns the iris layout the trainer ships with. Callers with a
// different upstream schema construct their own Spec.
func Default() Spec {
	return Spec{
		FeatureKeys: []string{"sepal_length", "sepal_width", "petal_length", "petal_width"},
		LabelKey:    "variety",
	}
}

// TransformedName derives the post-transform column name for a raw column.
func TransformedName(key string) string {
	return key + TransformedSuffix
}

// TransformedFeatureKeys returns the transformed names of all feature
// columns, in declaration order.
func (s Spec) TransformedFeatureKeys() []string {
	keys := make([]string, len(s.FeatureKeys))
	for i, key := range s.FeatureKeys {
		keys[i] = TransformedName(key)
	}
	return keys
}

// TransformedLabelKey returns the transformed name of the label column.
func (s Spec) TransformedLabelKey() string {
	return TransformedName(s.LabelKey)
}

// Columns returns all column names of the raw record stream, features first,
// label last. This is the column order record files are written in.
func (s Spec) Columns() []string {
	return append(append([]string{}, s.FeatureKeys...), s.LabelKey)
}

// TransformedColumns returns all column names of the transformed record
// stream, features first, label last.
func (s Spec) TransformedColumns() []string {
	return append(s.TransformedFeatureKeys(), s.TransformedLabelKey())
}

// Validate rejects specs that cannot describe a record.
func (s Spec) Validate() error {
	if len(s.FeatureKeys) == 0 {
		return fmt.Errorf("schema: no feature keys")
	}
	if s.LabelKey == "" {
		return fmt.Errorf("schema: no label key")
	}
	seen := make(map[string]bool, len(s.FeatureKeys)+1)
	for _, key := range s.FeatureKeys {
		if key == "" {
			return fmt.Errorf("schema: empty feature key")
		}
		if seen[key] {
			return fmt.Errorf("schema: duplicate feature key %q", key)
		}
		seen[key] = true
	}
	if seen[s.LabelKey] {
		return fmt.Errorf("schema: label key %q collides with a feature key", s.LabelKey)
	}
	return nil
}

// Record is a single example. Every feature key of the owning Spec must be
// present; a missing key is a contract violation by the upstream source.
type Record struct {
	Features map[string]float64
	Label    int64
}

// Feature fetches one feature value, failing on schema violations instead of
// defaulting.
func (r Record) Feature(key string) (float64, error) {
	value, ok := r.Features[key]
	if !ok {
		return 0, fmt.Errorf("schema: record is missing feature %q", key)
	}
	return value, nil
}
