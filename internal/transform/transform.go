// Package transform standardizes raw feature columns to zero mean and unit
// variance using statistics computed once over a reference dataset, and
// carries the label column through untouched. This is the preprocessing half
// of the trainer adapter: the same statistics are applied at training and
// serving time.
package transform

import (
	"fmt"
	"math"

	"github.com/Meesho/BharatMLStack/model-trainer/internal/schema"
)

// Transformer applies frozen reference statistics to records. It holds no
// mutable state and is safe for concurrent use.
type Transformer struct {
	spec  schema.Spec
	stats *Statistics
}

func NewTransformer(spec schema.Spec, stats *Statistics) (*Transformer, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if stats == nil {
		return nil, fmt.Errorf("transform: nil statistics")
	}
	if err := stats.Validate(spec); err != nil {
		return nil, err
	}
	return &Transformer{spec: spec, stats: stats}, nil
}

// Transform standardizes every feature of a raw record into its `_xf`
// counterpart and copies the label through bit-identically. A missing
// feature or a non-finite standardized value is a contract violation and
// fails the call; the caller does not recover it.
func (t *Transformer) Transform(raw schema.Record) (schema.Record, error) {
	out := schema.Record{
		Features: make(map[string]float64, len(t.spec.FeatureKeys)),
		Label:    raw.Label,
	}
	for _, key := range t.spec.FeatureKeys {
		value, err := raw.Feature(key)
		if err != nil {
			return schema.Record{}, err
		}
		std, err := t.standardize(key, value)
		if err != nil {
			return schema.Record{}, err
		}
		out.Features[schema.TransformedName(key)] = std
	}
	return out, nil
}

// TransformBatch is the columnar form of Transform: a mapping from raw
// column name to a column of values for a batch of records, including the
// label column, to a mapping keyed by transformed names. The label column is
// copied unchanged. All columns must have the same length.
func (t *Transformer) TransformBatch(inputs map[string][]float64) (map[string][]float64, error) {
	labels, ok := inputs[t.spec.LabelKey]
	if !ok {
		return nil, fmt.Errorf("transform: batch is missing label column %q", t.spec.LabelKey)
	}
	outputs := make(map[string][]float64, len(t.spec.FeatureKeys)+1)
	for _, key := range t.spec.FeatureKeys {
		column, ok := inputs[key]
		if !ok {
			return nil, fmt.Errorf("transform: batch is missing feature column %q", key)
		}
		if len(column) != len(labels) {
			return nil, fmt.Errorf("transform: column %q has %d values, label column has %d", key, len(column), len(labels))
		}
		std := make([]float64, len(column))
		for i, value := range column {
			v, err := t.standardize(key, value)
			if err != nil {
				return nil, fmt.Errorf("transform: record %d: %w", i, err)
			}
			std[i] = v
		}
		outputs[schema.TransformedName(key)] = std
	}
	passthrough := make([]float64, len(labels))
	copy(passthrough, labels)
	outputs[t.spec.TransformedLabelKey()] = passthrough
	return outputs, nil
}

// Spec returns the raw schema this transformer was built for.
func (t *Transformer) Spec() schema.Spec {
	return t.spec
}

func (t *Transformer) standardize(key string, value float64) (float64, error) {
	fs := t.stats.Features[key]
	if fs.Variance == 0 {
		// constant column, z-score convention maps it to zero
		return 0, nil
	}
	std := (value - fs.Mean) / math.Sqrt(fs.Variance)
	if math.IsNaN(std) || math.IsInf(std, 0) {
		return 0, fmt.Errorf("transform: standardizing feature %q value %v yields non-numeric result", key, value)
	}
	return std, nil
}
