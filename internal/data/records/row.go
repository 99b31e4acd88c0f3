package records

import (
	"fmt"
	"math"

	"github.com/Meesho/BharatMLStack/model-trainer/internal/schema"
)

// RowFromRecord packs a record into file column order. labelColumn must be
// one of columns; every other column is read from the record's features.
func RowFromRecord(columns []string, labelColumn string, rec schema.Record) ([]float64, error) {
	row := make([]float64, len(columns))
	labelSeen := false
	for i, name := range columns {
		if name == labelColumn {
			row[i] = float64(rec.Label)
			labelSeen = true
			continue
		}
		value, err := rec.Feature(name)
		if err != nil {
			return nil, err
		}
		row[i] = value
	}
	if !labelSeen {
		return nil, fmt.Errorf("records: label column %q not in schema tag %v", labelColumn, columns)
	}
	return row, nil
}

// RecordFromRow is the inverse of RowFromRecord. The label value must be an
// integral class index; anything else marks the record malformed.
func RecordFromRow(columns []string, labelColumn string, row []float64) (schema.Record, error) {
	if len(row) != len(columns) {
		return schema.Record{}, fmt.Errorf("records: row has %d values, want %d", len(row), len(columns))
	}
	rec := schema.Record{Features: make(map[string]float64, len(columns)-1)}
	labelSeen := false
	for i, name := range columns {
		if name == labelColumn {
			label := row[i]
			if label != math.Trunc(label) || label < 0 || math.IsNaN(label) || math.IsInf(label, 0) {
				return schema.Record{}, fmt.Errorf("records: label value %v is not a class index", label)
			}
			rec.Label = int64(label)
			labelSeen = true
			continue
		}
		rec.Features[name] = row[i]
	}
	if !labelSeen {
		return schema.Record{}, fmt.Errorf("records: label column %q not in schema tag %v", labelColumn, columns)
	}
	return rec, nil
}
