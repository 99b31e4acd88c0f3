package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransformedName(t *testing.T) {
	assert.Equal(t, "sepal_length_xf", TransformedName("sepal_length"))
	assert.Equal(t, "variety_xf", TransformedName("variety"))
}

func TestSpecColumns(t *testing.T) {
	spec := Default()
	assert.Equal(t, []string{"sepal_length", "sepal_width", "petal_length", "petal_width", "variety"}, spec.Columns())
	assert.Equal(t, []string{"sepal_length_xf", "sepal_width_xf", "petal_length_xf", "petal_width_xf", "variety_xf"}, spec.TransformedColumns())
	assert.Equal(t, "variety_xf", spec.TransformedLabelKey())
}

func TestSpecValidate(t *testing.T) {
	tests := []struct {
		name    string
		spec    Spec
		wantErr bool
	}{
		{
			name: "default spec",
			spec: Default(),
		},
		{
			name:    "no features",
			spec:    Spec{LabelKey: "variety"},
			wantErr: true,
		},
		{
			name:    "no label",
			spec:    Spec{FeatureKeys: []string{"a"}},
			wantErr: true,
		},
		{
			name:    "duplicate feature",
			spec:    Spec{FeatureKeys: []string{"a", "a"}, LabelKey: "y"},
			wantErr: true,
		},
		{
			name:    "label collides with feature",
			spec:    Spec{FeatureKeys: []string{"a", "b"}, LabelKey: "a"},
			wantErr: true,
		},
		{
			name:    "empty feature key",
			spec:    Spec{FeatureKeys: []string{""}, LabelKey: "y"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestRecordFeature(t *testing.T) {
	rec := Record{Features: map[string]float64{"sepal_length": 5.1}, Label: 2}

	value, err := rec.Feature("sepal_length")
	assert.NoError(t, err)
	assert.Equal(t, 5.1, value)

	_, err = rec.Feature("petal_width")
	assert.Error(t, err)
}
