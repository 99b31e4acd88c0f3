package dataset

import (
	"fmt"
	"path/filepath"
	"sort"
	"testing"

	"github.com/Meesho/BharatMLStack/model-trainer/internal/compression"
	"github.com/Meesho/BharatMLStack/model-trainer/internal/data/records"
	"github.com/Meesho/BharatMLStack/model-trainer/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTransformedFile(t *testing.T, path string, spec schema.Spec, rows [][]float64) {
	t.Helper()
	require.NoError(t, records.Write(path, spec.TransformedColumns(), rows, compression.TypeZSTD))
}

func syntheticRows(n, offset int) [][]float64 {
	rows := make([][]float64, n)
	for i := range rows {
		id := float64(offset + i)
		rows[i] = []float64{id, id + 0.25, id + 0.5, id + 0.75, float64((offset + i) % 2)}
	}
	return rows
}

func TestLoadShape(t *testing.T) {
	tests := []struct {
		name string
		n    int
	}{
		{name: "empty", n: 0},
		{name: "single record", n: 1},
		{name: "many records", n: 37},
	}

	spec := schema.Default()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeTransformedFile(t, filepath.Join(dir, "part-0.bin"), spec, syntheticRows(tt.n, 0))

			ds, err := NewLoader(spec).WithSeed(1).Load(filepath.Join(dir, "part-*.bin"))
			require.NoError(t, err)
			rows, cols := ds.Dims()
			assert.Equal(t, tt.n, rows)
			assert.Equal(t, 4, cols)
			assert.Len(t, ds.Labels, tt.n)
			if tt.n == 0 {
				assert.Nil(t, ds.Features)
			} else {
				r, c := ds.Features.Dims()
				assert.Equal(t, tt.n, r)
				assert.Equal(t, 4, c)
			}
		})
	}
}

func TestLoadNoMatchingFiles(t *testing.T) {
	ds, err := NewLoader(schema.Default()).Load(filepath.Join(t.TempDir(), "nothing-*.bin"))
	require.NoError(t, err)
	rows, cols := ds.Dims()
	assert.Equal(t, 0, rows)
	assert.Equal(t, 4, cols)
}

func TestLoadMergesAllMatchingFiles(t *testing.T) {
	spec := schema.Default()
	dir := t.TempDir()
	for i := 0; i < 3; i++ {
		writeTransformedFile(t, filepath.Join(dir, fmt.Sprintf("part-%d.bin", i)), spec, syntheticRows(10, i*10))
	}

	ds, err := NewLoader(spec).WithSeed(5).Load(filepath.Join(dir, "part-*.bin"))
	require.NoError(t, err)
	rows, _ := ds.Dims()
	assert.Equal(t, 30, rows)
}

func TestLoadShufflePreservesRecords(t *testing.T) {
	spec := schema.Default()
	dir := t.TempDir()
	// buffer smaller than the dataset so eviction kicks in
	writeTransformedFile(t, filepath.Join(dir, "part-0.bin"), spec, syntheticRows(50, 0))

	ds, err := NewLoader(spec).WithSeed(99).WithBufferSize(8).Load(filepath.Join(dir, "part-0.bin"))
	require.NoError(t, err)

	rows, _ := ds.Dims()
	require.Equal(t, 50, rows)
	firstColumn := make([]float64, rows)
	for i := 0; i < rows; i++ {
		firstColumn[i] = ds.Features.At(i, 0)
	}
	sort.Float64s(firstColumn)
	for i := 0; i < rows; i++ {
		assert.Equal(t, float64(i), firstColumn[i])
	}
}

func TestLoadShuffleChangesOrder(t *testing.T) {
	spec := schema.Default()
	dir := t.TempDir()
	writeTransformedFile(t, filepath.Join(dir, "part-0.bin"), spec, syntheticRows(200, 0))

	ds, err := NewLoader(spec).WithSeed(42).Load(filepath.Join(dir, "part-0.bin"))
	require.NoError(t, err)

	rows, _ := ds.Dims()
	inOrder := true
	for i := 0; i < rows; i++ {
		if ds.Features.At(i, 0) != float64(i) {
			inOrder = false
			break
		}
	}
	assert.False(t, inOrder)
}

func TestLoadRejectsWrongSchema(t *testing.T) {
	spec := schema.Default()
	dir := t.TempDir()
	wrong := schema.Spec{FeatureKeys: []string{"a", "b", "c", "d"}, LabelKey: "y"}
	require.NoError(t, records.Write(filepath.Join(dir, "part-0.bin"), wrong.TransformedColumns(), [][]float64{{1, 2, 3, 4, 0}}, compression.TypeZSTD))

	_, err := NewLoader(spec).Load(filepath.Join(dir, "part-0.bin"))
	assert.Error(t, err)
}

func TestLoadAbortsOnMalformedLabel(t *testing.T) {
	spec := schema.Default()
	dir := t.TempDir()
	rows := syntheticRows(5, 0)
	rows[3][4] = 1.5
	writeTransformedFile(t, filepath.Join(dir, "part-0.bin"), spec, rows)

	_, err := NewLoader(spec).WithSeed(1).Load(filepath.Join(dir, "part-0.bin"))
	assert.Error(t, err)
}

func TestReadRawRecords(t *testing.T) {
	spec := schema.Default()
	dir := t.TempDir()
	rows := [][]float64{
		{5.1, 3.5, 1.4, 0.2, 0},
		{6.2, 2.9, 4.3, 1.3, 1},
	}
	require.NoError(t, records.Write(filepath.Join(dir, "raw-0.bin"), spec.Columns(), rows, compression.TypeGzip))

	recs, err := ReadRawRecords(filepath.Join(dir, "raw-*.bin"), spec)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, 5.1, recs[0].Features["sepal_length"])
	assert.Equal(t, int64(1), recs[1].Label)
}
