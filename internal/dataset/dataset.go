// Package dataset materializes transformed record files into in-memory
// arrays for training. Materialization is eager and blocking: the full
// matched dataset is realized at once, and the first malformed record aborts
// the whole load.
package dataset

import (
	"fmt"
	"math/rand"
	"path/filepath"
	"sort"
	"time"

	"github.com/Meesho/BharatMLStack/model-trainer/internal/data/records"
	"github.com/Meesho/BharatMLStack/model-trainer/internal/schema"
	"gonum.org/v1/gonum/mat"
)

// ShuffleBufferSize is the fixed size of the streaming shuffle buffer
// records pass through on their way into the feature matrix.
const ShuffleBufferSize = 10000

// Dataset is a realized feature matrix with its parallel label vector.
// Features is nil when the dataset is empty; Dims still reports the schema
// width.
type Dataset struct {
	Features *mat.Dense
	Labels   []int

	cols int
}

// Dims returns the shape of the feature matrix, (N, number of features),
// valid for any N >= 0.
func (d *Dataset) Dims() (rows, cols int) {
	return len(d.Labels), d.cols
}

// Loader reads every record file matching a glob pattern and realizes the
// stream into a Dataset.
type Loader struct {
	spec       schema.Spec
	bufferSize int
	rng        *rand.Rand
}

func NewLoader(spec schema.Spec) *Loader {
	return &Loader{
		spec:       spec,
		bufferSize: ShuffleBufferSize,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// WithSeed pins the shuffle order, for reproducible runs and tests.
func (l *Loader) WithSeed(seed int64) *Loader {
	l.rng = rand.New(rand.NewSource(seed))
	return l
}

// WithBufferSize overrides the shuffle buffer size.
func (l *Loader) WithBufferSize(size int) *Loader {
	if size > 0 {
		l.bufferSize = size
	}
	return l
}

// Load globs pattern, reads each matching transformed record file, splits
// off the label column, shuffles the stream through the fixed-size buffer
// and realizes it into a Dataset.
func (l *Loader) Load(pattern string) (*Dataset, error) {
	if err := l.spec.Validate(); err != nil {
		return nil, err
	}
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("dataset: bad file pattern %q: %w", pattern, err)
	}
	sort.Strings(paths)

	expected := l.spec.TransformedColumns()
	labelColumn := l.spec.TransformedLabelKey()

	shuffler := newBufferShuffle(l.bufferSize, l.rng)
	for _, path := range paths {
		file, err := records.Read(path)
		if err != nil {
			return nil, err
		}
		if err := matchColumns(file.Columns, expected); err != nil {
			return nil, fmt.Errorf("dataset: %s: %w", path, err)
		}
		for _, row := range file.Rows {
			shuffler.push(row)
		}
	}
	rows := shuffler.drain()

	numFeatures := len(l.spec.FeatureKeys)
	flat := make([]float64, 0, len(rows)*numFeatures)
	labels := make([]int, 0, len(rows))
	for i, row := range rows {
		rec, err := records.RecordFromRow(expected, labelColumn, row)
		if err != nil {
			return nil, fmt.Errorf("dataset: record %d: %w", i, err)
		}
		for _, key := range l.spec.TransformedFeatureKeys() {
			value, err := rec.Feature(key)
			if err != nil {
				return nil, fmt.Errorf("dataset: record %d: %w", i, err)
			}
			flat = append(flat, value)
		}
		labels = append(labels, int(rec.Label))
	}

	ds := &Dataset{Labels: labels, cols: numFeatures}
	if len(rows) > 0 {
		ds.Features = mat.NewDense(len(rows), numFeatures, flat)
	}
	return ds, nil
}

// ReadRawRecords materializes raw (untransformed) record files matching
// pattern, in file order, without shuffling. The analyze phase reads the
// reference dataset through this.
func ReadRawRecords(pattern string, spec schema.Spec) ([]schema.Record, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("dataset: bad file pattern %q: %w", pattern, err)
	}
	sort.Strings(paths)

	expected := spec.Columns()
	var recs []schema.Record
	for _, path := range paths {
		file, err := records.Read(path)
		if err != nil {
			return nil, err
		}
		if err := matchColumns(file.Columns, expected); err != nil {
			return nil, fmt.Errorf("dataset: %s: %w", path, err)
		}
		for i, row := range file.Rows {
			rec, err := records.RecordFromRow(expected, spec.LabelKey, row)
			if err != nil {
				return nil, fmt.Errorf("dataset: %s: record %d: %w", path, i, err)
			}
			recs = append(recs, rec)
		}
	}
	return recs, nil
}

func matchColumns(got, want []string) error {
	if len(got) != len(want) {
		return fmt.Errorf("schema tag %v does not match expected columns %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			return fmt.Errorf("schema tag %v does not match expected columns %v", got, want)
		}
	}
	return nil
}

// bufferShuffle shuffles a stream through a fixed-size buffer: rows fill the
// buffer, each incoming row evicts a uniformly chosen buffered row, and the
// leftover buffer drains in random order.
type bufferShuffle struct {
	size int
	rng  *rand.Rand
	buf  [][]float64
	out  [][]float64
}

func newBufferShuffle(size int, rng *rand.Rand) *bufferShuffle {
	return &bufferShuffle{size: size, rng: rng}
}

func (s *bufferShuffle) push(row []float64) {
	if len(s.buf) < s.size {
		s.buf = append(s.buf, row)
		return
	}
	i := s.rng.Intn(len(s.buf))
	s.out = append(s.out, s.buf[i])
	s.buf[i] = row
}

func (s *bufferShuffle) drain() [][]float64 {
	s.rng.Shuffle(len(s.buf), func(i, j int) {
		s.buf[i], s.buf[j] = s.buf[j], s.buf[i]
	})
	s.out = append(s.out, s.buf...)
	s.buf = nil
	return s.out
}
