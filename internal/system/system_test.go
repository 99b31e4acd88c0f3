package system

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFloat64RoundTrip(t *testing.T) {
	values := []float64{0, 1.5, -2.75, math.MaxFloat64, math.SmallestNonzeroFloat64, math.Inf(1)}
	buf := make([]byte, 8)
	for _, v := range values {
		ByteOrder.PutFloat64(buf, v)
		assert.Equal(t, math.Float64bits(v), math.Float64bits(ByteOrder.Float64(buf)))
	}
}

func TestFloat64VectorRoundTrip(t *testing.T) {
	v := []float64{1.1, -2.2, 3.3, 0}
	buf := make([]byte, len(v)*8)
	ByteOrder.PutFloat64Vector(buf, v)
	assert.Equal(t, v, ByteOrder.Float64Vector(buf))
}

func TestFloat64VectorBadLength(t *testing.T) {
	assert.Panics(t, func() {
		ByteOrder.Float64Vector(make([]byte, 9))
	})
}

func TestInt64RoundTrip(t *testing.T) {
	buf := make([]byte, 8)
	for _, v := range []int64{0, 1, -1, math.MaxInt64, math.MinInt64} {
		ByteOrder.PutInt64(buf, v)
		assert.Equal(t, v, ByteOrder.Int64(buf))
	}
}
