package system

import (
	"encoding/binary"
	"math"
)

// ByteOrder is the byte order every record file is written and read with.
// Record files travel between machines, so the order is pinned to
// little-endian rather than detected from the host.
var ByteOrder = &CustomByteOrder{binary.LittleEndian}

type CustomByteOrder struct {
	binary.ByteOrder
}

/**
 * Extensions for float64 columns
 */
func (c *CustomByteOrder) PutFloat64(b []byte, v float64) {
	c.ByteOrder.PutUint64(b, math.Float64bits(v))
}

func (c *CustomByteOrder) Float64(b []byte) float64 {
	return math.Float64frombits(c.ByteOrder.Uint64(b))
}

func (c *CustomByteOrder) PutFloat64Vector(b []byte, v []float64) {
	for i, f := range v {
		c.PutFloat64(b[i*8:i*8+8], f)
	}
}

func (c *CustomByteOrder) Float64Vector(b []byte) []float64 {
	if len(b)%8 != 0 {
		panic("invalid byte slice length: must be a multiple of 8")
	}
	result := make([]float64, len(b)/8)
	for i := range result {
		result[i] = c.Float64(b[i*8 : i*8+8])
	}
	return result
}

/**
 * Extensions for int64 label columns
 */
func (c *CustomByteOrder) PutInt64(b []byte, v int64) {
	c.ByteOrder.PutUint64(b, uint64(v))
}

func (c *CustomByteOrder) Int64(b []byte) int64 {
	return int64(c.ByteOrder.Uint64(b))
}
