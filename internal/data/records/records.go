package records

import (
	"fmt"
	"os"

	"github.com/Meesho/BharatMLStack/model-trainer/internal/compression"
	"github.com/Meesho/BharatMLStack/model-trainer/internal/system"
)

//Data Layout
//[0] - Layout Version
//[1] - Compression Type
//[2-3] - Column Count (uint16)
//Per column: [0] - Name Length (uint8), followed by the name bytes (schema tag)
//[4 bytes] - Row Count (uint32)
//Remaining bytes - compressed payload: Row Count rows, each Column Count
//float64 values in column declaration order, fixed little-endian.

const (
	LayoutVersion1 = 1

	maxColumns    = 255
	maxColumnName = 255
)

// File is one decoded record file: its schema tag and the realized rows.
type File struct {
	Columns []string
	Rows    [][]float64
}

// Write serializes rows under the given schema tag and writes them to path.
// Every row must have exactly one value per column.
func Write(path string, columns []string, rows [][]float64, compressionType compression.Type) error {
	if len(columns) == 0 || len(columns) > maxColumns {
		return fmt.Errorf("records: invalid column count %d", len(columns))
	}
	for _, name := range columns {
		if len(name) == 0 || len(name) > maxColumnName {
			return fmt.Errorf("records: invalid column name %q", name)
		}
	}
	for i, row := range rows {
		if len(row) != len(columns) {
			return fmt.Errorf("records: row %d has %d values, want %d", i, len(row), len(columns))
		}
	}

	encoder, err := compression.GetEncoder(compressionType)
	if err != nil {
		return err
	}

	payload := make([]byte, len(rows)*len(columns)*8)
	for i, row := range rows {
		system.ByteOrder.PutFloat64Vector(payload[i*len(columns)*8:], row)
	}
	cpayload, err := encoder.Encode(payload)
	if err != nil {
		return fmt.Errorf("records: compressing payload: %w", err)
	}

	buf := make([]byte, 0, headerLength(columns)+len(cpayload))
	buf = append(buf, LayoutVersion1, byte(compressionType))
	buf = append(buf, 0, 0)
	system.ByteOrder.PutUint16(buf[2:4], uint16(len(columns)))
	for _, name := range columns {
		buf = append(buf, byte(len(name)))
		buf = append(buf, name...)
	}
	buf = append(buf, 0, 0, 0, 0)
	system.ByteOrder.PutUint32(buf[len(buf)-4:], uint32(len(rows)))
	buf = append(buf, cpayload...)

	return os.WriteFile(path, buf, 0o644)
}

// Read decodes one record file. Any structural defect aborts the read: there
// is no partial-result salvage for malformed files.
func Read(path string) (*File, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(buf) < 4 {
		return nil, fmt.Errorf("records: %s: truncated header", path)
	}
	if buf[0] != LayoutVersion1 {
		return nil, fmt.Errorf("records: %s: unsupported layout version %d", path, buf[0])
	}
	decoder, err := compression.GetDecoder(compression.Type(buf[1]))
	if err != nil {
		return nil, fmt.Errorf("records: %s: %w", path, err)
	}
	columnCount := int(system.ByteOrder.Uint16(buf[2:4]))
	if columnCount == 0 {
		return nil, fmt.Errorf("records: %s: zero columns", path)
	}

	offset := 4
	columns := make([]string, columnCount)
	for i := 0; i < columnCount; i++ {
		if offset >= len(buf) {
			return nil, fmt.Errorf("records: %s: truncated schema tag", path)
		}
		nameLen := int(buf[offset])
		offset++
		if nameLen == 0 || offset+nameLen > len(buf) {
			return nil, fmt.Errorf("records: %s: truncated schema tag", path)
		}
		columns[i] = string(buf[offset : offset+nameLen])
		offset += nameLen
	}
	if offset+4 > len(buf) {
		return nil, fmt.Errorf("records: %s: truncated row count", path)
	}
	rowCount := int(system.ByteOrder.Uint32(buf[offset : offset+4]))
	offset += 4

	payload, err := decoder.Decode(buf[offset:])
	if err != nil {
		return nil, fmt.Errorf("records: %s: decompressing payload: %w", path, err)
	}
	if len(payload) != rowCount*columnCount*8 {
		return nil, fmt.Errorf("records: %s: payload is %d bytes, want %d", path, len(payload), rowCount*columnCount*8)
	}

	rows := make([][]float64, rowCount)
	for i := 0; i < rowCount; i++ {
		rows[i] = system.ByteOrder.Float64Vector(payload[i*columnCount*8 : (i+1)*columnCount*8])
	}
	return &File{Columns: columns, Rows: rows}, nil
}

func headerLength(columns []string) int {
	n := 4 + 4
	for _, name := range columns {
		n += 1 + len(name)
	}
	return n
}
