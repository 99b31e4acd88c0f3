package compression

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/gzip"
)

// GzipEncoder exists for interop with upstream pipelines that still ship
// gzip record files. New files are written with zstd.
type GzipEncoder struct{}

func (e *GzipEncoder) Encode(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *GzipEncoder) EncoderType() Type {
	return TypeGzip
}

type GzipDecoder struct{}

func (d *GzipDecoder) Decode(cdata []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(cdata))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

func (d *GzipDecoder) DecoderType() Type {
	return TypeGzip
}
