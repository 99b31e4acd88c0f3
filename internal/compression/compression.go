package compression

import "fmt"

// Type identifies the codec a record payload was written with. The value is
// persisted in record-file headers, so existing values must never be
// renumbered.
type Type uint8

const (
	TypeNone Type = iota
	TypeZSTD
	TypeGzip
)

type Encoder interface {
	Encode(data []byte) ([]byte, error)
	EncoderType() Type
}

type Decoder interface {
	Decode(cdata []byte) ([]byte, error)
	DecoderType() Type
}

type NoOpEncoder struct{}

func (e *NoOpEncoder) Encode(data []byte) ([]byte, error) {
	return data, nil
}

func (e *NoOpEncoder) EncoderType() Type {
	return TypeNone
}

type NoOpDecoder struct{}

func (d *NoOpDecoder) Decode(cdata []byte) ([]byte, error) {
	return cdata, nil
}

func (d *NoOpDecoder) DecoderType() Type {
	return TypeNone
}

func GetEncoder(compressionType Type) (Encoder, error) {
	switch compressionType {
	case TypeZSTD:
		return NewZStdEncoder(), nil
	case TypeGzip:
		return &GzipEncoder{}, nil
	case TypeNone:
		return &NoOpEncoder{}, nil
	default:
		return nil, fmt.Errorf("unsupported compression type: %d", compressionType)
	}
}

func GetDecoder(compressionType Type) (Decoder, error) {
	switch compressionType {
	case TypeZSTD:
		return NewZStdDecoder(), nil
	case TypeGzip:
		return &GzipDecoder{}, nil
	case TypeNone:
		return &NoOpDecoder{}, nil
	default:
		return nil, fmt.Errorf("unsupported compression type: %d", compressionType)
	}
}
