package export

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
)

// Codec names a payload compression.
type Codec string

const (
	CodecZlib Codec = "zlib"
	CodecZstd Codec = "zstd"
	CodecNone Codec = "none"
)

// Compression configures per-variable payload compression.
type Compression struct {
	Codec Codec
	Level int
}

// DefaultCompression is zlib at level 5.
var DefaultCompression = Compression{Codec: CodecZlib, Level: 5}

// Validate checks the level range of the codec.
func (c Compression) Validate() error {
	switch c.Codec {
	case CodecZlib:
		if c.Level < zlib.NoCompression || c.Level > zlib.BestCompression {
			return fmt.Errorf("zlib level %d out of range (0-9)", c.Level)
		}
	case CodecZstd:
		if c.Level < 1 || c.Level > 22 {
			return fmt.Errorf("zstd level %d out of range (1-22)", c.Level)
		}
	case CodecNone:
	default:
		return fmt.Errorf("unknown codec %q (must be zlib, zstd or none)", c.Codec)
	}
	return nil
}

func compress(c Compression, data []byte) ([]byte, error) {
	switch c.Codec {
	case CodecNone:
		return data, nil
	case CodecZlib:
		var buf bytes.Buffer
		w, err := zlib.NewWriterLevel(&buf, c.Level)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(data); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case CodecZstd:
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(c.Level)))
		if err != nil {
			return nil, err
		}
		defer enc.Close()
		return enc.EncodeAll(data, nil), nil
	}
	return nil, fmt.Errorf("unknown codec %q", c.Codec)
}

func decompress(codec Codec, data []byte) ([]byte, error) {
	switch codec {
	case CodecNone:
		return data, nil
	case CodecZlib:
		r, err := zlib.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer r.Close()
		return io.ReadAll(r)
	case CodecZstd:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		return dec.DecodeAll(data, nil)
	}
	return nil, fmt.Errorf("%w: unknown codec %q", ErrBadFormat, codec)
}
