package export

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/fxamacker/cbor/v2"
	"go.uber.org/zap"

	"github.com/ccollicutt/oceanpack/pkg/dataset"
)

// Magic starts every container file.
const Magic = "OPDS"

// Version is the container format version written by ContainerWriter.
const Version byte = 1

const (
	dtypeFloat  = "float64"
	dtypeString = "string"
)

type document struct {
	Attrs     map[string]string `cbor:"attrs"`
	Time      []int64           `cbor:"time"`
	Variables []record          `cbor:"variables"`
}

type record struct {
	Name    string            `cbor:"name"`
	DType   string            `cbor:"dtype"`
	Attrs   map[string]string `cbor:"attrs"`
	Codec   Codec             `cbor:"codec"`
	Level   int               `cbor:"level"`
	Length  int               `cbor:"length"`
	Payload []byte            `cbor:"payload"`
}

// encMode writes deterministic CBOR so equal datasets give equal files.
var encMode = func() cbor.EncMode {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	return em
}()

// ContainerWriter writes the OPDS container format.
type ContainerWriter struct {
	compression Compression
	logger      *zap.Logger
}

// Format returns the format name.
func (w *ContainerWriter) Format() string {
	return FormatOPDS
}

// Write encodes ds and writes it atomically to path.
func (w *ContainerWriter) Write(ctx context.Context, ds *dataset.Dataset, path string) error {
	data, err := w.Encode(ctx, ds)
	if err != nil {
		return err
	}
	err = writeAtomic(path, func(f *os.File) error {
		_, err := f.Write(data)
		return err
	})
	if err != nil {
		return err
	}
	w.logger.Info("wrote dataset",
		zap.String("path", path),
		zap.String("format", FormatOPDS),
		zap.Int("rows", ds.Len()),
		zap.Int("variables", len(ds.Names())),
		zap.String("codec", string(w.compression.Codec)),
		zap.Int("level", w.compression.Level),
		zap.Int("bytes", len(data)))
	return nil
}

// Encode returns the container bytes of ds.
func (w *ContainerWriter) Encode(ctx context.Context, ds *dataset.Dataset) ([]byte, error) {
	doc := document{
		Attrs: ds.Attrs,
		Time:  make([]int64, ds.Len()),
	}
	for i, t := range ds.Time {
		doc.Time[i] = t.UnixNano()
	}

	for _, name := range ds.Names() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		v, _ := ds.Var(name)
		rec, err := w.encodeVariable(v)
		if err != nil {
			return nil, fmt.Errorf("encoding variable %s: %w", name, err)
		}
		doc.Variables = append(doc.Variables, rec)
	}

	body, err := encMode.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding container: %w", err)
	}

	var buf bytes.Buffer
	buf.Grow(len(Magic) + 1 + len(body))
	buf.WriteString(Magic)
	buf.WriteByte(Version)
	buf.Write(body)
	return buf.Bytes(), nil
}

func (w *ContainerWriter) encodeVariable(v *dataset.Variable) (record, error) {
	rec := record{
		Name:   v.Name,
		Attrs:  v.Attrs,
		Codec:  w.compression.Codec,
		Level:  w.compression.Level,
		Length: v.Len(),
	}

	var raw []byte
	if v.IsText() {
		rec.DType = dtypeString
		b, err := encMode.Marshal(v.Text)
		if err != nil {
			return rec, err
		}
		raw = b
	} else {
		rec.DType = dtypeFloat
		raw = make([]byte, 8*len(v.Data))
		for i, x := range v.Data {
			binary.LittleEndian.PutUint64(raw[8*i:], math.Float64bits(x))
		}
	}

	payload, err := compress(w.compression, raw)
	if err != nil {
		return rec, err
	}
	rec.Payload = payload
	return rec, nil
}

// Load reads a container file completely into memory. The returned dataset
// holds no reference to the file, so it may be written back to path.
func Load(ctx context.Context, path string) (*dataset.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dataset: %w", err)
	}
	ds, err := Decode(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// Decode parses container bytes.
func Decode(ctx context.Context, data []byte) (*dataset.Dataset, error) {
	if len(data) < len(Magic)+1 || string(data[:len(Magic)]) != Magic {
		return nil, ErrBadFormat
	}
	if v := data[len(Magic)]; v != Version {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrBadFormat, v)
	}

	var doc document
	if err := cbor.Unmarshal(data[len(Magic)+1:], &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadFormat, err)
	}

	times := make([]time.Time, len(doc.Time))
	for i, ns := range doc.Time {
		times[i] = time.Unix(0, ns).UTC()
	}
	ds := dataset.New(times)
	for k, v := range doc.Attrs {
		ds.Attrs[k] = v
	}

	for _, rec := range doc.Variables {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		v, err := decodeVariable(rec)
		if err != nil {
			return nil, fmt.Errorf("decoding variable %s: %w", rec.Name, err)
		}
		if err := ds.Add(v); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

func decodeVariable(rec record) (*dataset.Variable, error) {
	raw, err := decompress(rec.Codec, rec.Payload)
	if err != nil {
		return nil, err
	}

	v := &dataset.Variable{Name: rec.Name, Attrs: rec.Attrs}
	if v.Attrs == nil {
		v.Attrs = make(map[string]string)
	}

	switch rec.DType {
	case dtypeFloat:
		if len(raw) != 8*rec.Length {
			return nil, fmt.Errorf("%w: payload of %d bytes for %d values", ErrBadFormat, len(raw), rec.Length)
		}
		v.Data = make([]float64, rec.Length)
		for i := range v.Data {
			v.Data[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[8*i:]))
		}
	case dtypeString:
		if err := cbor.Unmarshal(raw, &v.Text); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadFormat, err)
		}
		if v.Text == nil {
			v.Text = []string{}
		}
		if len(v.Text) != rec.Length {
			return nil, fmt.Errorf("%w: %d strings for %d values", ErrBadFormat, len(v.Text), rec.Length)
		}
	default:
		return nil, fmt.Errorf("%w: unknown dtype %q", ErrBadFormat, rec.DType)
	}
	return v, nil
}
