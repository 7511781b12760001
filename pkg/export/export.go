// Package export writes datasets to files: the self-describing OPDS
// container and XLSX spreadsheets. Writes are atomic; a failed write never
// leaves a partial file at the destination.
package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/ccollicutt/oceanpack/pkg/dataset"
)

var (
	// ErrBadFormat is returned when a file is not a valid container.
	ErrBadFormat = errors.New("not an OPDS dataset container")
	// ErrUnknownFormat is returned for an unsupported output format.
	ErrUnknownFormat = errors.New("unknown output format")
)

// Output formats.
const (
	FormatOPDS = "opds"
	FormatXLSX = "xlsx"
)

// Writer writes a dataset to a path.
type Writer interface {
	Write(ctx context.Context, ds *dataset.Dataset, path string) error

	// Format returns the format name (opds, xlsx).
	Format() string
}

type options struct {
	compression Compression
	logger      *zap.Logger
}

// Option configures a Writer.
type Option func(*options)

// WithCompression sets the container compression.
func WithCompression(c Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithLogger sets the diagnostics sink.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// NewWriter returns the writer for a format name.
func NewWriter(format string, opts ...Option) (Writer, error) {
	o := options{compression: DefaultCompression, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	switch strings.ToLower(format) {
	case FormatOPDS:
		if err := o.compression.Validate(); err != nil {
			return nil, err
		}
		return &ContainerWriter{compression: o.compression, logger: o.logger}, nil
	case FormatXLSX:
		return &XLSXWriter{logger: o.logger}, nil
	}
	return nil, fmt.Errorf("%w %q (must be %s or %s)", ErrUnknownFormat, format, FormatOPDS, FormatXLSX)
}

// FormatFor resolves the output format: an explicit format wins, otherwise
// the extension of path decides and anything unknown defaults to opds.
func FormatFor(path, format string) string {
	if format != "" {
		return strings.ToLower(format)
	}
	if strings.EqualFold(filepath.Ext(path), "."+FormatXLSX) {
		return FormatXLSX
	}
	return FormatOPDS
}

// writeAtomic writes to a temporary file next to path and renames it over
// path once write succeeded.
func writeAtomic(path string, write func(f *os.File) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temporary file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = write(tmp); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("syncing %s: %w", tmp.Name(), err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmp.Name(), err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("renaming to %s: %w", path, err)
	}
	return nil
}
