package parser

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// ErrNoTimeColumns is returned when a header lacks the DATE or TIME column.
var ErrNoTimeColumns = errors.New("header has no DATE/TIME columns")

// Reader reads log files of one source type.
type Reader struct {
	variant    Variant
	timestamps *TimestampParser
}

// NewReader creates a reader for the given variant.
func NewReader(v Variant) *Reader {
	return &Reader{
		variant:    v,
		timestamps: NewTimestampParser(),
	}
}

// Read reads the log file at path.
func (r *Reader) Read(ctx context.Context, path string) (*Table, []ColumnMeta, error) {
	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file %s: %w", path, err)
	}
	defer f.Close()

	return r.ReadFrom(ctx, f, path)
}

// ReadFrom reads log content from src; name is recorded as the table source.
func (r *Reader) ReadFrom(ctx context.Context, src io.Reader, name string) (*Table, []ColumnMeta, error) {
	br := newLogReader(src)

	header, err := ReadHeader(br)
	if errors.Is(err, ErrNoHeader) {
		return &Table{Source: name}, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", name, err)
	}

	dateIdx, timeIdx := header.index(columnDate), header.index(columnTime)
	if dateIdx < 0 || timeIdx < 0 {
		return nil, nil, fmt.Errorf("%s: %w", name, ErrNoTimeColumns)
	}

	// Data columns are the header positions minus the reserved markers.
	var positions []int
	table := &Table{Source: name, Header: header}
	var meta []ColumnMeta
	for i, n := range header.Names {
		if n == MarkerName || n == columnDate || n == columnTime || n == "" {
			continue
		}
		positions = append(positions, i)
		table.Columns = append(table.Columns, n)
		meta = append(meta, ColumnMeta{
			Name:     n,
			LongName: header.RawNames[i],
			Unit:     header.Units[i],
			Device:   header.Sensors[i],
		})
	}

	marker := r.variant.marker(header)
	width := len(header.Names)

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	for {
		select {
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		default:
		}

		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				continue
			}
			return nil, nil, fmt.Errorf("reading %s: %w", name, err)
		}

		// Restrict to the declared columns; a trailing delimiter adds one more.
		if len(record) > width {
			record = record[:width]
		}
		if strings.TrimSpace(record[0]) != marker {
			continue
		}

		ts, err := r.timestamps.Parse(field(record, dateIdx), field(record, timeIdx))
		if err != nil {
			ts = time.Time{}
		}

		row := make([]string, len(positions))
		for j, pos := range positions {
			row[j] = field(record, pos)
		}
		table.Index = append(table.Index, ts)
		table.Rows = append(table.Rows, row)
	}

	return table, meta, nil
}

func field(record []string, i int) string {
	if i < len(record) {
		return strings.TrimSpace(record[i])
	}
	return ""
}
