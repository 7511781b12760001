package dataset

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ccollicutt/oceanpack/pkg/detector"
	"github.com/ccollicutt/oceanpack/pkg/parser"
)

// AssembleReport collects the recoverable problems of one assembly run.
type AssembleReport struct {
	Files               []string // Files read, after deduplication
	SourceType          parser.SourceType
	Detection           *detector.DetectionResult // Nil when the source type was given
	DuplicateFiles      []string
	SkippedFiles        []string // Files without a header
	DroppedColumns      []string
	TextColumns         []string // Non-numeric columns kept as text
	NullTimestamps      int
	DuplicateTimestamps int
}

// HasWarnings reports whether any input was skipped or dropped.
func (r *AssembleReport) HasWarnings() bool {
	return len(r.SkippedFiles) > 0 || len(r.DroppedColumns) > 0
}

// Assembler turns a batch of log files into a Dataset.
type Assembler struct {
	logger      *zap.Logger
	suffix      string
	dedup       bool
	hashContent bool
	policy      CoercionPolicy
	sourceType  parser.SourceType
	detector    *detector.Detector
}

// Option configures the Assembler.
type Option func(*Assembler)

// WithLogger sets the diagnostics sink.
func WithLogger(l *zap.Logger) Option {
	return func(a *Assembler) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithSuffix sets the file suffix searched for in directories.
func WithSuffix(s string) Option {
	return func(a *Assembler) {
		a.suffix = s
	}
}

// WithDeduplication enables or disables dropping duplicate files.
func WithDeduplication(enabled bool) Option {
	return func(a *Assembler) {
		a.dedup = enabled
	}
}

// WithContentHash compares file content for deduplication.
func WithContentHash(enabled bool) Option {
	return func(a *Assembler) {
		a.hashContent = enabled
	}
}

// WithCoercionPolicy sets the handling of non-numeric columns.
func WithCoercionPolicy(p CoercionPolicy) Option {
	return func(a *Assembler) {
		a.policy = p
	}
}

// WithSourceType fixes the source type; SourceUnknown means detect.
func WithSourceType(s parser.SourceType) Option {
	return func(a *Assembler) {
		a.sourceType = s
	}
}

// WithDetector sets the detector used when no source type is given.
func WithDetector(d *detector.Detector) Option {
	return func(a *Assembler) {
		if d != nil {
			a.detector = d
		}
	}
}

// NewAssembler creates an Assembler with the given options.
func NewAssembler(opts ...Option) *Assembler {
	a := &Assembler{
		logger:   zap.NewNop(),
		suffix:   parser.DefaultSuffix,
		dedup:    true,
		policy:   CoerceDrop,
		detector: detector.New(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble reads the files named by inputs (files, directories or glob
// patterns) and combines them into one dataset sorted by time. Files are
// read in the order given; the first occurrence of a timestamp wins.
func (a *Assembler) Assemble(ctx context.Context, inputs []string) (*Dataset, *AssembleReport, error) {
	files, err := parser.ExpandInputs(inputs, a.suffix)
	if err != nil {
		return nil, nil, err
	}
	if len(files) == 0 {
		return nil, nil, ErrNoFiles
	}

	report := &AssembleReport{}
	if a.dedup {
		var dups []string
		files, dups, err = DeduplicateFiles(files, a.hashContent)
		if err != nil {
			return nil, nil, err
		}
		if len(dups) > 0 {
			a.logger.Info("dropped duplicate files",
				zap.Int("count", len(dups)),
				zap.Strings("files", dups),
				zap.Bool("content_hash", a.hashContent))
		}
		report.DuplicateFiles = dups
	}
	report.Files = files

	st, err := a.resolveSourceType(ctx, files[0], report)
	if err != nil {
		return nil, nil, err
	}
	report.SourceType = st

	handler, err := parser.HandlerFor(st)
	if err != nil {
		return nil, nil, err
	}

	var tables []*parser.Table
	var meta []parser.ColumnMeta
	for _, f := range files {
		table, m, err := handler.Read(ctx, f)
		if err != nil {
			return nil, nil, err
		}
		if table.Header == nil {
			a.logger.Warn("skipping file without header",
				zap.String("file", f),
				zap.Int("searched_lines", parser.MaxHeaderLines))
			report.SkippedFiles = append(report.SkippedFiles, f)
			continue
		}
		if meta == nil {
			meta = m
		}
		a.logger.Debug("read file", zap.String("file", f), zap.Int("rows", table.Len()))
		tables = append(tables, table)
	}
	if len(tables) == 0 {
		return nil, nil, fmt.Errorf("%w: no file had a header", ErrNoData)
	}

	merged, stats := parser.MergeTables(tables)
	report.NullTimestamps = stats.NullTimestamps
	report.DuplicateTimestamps = stats.DuplicateTimestamps
	if stats.NullTimestamps > 0 {
		a.logger.Warn("dropped rows with unparseable timestamps", zap.Int("rows", stats.NullTimestamps))
	}
	if stats.DuplicateTimestamps > 0 {
		a.logger.Info("dropped rows with duplicate timestamps", zap.Int("rows", stats.DuplicateTimestamps))
	}

	ds, err := a.toDataset(merged, meta, report)
	if err != nil {
		return nil, nil, err
	}
	ds.Attrs[AttrSourceType] = st.String()
	return ds, report, nil
}

func (a *Assembler) resolveSourceType(ctx context.Context, first string, report *AssembleReport) (parser.SourceType, error) {
	if a.sourceType != parser.SourceUnknown {
		return a.sourceType, nil
	}
	result, err := a.detector.DetectFromFile(ctx, first)
	if err != nil {
		return parser.SourceUnknown, err
	}
	a.logger.Info("detected source type",
		zap.Stringer("source_type", result.Type),
		zap.String("strategy", result.Strategy),
		zap.String("reason", result.Reason),
		zap.String("file", first))
	report.Detection = result
	return result.Type, nil
}

func (a *Assembler) toDataset(t *parser.Table, meta []parser.ColumnMeta, report *AssembleReport) (*Dataset, error) {
	attrs := make(map[string]parser.ColumnMeta, len(meta))
	for _, m := range meta {
		attrs[m.Name] = m
	}

	ds := New(t.Index)
	column := make([]string, t.Len())
	for j, name := range t.Columns {
		for i, row := range t.Rows {
			column[i] = row[j]
		}

		v := &Variable{Name: name, Attrs: make(map[string]string)}
		if m, ok := attrs[name]; ok {
			setAttr(v.Attrs, AttrUnit, m.Unit)
			setAttr(v.Attrs, AttrLongName, m.LongName)
			setAttr(v.Attrs, AttrSensor, m.Device)
		}

		data, bad, ok := coerceFloats(column)
		switch {
		case ok:
			v.Data = data
		case a.policy == CoerceKeep:
			a.logger.Warn("keeping non-numeric column as text", zap.String("column", name), zap.String("value", bad))
			v.Text = append([]string{}, column...)
			report.TextColumns = append(report.TextColumns, name)
		default:
			a.logger.Warn("dropping non-numeric column", zap.String("column", name), zap.String("value", bad))
			report.DroppedColumns = append(report.DroppedColumns, name)
			continue
		}
		if err := ds.Add(v); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

func setAttr(attrs map[string]string, key, value string) {
	if value != "" {
		attrs[key] = value
	}
}
