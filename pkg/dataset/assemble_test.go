package dataset

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ccollicutt/oceanpack/pkg/detector"
	"github.com/ccollicutt/oceanpack/pkg/parser"
)

const logHeader = "@SENSOR,,,ANALYZER,ANALYZER,ANALYZER,SBE45\n" +
	"@NAME,DATE,TIME,CO2,CellPress,STATUS,SBE45/Temp\n" +
	"@UNIT,,,ppm,hPa,,degC\n" +
	"@RATE,1\n"

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestAssembler_Assemble(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "day1.log"), logHeader+
		"DATA,2024-01-15,10:00:01,410.1,1013.2,5,12.5,\n"+
		"DATA,2024-01-15,10:00:00,410.0,1013.1,5,12.5,\n"+
		"MSG,2024-01-15,10:00:00,calibration\n")
	writeFile(t, filepath.Join(dir, "day2.log"), logHeader+
		"DATA,2024-01-15,10:00:01,999.9,999.9,5,99.9,\n"+
		"DATA,2024-01-15,10:00:02,410.2,,4,12.6,\n"+
		"DATA,not-a-date,10:00:03,410.3,1013.0,5,12.6,\n")

	core, logs := observer.New(zapcore.DebugLevel)
	a := NewAssembler(WithLogger(zap.New(core)))

	ds, report, err := a.Assemble(context.Background(), []string{dir})
	require.NoError(t, err)

	assert.Equal(t, parser.SourceAnalyzer, report.SourceType)
	require.NotNil(t, report.Detection)
	assert.Equal(t, "header", report.Detection.Strategy)
	assert.Equal(t, "Analyzer", ds.Attrs[AttrSourceType])

	require.Equal(t, 3, ds.Len())
	for i := 1; i < ds.Len(); i++ {
		assert.True(t, ds.Time[i].After(ds.Time[i-1]))
	}
	assert.Equal(t, 1, report.NullTimestamps)
	assert.Equal(t, 1, report.DuplicateTimestamps)

	co2, err := ds.Float("CO2")
	require.NoError(t, err)
	assert.Equal(t, []float64{410.0, 410.1, 410.2}, co2)

	press, _ := ds.Float("CellPress")
	assert.True(t, math.IsNaN(press[2]))

	v, ok := ds.Var("SBE45_Temp")
	require.True(t, ok)
	assert.Equal(t, "degC", v.Attrs[AttrUnit])
	assert.Equal(t, "SBE45/Temp", v.Attrs[AttrLongName])
	assert.Equal(t, "SBE45", v.Attrs[AttrSensor])

	assert.Equal(t, 1, logs.FilterMessage("detected source type").Len())
	assert.False(t, report.HasWarnings())
}

func TestAssembler_SkipsFilesWithoutHeader(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, filepath.Join(dir, "a.log"), logHeader+"DATA,2024-01-15,10:00:00,410,1013,5,12\n")
	bad := writeFile(t, filepath.Join(dir, "b.log"), "corrupted\n")

	core, logs := observer.New(zapcore.WarnLevel)
	a := NewAssembler(WithLogger(zap.New(core)), WithSourceType(parser.SourceAnalyzer))

	ds, report, err := a.Assemble(context.Background(), []string{good, bad})
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Len())
	assert.Equal(t, []string{bad}, report.SkippedFiles)
	assert.Nil(t, report.Detection)
	assert.True(t, report.HasWarnings())

	warnings := logs.FilterMessage("skipping file without header").All()
	require.Len(t, warnings, 1)
	assert.Equal(t, bad, warnings[0].ContextMap()["file"])
}

func TestAssembler_NonNumericPolicy(t *testing.T) {
	content := "@NAME,DATE,TIME,CO2,Mode\n@RATE,1\n" +
		"DATA,2024-01-15,10:00:00,410,RUN\n" +
		"DATA,2024-01-15,10:00:01,411,CAL\n"
	path := writeFile(t, filepath.Join(t.TempDir(), "a.log"), content)

	t.Run("drop", func(t *testing.T) {
		core, logs := observer.New(zapcore.WarnLevel)
		a := NewAssembler(WithLogger(zap.New(core)), WithSourceType(parser.SourceAnalyzer))
		ds, report, err := a.Assemble(context.Background(), []string{path})
		require.NoError(t, err)
		assert.False(t, ds.Has("Mode"))
		assert.Equal(t, []string{"Mode"}, report.DroppedColumns)
		require.Equal(t, 1, logs.FilterMessage("dropping non-numeric column").Len())
		assert.Equal(t, "Mode", logs.All()[0].ContextMap()["column"])
	})

	t.Run("keep", func(t *testing.T) {
		a := NewAssembler(WithSourceType(parser.SourceAnalyzer), WithCoercionPolicy(CoerceKeep))
		ds, report, err := a.Assemble(context.Background(), []string{path})
		require.NoError(t, err)
		v, ok := ds.Var("Mode")
		require.True(t, ok)
		assert.Equal(t, []string{"RUN", "CAL"}, v.Text)
		assert.Equal(t, []string{"Mode"}, report.TextColumns)
		assert.False(t, report.HasWarnings())
	})
}

func TestAssembler_HeaderOnlyFile(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "a.log"), logHeader)

	ds, _, err := NewAssembler(WithSourceType(parser.SourceAnalyzer)).Assemble(context.Background(), []string{path})
	require.NoError(t, err)
	assert.Equal(t, 0, ds.Len())
	assert.True(t, ds.Has("CO2"))
}

func TestAssembler_DuplicateFiles(t *testing.T) {
	dir := t.TempDir()
	content := logHeader + "DATA,2024-01-15,10:00:00,410,1013,5,12\n"
	a := writeFile(t, filepath.Join(dir, "a.log"), content)
	b := writeFile(t, filepath.Join(dir, "copy", "a.log"), content)
	mtime := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(a, mtime, mtime))
	require.NoError(t, os.Chtimes(b, mtime, mtime))

	_, report, err := NewAssembler(WithSourceType(parser.SourceAnalyzer)).Assemble(context.Background(), []string{dir})
	require.NoError(t, err)
	assert.Equal(t, []string{b}, report.DuplicateFiles)
	assert.Equal(t, []string{a}, report.Files)

	_, report, err = NewAssembler(WithSourceType(parser.SourceAnalyzer), WithDeduplication(false)).
		Assemble(context.Background(), []string{dir})
	require.NoError(t, err)
	assert.Empty(t, report.DuplicateFiles)
	assert.Len(t, report.Files, 2)
}

func TestAssembler_Errors(t *testing.T) {
	dir := t.TempDir()

	_, _, err := NewAssembler().Assemble(context.Background(), []string{dir})
	assert.ErrorIs(t, err, ErrNoFiles)

	bad := writeFile(t, filepath.Join(dir, "a.log"), "corrupted\n")
	_, _, err = NewAssembler(WithSourceType(parser.SourceAnalyzer)).Assemble(context.Background(), []string{bad})
	assert.ErrorIs(t, err, ErrNoData)

	unknown := writeFile(t, filepath.Join(dir, "u.log"), "@NAME,DATE,TIME,Foo\n@RATE,1\n")
	_, _, err = NewAssembler(WithDetector(detector.New(
		detector.WithStrategies(detector.NewHeaderStrategy(detector.DefaultSignatures())),
	))).Assemble(context.Background(), []string{unknown})
	assert.True(t, errors.Is(err, detector.ErrUndetectedSource))
}

func TestDeduplicateFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, filepath.Join(dir, "a.log"), "aaaa")
	b := writeFile(t, filepath.Join(dir, "b.log"), "bbbb")
	c := writeFile(t, filepath.Join(dir, "c.log"), "aaaa")
	mtime := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	for _, p := range []string{a, b} {
		require.NoError(t, os.Chtimes(p, mtime, mtime))
	}
	later := mtime.Add(time.Hour)
	require.NoError(t, os.Chtimes(c, later, later))

	kept, dups, err := DeduplicateFiles([]string{a, b, c}, false)
	require.NoError(t, err)
	assert.Equal(t, []string{a, c}, kept)
	assert.Equal(t, []string{b}, dups)

	kept, dups, err = DeduplicateFiles([]string{a, b, c}, true)
	require.NoError(t, err)
	assert.Equal(t, []string{a, b}, kept)
	assert.Equal(t, []string{c}, dups)

	_, _, err = DeduplicateFiles([]string{filepath.Join(dir, "missing")}, false)
	assert.Error(t, err)
}
