package dataset

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func minutes(n int) []time.Time {
	base := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	times := make([]time.Time, n)
	for i := range times {
		times[i] = base.Add(time.Duration(i) * time.Minute)
	}
	return times
}

func TestDataset_AddAndLookup(t *testing.T) {
	ds := New(minutes(3))
	require.NoError(t, ds.Add(&Variable{Name: "CO2", Data: []float64{1, 2, 3}}))
	require.NoError(t, ds.SetFloat("CellPress", []float64{1013, math.NaN(), 1012}, map[string]string{AttrUnit: "hPa"}))

	assert.Equal(t, []string{"CO2", "CellPress"}, ds.Names())
	assert.True(t, ds.Has("CO2", "CellPress"))
	assert.False(t, ds.Has("CO2", "STATUS"))

	v, ok := ds.Var("CellPress")
	require.True(t, ok)
	assert.Equal(t, "hPa", v.Unit())
	assert.Equal(t, 2, v.Valid())

	// SetFloat keeps existing attributes.
	require.NoError(t, ds.SetFloat("CellPress", []float64{1, 2, 3}, nil))
	v, _ = ds.Var("CellPress")
	assert.Equal(t, "hPa", v.Unit())
	assert.Equal(t, []string{"CO2", "CellPress"}, ds.Names())

	_, err := ds.Float("missing")
	assert.True(t, errors.Is(err, ErrVariableNotFound))

	err = ds.Add(&Variable{Name: "short", Data: []float64{1}})
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestDataset_DropRenameKeep(t *testing.T) {
	ds := New(minutes(1))
	for _, n := range []string{"a", "b", "c", "d"} {
		require.NoError(t, ds.Add(&Variable{Name: n, Data: []float64{0}}))
	}

	assert.Equal(t, 1, ds.Drop("b", "zz"))
	require.NoError(t, ds.Rename("c", "c2"))
	assert.Error(t, ds.Rename("c", "x"))
	assert.Error(t, ds.Rename("a", "d"))
	assert.Equal(t, []string{"a", "c2", "d"}, ds.Names())

	dropped := ds.Keep([]string{"d", "a", "nope"})
	assert.Equal(t, []string{"c2"}, dropped)
	assert.Equal(t, []string{"a", "d"}, ds.Names())
}

func TestDataset_Clone(t *testing.T) {
	ds := New(minutes(2))
	ds.Attrs[AttrSourceType] = "Analyzer"
	require.NoError(t, ds.Add(&Variable{Name: "CO2", Data: []float64{1, 2}, Attrs: map[string]string{AttrUnit: "ppm"}}))
	require.NoError(t, ds.Add(&Variable{Name: "Msg", Text: []string{"a", ""}}))

	c := ds.Clone()
	data, _ := c.Float("CO2")
	data[0] = 99
	c.Attrs[AttrSourceType] = "NetDI"

	orig, _ := ds.Float("CO2")
	assert.Equal(t, 1.0, orig[0])
	assert.Equal(t, "Analyzer", ds.Attrs[AttrSourceType])
	msg, _ := c.Var("Msg")
	assert.True(t, msg.IsText())
	assert.Equal(t, 1, msg.Valid())
}

func TestDataset_StartEnd(t *testing.T) {
	times := minutes(3)
	ds := New(times)
	assert.Equal(t, times[0], ds.Start())
	assert.Equal(t, times[2], ds.End())

	empty := New(nil)
	assert.True(t, empty.Start().IsZero())
	assert.True(t, empty.End().IsZero())
}

func TestRollingMean(t *testing.T) {
	times := minutes(5)
	xs := []float64{1, 2, math.NaN(), 4, 5}

	got := RollingMean(times, xs, 2*time.Minute)

	// Window (t-2min, t] holds the current and the previous sample.
	want := []float64{1, 1.5, 2, 4, 4.5}
	assert.InDeltaSlice(t, want, got, 1e-12)
}

func TestRollingMean_AllMissing(t *testing.T) {
	got := RollingMean(minutes(3), []float64{math.NaN(), math.NaN(), 3}, time.Minute)
	assert.True(t, math.IsNaN(got[0]))
	assert.True(t, math.IsNaN(got[1]))
	assert.Equal(t, 3.0, got[2])
}

func TestParseCoercionPolicy(t *testing.T) {
	p, err := ParseCoercionPolicy("keep")
	require.NoError(t, err)
	assert.Equal(t, CoerceKeep, p)

	p, err = ParseCoercionPolicy("")
	require.NoError(t, err)
	assert.Equal(t, CoerceDrop, p)

	_, err = ParseCoercionPolicy("coerce")
	assert.Error(t, err)
}

func TestCoerceFloats(t *testing.T) {
	got, _, ok := coerceFloats([]string{"1.5", "", "-2e3"})
	require.True(t, ok)
	assert.Equal(t, 1.5, got[0])
	assert.True(t, math.IsNaN(got[1]))
	assert.Equal(t, -2000.0, got[2])

	_, bad, ok := coerceFloats([]string{"1", "OK"})
	assert.False(t, ok)
	assert.Equal(t, "OK", bad)
}
