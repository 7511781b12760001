package dataset

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func floatDataset(t *testing.T, times []time.Time, attrs map[string]string, vars map[string][]float64) *Dataset {
	t.Helper()
	ds := New(times)
	for k, v := range attrs {
		ds.Attrs[k] = v
	}
	for name, data := range vars {
		require.NoError(t, ds.Add(&Variable{Name: name, Data: data}))
	}
	return ds
}

func TestMerger_Merge(t *testing.T) {
	base := minutes(4)
	offset := make([]time.Time, 3)
	for i := range offset {
		// 30s after each of the first three base timestamps
		offset[i] = base[i].Add(30 * time.Second)
	}

	ds1 := floatDataset(t, base,
		map[string]string{AttrSourceType: "Analyzer", "cruise": "MSM114"},
		map[string][]float64{"CO2": {400, 401, 402, 403}})
	ds2 := floatDataset(t, offset,
		map[string]string{AttrSourceType: "NetDI", "cruise": "MSM114"},
		map[string][]float64{
			"CO2":               {1, 2, 3},
			"AIN0_mA_Waterflow": {10, 11, 12},
		})

	core, logs := observer.New(zapcore.InfoLevel)
	m := NewMerger(WithMergeLogger(zap.New(core)), WithTolerance(2*time.Minute))

	merged, report, err := m.Merge(context.Background(), []*Dataset{ds1, ds2})
	require.NoError(t, err)

	assert.Equal(t, base, merged.Time)
	co2, _ := merged.Float("CO2")
	assert.Equal(t, []float64{400, 401, 402, 403}, co2)

	flow, err := merged.Float("AIN0_mA_Waterflow")
	require.NoError(t, err)
	// base[1] and base[2] lie halfway between two samples; the later one wins.
	assert.Equal(t, []float64{10, 11, 12, 12}, flow)

	assert.Equal(t, []string{"CO2"}, report.DroppedVariables[1])
	assert.Equal(t, []int{4, 4}, report.Matched)
	assert.Equal(t, []string{AttrSourceType}, report.DroppedAttributes)
	assert.Equal(t, "MSM114", merged.Attrs["cruise"])
	_, hasSource := merged.Attrs[AttrSourceType]
	assert.False(t, hasSource)

	assert.Equal(t, 1, logs.FilterMessage("dropped duplicate variables").Len())
}

func TestMerger_Tolerance(t *testing.T) {
	base := minutes(3)
	far := []time.Time{base[0].Add(10 * time.Second), base[2].Add(5 * time.Minute)}

	ds1 := floatDataset(t, base, nil, map[string][]float64{"CO2": {1, 2, 3}})
	ds2 := floatDataset(t, far, nil, map[string][]float64{"Speed": {7, 8}})

	merged, report, err := NewMerger(WithTolerance(time.Minute)).Merge(context.Background(), []*Dataset{ds1, ds2})
	require.NoError(t, err)

	speed, _ := merged.Float("Speed")
	assert.Equal(t, 7.0, speed[0])
	// base[1] is 50s after far[0]: still within one minute.
	assert.Equal(t, 7.0, speed[1])
	assert.True(t, math.IsNaN(speed[2]))
	assert.Equal(t, 2, report.Matched[1])
}

func TestMerger_DropsVariablesOfEarlierInputs(t *testing.T) {
	times := minutes(2)
	ds1 := floatDataset(t, times, nil, map[string][]float64{"CO2": {1, 2}})
	ds2 := floatDataset(t, times, nil, map[string][]float64{"Speed": {3, 4}})
	ds3 := floatDataset(t, times, nil, map[string][]float64{"Speed": {5, 6}, "Course": {7, 8}})

	merged, report, err := NewMerger().Merge(context.Background(), []*Dataset{ds1, ds2, ds3})
	require.NoError(t, err)

	speed, _ := merged.Float("Speed")
	assert.Equal(t, []float64{3, 4}, speed)
	assert.True(t, merged.Has("Course"))
	assert.Equal(t, []string{"Speed"}, report.DroppedVariables[2])
}

func TestMerger_TextVariables(t *testing.T) {
	times := minutes(2)
	ds1 := floatDataset(t, times, nil, map[string][]float64{"CO2": {1, 2}})
	ds2 := New([]time.Time{times[1]})
	require.NoError(t, ds2.Add(&Variable{Name: "Mode", Text: []string{"RUN"}}))

	merged, _, err := NewMerger(WithTolerance(0)).Merge(context.Background(), []*Dataset{ds1, ds2})
	require.NoError(t, err)
	v, ok := merged.Var("Mode")
	require.True(t, ok)
	assert.Equal(t, []string{"", "RUN"}, v.Text)
}

func TestMerger_Errors(t *testing.T) {
	_, _, err := NewMerger().Merge(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoData)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	times := minutes(1)
	ds := floatDataset(t, times, nil, map[string][]float64{"CO2": {1}})
	_, _, err = NewMerger().Merge(ctx, []*Dataset{ds, ds})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNearestIndexer_TiePrefersLater(t *testing.T) {
	base := minutes(3)
	target := []time.Time{base[0].Add(30 * time.Second)}

	idx := nearestIndexer(target, base, time.Minute)
	assert.Equal(t, []int{1}, idx)

	assert.Equal(t, []int{-1}, nearestIndexer(target, nil, time.Minute))
}

func TestSelectVariables(t *testing.T) {
	ds := floatDataset(t, minutes(1), nil, map[string][]float64{
		"CO2":       {1},
		"DPressInt": {2},
		"STATUS":    {5},
		"ANA_state": {5},
		"Pump":      {0},
	})

	dropped := SelectVariables(ds, nil)
	assert.Equal(t, []string{"Pump"}, dropped)
	assert.True(t, ds.Has("CO2", "DPressInt", "STATUS", "ANA_state"))

	dropped = SelectVariables(ds, []string{"CO2", "Missing"})
	assert.ElementsMatch(t, []string{"DPressInt", "STATUS", "ANA_state"}, dropped)
}
