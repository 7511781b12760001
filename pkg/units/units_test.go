package units

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderOfMagnitude(t *testing.T) {
	tests := []struct {
		x    float64
		want int
	}{
		{2, 0},
		{10, 1},
		{300, 2},
		{988, 2},
		{1234, 3},
		{0.15, -1},
		{101325, 5},
		{0, Indeterminate},
		{math.NaN(), Indeterminate},
		{math.Inf(1), Indeterminate},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, OrderOfMagnitude(tt.x), "OrderOfMagnitude(%v)", tt.x)
	}
}

func TestOrderOfMagnitude_SignInvariant(t *testing.T) {
	for _, x := range []float64{0.001, 0.5, 1, 7.3, 42, 1013.25, 99999, 1e12} {
		assert.Equal(t, OrderOfMagnitude(x), OrderOfMagnitude(-x), "x=%v", x)
	}
}

func TestTypicalOrder(t *testing.T) {
	assert.Equal(t, 3, TypicalOrder([]float64{1013, 1012, 0, math.NaN(), 20}))
	assert.Equal(t, 2, TypicalOrder([]float64{100, 1000}))
	assert.Equal(t, Indeterminate, TypicalOrder([]float64{0, 0, 0}))
	assert.Equal(t, Indeterminate, TypicalOrder(nil))
}

func TestDetectPressureUnit(t *testing.T) {
	tests := []struct {
		name    string
		p       []float64
		want    PressureUnit
		wantErr bool
	}{
		{"hPa", []float64{1013.1, 1012.5, 1011.9}, HPa, false},
		{"hundreds of hPa", []float64{361.7, 360.2}, HPa, false},
		{"Pa", []float64{101325, 101300}, Pa, false},
		{"atm", []float64{1.0, 0.99, 1.01}, Atm, false},
		{"fraction of atm", []float64{0.357}, Atm, false},
		{"all zero", []float64{0, 0}, PressureUnknown, true},
		{"out of range", []float64{1e7, 2e7}, PressureUnknown, true},
		{"too small", []float64{0.001}, PressureUnknown, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, err := DetectPressureUnit(tt.p)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrUnrecognizedUnit))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPressureToAtm(t *testing.T) {
	hpa := []float64{1018, 1013.25, 990.5}
	got, unit, err := PressureToAtm(hpa)
	require.NoError(t, err)
	assert.Equal(t, HPa, unit)
	for i, p := range hpa {
		assert.Equal(t, p/1013.25, got[i])
	}

	// Pa and hPa inputs agree.
	pa, _, err := PressureToAtm([]float64{101800})
	require.NoError(t, err)
	assert.InDelta(t, got[0], pa[0], 1e-12)

	// atm is passed through.
	atm := []float64{1.0046, 0.357}
	same, unit, err := PressureToAtm(atm)
	require.NoError(t, err)
	assert.Equal(t, Atm, unit)
	assert.Equal(t, atm, same)
}

func TestPressureToMbar(t *testing.T) {
	got, _, err := PressureToMbar([]float64{0.357})
	require.NoError(t, err)
	assert.InDelta(t, 361.73025, got[0], 1e-9)

	got, _, err = PressureToMbar([]float64{101325})
	require.NoError(t, err)
	assert.InDelta(t, 1013.25, got[0], 1e-9)

	hpa := []float64{1013.1, 1009.7}
	got, _, err = PressureToMbar(hpa)
	require.NoError(t, err)
	assert.Equal(t, hpa, got)

	// Round trip through atm.
	atm, _, err := PressureToAtm(hpa)
	require.NoError(t, err)
	back, _, err := PressureToMbar(atm)
	require.NoError(t, err)
	assert.InDeltaSlice(t, hpa, back, 1e-9)
}

func TestPressure_Unrecognized(t *testing.T) {
	_, _, err := PressureToAtm([]float64{1e8})
	assert.ErrorIs(t, err, ErrUnrecognizedUnit)
	_, _, err = PressureToMbar([]float64{0})
	assert.ErrorIs(t, err, ErrUnrecognizedUnit)
}

func TestTemperature(t *testing.T) {
	assert.Equal(t, 298.15, ToKelvin(25))
	assert.Equal(t, 298.15, ToKelvin(298.15))
	assert.InDelta(t, 25, ToCelsius(298.15), 1e-12)
	assert.Equal(t, 25.0, ToCelsius(25))
	assert.True(t, math.IsNaN(ToKelvin(math.NaN())))

	// Round trips hold within each function's own range.
	for _, k := range []float64{200, 250.5, 273.15, 310} {
		assert.InDelta(t, k, ToKelvin(ToCelsius(k)), 1e-9, "K=%v", k)
	}
	for _, c := range []float64{-2, 0, 12.5, 30, 199.9} {
		assert.InDelta(t, c, ToCelsius(ToKelvin(c)), 1e-9, "C=%v", c)
	}
}

func TestTemperature_Boundary(t *testing.T) {
	assert.False(t, IsKelvin(199.999))
	assert.True(t, IsKelvin(200))
	assert.Equal(t, 200.0, ToKelvin(200))
	assert.InDelta(t, 473.149, ToKelvin(199.999), 1e-9)
}

func TestTemperatureSeries_Mixed(t *testing.T) {
	mixed := []float64{12.5, 285.65, math.NaN()}

	k := TemperatureToK(mixed)
	assert.InDelta(t, 285.65, k[0], 1e-9)
	assert.Equal(t, 285.65, k[1])
	assert.True(t, math.IsNaN(k[2]))

	c := TemperatureToC(mixed)
	assert.Equal(t, 12.5, c[0])
	assert.InDelta(t, 12.5, c[1], 1e-9)

	assert.Equal(t, 1, KelvinCount(mixed))
}
