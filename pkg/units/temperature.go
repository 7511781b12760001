package units

import "math"

// KelvinThreshold separates Celsius (below) from Kelvin (at or above) values.
const KelvinThreshold = 200.0

// ZeroCelsius is 0 °C in K.
const ZeroCelsius = 273.15

// IsKelvin reports whether t is read as a Kelvin value.
func IsKelvin(t float64) bool {
	return t >= KelvinThreshold
}

// ToKelvin converts one temperature to K.
func ToKelvin(t float64) float64 {
	if math.IsNaN(t) || IsKelvin(t) {
		return t
	}
	return t + ZeroCelsius
}

// ToCelsius converts one temperature to °C.
func ToCelsius(t float64) float64 {
	if IsKelvin(t) {
		return t - ZeroCelsius
	}
	return t
}

// TemperatureToK converts a series to K, element by element.
func TemperatureToK(ts []float64) []float64 {
	out := make([]float64, len(ts))
	for i, t := range ts {
		out[i] = ToKelvin(t)
	}
	return out
}

// TemperatureToC converts a series to °C, element by element.
func TemperatureToC(ts []float64) []float64 {
	out := make([]float64, len(ts))
	for i, t := range ts {
		out[i] = ToCelsius(t)
	}
	return out
}

// KelvinCount returns how many determinate elements of ts read as Kelvin.
func KelvinCount(ts []float64) int {
	n := 0
	for _, t := range ts {
		if !math.IsNaN(t) && IsKelvin(t) {
			n++
		}
	}
	return n
}
