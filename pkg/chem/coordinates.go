package chem

import "math"

// DecimalDegrees converts a signed DDMM.MMMM coordinate into decimal degrees.
func DecimalDegrees(x float64) float64 {
	sign := 1.0
	if x < 0 {
		sign = -1
	} else if x == 0 {
		return 0
	}
	a := math.Abs(x)
	degrees := math.Floor(a / 100)
	minutes := math.Mod(a, 100)
	return sign * (degrees + minutes/60)
}

// ConvertCoordinates converts a series of DDMM.MMMM coordinates.
func ConvertCoordinates(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = DecimalDegrees(x)
	}
	return out
}
