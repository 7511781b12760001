package chem

import (
	"math"

	"github.com/ccollicutt/oceanpack/pkg/units"
)

// Coefficients of the practical salinity scale 1978 (Lewis and Perkin).
const (
	a0 = 0.008
	a1 = -0.1692
	a2 = 25.3851
	a3 = 14.0941
	a4 = -7.0261
	a5 = 2.7081

	b0 = 0.0005
	b1 = -0.0056
	b2 = -0.0066
	b3 = -0.0375
	b4 = 0.0636
	b5 = -0.0144

	c0 = 6.766097e-1
	c1 = 2.00564e-2
	c2 = 1.104259e-4
	c3 = -6.9698e-7
	c4 = 1.0031e-9

	e1 = 2.070e-5
	e2 = -6.370e-10
	e3 = 3.989e-15
	d1 = 3.426e-2
	d2 = 4.464e-4
	d3 = 4.215e-1
	d4 = -3.107e-3

	// conductivityS35 is the conductivity of standard seawater at 15 °C in mS/cm.
	conductivityS35 = 42.914
	kT              = 0.0162
)

// PracticalSalinity computes salinity (PSU) from conductivity c (mS/cm),
// temperature t (°C) and pressure p (dbar).
func PracticalSalinity(c, t, p float64) float64 {
	R := c / conductivityS35

	rT := c0 + c1*t + c2*math.Pow(t, 2) + c3*math.Pow(t, 3) + c4*math.Pow(t, 4)

	alpha := (e1*p + e2*math.Pow(p, 2) + e3*math.Pow(p, 3)) /
		(1 + d1*t + d2*math.Pow(t, 2) + d3*R + d4*t*R)

	Rp := 1 + alpha

	RT := R / (rT * Rp)

	xi := math.Sqrt(RT)
	psi := b0 + b1*xi + b2*math.Pow(xi, 2) + b3*math.Pow(xi, 3) + b4*math.Pow(xi, 4) + b5*math.Pow(xi, 5)
	dSal := psi * (t - 15) / (1 + kT*(t-15))

	return a0 + a1*xi + a2*math.Pow(xi, 2) + a3*math.Pow(xi, 3) + a4*math.Pow(xi, 4) + a5*math.Pow(xi, 5) + dSal
}

// Salinity computes salinity from conductivity, temperature and pressure
// series. Temperature may be in °C or K and pressure in hPa, Pa or atm; both
// are normalized before use.
func Salinity(c, t, p []float64) ([]float64, error) {
	n, err := broadcastLen(c, t, p)
	if err != nil {
		return nil, err
	}
	mbar, _, err := units.PressureToMbar(p)
	if err != nil {
		return nil, err
	}
	tC := units.TemperatureToC(t)

	out := make([]float64, n)
	for i := range out {
		out[i] = PracticalSalinity(at(c, i), at(tC, i), at(mbar, i)/100)
	}
	return out, nil
}
