package chem

import (
	"fmt"
	"math"
	"strings"

	"github.com/ccollicutt/oceanpack/pkg/units"
)

// GasConstant in cm³·atm/(K·mol).
const GasConstant = 82.057366080960

// AirMode tells whether a CO2 concentration was measured in wet or dry air.
type AirMode int

const (
	Wet AirMode = iota
	Dry
)

func (m AirMode) String() string {
	if m == Dry {
		return "dry"
	}
	return "wet"
}

// ParseAirMode parses "wet" or "dry".
func ParseAirMode(s string) (AirMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "wet":
		return Wet, nil
	case "dry":
		return Dry, nil
	}
	return 0, fmt.Errorf("%w %q (must be wet or dry)", ErrUnknownAirMode, s)
}

// Method selects a temperature correction.
type Method int

const (
	Takahashi2009 Method = iota
	Takahashi1993
)

func (m Method) String() string {
	if m == Takahashi1993 {
		return "Takahashi1993"
	}
	return "Takahashi2009"
}

// ParseMethod parses a temperature correction method name.
func ParseMethod(s string) (Method, error) {
	switch strings.TrimSpace(s) {
	case "Takahashi2009", "":
		return Takahashi2009, nil
	case "Takahashi1993":
		return Takahashi1993, nil
	}
	return 0, fmt.Errorf("%w %q (must be Takahashi2009 or Takahashi1993)", ErrUnknownMethod, s)
}

// WaterVaporPressure computes the water vapour pressure (atm) over seawater
// from temperature (°C or K) and salinity (PSU) after Weiss and Price (1980).
func WaterVaporPressure(t, s []float64) ([]float64, error) {
	n, err := broadcastLen(t, s)
	if err != nil {
		return nil, err
	}
	tK := units.TemperatureToK(t)
	out := make([]float64, n)
	for i := range out {
		T := at(tK, i)
		out[i] = math.Exp(24.4543 - 67.4509*(100/T) - 4.8489*math.Log(T/100) - 0.000544*at(s, i))
	}
	return out, nil
}

// PPM2UAtm converts a CO2 mole fraction (ppm) into partial pressure (µatm)
// following Dickson et al. (2007). The equilibrator pressure may be in hPa,
// Pa or atm. Dry air requires temperature and salinity for the water vapour
// correction; they are ignored for wet air.
func PPM2UAtm(xCO2, pEqu []float64, mode AirMode, t, s []float64) ([]float64, error) {
	n, err := broadcastLen(xCO2, pEqu)
	if err != nil {
		return nil, err
	}
	atm, _, err := units.PressureToAtm(pEqu)
	if err != nil {
		return nil, err
	}

	pH2O := []float64{0}
	switch mode {
	case Wet:
	case Dry:
		if len(t) == 0 || len(s) == 0 {
			return nil, fmt.Errorf("%w: dry air needs temperature and salinity", ErrMissingInput)
		}
		if pH2O, err = WaterVaporPressure(t, s); err != nil {
			return nil, err
		}
		if n, err = broadcastLen(xCO2, pEqu, pH2O); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownAirMode, mode)
	}

	out := make([]float64, n)
	for i := range out {
		out[i] = at(xCO2, i) * (at(atm, i) - at(pH2O, i))
	}
	return out, nil
}

// TemperatureCorrection moves a CO2 quantity (xCO2, pCO2 or fCO2) measured
// at temperature tIn to temperature tOut. Both temperatures may be in °C or
// K and are normalized to °C.
func TemperatureCorrection(co2, tOut, tIn []float64, m Method) ([]float64, error) {
	n, err := broadcastLen(co2, tOut, tIn)
	if err != nil {
		return nil, err
	}
	if m != Takahashi2009 && m != Takahashi1993 {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMethod, m)
	}
	outC := units.TemperatureToC(tOut)
	inC := units.TemperatureToC(tIn)

	out := make([]float64, n)
	for i := range out {
		to, ti := at(outC, i), at(inC, i)
		switch m {
		case Takahashi2009:
			out[i] = at(co2, i) * math.Exp(0.0433*(to-ti)-4.35e-5*(math.Pow(to, 2)-math.Pow(ti, 2)))
		case Takahashi1993:
			out[i] = at(co2, i) * math.Exp(0.0423*(to-ti))
		}
	}
	return out, nil
}

// Fugacity computes the fugacity of CO2 from its partial pressure following
// Dickson et al. (2007), SOP 5. The equilibrator pressure may be in hPa, Pa
// or atm and the temperature in °C or K. xCO2 (ppm) is optional; when nil
// the mole fraction correction term is 1.
func Fugacity(pCO2, pEqu, sst, xCO2 []float64) ([]float64, error) {
	series := [][]float64{pCO2, pEqu, sst}
	if xCO2 != nil {
		series = append(series, xCO2)
	}
	n, err := broadcastLen(series...)
	if err != nil {
		return nil, err
	}
	atm, _, err := units.PressureToAtm(pEqu)
	if err != nil {
		return nil, err
	}
	tK := units.TemperatureToK(sst)

	out := make([]float64, n)
	for i := range out {
		T := at(tK, i)
		B := -1636.75 + 12.0408*T - 3.27957e-2*math.Pow(T, 2) + 3.16528e-5*math.Pow(T, 3)
		delta := 57.7 - 0.118*T

		xc := 1.0
		if xCO2 != nil {
			xc = 1 - at(xCO2, i)*1e-6
		}

		A := at(atm, i) * (B + 2*delta*math.Pow(xc, 2))
		out[i] = at(pCO2, i) * math.Exp(A/(GasConstant*T))
	}
	return out, nil
}
