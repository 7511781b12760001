package units

import "fmt"

// StandardAtmosphere is one atmosphere in hPa.
const StandardAtmosphere = 1013.25

// PressureUnit is a unit inferred for a pressure series.
type PressureUnit int

const (
	PressureUnknown PressureUnit = iota
	HPa
	Pa
	Atm
)

func (u PressureUnit) String() string {
	switch u {
	case HPa:
		return "hPa"
	case Pa:
		return "Pa"
	case Atm:
		return "atm"
	}
	return "unknown"
}

// DetectPressureUnit classifies a series by its typical order of magnitude:
// [2,3] is hPa, [4,5] is Pa and [-1,1] is atm. The order is returned for
// reporting.
func DetectPressureUnit(p []float64) (PressureUnit, int, error) {
	order := TypicalOrder(p)
	switch {
	case order == Indeterminate:
		return PressureUnknown, order, fmt.Errorf("%w: pressure magnitude is indeterminate", ErrUnrecognizedUnit)
	case order >= 2 && order <= 3:
		return HPa, order, nil
	case order >= 4 && order <= 5:
		return Pa, order, nil
	case order >= -1 && order <= 1:
		return Atm, order, nil
	}
	return PressureUnknown, order, fmt.Errorf("%w: pressure order of magnitude %d", ErrUnrecognizedUnit, order)
}

// PressureToMbar converts a pressure series to mbar (hPa).
func PressureToMbar(p []float64) ([]float64, PressureUnit, error) {
	unit, _, err := DetectPressureUnit(p)
	if err != nil {
		return nil, unit, err
	}
	out := make([]float64, len(p))
	for i, v := range p {
		switch unit {
		case HPa:
			out[i] = v
		case Pa:
			out[i] = v / 100
		case Atm:
			out[i] = v * StandardAtmosphere
		}
	}
	return out, unit, nil
}

// PressureToAtm converts a pressure series to atm.
func PressureToAtm(p []float64) ([]float64, PressureUnit, error) {
	unit, _, err := DetectPressureUnit(p)
	if err != nil {
		return nil, unit, err
	}
	out := make([]float64, len(p))
	for i, v := range p {
		switch unit {
		case HPa:
			out[i] = v / StandardAtmosphere
		case Pa:
			out[i] = v / 101325
		case Atm:
			out[i] = v
		}
	}
	return out, unit, nil
}
