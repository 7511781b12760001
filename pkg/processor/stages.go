package processor

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ccollicutt/oceanpack/pkg/chem"
	"github.com/ccollicutt/oceanpack/pkg/config"
	"github.com/ccollicutt/oceanpack/pkg/dataset"
	"github.com/ccollicutt/oceanpack/pkg/qc"
	"github.com/ccollicutt/oceanpack/pkg/units"
)

// Stage names in execution order.
const (
	StageCoordinates           = "coordinates"
	StageSalinity              = "salinity"
	StageEquilibratorPressure  = "equilibrator_pressure"
	StagePCO2                  = "pco2"
	StageFCO2                  = "fco2"
	StageTemperatureCorrection = "temperature_correction"
	StageMask                  = "mask"
)

// Derived variable names.
const (
	VarSalinity    = "Salinity"
	VarEquPressure = "p_equ"
	VarPCO2Equ     = "pCO2_wet_equ"
	VarFCO2Equ     = "fCO2_wet_equ"
	VarPCO2SST     = "pCO2_wet_sst"
	VarFCO2SST     = "fCO2_wet_sst"
)

// AttrCoordinateFormat marks coordinates already in decimal degrees.
const AttrCoordinateFormat = "coordinate_format"

// DefaultStageNames returns the stage names in execution order.
func DefaultStageNames() []string {
	return []string{
		StageCoordinates,
		StageSalinity,
		StageEquilibratorPressure,
		StagePCO2,
		StageFCO2,
		StageTemperatureCorrection,
		StageMask,
	}
}

// DefaultStages builds the stage sequence for cfg.
func DefaultStages(cfg *config.Config, logger *zap.Logger) []Stage {
	v := cfg.Variables
	return []Stage{
		&coordinatesStage{lat: v.Latitude, lon: v.Longitude},
		&salinityStage{cond: v.Conductivity, temp: v.SST, pressure: cfg.SalinityPressure, logger: logger},
		&equPressureStage{cell: v.CellPressure, diff: v.DifferentialPressure, window: cfg.EquilibratorWindow.Std(), logger: logger},
		&pco2Stage{co2: v.CO2, temp: v.EquilibratorTemp, salinity: v.Salinity, mode: cfg.Air(), logger: logger},
		&fco2Stage{co2: v.CO2, temp: v.EquilibratorTemp, logger: logger},
		&temperatureStage{sst: v.SST, equ: v.EquilibratorTemp, method: cfg.Method(), logger: logger},
		&maskStage{status: v.Status, opts: qc.MaskOptions{
			Shift:          cfg.MaskShift.Std(),
			OperatingValue: cfg.OperatingState,
			Logger:         logger,
		}},
	}
}

type coordinatesStage struct {
	lat, lon string
}

func (s *coordinatesStage) Name() string { return StageCoordinates }

func (s *coordinatesStage) Requires(*dataset.Dataset) []string { return []string{s.lat, s.lon} }

func (s *coordinatesStage) Provides() []string { return []string{s.lat, s.lon} }

// Apply converts DDMM.MMMM to decimal degrees once; converted variables are
// marked and left alone on later runs.
func (s *coordinatesStage) Apply(_ context.Context, ds *dataset.Dataset) error {
	for _, name := range []string{s.lat, s.lon} {
		v, _ := ds.Var(name)
		if v.Attrs[AttrCoordinateFormat] == "decimal" {
			continue
		}
		data, err := ds.Float(name)
		if err != nil {
			return err
		}
		attrs := map[string]string{AttrCoordinateFormat: "decimal", dataset.AttrUnit: "degrees"}
		if err := ds.SetFloat(name, chem.ConvertCoordinates(data), attrs); err != nil {
			return err
		}
	}
	return nil
}

type salinityStage struct {
	cond, temp string
	pressure   float64 // hPa
	logger     *zap.Logger
}

func (s *salinityStage) Name() string { return StageSalinity }

func (s *salinityStage) Requires(*dataset.Dataset) []string { return []string{s.cond, s.temp} }

func (s *salinityStage) Provides() []string { return []string{VarSalinity} }

func (s *salinityStage) Apply(_ context.Context, ds *dataset.Dataset) error {
	c, err := ds.Float(s.cond)
	if err != nil {
		return err
	}
	t, err := ds.Float(s.temp)
	if err != nil {
		return err
	}
	logTemperatureUnit(s.logger, StageSalinity, s.temp, t)
	logPressureUnit(s.logger, StageSalinity, "salinity_pressure", []float64{s.pressure})
	sal, err := chem.Salinity(c, t, []float64{s.pressure})
	if err != nil {
		return err
	}
	return ds.SetFloat(VarSalinity, sal, map[string]string{
		dataset.AttrUnit:     "PSU",
		dataset.AttrLongName: "practical salinity",
	})
}

type equPressureStage struct {
	cell, diff string
	window     time.Duration
	logger     *zap.Logger
}

func (s *equPressureStage) Name() string { return StageEquilibratorPressure }

func (s *equPressureStage) Requires(*dataset.Dataset) []string { return []string{s.cell, s.diff} }

func (s *equPressureStage) Provides() []string { return []string{VarEquPressure} }

// Apply computes the equilibrator pressure as the cell pressure (normalized
// to hPa) minus the rolling mean of the differential pressure (hPa).
func (s *equPressureStage) Apply(_ context.Context, ds *dataset.Dataset) error {
	cell, err := ds.Float(s.cell)
	if err != nil {
		return err
	}
	diff, err := ds.Float(s.diff)
	if err != nil {
		return err
	}
	logPressureUnit(s.logger, StageEquilibratorPressure, s.cell, cell)
	hpa, _, err := units.PressureToMbar(cell)
	if err != nil {
		return err
	}

	smooth := dataset.RollingMean(ds.Time, diff, s.window)
	out := make([]float64, len(hpa))
	for i := range out {
		out[i] = hpa[i] - smooth[i]
	}
	return ds.SetFloat(VarEquPressure, out, map[string]string{
		dataset.AttrUnit:     "hPa",
		dataset.AttrLongName: "equilibrator pressure",
	})
}

type pco2Stage struct {
	co2, temp, salinity string
	mode                chem.AirMode
	logger              *zap.Logger
}

func (s *pco2Stage) Name() string { return StagePCO2 }

func (s *pco2Stage) Requires(ds *dataset.Dataset) []string {
	req := []string{s.co2, VarEquPressure}
	if s.mode == chem.Dry {
		req = append(req, s.temp, s.salinityVar(ds))
	}
	return req
}

func (s *pco2Stage) Provides() []string { return []string{VarPCO2Equ} }

// salinityVar prefers computed salinity over the measured channel.
func (s *pco2Stage) salinityVar(ds *dataset.Dataset) string {
	if ds.Has(VarSalinity) {
		return VarSalinity
	}
	return s.salinity
}

func (s *pco2Stage) Apply(_ context.Context, ds *dataset.Dataset) error {
	x, err := ds.Float(s.co2)
	if err != nil {
		return err
	}
	p, err := ds.Float(VarEquPressure)
	if err != nil {
		return err
	}
	logPressureUnit(s.logger, StagePCO2, VarEquPressure, p)
	var t, sal []float64
	if s.mode == chem.Dry {
		if t, err = ds.Float(s.temp); err != nil {
			return err
		}
		if sal, err = ds.Float(s.salinityVar(ds)); err != nil {
			return err
		}
		logTemperatureUnit(s.logger, StagePCO2, s.temp, t)
	}
	out, err := chem.PPM2UAtm(x, p, s.mode, t, sal)
	if err != nil {
		return err
	}
	return ds.SetFloat(VarPCO2Equ, out, map[string]string{
		dataset.AttrUnit:     "uatm",
		dataset.AttrLongName: "pCO2 in wet air at equilibrator temperature",
	})
}

type fco2Stage struct {
	co2, temp string
	logger    *zap.Logger
}

func (s *fco2Stage) Name() string { return StageFCO2 }

func (s *fco2Stage) Requires(*dataset.Dataset) []string {
	return []string{VarPCO2Equ, VarEquPressure, s.temp, s.co2}
}

func (s *fco2Stage) Provides() []string { return []string{VarFCO2Equ} }

func (s *fco2Stage) Apply(_ context.Context, ds *dataset.Dataset) error {
	p, err := ds.Float(VarPCO2Equ)
	if err != nil {
		return err
	}
	pEqu, err := ds.Float(VarEquPressure)
	if err != nil {
		return err
	}
	t, err := ds.Float(s.temp)
	if err != nil {
		return err
	}
	x, err := ds.Float(s.co2)
	if err != nil {
		return err
	}
	logPressureUnit(s.logger, StageFCO2, VarEquPressure, pEqu)
	logTemperatureUnit(s.logger, StageFCO2, s.temp, t)
	out, err := chem.Fugacity(p, pEqu, t, x)
	if err != nil {
		return err
	}
	return ds.SetFloat(VarFCO2Equ, out, map[string]string{
		dataset.AttrUnit:     "uatm",
		dataset.AttrLongName: "fCO2 in wet air at equilibrator temperature",
	})
}

type temperatureStage struct {
	sst, equ string
	method   chem.Method
	logger   *zap.Logger
}

func (s *temperatureStage) Name() string { return StageTemperatureCorrection }

func (s *temperatureStage) Requires(*dataset.Dataset) []string {
	return []string{VarPCO2Equ, s.sst, s.equ}
}

func (s *temperatureStage) Provides() []string { return []string{VarPCO2SST} }

// Apply moves pCO2, and fCO2 when present, from equilibrator temperature to
// sea surface temperature.
func (s *temperatureStage) Apply(_ context.Context, ds *dataset.Dataset) error {
	sst, err := ds.Float(s.sst)
	if err != nil {
		return err
	}
	equ, err := ds.Float(s.equ)
	if err != nil {
		return err
	}
	logTemperatureUnit(s.logger, StageTemperatureCorrection, s.sst, sst)
	logTemperatureUnit(s.logger, StageTemperatureCorrection, s.equ, equ)

	pairs := [][2]string{{VarPCO2Equ, VarPCO2SST}, {VarFCO2Equ, VarFCO2SST}}
	for _, p := range pairs {
		if !ds.Has(p[0]) {
			continue
		}
		in, err := ds.Float(p[0])
		if err != nil {
			return err
		}
		out, err := chem.TemperatureCorrection(in, sst, equ, s.method)
		if err != nil {
			return err
		}
		v, _ := ds.Var(p[0])
		attrs := map[string]string{
			dataset.AttrUnit:     v.Unit(),
			dataset.AttrLongName: strings.Replace(v.Attrs[dataset.AttrLongName], "equilibrator", "sea surface", 1),
			"method":             s.method.String(),
		}
		if err := ds.SetFloat(p[1], out, attrs); err != nil {
			return err
		}
	}
	return nil
}

type maskStage struct {
	status []string
	opts   qc.MaskOptions
	report *qc.MaskReport
}

func (s *maskStage) Name() string { return StageMask }

func (s *maskStage) Requires(ds *dataset.Dataset) []string {
	if name, err := qc.ResolveStatusVar(ds, s.status...); err == nil {
		return []string{name}
	}
	if len(s.status) == 0 {
		return []string{"STATUS"}
	}
	return []string{s.status[0]}
}

func (s *maskStage) Provides() []string { return nil }

// Apply masks every numeric CO2 variable during non-operating phases.
func (s *maskStage) Apply(_ context.Context, ds *dataset.Dataset) error {
	status, err := qc.ResolveStatusVar(ds, s.status...)
	if err != nil {
		return err
	}
	opts := s.opts
	opts.StatusVar = status
	report, err := qc.MaskNonOperating(ds, co2Columns(ds), opts)
	if err != nil {
		return err
	}
	s.report = report
	return nil
}

func (s *maskStage) Masked() map[string]int {
	if s.report == nil {
		return nil
	}
	return s.report.Masked
}

// co2Columns returns the numeric variables whose name contains CO2,
// excluding preserved copies.
func co2Columns(ds *dataset.Dataset) []string {
	var cols []string
	for _, name := range ds.Names() {
		if !strings.Contains(name, "CO2") || strings.HasSuffix(name, qc.OrigSuffix) {
			continue
		}
		if v, _ := ds.Var(name); v.IsText() {
			continue
		}
		cols = append(cols, name)
	}
	return cols
}

// logPressureUnit reports the unit a pressure series is read in and the
// order of magnitude it was inferred from.
func logPressureUnit(logger *zap.Logger, stage, name string, p []float64) {
	unit, order, err := units.DetectPressureUnit(p)
	if err != nil {
		return
	}
	logger.Info("detected pressure unit",
		zap.String("stage", stage),
		zap.String("variable", name),
		zap.Stringer("unit", unit),
		zap.Int("typical_order", order))
}

// logTemperatureUnit reports whether a temperature series is read as
// Celsius or, for values above the Kelvin threshold, as Kelvin.
func logTemperatureUnit(logger *zap.Logger, stage, name string, ts []float64) {
	unit := "degC"
	n := units.KelvinCount(ts)
	if n > 0 {
		unit = "K"
	}
	logger.Info("assumed temperature unit",
		zap.String("stage", stage),
		zap.String("variable", name),
		zap.String("unit", unit),
		zap.Int("kelvin_values", n),
		zap.Int("total", len(ts)),
		zap.Float64("kelvin_threshold", units.KelvinThreshold))
}
