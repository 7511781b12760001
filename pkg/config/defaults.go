package config

import "time"

// Default values for configuration.
const (
	DefaultSourceType         = "auto"
	DefaultFileSuffix         = "log"
	DefaultNonNumeric         = "drop"
	DefaultMergeTolerance     = 2 * time.Minute
	DefaultMaskShift          = 20 * time.Minute
	DefaultOperatingState     = 5
	DefaultMethod             = "Takahashi2009"
	DefaultAirMode            = "wet"
	DefaultEquilibratorWindow = 2 * time.Minute
	DefaultSalinityPressure   = 1013.25
	DefaultCodec              = "zlib"
	DefaultCompressionLevel   = 5
)

// EnvPrefix prefixes the environment overrides.
const EnvPrefix = "OCEANPACK"

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		SourceType:                  DefaultSourceType,
		FileSuffix:                  DefaultFileSuffix,
		DeduplicateFiles:            true,
		NonNumeric:                  DefaultNonNumeric,
		MergeTolerance:              Duration(DefaultMergeTolerance),
		MaskShift:                   Duration(DefaultMaskShift),
		OperatingState:              DefaultOperatingState,
		TemperatureCorrectionMethod: DefaultMethod,
		AirMode:                     DefaultAirMode,
		EquilibratorWindow:          Duration(DefaultEquilibratorWindow),
		SalinityPressure:            DefaultSalinityPressure,
		Compression: CompressionConfig{
			Codec: DefaultCodec,
			Level: DefaultCompressionLevel,
		},
		Variables: VariablesConfig{
			CO2:                  "CO2",
			CellPressure:         "CellPress",
			DifferentialPressure: "DPressInt",
			EquilibratorTemp:     "waterTemp",
			SST:                  "SBE45Temp",
			Conductivity:         "SBE45Cond",
			Salinity:             "SBE45Sal",
			Status:               []string{"STATUS", "ANA_state"},
			Latitude:             "Latitude",
			Longitude:            "Longitude",
		},
	}
}
