// Package config provides configuration loading and validation for OceanPack.
package config

// Config is the root configuration structure loaded from YAML.
// Every field can be overridden by an OCEANPACK_ prefixed environment
// variable named after the field in upper snake case, for example
// OCEANPACK_MERGE_TOLERANCE or OCEANPACK_COMPRESSION_LEVEL.
type Config struct {
	// SourceType is Analyzer, NetDI, Stream, Internal or auto.
	SourceType string `yaml:"source_type" split_words:"true"`

	// FileSuffix selects files when an input is a directory.
	FileSuffix string `yaml:"file_suffix" split_words:"true"`

	DeduplicateFiles bool `yaml:"deduplicate_files" split_words:"true"`
	HashContent      bool `yaml:"hash_content" split_words:"true"`

	// NonNumeric is the policy for columns failing numeric coercion: drop or keep.
	NonNumeric string `yaml:"non_numeric" split_words:"true"`

	MergeTolerance   Duration `yaml:"merge_tolerance" split_words:"true"`
	KeepAllVariables bool     `yaml:"keep_all_variables" split_words:"true"`

	MaskShift      Duration `yaml:"mask_shift" split_words:"true"`
	OperatingState float64  `yaml:"operating_state" split_words:"true"`

	TemperatureCorrectionMethod string `yaml:"temperature_correction_method" split_words:"true"`

	// AirMode is wet or dry.
	AirMode string `yaml:"air_mode" split_words:"true"`

	// EquilibratorWindow is the rolling mean window of the differential pressure.
	EquilibratorWindow Duration `yaml:"equilibrator_window" split_words:"true"`

	// SalinityPressure (hPa) is used for salinity when no pressure channel exists.
	SalinityPressure float64 `yaml:"salinity_pressure" split_words:"true"`

	Compression CompressionConfig `yaml:"compression" split_words:"true"`
	Variables   VariablesConfig   `yaml:"variables" split_words:"true"`
}

// CompressionConfig configures the dataset container.
type CompressionConfig struct {
	// Codec is zlib, zstd or none.
	Codec string `yaml:"codec" split_words:"true"`
	Level int    `yaml:"level" split_words:"true"`
}

// VariablesConfig names the channels used by processing.
type VariablesConfig struct {
	CO2                  string   `yaml:"co2" split_words:"true"`
	CellPressure         string   `yaml:"cell_pressure" split_words:"true"`
	DifferentialPressure string   `yaml:"differential_pressure" split_words:"true"`
	EquilibratorTemp     string   `yaml:"equilibrator_temperature" split_words:"true"`
	SST                  string   `yaml:"sst" split_words:"true"`
	Conductivity         string   `yaml:"conductivity" split_words:"true"`
	Salinity             string   `yaml:"salinity" split_words:"true"`
	Status               []string `yaml:"status" split_words:"true"`
	Latitude             string   `yaml:"latitude" split_words:"true"`
	Longitude            string   `yaml:"longitude" split_words:"true"`
}
