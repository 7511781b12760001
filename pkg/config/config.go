package config

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/ccollicutt/oceanpack/pkg/chem"
	"github.com/ccollicutt/oceanpack/pkg/dataset"
	"github.com/ccollicutt/oceanpack/pkg/parser"
)

// Load reads and validates a configuration file. An empty path yields the
// defaults. Environment overrides are applied after the file.
func Load(_ context.Context, path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.applyEnvironmentOverrides(); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// applyEnvironmentOverrides applies OCEANPACK_* environment variables.
// Unset variables leave the loaded values untouched.
func (c *Config) applyEnvironmentOverrides() error {
	return envconfig.Process(EnvPrefix, c)
}

// Validate checks a configuration for errors.
func Validate(cfg *Config) error {
	if _, err := parser.ParseSourceType(cfg.SourceType); err != nil {
		return fmt.Errorf("source_type: %w", err)
	}

	if cfg.FileSuffix == "" {
		return errors.New("file_suffix: must not be empty")
	}

	if _, err := dataset.ParseCoercionPolicy(cfg.NonNumeric); err != nil {
		return fmt.Errorf("non_numeric: %w", err)
	}

	if cfg.MergeTolerance < 0 {
		return errors.New("merge_tolerance: must not be negative")
	}

	if cfg.MaskShift < 0 {
		return errors.New("mask_shift: must not be negative")
	}

	if cfg.EquilibratorWindow <= 0 {
		return errors.New("equilibrator_window: must be positive")
	}

	if _, err := chem.ParseMethod(cfg.TemperatureCorrectionMethod); err != nil {
		return fmt.Errorf("temperature_correction_method: %w", err)
	}

	if _, err := chem.ParseAirMode(cfg.AirMode); err != nil {
		return fmt.Errorf("air_mode: %w", err)
	}

	if cfg.SalinityPressure <= 0 {
		return errors.New("salinity_pressure: must be positive")
	}

	if err := validateCompression(&cfg.Compression); err != nil {
		return fmt.Errorf("compression: %w", err)
	}

	if len(cfg.Variables.Status) == 0 {
		return errors.New("variables.status: at least one status variable is required")
	}

	return nil
}

func validateCompression(c *CompressionConfig) error {
	switch c.Codec {
	case "zlib":
		if c.Level < 0 || c.Level > 9 {
			return fmt.Errorf("level %d out of range for zlib (0-9)", c.Level)
		}
	case "zstd":
		if c.Level < 1 || c.Level > 22 {
			return fmt.Errorf("level %d out of range for zstd (1-22)", c.Level)
		}
	case "none":
	default:
		return fmt.Errorf("invalid codec %q (must be zlib, zstd or none)", c.Codec)
	}
	return nil
}

// Method returns the parsed temperature correction method.
func (c *Config) Method() chem.Method {
	m, _ := chem.ParseMethod(c.TemperatureCorrectionMethod)
	return m
}

// Air returns the parsed air mode.
func (c *Config) Air() chem.AirMode {
	m, _ := chem.ParseAirMode(c.AirMode)
	return m
}

// Source returns the parsed source type; SourceUnknown means detect.
func (c *Config) Source() parser.SourceType {
	s, _ := parser.ParseSourceType(c.SourceType)
	return s
}

// Coercion returns the parsed non-numeric policy.
func (c *Config) Coercion() dataset.CoercionPolicy {
	p, _ := dataset.ParseCoercionPolicy(c.NonNumeric)
	return p
}
