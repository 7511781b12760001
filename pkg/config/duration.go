package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that accepts pandas style offset aliases
// ("2min", "20T", "30s", "1h", "1D", "500ms") as well as Go durations.
type Duration time.Duration

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

// Decode implements envconfig.Decoder.
func (d *Duration) Decode(value string) error {
	parsed, err := ParseDuration(value)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Set implements pflag.Value so a Duration can back a command flag.
func (d *Duration) Set(value string) error {
	return d.Decode(value)
}

// Type implements pflag.Value.
func (d *Duration) Type() string {
	return "duration"
}

// durationUnits maps offset aliases to their unit, longest first.
var durationUnits = []struct {
	alias string
	unit  time.Duration
}{
	{"min", time.Minute},
	{"ms", time.Millisecond},
	{"us", time.Microsecond},
	{"ns", time.Nanosecond},
	{"D", 24 * time.Hour},
	{"d", 24 * time.Hour},
	{"H", time.Hour},
	{"h", time.Hour},
	{"T", time.Minute},
	{"S", time.Second},
	{"s", time.Second},
	{"L", time.Millisecond},
}

// ParseDuration parses a duration string. A bare alias ("T", "min") means
// one unit. Strings that are not an alias form fall back to
// time.ParseDuration.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("invalid duration: empty string")
	}
	for _, u := range durationUnits {
		num, ok := strings.CutSuffix(s, u.alias)
		if !ok {
			continue
		}
		num = strings.TrimSpace(num)
		if num == "" {
			return u.unit, nil
		}
		n, err := strconv.ParseFloat(num, 64)
		if err != nil {
			break
		}
		if n < 0 {
			return 0, fmt.Errorf("invalid duration %q: negative", s)
		}
		return time.Duration(n * float64(u.unit)), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid duration %q: negative", s)
	}
	return d, nil
}
