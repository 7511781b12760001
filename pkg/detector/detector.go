// Package detector infers the source type of a batch of log files.
package detector

import (
	"context"
	"errors"
	"fmt"

	"github.com/ccollicutt/oceanpack/pkg/parser"
)

// ErrUndetectedSource is returned when no strategy recognizes the input.
var ErrUndetectedSource = errors.New("could not detect source type (use --source-type)")

// DetectionResult describes a successful detection.
type DetectionResult struct {
	Type     parser.SourceType
	Strategy string // Name of the strategy that matched
	Reason   string // Human-readable evidence for the match
}

// Strategy inspects a file and its header and reports a source type if it
// recognizes one. h is nil when the file has no header.
type Strategy interface {
	Name() string
	Detect(path string, h *parser.LogHeader) (parser.SourceType, string, bool)
}

// Detector runs strategies in order; the first match wins.
type Detector struct {
	strategies []Strategy
}

// Option configures the Detector.
type Option func(*Detector)

// WithStrategies replaces the default strategy chain.
func WithStrategies(s ...Strategy) Option {
	return func(d *Detector) {
		if len(s) > 0 {
			d.strategies = s
		}
	}
}

// New creates a Detector that checks header content, then directory names.
func New(opts ...Option) *Detector {
	d := &Detector{
		strategies: []Strategy{
			NewHeaderStrategy(DefaultSignatures()),
			NewDirectoryStrategy(DefaultDirectoryHints()),
		},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DetectFromFile reads the header of the file at path and runs the chain.
// A file without a header is still checked by strategies that do not need one.
func (d *Detector) DetectFromFile(ctx context.Context, path string) (*DetectionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h, err := parser.ReadHeaderFile(path)
	if err != nil && !errors.Is(err, parser.ErrNoHeader) {
		return nil, err
	}
	return d.Detect(path, h)
}

// Detect runs the chain against an already parsed header.
func (d *Detector) Detect(path string, h *parser.LogHeader) (*DetectionResult, error) {
	for _, s := range d.strategies {
		if st, reason, ok := s.Detect(path, h); ok {
			return &DetectionResult{Type: st, Strategy: s.Name(), Reason: reason}, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", path, ErrUndetectedSource)
}

// Strategies returns the names of the configured strategies in order.
func (d *Detector) Strategies() []string {
	names := make([]string, len(d.strategies))
	for i, s := range d.strategies {
		names[i] = s.Name()
	}
	return names
}
