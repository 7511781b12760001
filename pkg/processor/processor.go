// Package processor derives physical CO2 quantities from an assembled
// dataset in a fixed sequence of stages.
package processor

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ccollicutt/oceanpack/pkg/config"
	"github.com/ccollicutt/oceanpack/pkg/dataset"
	"github.com/ccollicutt/oceanpack/pkg/qc"
)

var (
	// ErrMissingVariable is returned when a requested stage lacks an input.
	ErrMissingVariable = errors.New("missing required variable")
	// ErrContract is returned when a stage did not produce its outputs.
	ErrContract = errors.New("stage did not provide its variables")
	// ErrUnknownStage is returned for a stage name outside DefaultStageNames.
	ErrUnknownStage = errors.New("unknown stage")
)

// Stage is one step of the pipeline. A stage mutates the dataset in place.
type Stage interface {
	Name() string
	// Requires lists the variables that must exist before Apply.
	Requires(ds *dataset.Dataset) []string
	// Provides lists the variables that must exist after Apply.
	Provides() []string
	Apply(ctx context.Context, ds *dataset.Dataset) error
}

// StageResult describes the outcome of one stage.
type StageResult struct {
	Name     string
	Skipped  bool
	Missing  []string // Required variables that were absent
	Provided []string
	Masked   map[string]int // Values masked per variable, mask stage only
}

// Result contains the outcome of a processing run.
type Result struct {
	Stages []StageResult
	// Restored lists variables reset from their preserved copies.
	Restored []string
}

// Skipped returns the names of the skipped stages.
func (r *Result) Skipped() []string {
	var names []string
	for _, s := range r.Stages {
		if s.Skipped {
			names = append(names, s.Name)
		}
	}
	return names
}

// Processor runs stages over a dataset.
type Processor struct {
	cfg    *config.Config
	stages []Stage
	logger *zap.Logger

	// stageFilter holds explicitly requested stages; nil means all stages,
	// each optional.
	stageFilter map[string]bool
}

// Option configures processor behavior.
type Option func(*Processor)

// WithLogger sets the diagnostics sink.
func WithLogger(l *zap.Logger) Option {
	return func(p *Processor) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithStageFilter limits processing to the named stages. Requested stages
// are mandatory: a missing input is an error instead of a skip.
func WithStageFilter(names []string) Option {
	return func(p *Processor) {
		if len(names) > 0 {
			p.stageFilter = make(map[string]bool)
			for _, n := range names {
				p.stageFilter[n] = true
			}
		}
	}
}

// NewProcessor creates a processor for a validated configuration.
func NewProcessor(cfg *config.Config, opts ...Option) (*Processor, error) {
	p := &Processor{
		cfg:    cfg,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}

	known := make(map[string]bool)
	for _, s := range DefaultStages(cfg, p.logger) {
		known[s.Name()] = true
		if p.stageFilter != nil && !p.stageFilter[s.Name()] {
			continue
		}
		p.stages = append(p.stages, s)
	}
	for name := range p.stageFilter {
		if !known[name] {
			return nil, fmt.Errorf("%w %q (must be one of %v)", ErrUnknownStage, name, DefaultStageNames())
		}
	}

	return p, nil
}

// Process applies the stages in order. Stages whose inputs are missing are
// skipped with a warning unless they were requested explicitly. When the
// mask stage runs, values masked by an earlier run are restored first so
// every stage derives from unmasked input.
func (p *Processor) Process(ctx context.Context, ds *dataset.Dataset) (*Result, error) {
	result := &Result{}
	if p.masks() {
		result.Restored = qc.RestoreOriginals(ds)
		if len(result.Restored) > 0 {
			p.logger.Info("restored masked variables from preserved copies", zap.Strings("variables", result.Restored))
		}
	}
	for _, s := range p.stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		sr := StageResult{Name: s.Name()}
		sr.Missing = absent(ds, s.Requires(ds))
		if len(sr.Missing) > 0 {
			if p.stageFilter != nil {
				return nil, fmt.Errorf("stage %s: %w: %v", s.Name(), ErrMissingVariable, sr.Missing)
			}
			p.logger.Warn("skipping stage",
				zap.String("stage", s.Name()),
				zap.Strings("missing", sr.Missing))
			sr.Skipped = true
			result.Stages = append(result.Stages, sr)
			continue
		}

		if err := s.Apply(ctx, ds); err != nil {
			return nil, fmt.Errorf("stage %s: %w", s.Name(), err)
		}

		if missing := absent(ds, s.Provides()); len(missing) > 0 {
			return nil, fmt.Errorf("stage %s: %w: %v", s.Name(), ErrContract, missing)
		}
		sr.Provided = s.Provides()
		if m, ok := s.(interface{ Masked() map[string]int }); ok {
			sr.Masked = m.Masked()
		}
		p.logger.Debug("applied stage", zap.String("stage", s.Name()), zap.Strings("provides", sr.Provided))
		result.Stages = append(result.Stages, sr)
	}
	return result, nil
}

func (p *Processor) masks() bool {
	for _, s := range p.stages {
		if s.Name() == StageMask {
			return true
		}
	}
	return false
}

func absent(ds *dataset.Dataset, names []string) []string {
	var missing []string
	for _, n := range names {
		if !ds.Has(n) {
			missing = append(missing, n)
		}
	}
	return missing
}
