// Package export turns computed loan results into downloadable documents.
// Each export runs an ordered list of strategies and stops at the first one
// that produces an artifact.
package export

import (
	"context"
	"errors"
	"fmt"

	"github.com/iwvelando/emi-calculator/internal/capture"
	"github.com/iwvelando/emi-calculator/pkg/constants"
	"github.com/iwvelando/emi-calculator/pkg/format"
	"github.com/iwvelando/emi-calculator/pkg/loans"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

var (
	// ErrRendererUnavailable is returned by a strategy whose rendering
	// capability is not configured.
	ErrRendererUnavailable = errors.New("renderer unavailable")

	// ErrCaptureFailed is returned when the visual capture reports failure.
	ErrCaptureFailed = errors.New("visual capture failed")

	// ErrStrategyPanic wraps a panic recovered from a strategy.
	ErrStrategyPanic = errors.New("strategy panicked")

	// ErrExhausted is returned when every strategy of a pipeline failed.
	ErrExhausted = errors.New("all export strategies failed")
)

// Artifact is a finished document ready for delivery.
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
	Strategy    string // name of the strategy that produced it
	Degraded    bool   // true when produced by a fallback strategy
}

// Filenames names the artifact of each strategy.
type Filenames struct {
	Table   string
	Summary string
	Visual  string
	CSV     string
}

// DefaultFilenames returns the standard artifact names.
func DefaultFilenames() Filenames {
	return Filenames{
		Table:   constants.DefaultTableFilename,
		Summary: constants.DefaultSummaryFilename,
		Visual:  constants.DefaultVisualFilename,
		CSV:     constants.DefaultCSVFilename,
	}
}

// Request carries everything a strategy needs to build its document.
type Request struct {
	ID        ulid.ULID
	Result    loans.Result
	Formatter format.Formatter
	Precision int // fraction digits of table cells
	Filenames Filenames
	Region    capture.Region // only used by visual exports
}

// NewRequest creates a request for result with a fresh ID, the default
// formatter and default filenames.
func NewRequest(result loans.Result) Request {
	return Request{
		ID:        ulid.Make(),
		Result:    result,
		Formatter: format.Default(),
		Filenames: DefaultFilenames(),
	}
}

// Strategy produces an artifact or an error.
type Strategy interface {
	Name() string
	Export(ctx context.Context, req Request) (Artifact, error)
}

// Pipeline tries its strategies in order until one succeeds.
type Pipeline struct {
	name       string
	strategies []Strategy
	logger     *zap.Logger
}

// NewPipeline creates a named pipeline over the strategies in fallback order.
func NewPipeline(logger *zap.Logger, name string, strategies ...Strategy) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{name: name, strategies: strategies, logger: logger}
}

// Strategies returns the strategy names in fallback order.
func (p *Pipeline) Strategies() []string {
	names := make([]string, 0, len(p.strategies))
	for _, s := range p.strategies {
		names = append(names, s.Name())
	}
	return names
}

// Run executes each strategy at most once. Every failure is logged and the
// next strategy is tried; the first artifact is returned. When all fail the
// error wraps ErrExhausted and each strategy's failure.
func (p *Pipeline) Run(ctx context.Context, req Request) (Artifact, error) {
	var failures []error
	for i, strategy := range p.strategies {
		if err := ctx.Err(); err != nil {
			return Artifact{}, fmt.Errorf("export %s cancelled before %s: %w", p.name, strategy.Name(), err)
		}

		artifact, err := runStrategy(ctx, strategy, req)
		if err == nil {
			artifact.Strategy = strategy.Name()
			artifact.Degraded = i > 0
			p.logger.Debug("export strategy succeeded",
				zap.String("op", "export.Run"),
				zap.String("pipeline", p.name),
				zap.String("strategy", strategy.Name()),
				zap.String("id", req.ID.String()),
				zap.Bool("degraded", artifact.Degraded),
			)
			return artifact, nil
		}

		p.logger.Warn("export strategy failed",
			zap.String("op", "export.Run"),
			zap.String("pipeline", p.name),
			zap.String("strategy", strategy.Name()),
			zap.String("id", req.ID.String()),
			zap.Error(err),
		)
		failures = append(failures, fmt.Errorf("%s: %w", strategy.Name(), err))
	}
	return Artifact{}, fmt.Errorf("export %s: %w: %w", p.name, ErrExhausted, errors.Join(failures...))
}

func runStrategy(ctx context.Context, strategy Strategy, req Request) (artifact Artifact, err error) {
	defer func() {
		if r := recover(); r != nil {
			artifact, err = Artifact{}, fmt.Errorf("%w: %v", ErrStrategyPanic, r)
		}
	}()
	return strategy.Export(ctx, req)
}
