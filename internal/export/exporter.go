package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/iwvelando/emi-calculator/internal/report"
	"github.com/iwvelando/emi-calculator/pkg/constants"
	"go.uber.org/zap"
)

// Deliverer hands a finished artifact to its destination.
type Deliverer interface {
	Deliver(ctx context.Context, artifact Artifact) error
}

// DelivererFunc adapts a function to Deliverer.
type DelivererFunc func(ctx context.Context, artifact Artifact) error

// Deliver implements Deliverer.
func (f DelivererFunc) Deliver(ctx context.Context, artifact Artifact) error {
	return f(ctx, artifact)
}

// FileDeliverer writes artifacts into Dir.
type FileDeliverer struct {
	Dir string
}

// Deliver writes the artifact to Dir/Filename, creating Dir if needed.
func (d FileDeliverer) Deliver(ctx context.Context, artifact Artifact) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := d.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}
	path := filepath.Join(dir, filepath.Base(artifact.Filename))
	if err := os.WriteFile(path, artifact.Data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Renderers groups the rendering capabilities used by the strategies. A nil
// field makes its strategy fail and fall back.
type Renderers struct {
	Table   TableRenderer
	Summary SummaryRenderer
	Image   ImageRenderer
}

// PDFRenderers uses pdf for every document.
func PDFRenderers(pdf *report.PDF) Renderers {
	return Renderers{Table: pdf, Summary: pdf, Image: pdf}
}

// Exporter runs the export entry points and delivers their artifacts.
type Exporter struct {
	table     *Pipeline
	visual    *Pipeline
	csv       *Pipeline
	deliverer Deliverer
	logger    *zap.Logger
}

// NewExporter wires the three pipelines. Each falls back to the summary.
func NewExporter(renderers Renderers, deliverer Deliverer, logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	summary := SummaryStrategy{Renderer: renderers.Summary}
	return &Exporter{
		table:     NewPipeline(logger, constants.ExportFormatTable, TableStrategy{Renderer: renderers.Table}, summary),
		visual:    NewPipeline(logger, constants.ExportFormatVisual, VisualStrategy{Capture: NewVisualCapture(renderers.Image, logger)}, summary),
		csv:       NewPipeline(logger, constants.ExportFormatCSV, CSVStrategy{}, summary),
		deliverer: deliverer,
		logger:    logger,
	}
}

// ExportTable exports the schedule table, falling back to the summary.
func (e *Exporter) ExportTable(ctx context.Context, req Request) (Artifact, error) {
	return e.run(ctx, e.table, req)
}

// ExportVisual exports a capture of req.Region, falling back to the summary.
func (e *Exporter) ExportVisual(ctx context.Context, req Request) (Artifact, error) {
	return e.run(ctx, e.visual, req)
}

// ExportCSV exports the schedule as CSV, falling back to the summary.
func (e *Exporter) ExportCSV(ctx context.Context, req Request) (Artifact, error) {
	return e.run(ctx, e.csv, req)
}

// Export dispatches on an export format name (table, visual, csv).
func (e *Exporter) Export(ctx context.Context, exportFormat string, req Request) (Artifact, error) {
	switch exportFormat {
	case constants.ExportFormatTable:
		return e.ExportTable(ctx, req)
	case constants.ExportFormatVisual:
		return e.ExportVisual(ctx, req)
	case constants.ExportFormatCSV:
		return e.ExportCSV(ctx, req)
	}
	return Artifact{}, fmt.Errorf("unknown export format %s", exportFormat)
}

func (e *Exporter) run(ctx context.Context, pipeline *Pipeline, req Request) (Artifact, error) {
	artifact, err := pipeline.Run(ctx, req)
	if err != nil {
		e.logger.Error("export produced no artifact",
			zap.String("op", "export.Export"),
			zap.String("id", req.ID.String()),
			zap.Error(err),
		)
		return Artifact{}, err
	}

	if e.deliverer == nil {
		return artifact, nil
	}
	if err := e.deliverer.Deliver(ctx, artifact); err != nil {
		return artifact, fmt.Errorf("failed to deliver %s: %w", artifact.Filename, err)
	}

	e.logger.Info("export delivered",
		zap.String("op", "export.Export"),
		zap.String("id", req.ID.String()),
		zap.String("filename", artifact.Filename),
		zap.String("strategy", artifact.Strategy),
		zap.Bool("degraded", artifact.Degraded),
	)
	return artifact, nil
}
