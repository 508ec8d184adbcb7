package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"

	"github.com/iwvelando/emi-calculator/internal/capture"
	"github.com/iwvelando/emi-calculator/internal/report"
	"github.com/iwvelando/emi-calculator/pkg/constants"
	"github.com/iwvelando/emi-calculator/pkg/format"
	"github.com/iwvelando/emi-calculator/pkg/output"
	"go.uber.org/zap"
)

// Content types of produced artifacts.
const (
	ContentTypePDF = "application/pdf"
	ContentTypeCSV = "text/csv"
)

// TableColumns are the columns of the structured table export.
var TableColumns = []string{"Month", "EMI", "Principal", "Interest", "Balance"}

// TableRenderer lays out a table document, paginating as needed.
type TableRenderer interface {
	RenderTable(t report.Table) ([]byte, error)
}

// SummaryRenderer lays out a summary document.
type SummaryRenderer interface {
	RenderSummary(s report.Summary) ([]byte, error)
}

// ImageRenderer lays out a document holding one image.
type ImageRenderer interface {
	RenderImage(img report.Image) ([]byte, error)
}

// TableStrategy exports the full monthly schedule as a table document.
type TableStrategy struct {
	Renderer TableRenderer
}

// Name implements Strategy.
func (s TableStrategy) Name() string { return constants.ExportFormatTable }

// Export implements Strategy.
func (s TableStrategy) Export(ctx context.Context, req Request) (Artifact, error) {
	if s.Renderer == nil {
		return Artifact{}, ErrRendererUnavailable
	}

	data, err := s.Renderer.RenderTable(ScheduleTable(req))
	if err != nil {
		return Artifact{}, fmt.Errorf("failed to render table: %w", err)
	}
	return Artifact{Filename: req.Filenames.Table, ContentType: ContentTypePDF, Data: data}, nil
}

// ScheduleTable projects the schedule onto TableColumns with every value as a
// fixed-precision decimal string.
func ScheduleTable(req Request) report.Table {
	rows := make([][]string, 0, len(req.Result.Schedule))
	for _, record := range req.Result.Schedule {
		rows = append(rows, []string{
			fmt.Sprintf("%d", record.Period),
			format.Fixed(record.Payment, req.Precision),
			format.Fixed(record.Principal, req.Precision),
			format.Fixed(record.Interest, req.Precision),
			format.Fixed(record.RemainingBalance, req.Precision),
		})
	}
	return report.Table{Title: constants.TableTitle, Head: TableColumns, Rows: rows}
}

// SummaryStrategy exports the headline figures only. It is the last resort of
// every pipeline.
type SummaryStrategy struct {
	Renderer SummaryRenderer
}

// Name implements Strategy.
func (s SummaryStrategy) Name() string { return "summary" }

// Export implements Strategy.
func (s SummaryStrategy) Export(ctx context.Context, req Request) (Artifact, error) {
	if s.Renderer == nil {
		return Artifact{}, ErrRendererUnavailable
	}

	data, err := s.Renderer.RenderSummary(HeadlineSummary(req))
	if err != nil {
		return Artifact{}, fmt.Errorf("failed to render summary: %w", err)
	}
	return Artifact{Filename: req.Filenames.Summary, ContentType: ContentTypePDF, Data: data}, nil
}

// HeadlineSummary builds the summary document: the payment, total payment and
// total interest as currency strings, and the fallback notice.
func HeadlineSummary(req Request) report.Summary {
	f, result := req.Formatter, req.Result
	return report.Summary{
		Title: constants.SummaryTitle,
		Meta: []report.Field{
			{Key: "EMI", Value: f.Currency(result.Payment)},
			{Key: "Total Payment", Value: f.Currency(result.TotalPayment)},
			{Key: "Total Interest", Value: f.Currency(result.TotalInterest)},
		},
		Lines: []string{constants.FallbackNotice},
	}
}

// CSVStrategy exports the monthly schedule as CSV.
type CSVStrategy struct{}

// Name implements Strategy.
func (CSVStrategy) Name() string { return constants.ExportFormatCSV }

// Export implements Strategy.
func (CSVStrategy) Export(ctx context.Context, req Request) (Artifact, error) {
	var buf bytes.Buffer
	if err := output.CsvFormat(&buf, req.Result.Schedule); err != nil {
		return Artifact{}, fmt.Errorf("failed to write csv: %w", err)
	}
	return Artifact{Filename: req.Filenames.CSV, ContentType: ContentTypeCSV, Data: buf.Bytes()}, nil
}

// VisualCapture rasterizes a region and embeds it in a document scaled to the
// page width. It reports failure with a boolean instead of an error.
type VisualCapture struct {
	renderer ImageRenderer
	logger   *zap.Logger
}

// NewVisualCapture creates a VisualCapture that embeds images with renderer.
func NewVisualCapture(renderer ImageRenderer, logger *zap.Logger) *VisualCapture {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VisualCapture{renderer: renderer, logger: logger}
}

// Capture returns the document and true, or false when the region is missing
// or any step fails. Failures are logged, never returned or raised.
func (v *VisualCapture) Capture(ctx context.Context, region capture.Region, filename string) (artifact Artifact, ok bool) {
	if region == nil {
		v.logger.Debug("no region to capture", zap.String("op", "export.Capture"))
		return Artifact{}, false
	}

	defer func() {
		if r := recover(); r != nil {
			v.logger.Warn("visual capture panicked",
				zap.String("op", "export.Capture"),
				zap.String("region", region.Key()),
				zap.Any("panic", r),
			)
			artifact, ok = Artifact{}, false
		}
	}()

	data, err := v.capture(ctx, region)
	if err != nil {
		v.logger.Warn("visual capture failed",
			zap.String("op", "export.Capture"),
			zap.String("region", region.Key()),
			zap.Error(err),
		)
		return Artifact{}, false
	}
	return Artifact{Filename: filename, ContentType: ContentTypePDF, Data: data}, true
}

func (v *VisualCapture) capture(ctx context.Context, region capture.Region) ([]byte, error) {
	if v.renderer == nil {
		return nil, ErrRendererUnavailable
	}

	img, err := region.Capture(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to capture region: %w", err)
	}
	if img == nil {
		return nil, errors.New("region produced no image")
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return v.renderer.RenderImage(report.Image{Title: constants.ChartTitle, Data: buf.Bytes()})
}

// VisualStrategy adapts VisualCapture to the Strategy contract.
type VisualStrategy struct {
	Capture *VisualCapture
}

// Name implements Strategy.
func (s VisualStrategy) Name() string { return constants.ExportFormatVisual }

// Export implements Strategy.
func (s VisualStrategy) Export(ctx context.Context, req Request) (Artifact, error) {
	if s.Capture == nil {
		return Artifact{}, ErrRendererUnavailable
	}
	artifact, ok := s.Capture.Capture(ctx, req.Region, req.Filenames.Visual)
	if !ok {
		return Artifact{}, ErrCaptureFailed
	}
	return artifact, nil
}
