// Package capture produces raster images of renderable regions for the
// visual export.
package capture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg" // register JPEG decoding for FileRegion
	_ "image/png"  // register PNG decoding for FileRegion
	"os"

	"github.com/iwvelando/emi-calculator/pkg/loans"
)

// Region is anything that can be rasterized. Key identifies the content so
// callers can collapse concurrent captures of the same region.
type Region interface {
	Key() string
	Capture(ctx context.Context) (image.Image, error)
}

// ErrEmptyRegion is returned when a region has nothing to draw.
var ErrEmptyRegion = errors.New("region has nothing to draw")

// Chart colors.
var (
	Background    = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	AxisColor     = color.RGBA{R: 120, G: 120, B: 120, A: 255}
	BalanceColor  = color.RGBA{R: 37, G: 99, B: 235, A: 255}
	InterestColor = color.RGBA{R: 234, G: 88, B: 12, A: 255}
)

const (
	defaultChartWidth  = 800
	defaultChartHeight = 400
	chartPadding       = 24
)

// ChartRegion draws the yearly balance and cumulative interest as paired bars.
type ChartRegion struct {
	Terms  loans.LoanTerms
	Yearly []loans.YearlySummary
	Width  int
	Height int
}

// NewChartRegion creates a default-sized chart of the result's yearly series.
func NewChartRegion(result loans.Result) ChartRegion {
	return ChartRegion{
		Terms:  result.Terms,
		Yearly: result.Yearly,
		Width:  defaultChartWidth,
		Height: defaultChartHeight,
	}
}

// Key identifies the chart by its loan terms.
func (r ChartRegion) Key() string {
	return fmt.Sprintf("chart:%g:%g:%g:%dx%d", r.Terms.Principal, r.Terms.AnnualRatePercent,
		r.Terms.TenureYears, r.Width, r.Height)
}

// Capture rasterizes the chart.
func (r ChartRegion) Capture(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(r.Yearly) == 0 {
		return nil, ErrEmptyRegion
	}
	if r.Width <= 2*chartPadding || r.Height <= 2*chartPadding {
		return nil, fmt.Errorf("chart size %dx%d is too small", r.Width, r.Height)
	}

	img := image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(Background), image.Point{}, draw.Src)

	plot := image.Rect(chartPadding, chartPadding, r.Width-chartPadding, r.Height-chartPadding)
	fill(img, image.Rect(plot.Min.X, plot.Max.Y, plot.Max.X, plot.Max.Y+1), AxisColor)
	fill(img, image.Rect(plot.Min.X-1, plot.Min.Y, plot.Min.X, plot.Max.Y), AxisColor)

	scale := r.Terms.Principal
	for _, year := range r.Yearly {
		if year.CumulativeInterestPaid > scale {
			scale = year.CumulativeInterestPaid
		}
		if year.BalanceAtYearEnd > scale {
			scale = year.BalanceAtYearEnd
		}
	}
	if scale <= 0 {
		return nil, ErrEmptyRegion
	}

	slot := float64(plot.Dx()) / float64(len(r.Yearly))
	edge := func(offset float64) int {
		return plot.Min.X + int(offset*slot)
	}
	for i, year := range r.Yearly {
		left, mid, right := edge(float64(i)), edge(float64(i)+0.5), edge(float64(i+1))
		fill(img, column(left, mid, plot, year.BalanceAtYearEnd/scale), BalanceColor)
		fill(img, column(mid, right, plot, year.CumulativeInterestPaid/scale), InterestColor)
	}
	return img, nil
}

// column spans [x0, x1) less a one pixel gap, and is never narrower than one
// pixel.
func column(x0, x1 int, plot image.Rectangle, fraction float64) image.Rectangle {
	if x1-x0 > 1 {
		x1--
	}
	if x1 <= x0 {
		x1 = x0 + 1
	}
	height := int(fraction * float64(plot.Dy()))
	return image.Rect(x0, plot.Max.Y-height, x1, plot.Max.Y)
}

func fill(img draw.Image, rect image.Rectangle, c color.Color) {
	draw.Draw(img, rect, image.NewUniform(c), image.Point{}, draw.Src)
}

// FileRegion loads a PNG or JPEG image from disk.
type FileRegion struct {
	Path string
}

// Key identifies the region by path.
func (r FileRegion) Key() string {
	return "file:" + r.Path
}

// Capture decodes the image file.
func (r FileRegion) Capture(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file, err := os.Open(r.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", r.Path, err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", r.Path, err)
	}
	return img, nil
}
