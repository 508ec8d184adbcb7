package capture

import (
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/iwvelando/emi-calculator/pkg/loans"
	"github.com/iwvelando/emi-calculator/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChartRegionCapture(t *testing.T) {
	img, err := NewChartRegion(testutil.HomeLoanResult()).Capture(context.Background())
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 800, 400), img.Bounds())

	// Year 1: balance bar then a short interest bar.
	assert.Equal(t, BalanceColor, img.At(30, 370))
	assert.Equal(t, InterestColor, img.At(50, 370))
	assert.Equal(t, Background, img.At(50, 100))
	// Year 20: the balance is gone and cumulative interest sets the scale.
	assert.Equal(t, Background, img.At(745, 370))
	assert.Equal(t, InterestColor, img.At(765, 30))
	assert.Equal(t, Background, img.At(776, 370))
}

func TestChartRegionManyYearsStaysInPlot(t *testing.T) {
	yearly := make([]loans.YearlySummary, 500)
	for i := range yearly {
		yearly[i] = loans.YearlySummary{Year: i + 1, BalanceAtYearEnd: 1000}
	}
	region := ChartRegion{Terms: loans.LoanTerms{Principal: 1000}, Yearly: yearly, Width: 800, Height: 400}

	img, err := region.Capture(context.Background())
	require.NoError(t, err)

	// 500 years over a 752 pixel plot: every year still gets a one pixel bar.
	assert.Equal(t, BalanceColor, img.At(24, 370))
	assert.Equal(t, BalanceColor, img.At(174, 370))
	assert.Equal(t, BalanceColor, img.At(774, 370))
	for x := 776; x < 800; x++ {
		assert.Equal(t, Background, img.At(x, 370), "x=%d", x)
	}
}

func TestChartRegionErrors(t *testing.T) {
	_, err := NewChartRegion(loans.ComputeAll(loans.LoanTerms{})).Capture(context.Background())
	assert.ErrorIs(t, err, ErrEmptyRegion)

	small := NewChartRegion(testutil.HomeLoanResult())
	small.Width = 10
	_, err = small.Capture(context.Background())
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewChartRegion(testutil.HomeLoanResult()).Capture(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestChartRegionKey(t *testing.T) {
	a := NewChartRegion(testutil.HomeLoanResult())
	b := NewChartRegion(testutil.HomeLoanResult())
	c := NewChartRegion(loans.ComputeAll(loans.LoanTerms{Principal: 10000, AnnualRatePercent: 18, TenureYears: 3}))

	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), c.Key())
}

func TestFileRegion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chart.png")
	file, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(file, image.NewRGBA(image.Rect(0, 0, 64, 32))))
	require.NoError(t, file.Close())

	region := FileRegion{Path: path}
	img, err := region.Capture(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 32, img.Bounds().Dy())
	assert.Equal(t, "file:"+path, region.Key())

	_, err = FileRegion{Path: filepath.Join(t.TempDir(), "missing.png")}.Capture(context.Background())
	assert.Error(t, err)
}
