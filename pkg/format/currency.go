// Package format renders monetary amounts for display.
package format

import (
	"fmt"
	"strings"

	"github.com/iwvelando/emi-calculator/pkg/constants"
	"github.com/iwvelando/emi-calculator/pkg/mathutil"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Grouping selects how the integer digits are separated.
type Grouping string

const (
	// GroupingIndian groups the last three digits then pairs: 1,23,45,678.
	GroupingIndian Grouping = "indian"
	// GroupingInternational groups by thousands: 12,345,678.
	GroupingInternational Grouping = "international"
)

const (
	crore = 10000000
	lakh  = 100000
)

// NotAvailable is printed in place of NaN and infinite amounts.
const NotAvailable = "n/a"

// Formatter formats amounts with a currency symbol, a grouping style and a
// fixed number of fraction digits.
type Formatter struct {
	Symbol    string
	Grouping  Grouping
	Precision int
}

// NewFormatter validates the grouping and precision and returns a Formatter.
func NewFormatter(symbol, grouping string, precision int) (Formatter, error) {
	g := Grouping(strings.ToLower(strings.TrimSpace(grouping)))
	switch g {
	case GroupingIndian, GroupingInternational:
	case "":
		g = GroupingIndian
	default:
		return Formatter{}, fmt.Errorf("expected currency grouping of %s or %s, got %s",
			GroupingIndian, GroupingInternational, grouping)
	}
	if precision < 0 || precision > 4 {
		return Formatter{}, fmt.Errorf("currency precision must be between 0 and 4, got %d", precision)
	}
	return Formatter{Symbol: symbol, Grouping: g, Precision: precision}, nil
}

// Default returns the formatter used when nothing is configured.
func Default() Formatter {
	return Formatter{
		Symbol:    constants.DefaultCurrencySymbol,
		Grouping:  Grouping(constants.DefaultCurrencyGrouping),
		Precision: constants.DefaultCurrencyPrecision,
	}
}

// Currency returns the amount with symbol and separators (e.g., "-Rs.1,23,456").
func (f Formatter) Currency(amount float64) string {
	if !mathutil.IsFinite(amount) {
		return NotAvailable
	}
	sign, digits := f.split(amount)
	return sign + f.Symbol + digits
}

// Number returns the amount with separators but no symbol (e.g., "1,23,456").
func (f Formatter) Number(amount float64) string {
	if !mathutil.IsFinite(amount) {
		return NotAvailable
	}
	sign, digits := f.split(amount)
	return sign + digits
}

// Short abbreviates large amounts to crores and lakhs with one decimal
// (e.g., "Rs.1.5Cr", "Rs.12.0L"); smaller amounts use Currency.
func (f Formatter) Short(amount float64) string {
	if !mathutil.IsFinite(amount) {
		return NotAvailable
	}
	abs := decimal.NewFromFloat(amount).Abs()
	sign := ""
	if amount < 0 {
		sign = "-"
	}
	switch {
	case abs.GreaterThanOrEqual(decimal.NewFromInt(crore)):
		return sign + f.Symbol + abs.Div(decimal.NewFromInt(crore)).StringFixed(1) + "Cr"
	case abs.GreaterThanOrEqual(decimal.NewFromInt(lakh)):
		return sign + f.Symbol + abs.Div(decimal.NewFromInt(lakh)).StringFixed(1) + "L"
	default:
		return f.Currency(amount)
	}
}

// split rounds the amount and returns its sign and grouped digits. Amounts
// that round to zero carry no sign.
func (f Formatter) split(amount float64) (string, string) {
	rounded := decimal.NewFromFloat(amount).Round(int32(f.Precision))
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
	}
	abs := rounded.Abs()

	if f.Grouping == GroupingInternational {
		p := message.NewPrinter(language.English)
		return sign, p.Sprintf(fmt.Sprintf("%%.%df", f.Precision), abs.InexactFloat64())
	}
	return sign, groupIndian(abs.StringFixed(int32(f.Precision)))
}

func groupIndian(fixed string) string {
	parts := strings.SplitN(fixed, ".", 2)
	intPart := parts[0]

	if len(intPart) > 3 {
		head, tail := intPart[:len(intPart)-3], intPart[len(intPart)-3:]
		var builder strings.Builder
		for i, digit := range head {
			if i > 0 && (len(head)-i)%2 == 0 {
				builder.WriteByte(',')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String() + "," + tail
	}

	if len(parts) == 2 {
		return intPart + "." + parts[1]
	}
	return intPart
}

// Fixed returns the amount as a plain decimal string with exactly precision
// fraction digits, rounding half away from zero (e.g., Fixed(797.45, 0) = "797").
func Fixed(amount float64, precision int) string {
	if !mathutil.IsFinite(amount) {
		return NotAvailable
	}
	return decimal.NewFromFloat(amount).StringFixed(int32(precision))
}
