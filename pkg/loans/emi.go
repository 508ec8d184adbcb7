// Package loans provides the fixed-rate, reducing-balance loan calculations:
// the monthly installment, the amortization schedule and its yearly
// projections.
package loans

import (
	"math"
	"strconv"
	"strings"

	"github.com/iwvelando/emi-calculator/pkg/constants"
	"github.com/iwvelando/emi-calculator/pkg/mathutil"
)

// LoanTerms holds the three loan parameters supplied by a caller.
type LoanTerms struct {
	Principal         float64 `json:"principal" yaml:"principal"`
	AnnualRatePercent float64 `json:"annualRatePercent" yaml:"annualRatePercent"`
	TenureYears       float64 `json:"tenureYears" yaml:"tenureYears"`
}

// ParseTerms builds LoanTerms from textual input. Fields that do not parse
// as numbers become NaN so the calculations treat them as invalid.
func ParseTerms(principal, annualRatePercent, tenureYears string) LoanTerms {
	return LoanTerms{
		Principal:         parseField(principal),
		AnnualRatePercent: parseField(annualRatePercent),
		TenureYears:       parseField(tenureYears),
	}
}

func parseField(value string) float64 {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return math.NaN()
	}
	return parsed
}

// Valid reports whether the terms can produce a schedule: finite positive
// principal, a positive tenure of at most MaxTenureYears and a finite
// non-negative rate.
func (t LoanTerms) Valid() bool {
	return mathutil.IsFinitePositive(t.Principal) &&
		mathutil.IsFinitePositive(t.TenureYears) && t.TenureYears <= constants.MaxTenureYears &&
		mathutil.IsFinite(t.AnnualRatePercent) && t.AnnualRatePercent >= 0
}

// MonthlyRate returns the periodic interest rate as a fraction.
func (t LoanTerms) MonthlyRate() float64 {
	return MonthlyRate(t.AnnualRatePercent)
}

// Periods returns the (possibly fractional) number of monthly periods.
func (t LoanTerms) Periods() float64 {
	return t.TenureYears * constants.MonthsPerYear
}

// MonthlyRate converts an annual percentage into a monthly fraction.
func MonthlyRate(annualRatePercent float64) float64 {
	return annualRatePercent / constants.MonthsPerYear / constants.PercentageMultiplier
}

// ComputeEMI calculates the monthly payment using the standard amortization
// formula. Invalid inputs yield 0 rather than NaN or an infinity.
func ComputeEMI(principal, annualRatePercent, tenureYears float64) float64 {
	terms := LoanTerms{Principal: principal, AnnualRatePercent: annualRatePercent, TenureYears: tenureYears}
	if !terms.Valid() {
		return 0
	}

	periods := terms.Periods()
	rate := terms.MonthlyRate()
	if rate == 0 {
		// For zero interest, simply divide the principal by term
		return principal / periods
	}

	power := math.Pow(1+rate, periods)
	payment := principal * rate * power / (power - 1)
	if !mathutil.IsFinite(payment) || payment < 0 {
		return 0
	}
	return payment
}

// EMI is ComputeEMI applied to the terms.
func (t LoanTerms) EMI() float64 {
	return ComputeEMI(t.Principal, t.AnnualRatePercent, t.TenureYears)
}
