package loans

import (
	"fmt"
	"math"

	"github.com/iwvelando/emi-calculator/pkg/mathutil"
	"go.uber.org/zap"
)

// PeriodRecord holds the values for a given monthly payment.
type PeriodRecord struct {
	Period              int     `json:"period"`
	Payment             float64 `json:"payment"`
	Principal           float64 `json:"principal"`
	Interest            float64 `json:"interest"`
	RemainingBalance    float64 `json:"remainingBalance"`
	CumulativePrincipal float64 `json:"cumulativePrincipal"`
	CumulativeInterest  float64 `json:"cumulativeInterest"`
}

// Schedule is the ordered amortization sequence, first period first.
type Schedule []PeriodRecord

// Last returns the final record of the schedule.
func (s Schedule) Last() (PeriodRecord, bool) {
	if len(s) == 0 {
		return PeriodRecord{}, false
	}
	return s[len(s)-1], true
}

// TotalPrincipal sums the principal component of every record.
func (s Schedule) TotalPrincipal() float64 {
	total := 0.0
	for _, record := range s {
		total += record.Principal
	}
	return total
}

// TotalInterest sums the interest component of every record.
func (s Schedule) TotalInterest() float64 {
	total := 0.0
	for _, record := range s {
		total += record.Interest
	}
	return total
}

// TotalPayment sums the payment of every record.
func (s Schedule) TotalPayment() float64 {
	total := 0.0
	for _, record := range s {
		total += record.Payment
	}
	return total
}

// ScheduleGenerator produces amortization schedules.
type ScheduleGenerator struct {
	logger *zap.Logger
}

// NewScheduleGenerator creates a new generator instance
func NewScheduleGenerator(logger *zap.Logger) *ScheduleGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleGenerator{logger: logger}
}

// GenerateSchedule creates an amortization schedule with a no-op logger.
func GenerateSchedule(terms LoanTerms, payment float64) Schedule {
	return NewScheduleGenerator(nil).Generate(terms, payment)
}

// PlannedPeriods is the iteration bound of the schedule: the whole number of
// months in the tenure, and at least one for any valid tenure.
func PlannedPeriods(terms LoanTerms) int {
	if !terms.Valid() {
		return 0
	}
	planned := int(math.Floor(terms.Periods()))
	if planned < 1 {
		planned = 1
	}
	return planned
}

// Generate walks the loan period by period from the full principal. It stops
// after the planned number of periods or as soon as the balance is retired.
// The final payment is not adjusted. The balance is clamped at zero, and only
// the last planned period snaps a sub-cent residue to zero.
func (g *ScheduleGenerator) Generate(terms LoanTerms, payment float64) Schedule {
	if !terms.Valid() || !mathutil.IsFinitePositive(payment) {
		g.logger.Debug("no schedule for invalid loan terms",
			zap.String("op", "loans.Generate"),
			zap.Float64("principal", terms.Principal),
			zap.Float64("annual_rate_percent", terms.AnnualRatePercent),
			zap.Float64("tenure_years", terms.TenureYears),
			zap.Float64("payment", payment),
		)
		return Schedule{}
	}

	planned := PlannedPeriods(terms)
	rate := terms.MonthlyRate()
	schedule := make(Schedule, 0, planned)
	balance := terms.Principal

	for period := 1; period <= planned; period++ {
		interest := balance * rate
		principal := payment - interest
		balance -= principal

		remaining := mathutil.Max(0, balance)
		if period == planned && mathutil.Round(remaining) == 0 {
			// Residue under half a cent on the last planned period is
			// floating point error, so record the loan as retired.
			remaining = 0
		}
		cumulativePrincipal := terms.Principal - remaining

		schedule = append(schedule, PeriodRecord{
			Period:              period,
			Payment:             payment,
			Principal:           principal,
			Interest:            interest,
			RemainingBalance:    remaining,
			CumulativePrincipal: cumulativePrincipal,
			CumulativeInterest:  payment*float64(period) - cumulativePrincipal,
		})

		if remaining == 0 {
			if period < planned {
				g.logger.Debug(fmt.Sprintf("loan retired at period %d of %d", period, planned),
					zap.String("op", "loans.Generate"),
				)
			}
			break
		}
	}

	return schedule
}
