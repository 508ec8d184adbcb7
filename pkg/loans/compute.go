package loans

import (
	"github.com/iwvelando/emi-calculator/pkg/mathutil"
	"go.uber.org/zap"
)

// Result bundles the headline figures and every projection of one loan.
type Result struct {
	Terms         LoanTerms       `json:"terms"`
	Payment       float64         `json:"payment"`
	TotalPayment  float64         `json:"totalPayment"`
	TotalInterest float64         `json:"totalInterest"`
	InterestShare float64         `json:"interestSharePercent"`
	Schedule      Schedule        `json:"schedule"`
	Yearly        []YearlySummary `json:"yearly"`
	Groups        YearGroups      `json:"groups"`
}

// Calculator computes Results. It holds no state besides its logger.
type Calculator struct {
	generator *ScheduleGenerator
}

// NewCalculator creates a Calculator that logs through logger.
func NewCalculator(logger *zap.Logger) *Calculator {
	return &Calculator{generator: NewScheduleGenerator(logger)}
}

// ComputeAll computes a Result with a no-op logger.
func ComputeAll(terms LoanTerms) Result {
	return NewCalculator(nil).ComputeAll(terms)
}

// ComputeAll derives the payment, schedule and projections from terms.
// Invalid terms produce a zero Result carrying the terms.
func (c *Calculator) ComputeAll(terms LoanTerms) Result {
	result := Result{
		Terms:    terms,
		Schedule: Schedule{},
		Yearly:   []YearlySummary{},
		Groups:   YearGroups{},
	}

	payment := terms.EMI()
	if payment == 0 {
		return result
	}

	result.Payment = payment
	result.TotalPayment = payment * terms.Periods()
	result.TotalInterest = result.TotalPayment - terms.Principal
	result.InterestShare = mathutil.CalculatePercentage(result.TotalInterest, terms.Principal)
	result.Schedule = c.generator.Generate(terms, payment)
	result.Yearly = ToYearlySummaries(result.Schedule)
	result.Groups = ToYearGroups(result.Schedule)
	return result
}
