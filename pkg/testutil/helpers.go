// Package testutil provides common loan fixtures and lookups for testing.
package testutil

import (
	"github.com/iwvelando/emi-calculator/pkg/loans"
)

// HomeLoan is 5 lakh at 8.5% over 20 years, the reference loan used across
// tests. Its EMI is 4339.12 and the schedule has 240 periods.
var HomeLoan = loans.LoanTerms{Principal: 500000, AnnualRatePercent: 8.5, TenureYears: 20}

// HomeLoanResult computes HomeLoan.
func HomeLoanResult() loans.Result {
	return loans.ComputeAll(HomeLoan)
}

// FindRecord finds a period in the schedule.
// Returns a pointer to the record if found, nil otherwise.
func FindRecord(schedule loans.Schedule, period int) *loans.PeriodRecord {
	for i := range schedule {
		if schedule[i].Period == period {
			return &schedule[i]
		}
	}
	return nil
}
