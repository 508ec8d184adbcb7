package loans

import (
	"math"
	"testing"
)

func syntheticSchedule(length int) Schedule {
	schedule := make(Schedule, length)
	for i := range schedule {
		period := i + 1
		schedule[i] = PeriodRecord{
			Period:              period,
			Payment:             100,
			Principal:           60,
			Interest:            40,
			RemainingBalance:    float64(length-period) * 60,
			CumulativePrincipal: float64(period) * 60,
			CumulativeInterest:  float64(period) * 40,
		}
	}
	return schedule
}

func TestYearOf(t *testing.T) {
	tests := []struct {
		period   int
		expected int
	}{
		{0, 0},
		{1, 1},
		{12, 1},
		{13, 2},
		{24, 2},
		{25, 3},
		{240, 20},
	}

	for _, tt := range tests {
		if got := YearOf(tt.period); got != tt.expected {
			t.Errorf("YearOf(%d) = %d, expected %d", tt.period, got, tt.expected)
		}
	}
}

func TestToYearlySummaries(t *testing.T) {
	tests := []struct {
		name          string
		length        int
		expectedYears int
	}{
		{"Empty schedule", 0, 0},
		{"Single period", 1, 1},
		{"Exactly one year", 12, 1},
		{"Partial second year", 18, 2},
		{"Twenty years", 240, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schedule := syntheticSchedule(tt.length)
			summaries := ToYearlySummaries(schedule)

			if len(summaries) != tt.expectedYears {
				t.Fatalf("len(summaries) = %d, expected %d", len(summaries), tt.expectedYears)
			}

			for i, summary := range summaries {
				if summary.Year != i+1 {
					t.Errorf("summary %d has year %d", i, summary.Year)
				}
				end := (i + 1) * 12
				if end > len(schedule) {
					end = len(schedule)
				}
				record := schedule[end-1]
				if summary.BalanceAtYearEnd != record.RemainingBalance ||
					summary.CumulativePrincipalPaid != record.CumulativePrincipal ||
					summary.CumulativeInterestPaid != record.CumulativeInterest {
					t.Errorf("year %d summary %+v does not match record %+v", summary.Year, summary, record)
				}
				if i > 0 && summary.BalanceAtYearEnd > summaries[i-1].BalanceAtYearEnd {
					t.Errorf("year %d balance increased", summary.Year)
				}
			}
		})
	}
}

func TestToYearlySummariesPartialFinalYearUsesLastRecord(t *testing.T) {
	terms := LoanTerms{Principal: 250000, AnnualRatePercent: 9, TenureYears: 2.5}
	schedule := GenerateSchedule(terms, terms.EMI())
	summaries := ToYearlySummaries(schedule)

	if len(summaries) != 3 {
		t.Fatalf("len(summaries) = %d, expected 3", len(summaries))
	}
	final := summaries[2]
	if final.BalanceAtYearEnd != 0 {
		t.Errorf("final year balance = %v, expected 0", final.BalanceAtYearEnd)
	}
	if math.Abs(final.CumulativePrincipalPaid-terms.Principal) > 0.01 {
		t.Errorf("final year principal paid = %.2f, expected %.2f", final.CumulativePrincipalPaid, terms.Principal)
	}
}

func TestToYearGroups(t *testing.T) {
	schedule := syntheticSchedule(30)
	groups := ToYearGroups(schedule)

	if got := groups.Years(); len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Fatalf("Years() = %v, expected [1 2 3]", got)
	}

	expectedSizes := []int{12, 12, 6}
	covered := 0
	for i, group := range groups {
		if len(group.Records) != expectedSizes[i] {
			t.Errorf("year %d has %d records, expected %d", group.Year, len(group.Records), expectedSizes[i])
		}
		for _, record := range group.Records {
			if record.Period != covered+1 {
				t.Fatalf("year %d: record period %d out of order, expected %d", group.Year, record.Period, covered+1)
			}
			if YearOf(record.Period) != group.Year {
				t.Errorf("period %d placed in year %d", record.Period, group.Year)
			}
			covered++
		}

		size := float64(len(group.Records))
		if group.TotalPayment != 100*size || group.TotalPrincipal != 60*size || group.TotalInterest != 40*size {
			t.Errorf("year %d totals = (%v, %v, %v), unexpected", group.Year,
				group.TotalPayment, group.TotalPrincipal, group.TotalInterest)
		}
		if group.EndingBalance != group.Records[len(group.Records)-1].RemainingBalance {
			t.Errorf("year %d ending balance %v does not match last record", group.Year, group.EndingBalance)
		}
	}
	if covered != len(schedule) {
		t.Errorf("groups cover %d records, expected %d", covered, len(schedule))
	}

	group, ok := groups.Get(3)
	if !ok || group.Year != 3 {
		t.Errorf("Get(3) = %+v, %v", group, ok)
	}
	if _, ok := groups.Get(4); ok {
		t.Error("Get(4) should report false")
	}
}

func TestToYearGroupsReproducesTotalPrincipal(t *testing.T) {
	terms := LoanTerms{Principal: 500000, AnnualRatePercent: 8.5, TenureYears: 20}
	schedule := GenerateSchedule(terms, terms.EMI())
	groups := ToYearGroups(schedule)

	if len(groups) != 20 {
		t.Fatalf("len(groups) = %d, expected 20", len(groups))
	}

	total := 0.0
	for _, group := range groups {
		total += group.TotalPrincipal
	}
	if math.Abs(total-schedule.TotalPrincipal()) > 1e-6 {
		t.Errorf("sum of yearly principal = %.6f, expected %.6f", total, schedule.TotalPrincipal())
	}
}

func TestAggregatesOfEmptySchedule(t *testing.T) {
	if got := ToYearlySummaries(Schedule{}); len(got) != 0 {
		t.Errorf("ToYearlySummaries(empty) = %v, expected empty", got)
	}
	if got := ToYearGroups(nil); len(got) != 0 {
		t.Errorf("ToYearGroups(nil) = %v, expected empty", got)
	}
}
