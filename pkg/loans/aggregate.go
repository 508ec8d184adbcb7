package loans

import (
	"github.com/iwvelando/emi-calculator/pkg/constants"
)

// YearlySummary is the state of the loan at the end of a schedule year.
type YearlySummary struct {
	Year                    int     `json:"year"`
	BalanceAtYearEnd        float64 `json:"balanceAtYearEnd"`
	CumulativePrincipalPaid float64 `json:"cumulativePrincipalPaid"`
	CumulativeInterestPaid  float64 `json:"cumulativeInterestPaid"`
}

// YearGroup holds one year's records and their totals.
type YearGroup struct {
	Year           int            `json:"year"`
	Records        []PeriodRecord `json:"records"`
	TotalPayment   float64        `json:"totalPayment"`
	TotalPrincipal float64        `json:"totalPrincipal"`
	TotalInterest  float64        `json:"totalInterest"`
	EndingBalance  float64        `json:"endingBalance"`
}

// YearGroups maps year numbers to groups. Groups are kept in ascending year
// order so ranging over them is deterministic.
type YearGroups []YearGroup

// Get returns the group for a year.
func (g YearGroups) Get(year int) (YearGroup, bool) {
	for _, group := range g {
		if group.Year == year {
			return group, true
		}
	}
	return YearGroup{}, false
}

// Years returns the year numbers in ascending order.
func (g YearGroups) Years() []int {
	years := make([]int, len(g))
	for i, group := range g {
		years[i] = group.Year
	}
	return years
}

// YearOf returns the 1-based schedule year a period falls in.
func YearOf(period int) int {
	return (period + constants.MonthsPerYear - 1) / constants.MonthsPerYear
}

// ToYearlySummaries returns one summary per schedule year, taken from the
// last record within that year. A partial final year uses the schedule's last
// record; no interpolation is done.
func ToYearlySummaries(schedule Schedule) []YearlySummary {
	years := YearOf(len(schedule))
	summaries := make([]YearlySummary, 0, years)
	for year := 1; year <= years; year++ {
		end := year * constants.MonthsPerYear
		if end > len(schedule) {
			end = len(schedule)
		}
		record := schedule[end-1]
		summaries = append(summaries, YearlySummary{
			Year:                    year,
			BalanceAtYearEnd:        record.RemainingBalance,
			CumulativePrincipalPaid: record.CumulativePrincipal,
			CumulativeInterestPaid:  record.CumulativeInterest,
		})
	}
	return summaries
}

// ToYearGroups partitions the schedule by year, preserving record order, and
// totals each bucket.
func ToYearGroups(schedule Schedule) YearGroups {
	groups := make(YearGroups, 0, YearOf(len(schedule)))
	for _, record := range schedule {
		year := YearOf(record.Period)
		if len(groups) == 0 || groups[len(groups)-1].Year != year {
			groups = append(groups, YearGroup{Year: year})
		}
		group := &groups[len(groups)-1]
		group.Records = append(group.Records, record)
		group.TotalPayment += record.Payment
		group.TotalPrincipal += record.Principal
		group.TotalInterest += record.Interest
		group.EndingBalance = record.RemainingBalance
	}
	return groups
}
