// Package output provides utilities for formatting and displaying loan results.
package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/iwvelando/emi-calculator/pkg/constants"
	"github.com/iwvelando/emi-calculator/pkg/format"
	"github.com/iwvelando/emi-calculator/pkg/loans"
)

// CSVHeader is the header row of the monthly schedule CSV.
var CSVHeader = []string{"month", "emi", "principal", "interest", "balance", "cumulative_principal", "cumulative_interest"}

// PrettyFormat writes a human-readable rather than machine-readable report.
// view selects the monthly, yearly or year-grouped projection.
func PrettyFormat(w io.Writer, result loans.Result, f format.Formatter, view string) error {
	terms := result.Terms
	if _, err := fmt.Fprintf(w, "--- EMI for %s at %.2f%% over %g years ---\n",
		f.Currency(terms.Principal), terms.AnnualRatePercent, terms.TenureYears); err != nil {
		return err
	}
	fmt.Fprintf(w, "Monthly EMI    | %s\n", f.Currency(result.Payment))
	fmt.Fprintf(w, "Total Payment  | %s\n", f.Currency(result.TotalPayment))
	fmt.Fprintf(w, "Total Interest | %s (%.1f%% of principal)\n\n", f.Currency(result.TotalInterest), result.InterestShare)

	switch view {
	case constants.ViewYearly:
		writeYearly(w, result.Yearly, f)
	case constants.ViewGrouped:
		writeGrouped(w, result.Groups, f)
	default:
		writeMonthly(w, result.Schedule, f)
	}

	_, err := fmt.Fprintf(w, "\n%s\n", constants.Disclaimer)
	return err
}

func writeMonthly(w io.Writer, schedule loans.Schedule, f format.Formatter) {
	fmt.Fprintf(w, "Month | %14s | %14s | %14s | %16s\n", "EMI", "Principal", "Interest", "Balance")
	fmt.Fprintf(w, "_____ | %14s | %14s | %14s | %16s\n", "___", "_________", "________", "_______")
	for _, record := range schedule {
		fmt.Fprintf(w, "%5d | %14s | %14s | %14s | %16s\n", record.Period,
			f.Currency(record.Payment), f.Currency(record.Principal),
			f.Currency(record.Interest), f.Currency(record.RemainingBalance))
	}
}

func writeYearly(w io.Writer, summaries []loans.YearlySummary, f format.Formatter) {
	fmt.Fprintf(w, "Year | %16s | %16s | %16s\n", "Balance", "Principal Paid", "Interest Paid")
	fmt.Fprintf(w, "____ | %16s | %16s | %16s\n", "_______", "______________", "_____________")
	for _, summary := range summaries {
		fmt.Fprintf(w, "Y%-3d | %16s | %16s | %16s\n", summary.Year,
			f.Short(summary.BalanceAtYearEnd), f.Short(summary.CumulativePrincipalPaid),
			f.Short(summary.CumulativeInterestPaid))
	}
}

func writeGrouped(w io.Writer, groups loans.YearGroups, f format.Formatter) {
	months := 0
	for _, group := range groups {
		fmt.Fprintf(w, "Year %d | paid %s | principal %s | interest %s | balance %s\n", group.Year,
			f.Currency(group.TotalPayment), f.Currency(group.TotalPrincipal),
			f.Currency(group.TotalInterest), f.Currency(group.EndingBalance))
		writeMonthly(w, group.Records, f)
		fmt.Fprintln(w)
		months += len(group.Records)
	}
	fmt.Fprintf(w, "Showing all %d monthly payments grouped by year\n", months)
}

// CsvFormat writes the monthly schedule in comma-separated value format with
// two fraction digits.
func CsvFormat(w io.Writer, schedule loans.Schedule) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(CSVHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, record := range schedule {
		row := []string{
			fmt.Sprintf("%d", record.Period),
			format.Fixed(record.Payment, 2),
			format.Fixed(record.Principal, 2),
			format.Fixed(record.Interest, 2),
			format.Fixed(record.RemainingBalance, 2),
			format.Fixed(record.CumulativePrincipal, 2),
			format.Fixed(record.CumulativeInterest, 2),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row for period %d: %w", record.Period, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// CsvString returns the CsvFormat output as a string.
func CsvString(schedule loans.Schedule) string {
	var buf bytes.Buffer
	if err := CsvFormat(&buf, schedule); err != nil {
		return ""
	}
	return buf.String()
}
