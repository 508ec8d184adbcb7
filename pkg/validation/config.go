package validation

import (
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/emi-calculator/pkg/loans"
)

// ValidateLoanTerms checks the terms against the named loan profile and
// returns warnings. Terms that cannot produce a schedule are reported but are
// not an error: the calculations fall back to zero.
func ValidateLoanTerms(profileName string, terms loans.LoanTerms) []string {
	var warnings []string

	if !terms.Valid() {
		warnings = append(warnings, fmt.Sprintf(
			"loan terms (principal %v, rate %v%%, tenure %v years) are not valid - the EMI will be zero",
			terms.Principal, terms.AnnualRatePercent, terms.TenureYears))
		return warnings
	}

	periods := terms.Periods()
	if periods != math.Floor(periods) {
		warnings = append(warnings, fmt.Sprintf(
			"tenure of %.2f years is not a whole number of months - the schedule stops after %d periods and may leave a balance",
			terms.TenureYears, loans.PlannedPeriods(terms)))
	}

	if strings.TrimSpace(profileName) == "" {
		return warnings
	}
	profile, ok := loans.LookupProfile(profileName)
	if !ok {
		warnings = append(warnings, fmt.Sprintf("unknown loan profile '%s' (expected one of %s)",
			profileName, strings.Join(loans.ProfileNames(), ", ")))
		return warnings
	}
	return append(warnings, profile.Check(terms)...)
}
