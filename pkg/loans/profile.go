package loans

import (
	"fmt"
	"sort"
	"strings"
)

// Range is an inclusive bound with the step used by input controls.
type Range struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Step float64 `json:"step"`
}

// Contains reports whether v lies within the range.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Profile describes the typical input ranges for a kind of loan.
type Profile struct {
	Name        string `json:"name"`
	Label       string `json:"label"`
	Principal   Range  `json:"principal"`
	RatePercent Range  `json:"ratePercent"`
	TenureYears Range  `json:"tenureYears"`
}

var profiles = map[string]Profile{
	"home": {
		Name:        "home",
		Label:       "Home Loan",
		Principal:   Range{Min: 100000, Max: 50000000, Step: 100000},
		RatePercent: Range{Min: 6, Max: 15, Step: 0.1},
		TenureYears: Range{Min: 1, Max: 30, Step: 1},
	},
	"personal": {
		Name:        "personal",
		Label:       "Personal Loan",
		Principal:   Range{Min: 50000, Max: 5000000, Step: 50000},
		RatePercent: Range{Min: 10, Max: 25, Step: 0.1},
		TenureYears: Range{Min: 1, Max: 7, Step: 1},
	},
	"car": {
		Name:        "car",
		Label:       "Car Loan",
		Principal:   Range{Min: 100000, Max: 10000000, Step: 50000},
		RatePercent: Range{Min: 7, Max: 18, Step: 0.1},
		TenureYears: Range{Min: 1, Max: 7, Step: 1},
	},
}

// LookupProfile returns the named profile. Names are case-insensitive.
func LookupProfile(name string) (Profile, bool) {
	p, ok := profiles[strings.ToLower(strings.TrimSpace(name))]
	return p, ok
}

// ProfileNames lists the known profiles alphabetically.
func ProfileNames() []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Check returns a warning for every term outside the profile's ranges.
func (p Profile) Check(terms LoanTerms) []string {
	var warnings []string
	if !p.Principal.Contains(terms.Principal) {
		warnings = append(warnings, fmt.Sprintf("principal %.2f is outside the typical %s range [%.0f, %.0f]",
			terms.Principal, strings.ToLower(p.Label), p.Principal.Min, p.Principal.Max))
	}
	if !p.RatePercent.Contains(terms.AnnualRatePercent) {
		warnings = append(warnings, fmt.Sprintf("annual rate %.2f%% is outside the typical %s range [%.1f, %.1f]",
			terms.AnnualRatePercent, strings.ToLower(p.Label), p.RatePercent.Min, p.RatePercent.Max))
	}
	if !p.TenureYears.Contains(terms.TenureYears) {
		warnings = append(warnings, fmt.Sprintf("tenure %.2f years is outside the typical %s range [%.0f, %.0f]",
			terms.TenureYears, strings.ToLower(p.Label), p.TenureYears.Min, p.TenureYears.Max))
	}
	return warnings
}
