// Package constants provides shared constants for the emi-calculator application.
package constants

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// MaxTenureYears is the longest tenure accepted as valid loan terms
	MaxTenureYears = 100

	// MaxPeriods is the largest number of monthly periods in a schedule
	MaxPeriods = MaxTenureYears * MonthsPerYear
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Output view constants select which projection of the schedule is printed.
const (
	ViewMonthly = "monthly"
	ViewYearly  = "yearly"
	ViewGrouped = "grouped"
)

// Export format constants
const (
	// ExportFormatTable is the paginated PDF amortization table
	ExportFormatTable = "table"

	// ExportFormatVisual is the captured chart embedded in a PDF
	ExportFormatVisual = "visual"

	// ExportFormatCSV is the monthly schedule as CSV
	ExportFormatCSV = "csv"
)

// Default artifact filenames
const (
	DefaultTableFilename   = "amortization-table.pdf"
	DefaultSummaryFilename = "amortization-summary.pdf"
	DefaultVisualFilename  = "amortization-chart.pdf"
	DefaultCSVFilename     = "amortization-schedule.csv"
)

// Report text
const (
	// SummaryTitle is the title of the fallback summary document
	SummaryTitle = "Amortization Summary"

	// TableTitle is the title of the structured table document
	TableTitle = "Amortization Schedule"

	// ChartTitle is the title of the captured chart document
	ChartTitle = "Amortization Chart"

	// FallbackNotice is printed in the summary document when the detailed
	// schedule could not be produced.
	FallbackNotice = "A detailed schedule could not be exported."

	// Disclaimer is appended to human-readable output.
	Disclaimer = "Calculated EMI is for reference only. Please verify with your lender."
)

// Page geometry for PDF reports, in millimetres (A4 portrait).
const (
	PageWidthMM  = 210.0
	PageHeightMM = 297.0
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix is the prefix for environment overrides (EMI_LOAN_PRINCIPAL, ...)
	EnvPrefix = "EMI"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultMaxRequestSizeBytes is the default maximum JSON request body (64 KB)
	DefaultMaxRequestSizeBytes int64 = 64 * 1024
)

// Loan input defaults, matching a typical home loan.
const (
	DefaultPrincipal         = 5000000.0
	DefaultAnnualRatePercent = 8.5
	DefaultTenureYears       = 20.0
	DefaultProfile           = "home"
)

// Currency display defaults
const (
	DefaultCurrencySymbol    = "Rs."
	DefaultCurrencyGrouping  = "indian"
	DefaultCurrencyPrecision = 0
)
