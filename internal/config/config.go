// Package config defines the data structures related to configuration and
// includes functions for loading and parsing the config.
package config

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/emi-calculator/pkg/constants"
	"github.com/iwvelando/emi-calculator/pkg/format"
	"github.com/iwvelando/emi-calculator/pkg/loans"
	"github.com/iwvelando/emi-calculator/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for emi-calculator.
type Configuration struct {
	Loan     LoanConfig     `mapstructure:"loan" yaml:"loan"`
	Export   ExportConfig   `mapstructure:"export" yaml:"export,omitempty"`
	Currency CurrencyConfig `mapstructure:"currency" yaml:"currency,omitempty"`
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging,omitempty"`
	Output   OutputConfig   `mapstructure:"output" yaml:"output,omitempty"`
}

// LoanConfig holds the loan terms and the optional profile to check them
// against.
type LoanConfig struct {
	Principal         float64 `mapstructure:"principal" yaml:"principal"`
	AnnualRatePercent float64 `mapstructure:"annualRatePercent" yaml:"annualRatePercent"`
	TenureYears       float64 `mapstructure:"tenureYears" yaml:"tenureYears"`
	Profile           string  `mapstructure:"profile" yaml:"profile,omitempty"` // home, personal, car
}

// ExportConfig holds export destinations and artifact names.
type ExportConfig struct {
	OutputDir       string `mapstructure:"outputDir" yaml:"outputDir,omitempty"`
	TableFilename   string `mapstructure:"tableFilename" yaml:"tableFilename,omitempty"`
	SummaryFilename string `mapstructure:"summaryFilename" yaml:"summaryFilename,omitempty"`
	VisualFilename  string `mapstructure:"visualFilename" yaml:"visualFilename,omitempty"`
	CSVFilename     string `mapstructure:"csvFilename" yaml:"csvFilename,omitempty"`
	Precision       int    `mapstructure:"precision" yaml:"precision,omitempty"` // fraction digits in table cells
}

// CurrencyConfig holds display options for monetary values.
type CurrencyConfig struct {
	Symbol    string `mapstructure:"symbol" yaml:"symbol,omitempty"`
	Grouping  string `mapstructure:"grouping" yaml:"grouping,omitempty"` // indian, international
	Precision int    `mapstructure:"precision" yaml:"precision,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level,omitempty"`           // debug, info, warn, error
	Format     string `mapstructure:"format" yaml:"format,omitempty"`         // json, console
	OutputFile string `mapstructure:"outputFile" yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format,omitempty"` // pretty, csv
	View   string `mapstructure:"view" yaml:"view,omitempty"`     // monthly, yearly, grouped
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("loan.principal", constants.DefaultPrincipal)
	v.SetDefault("loan.annualRatePercent", constants.DefaultAnnualRatePercent)
	v.SetDefault("loan.tenureYears", constants.DefaultTenureYears)
	v.SetDefault("loan.profile", constants.DefaultProfile)

	v.SetDefault("export.outputDir", ".")
	v.SetDefault("export.tableFilename", constants.DefaultTableFilename)
	v.SetDefault("export.summaryFilename", constants.DefaultSummaryFilename)
	v.SetDefault("export.visualFilename", constants.DefaultVisualFilename)
	v.SetDefault("export.csvFilename", constants.DefaultCSVFilename)
	v.SetDefault("export.precision", 0)

	v.SetDefault("currency.symbol", constants.DefaultCurrencySymbol)
	v.SetDefault("currency.grouping", constants.DefaultCurrencyGrouping)
	v.SetDefault("currency.precision", constants.DefaultCurrencyPrecision)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.outputFile", "")

	v.SetDefault("output.format", constants.OutputFormatPretty)
	v.SetDefault("output.view", constants.ViewMonthly)
	return v
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}
	return &configuration, nil
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. Environment variables prefixed with EMI_ override file
// values (e.g., EMI_LOAN_PRINCIPAL). An empty path loads defaults and
// environment only.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configPath, err)
		}
	}
	return decode(v)
}

// LoadConfigurationFromReader loads YAML configuration from r, applying the
// same defaults and environment overrides as LoadConfiguration.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	if r == nil {
		return nil, errors.New("config reader is nil")
	}
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config: %w", err)
	}
	return decode(v)
}

// Terms returns the configured loan terms.
func (c *Configuration) Terms() loans.LoanTerms {
	return loans.LoanTerms{
		Principal:         c.Loan.Principal,
		AnnualRatePercent: c.Loan.AnnualRatePercent,
		TenureYears:       c.Loan.TenureYears,
	}
}

// Formatter returns the currency formatter described by the configuration.
func (c *Configuration) Formatter() (format.Formatter, error) {
	f, err := format.NewFormatter(c.Currency.Symbol, c.Currency.Grouping, c.Currency.Precision)
	if err != nil {
		return format.Formatter{}, fmt.Errorf("invalid currency configuration: %w", err)
	}
	return f, nil
}

// ValidateConfiguration performs general validation of the configuration and
// returns warnings. Invalid output options are errors and are reported by
// Validate instead.
func (c *Configuration) ValidateConfiguration() []string {
	warnings := validation.ValidateLoanTerms(c.Loan.Profile, c.Terms())
	if c.Export.Precision < 0 || c.Export.Precision > 4 {
		warnings = append(warnings, fmt.Sprintf(
			"export precision %d is outside 0-4 - table cells will use 0 fraction digits", c.Export.Precision))
	}
	return warnings
}

// ExportPrecision returns the fraction digits used in exported table cells.
func (c *Configuration) ExportPrecision() int {
	if c.Export.Precision < 0 || c.Export.Precision > 4 {
		return 0
	}
	return c.Export.Precision
}

// Validate returns an error when an option the program cannot run with is
// set.
func (c *Configuration) Validate() error {
	if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
		return err
	}
	if err := validation.ValidateView(c.Output.View); err != nil {
		return err
	}
	if _, err := c.Formatter(); err != nil {
		return err
	}
	return nil
}
