package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/iwvelando/emi-calculator/internal/config"
	"github.com/iwvelando/emi-calculator/pkg/constants"
	"github.com/iwvelando/emi-calculator/pkg/loans"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	logLevel   string
	principal  string
	rate       string
	tenure     string
	profile    string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "emi-calculator",
		Short: "Loan EMI, amortization schedule and report export",
		Long: `emi-calculator computes the equated monthly installment of a fixed-rate
loan and its full amortization schedule.

Loan terms come from the config file (config.yaml), EMI_* environment
variables or the --principal, --rate and --tenure flags, in increasing
order of precedence.

Example:
  emi-calculator schedule --principal 500000 --rate 8.5 --tenure 20 --view yearly
  emi-calculator export --format table --out exports`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", constants.DefaultConfigFile, "path to configuration file")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	flags.StringVar(&opts.principal, "principal", "", "loan principal override")
	flags.StringVar(&opts.rate, "rate", "", "annual interest rate percent override")
	flags.StringVar(&opts.tenure, "tenure", "", "loan tenure in years override")
	flags.StringVar(&opts.profile, "profile", "", "loan profile to check terms against (home, personal, car)")

	root.AddCommand(
		newScheduleCmd(opts),
		newExportCmd(opts),
		newServeCmd(opts),
		newVersionCmd(),
	)
	return root
}

// load reads the configuration, applies flag overrides and builds the logger.
// A missing default config file is not an error; an explicit one is.
func (o *globalOptions) load(cmd *cobra.Command) (*config.Configuration, *zap.Logger, error) {
	path := o.configPath
	if !cmd.Flags().Changed("config") {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			path = ""
		}
	}

	conf, err := config.LoadConfiguration(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	terms := loans.ParseTerms(
		override(o.principal, conf.Loan.Principal),
		override(o.rate, conf.Loan.AnnualRatePercent),
		override(o.tenure, conf.Loan.TenureYears),
	)
	conf.Loan.Principal = terms.Principal
	conf.Loan.AnnualRatePercent = terms.AnnualRatePercent
	conf.Loan.TenureYears = terms.TenureYears
	if o.profile != "" {
		conf.Loan.Profile = o.profile
	}

	logger, err := initializeLogger(conf.Logging, o.logLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}
	return conf, logger, nil
}

func override(flagValue string, configured float64) string {
	if flagValue != "" {
		return flagValue
	}
	return strconv.FormatFloat(configured, 'g', -1, 64)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "emi-calculator version %s\n", version)
		},
	}
}
