package main

import (
	"github.com/iwvelando/emi-calculator/pkg/constants"
	"github.com/iwvelando/emi-calculator/pkg/loans"
	"github.com/iwvelando/emi-calculator/pkg/output"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newScheduleCmd(opts *globalOptions) *cobra.Command {
	var outputFormat, view string

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Print the EMI and amortization schedule",
		Long: `Print the monthly installment, the headline totals and the amortization
schedule as a monthly table, a yearly summary or year-grouped tables.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, logger, err := opts.load(cmd)
			if err != nil {
				return err
			}
			defer func() {
				_ = logger.Sync()
			}()

			// CLI overrides take precedence over config
			if outputFormat != "" {
				conf.Output.Format = outputFormat
			}
			if view != "" {
				conf.Output.View = view
			}
			if err := conf.Validate(); err != nil {
				return err
			}
			formatter, err := conf.Formatter()
			if err != nil {
				return err
			}

			result := loans.NewCalculator(logger).ComputeAll(conf.Terms())
			logger.Debug("computed schedule",
				zap.String("op", "main.schedule"),
				zap.Float64("payment", result.Payment),
				zap.Int("periods", len(result.Schedule)),
			)

			out := cmd.OutOrStdout()
			if conf.Output.Format == constants.OutputFormatCSV {
				return output.CsvFormat(out, result.Schedule)
			}
			return output.PrettyFormat(out, result, formatter, conf.Output.View)
		},
	}

	cmd.Flags().StringVar(&outputFormat, "output-format", "", "type of output override: pretty, csv")
	cmd.Flags().StringVar(&view, "view", "", "schedule view override: monthly, yearly, grouped")
	return cmd
}
