package main

import (
	"fmt"
	"path/filepath"

	"github.com/iwvelando/emi-calculator/internal/capture"
	"github.com/iwvelando/emi-calculator/internal/export"
	"github.com/iwvelando/emi-calculator/internal/report"
	"github.com/iwvelando/emi-calculator/pkg/constants"
	"github.com/iwvelando/emi-calculator/pkg/loans"
	"github.com/iwvelando/emi-calculator/pkg/validation"
	"github.com/spf13/cobra"
)

func newExportCmd(opts *globalOptions) *cobra.Command {
	var exportFormat, outDir, imagePath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the schedule as a document",
		Long: `Export the amortization schedule as a paginated PDF table, a PDF of the
yearly chart, or CSV. When the requested document cannot be produced a
summary PDF with the headline figures is written instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validation.ValidateExportFormat(exportFormat); err != nil {
				return err
			}

			conf, logger, err := opts.load(cmd)
			if err != nil {
				return err
			}
			defer func() {
				_ = logger.Sync()
			}()

			formatter, err := conf.Formatter()
			if err != nil {
				return err
			}
			if outDir == "" {
				outDir = conf.Export.OutputDir
			}

			req := export.NewRequest(loans.NewCalculator(logger).ComputeAll(conf.Terms()))
			req.Formatter = formatter
			req.Precision = conf.ExportPrecision()
			req.Filenames = export.Filenames{
				Table:   conf.Export.TableFilename,
				Summary: conf.Export.SummaryFilename,
				Visual:  conf.Export.VisualFilename,
				CSV:     conf.Export.CSVFilename,
			}
			if imagePath != "" {
				req.Region = capture.FileRegion{Path: imagePath}
			} else {
				req.Region = capture.NewChartRegion(req.Result)
			}

			exporter := export.NewExporter(export.PDFRenderers(report.NewPDF()), export.FileDeliverer{Dir: outDir}, logger)
			artifact, err := exporter.Export(cmd.Context(), exportFormat, req)
			if err != nil {
				return err
			}

			path := filepath.Join(outDir, filepath.Base(artifact.Filename))
			if artifact.Degraded {
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%s export failed, summary only)\n", path, exportFormat)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&exportFormat, "format", constants.ExportFormatTable, "export format: table, visual, csv")
	cmd.Flags().StringVar(&outDir, "out", "", "output directory (default from config)")
	cmd.Flags().StringVar(&imagePath, "image", "", "PNG or JPEG to embed in a visual export instead of the chart")
	return cmd
}
