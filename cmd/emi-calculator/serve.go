package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/iwvelando/emi-calculator/internal/server"
	"github.com/iwvelando/emi-calculator/pkg/constants"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd(opts *globalOptions) *cobra.Command {
	var configPath, address string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the EMI and export API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := server.LoadConfig(configPath)
			if err != nil {
				return err
			}
			if address != "" {
				cfg.Address = address
			}

			logger, err := initializeLogger(cfg.Logging, opts.logLevel)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer func() {
				_ = logger.Sync()
			}()

			formatter, err := cfg.Formatter()
			if err != nil {
				return fmt.Errorf("invalid currency configuration: %w", err)
			}

			handler := server.NewHandler(logger, server.Options{
				MaxRequestSize:  cfg.RequestSizeBytes(),
				Version:         version,
				Formatter:       formatter,
				ExportPrecision: cfg.ExportPrecision,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := server.Run(ctx, cfg, handler, logger); err != nil {
				logger.Error("server stopped with error",
					zap.String("op", "main.serve"),
					zap.Error(err),
				)
				return err
			}
			logger.Info("server stopped", zap.String("op", "main.serve"))
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	cmd.Flags().StringVar(&address, "address", "", "listen address override")
	return cmd
}
