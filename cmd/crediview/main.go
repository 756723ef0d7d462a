package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spektr-org/crediview/config"
	"github.com/spektr-org/crediview/dashboard"
	"github.com/spektr-org/crediview/helpers"
	"github.com/spektr-org/crediview/logging"
)

// ============================================================================
// CREDIVIEW CLI — Credit-loan dashboard
// ============================================================================

const version = "0.1.0"

var (
	configPath string
	logger     *zap.Logger
	cfg        *config.Config
	settings   = config.New()
)

var rootCmd = &cobra.Command{
	Use:     "crediview",
	Short:   "Credit-loan dashboard over a delimited dataset",
	Version: version,
	Long: `crediview loads a credit-loan dataset and serves its dashboard:
category counts, amount histogram, status and delinquency by purpose,
mean amount by client tenure, amount boxes and scatter, and a correlation
heatmap of the numeric columns.

Settings come from --config, CREDIVIEW_* environment variables and flags.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadFrom(settings, configPath)
		if err != nil {
			return err
		}
		logger, err = logging.New(cfg.Log.Level, cfg.Log.Development)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "config file (yaml, json or toml)")
	flags.String("data", "", "dataset path (default datos_finales.csv)")
	flags.String("delimiter", "", "dataset field delimiter (default \";\")")
	flags.String("log-level", "", "log level: debug, info, warn, error")

	must(settings.BindPFlag("data.path", flags.Lookup("data")))
	must(settings.BindPFlag("data.delimiter", flags.Lookup("delimiter")))
	must(settings.BindPFlag("log.level", flags.Lookup("log-level")))

	rootCmd.AddCommand(serveCmd, summaryCmd, renderCmd, describeCmd)
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// loadDashboard loads the dataset and builds the dashboard over it.
func loadDashboard() (*dashboard.Dashboard, *helpers.FrameView, error) {
	view, err := helpers.Load(cfg.Data.Path, cfg.Delimiter())
	if err != nil {
		var le *helpers.LoadError
		if errors.As(err, &le) {
			logger.Error("dataset not loaded", zap.String("path", le.Path), zap.String("reason", le.Reason))
		}
		return nil, nil, err
	}
	logger.Info("dataset loaded",
		zap.String("path", cfg.Data.Path),
		zap.Int("rows", view.Len()),
		zap.Int("columns", len(view.DimensionKeys())))

	d := dashboard.New(view,
		dashboard.WithLogger(logger),
		dashboard.WithBins(cfg.Charts.Bins),
		dashboard.WithTenureOrder(cfg.Tenure.Order),
	)
	return d, view, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
