// Package main provides the CLI entrypoint for the stint pipeline.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/okian/stint/internal/adapters/provider"
	"github.com/okian/stint/internal/adapters/store"
	service "github.com/okian/stint/internal/app"
	"github.com/okian/stint/internal/config"
	"github.com/okian/stint/internal/domain/label"
	"github.com/okian/stint/internal/domain/peer"
	"github.com/okian/stint/pkg/logger"
	"github.com/okian/stint/pkg/metrics"
)

// Metrics endpoint timeouts.
const (
	metricsReadTimeout       = 5 * time.Second
	metricsReadHeaderTimeout = 2 * time.Second
	metricsShutdownTimeout   = 3 * time.Second
)

var (
	flagSeason      int
	flagDataDir     string
	flagInputs      string
	flagOutput      string
	flagDatabase    string
	flagMetricsAddr string
	flagLogLevel    string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "stint",
		Short:         "Season behavioral profiler for timed racing events",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPipelineCmd,
	}

	rootCmd.Flags().IntVar(&flagSeason, "season", 0, "season to process (overrides config)")
	rootCmd.Flags().StringVar(&flagDataDir, "data-dir", "", "root of the event data tables")
	rootCmd.Flags().StringVar(&flagInputs, "inputs", "", "categories/peers/seeds YAML file")
	rootCmd.Flags().StringVar(&flagOutput, "output", "", "path of the JSON report")
	rootCmd.Flags().StringVar(&flagDatabase, "db", "", "sqlite database for run history")
	rootCmd.Flags().StringVar(&flagMetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address during the run")
	rootCmd.Flags().StringVar(&flagLogLevel, "log-level", "", "log verbosity: debug, info, warn, error")

	return rootCmd
}

func runPipelineCmd(cmd *cobra.Command, _ []string) error {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return err
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			os.Stderr.WriteString("failed to flush logs: " + err.Error() + "\n")
		}
	}()
	log := logger.Get()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg)

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	inputs, err := config.LoadInputs(ctx, cfg.InputsFile)
	if err != nil {
		return err
	}

	svc, err := service.New(
		inputs.Categories,
		peer.Assignments(inputs.Peers),
		label.SeedSet(inputs.Seeds),
		service.WithLogger(log),
		service.WithPrecision(cfg.Precision),
		service.WithForestConfig(label.ForestConfig{
			Trees:    cfg.ForestTrees,
			MaxDepth: cfg.ForestMaxDepth,
			MinLeaf:  cfg.ForestMinLeaf,
			Seed:     cfg.ForestSeed,
		}),
	)
	if err != nil {
		return err
	}

	stopMetrics := startMetricsServer(ctx, log, cfg.MetricsAddr)
	defer stopMetrics()

	outcome, err := svc.Run(ctx, provider.NewFileSource(cfg.DataDir), cfg.Season)
	if err != nil {
		log.Error(ctx, "run failed", logger.Error(err))
		return err
	}

	db, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			log.Warn(ctx, "closing database", logger.Error(cerr))
		}
	}()
	if err := db.InsertRun(ctx, outcome.Summary, outcome.Results); err != nil {
		return err
	}

	if err := store.NewReportWriter(cfg.Precision).Write(cfg.OutputJSON, outcome.Summary, outcome.Results); err != nil {
		return err
	}

	log.Info(ctx, "report written",
		logger.String("run_id", outcome.Summary.RunID),
		logger.String("path", cfg.OutputJSON),
		logger.Int("competitors", outcome.Summary.Competitors))
	return nil
}

// applyFlags lets explicit flags win over file and environment config.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("season") {
		cfg.Season = flagSeason
	}
	if cmd.Flags().Changed("data-dir") {
		cfg.DataDir = flagDataDir
	}
	if cmd.Flags().Changed("inputs") {
		cfg.InputsFile = flagInputs
	}
	if cmd.Flags().Changed("output") {
		cfg.OutputJSON = flagOutput
	}
	if cmd.Flags().Changed("db") {
		cfg.DatabasePath = flagDatabase
	}
	if cmd.Flags().Changed("metrics-addr") {
		cfg.MetricsAddr = flagMetricsAddr
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = flagLogLevel
	}
}

// startMetricsServer exposes the run's metrics while it executes. The
// returned stop function shuts the listener down.
func startMetricsServer(ctx context.Context, log logger.Logger, addr string) func() {
	if addr == "" {
		return func() {}
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       metricsReadTimeout,
		ReadHeaderTimeout: metricsReadHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "serving metrics", logger.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warn(ctx, "metrics server failed", logger.Error(err))
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn(ctx, "metrics server shutdown", logger.Error(err))
		}
	}
}
