package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ajitpratap0/sheetsfdw/internal/pipeline"
	"github.com/ajitpratap0/sheetsfdw/pkg/clients"
	"github.com/ajitpratap0/sheetsfdw/pkg/config"
	"github.com/ajitpratap0/sheetsfdw/pkg/connector/core"
	"github.com/ajitpratap0/sheetsfdw/pkg/connector/registry"
	"github.com/ajitpratap0/sheetsfdw/pkg/logger"
	"github.com/ajitpratap0/sheetsfdw/pkg/observability"
)

const envPrefix = "SHEETSFDW"

func newScanCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan a sheet and write its rows",
		Long: `Scan one sheet through the wrapper lifecycle and write every row.

Settings come from an optional YAML scan file, overridden by flags and by
SHEETSFDW_* environment variables (e.g. SHEETSFDW_SHEET_ID).

Example:
  sheetsfdw scan --sheet-id 1AbC --columns "id:i64,name:string,born:date" --format csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveScanConfig(v)
			if err != nil {
				return err
			}
			return runScan(cmd, v, cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringP("config", "c", "", "Path to a YAML scan configuration file")
	flags.String("sheet-id", "", "Google Sheets document id (table option sheet_id)")
	flags.String("base-url", "", "Spreadsheet endpoint (server option base_url)")
	flags.String("columns", "", `Columns as name:type[@position], e.g. "id:i64,name:string"`)
	flags.String("format", "", "Output format: jsonl or csv")
	flags.StringP("output", "o", "", "Output file, stdout when empty or -")
	flags.Int("limit", 0, "Stop after this many rows (0 means all)")
	flags.String("log-level", "", "Log level (debug, info, warn, error)")
	flags.String("log-format", "", "Log encoding (json, console)")
	flags.Bool("trace", false, "Export OpenTelemetry spans to stderr")
	flags.String("metrics-file", "", "Write prometheus metrics in text format to this file after the scan")
	flags.Duration("timeout", 0, "Scan timeout (defaults to the configured request timeout)")

	_ = v.BindPFlags(flags)
	return cmd
}

// resolveScanConfig loads the scan file, if any, and applies flag and
// environment overrides on top.
func resolveScanConfig(v *viper.Viper) (*config.ScanConfig, error) {
	cfg := config.NewScanConfig("sheetsfdw")
	if path := v.GetString("config"); path != "" {
		if err := config.Load(path, cfg); err != nil {
			return nil, fmt.Errorf("scan configuration error: %w", err)
		}
	}
	if cfg.Server == nil {
		cfg.Server = config.Options{}
	}
	if cfg.Table == nil {
		cfg.Table = config.Options{}
	}

	if v.IsSet("sheet-id") {
		cfg.Table["sheet_id"] = v.GetString("sheet-id")
	}
	if v.IsSet("base-url") {
		cfg.Server["base_url"] = v.GetString("base-url")
	}
	if v.IsSet("columns") {
		columns, err := config.ParseColumnList(v.GetString("columns"))
		if err != nil {
			return nil, fmt.Errorf("invalid --columns: %w", err)
		}
		cfg.Columns = columns
	}
	if v.IsSet("format") {
		cfg.Output.Format = v.GetString("format")
	}
	if v.IsSet("output") {
		cfg.Output.Path = v.GetString("output")
	}
	if v.IsSet("log-level") {
		cfg.Observability.LogLevel = v.GetString("log-level")
	}
	if v.IsSet("log-format") {
		cfg.Observability.LogFormat = v.GetString("log-format")
	}
	if v.GetBool("trace") {
		cfg.Observability.EnableTracing = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("scan configuration error: %w", err)
	}
	return cfg, nil
}

func runScan(cmd *cobra.Command, v *viper.Viper, cfg *config.ScanConfig) (err error) {
	if err := logger.Init(logger.Config{
		Level:    cfg.Observability.LogLevel,
		Encoding: cfg.Observability.LogFormat,
	}); err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	timeout := v.GetDuration("timeout")
	if timeout <= 0 {
		timeout = cfg.Timeouts.Request
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	ctx = logger.NewContext(ctx, cfg.Type, cfg.Name, uuid.NewString())
	log := logger.WithContext(ctx).With(zap.String("component", "sheetsfdw-cli"))

	if cfg.Observability.EnableTracing {
		tc := observability.DefaultTracingConfig(version)
		tc.SamplingRate = cfg.Observability.TracingSampleRate
		tc.Writer = cmd.ErrOrStderr()
		if err := observability.InitTracing(ctx, tc); err != nil {
			return err
		}
		defer func() {
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			if serr := observability.Shutdown(shutdownCtx); serr != nil {
				log.Warn("failed to flush traces", zap.Error(serr))
			}
		}()
	}

	fctx, err := pipeline.BuildContext(cfg)
	if err != nil {
		return fmt.Errorf("scan configuration error: %w", err)
	}

	wrapper, err := registry.CreateWrapper(cfg.Type, core.NewLogReporter(log))
	if err != nil {
		return fmt.Errorf("failed to create wrapper '%s': %w", cfg.Type, err)
	}
	if c, ok := wrapper.(io.Closer); ok {
		defer func() { _ = c.Close() }()
	}

	out, closeOut, err := openOutput(cmd.OutOrStdout(), cfg.Output.Path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeOut(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	sink, err := pipeline.NewSink(cfg.Output.Format, out, fctx.Columns())
	if err != nil {
		return err
	}

	options := &pipeline.ScanOptions{Name: cfg.Name, Connector: cfg.Type, Limit: v.GetInt("limit")}
	stats, err := pipeline.NewScanPipeline(wrapper, fctx, sink, options, log).Run(ctx)
	logTransportStats(log, wrapper)
	if path := v.GetString("metrics-file"); path != "" {
		if merr := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); merr != nil {
			log.Warn("failed to write metrics", zap.String("path", path), zap.Error(merr))
		}
	}
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	log.Info("scan finished",
		zap.Int64("rows", stats.Rows),
		zap.Duration("duration", stats.Duration),
		zap.Float64("records_per_second", stats.Throughput))
	return nil
}

// transportStatser is implemented by wrappers that expose the statistics of
// their HTTP collaborator.
type transportStatser interface {
	TransportStats() (clients.HTTPStats, bool)
}

func logTransportStats(log *zap.Logger, wrapper core.ForeignDataWrapper) {
	ts, ok := wrapper.(transportStatser)
	if !ok {
		return
	}
	stats, ok := ts.TransportStats()
	if !ok {
		return
	}
	log.Info("http transport statistics",
		zap.Int64("requests", stats.TotalRequests),
		zap.Int64("failed", stats.FailedRequests),
		zap.Float64("success_rate", stats.SuccessRate),
		zap.Duration("avg_latency", stats.AverageLatency),
		zap.Duration("p95_latency", stats.P95Latency),
		zap.Any("errors_by_kind", stats.ErrorsByKind))
}

// openOutput returns the writer for path; stdout for "" and "-".
func openOutput(stdout io.Writer, path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file %s: %w", path, err)
	}
	return f, f.Close, nil
}
