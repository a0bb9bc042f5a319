// Package pipeline drives a foreign data wrapper the way a host query engine
// does and streams the produced rows into a sink.
//
// # Basic Usage
//
//	fctx, err := pipeline.BuildContext(cfg)
//	sink, err := pipeline.NewSink(cfg.Output.Format, os.Stdout, fctx.Columns())
//	scan := pipeline.NewScanPipeline(wrapper, fctx, sink, nil, log)
//	stats, err := scan.Run(ctx)
//
// The lifecycle runs on the calling goroutine: Init, BeginScan, IterScan
// until the wrapper reports the end, then EndScan. EndScan runs whenever
// BeginScan was attempted, including after errors and cancellation.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/ajitpratap0/sheetsfdw/pkg/config"
	"github.com/ajitpratap0/sheetsfdw/pkg/connector/core"
	"github.com/ajitpratap0/sheetsfdw/pkg/logger"
	"github.com/ajitpratap0/sheetsfdw/pkg/observability"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ScanOptions control how many rows the driver pulls.
type ScanOptions struct {
	// Limit stops pulling after this many rows; 0 pulls everything
	Limit int
	// Name labels logs and spans; it is also the table name in the scan context
	Name string
	// Connector is the registry name of the wrapper, recorded in the scan context
	Connector string
}

// DefaultScanOptions returns options that pull every row
func DefaultScanOptions() *ScanOptions {
	return &ScanOptions{Name: "scan"}
}

// ScanStats summarizes one run
type ScanStats struct {
	// ScanID identifies the run in logs
	ScanID     string        `json:"scan_id"`
	Rows       int64         `json:"rows"`
	Duration   time.Duration `json:"duration"`
	Throughput float64       `json:"throughput_rps"`
	// Truncated is set when Limit stopped the scan before the wrapper did
	Truncated bool `json:"truncated"`
}

// ScanPipeline runs one scan of one wrapper
type ScanPipeline struct {
	wrapper core.ForeignDataWrapper
	fctx    core.Context
	sink    Sink
	options *ScanOptions
	tracer  *observability.ConnectorTracer
	logger  *zap.Logger
}

// NewScanPipeline creates a driver. options may be nil.
func NewScanPipeline(wrapper core.ForeignDataWrapper, fctx core.Context, sink Sink, options *ScanOptions, log *zap.Logger) *ScanPipeline {
	if options == nil {
		options = DefaultScanOptions()
	}
	return &ScanPipeline{
		wrapper: wrapper,
		fctx:    fctx,
		sink:    sink,
		options: options,
		tracer:  observability.NewConnectorTracer(options.Name),
		logger:  log.With(zap.String("scan", options.Name)),
	}
}

// Run executes the lifecycle and returns what was produced. The sink is
// closed before Run returns.
func (p *ScanPipeline) Run(ctx context.Context) (stats *ScanStats, err error) {
	ctx, log := p.scanContext(ctx)
	stats = &ScanStats{ScanID: logger.ScanID(ctx)}
	start := time.Now()
	defer func() {
		if cerr := p.sink.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to flush output: %w", cerr)
		}
		stats.Duration = time.Since(start)
		if secs := stats.Duration.Seconds(); secs > 0 {
			stats.Throughput = float64(stats.Rows) / secs
		}
	}()

	log.Info("starting scan",
		zap.String("host_version", p.wrapper.HostVersionRequirement()),
		zap.Int("columns", len(p.fctx.Columns())),
		zap.Int("limit", p.options.Limit))

	if err := p.tracer.TraceOperation(ctx, "init", func(ctx context.Context) error {
		return p.wrapper.Init(ctx, p.fctx)
	}); err != nil {
		return stats, fmt.Errorf("init failed: %w", err)
	}

	defer func() {
		if eerr := p.wrapper.EndScan(p.fctx); eerr != nil && err == nil {
			err = fmt.Errorf("end scan failed: %w", eerr)
		}
	}()

	if err := p.tracer.TraceOperation(ctx, "begin_scan", func(ctx context.Context) error {
		return p.wrapper.BeginScan(ctx, p.fctx)
	}); err != nil {
		return stats, fmt.Errorf("begin scan failed: %w", err)
	}

	err = p.tracer.TraceOperation(ctx, "iter_scan", func(ctx context.Context) error {
		return p.pull(ctx, stats)
	})
	if err != nil {
		return stats, err
	}

	log.Info("scan completed",
		zap.Int64("rows", stats.Rows),
		zap.Bool("truncated", stats.Truncated),
		zap.Duration("duration", time.Since(start)))
	return stats, nil
}

// scanContext attaches the scan identity to ctx. A scan ID already carried
// by ctx is kept; otherwise a new one is generated and added to the logger.
func (p *ScanPipeline) scanContext(ctx context.Context) (context.Context, *zap.Logger) {
	if logger.ScanID(ctx) != "" {
		return ctx, p.logger
	}
	id := uuid.NewString()
	ctx = logger.NewContext(ctx, p.options.Connector, p.options.Name, id)
	return ctx, p.logger.With(zap.String("scan_id", id))
}

// pull calls IterScan until the wrapper reports the end, the limit is
// reached or ctx is done.
func (p *ScanPipeline) pull(ctx context.Context, stats *ScanStats) error {
	columns := p.fctx.Columns()
	row := core.NewRow(len(columns))

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if p.options.Limit > 0 && stats.Rows >= int64(p.options.Limit) {
			stats.Truncated = true
			return nil
		}

		row.Reset()
		more, err := p.wrapper.IterScan(ctx, p.fctx, row)
		if err != nil {
			return fmt.Errorf("iter scan failed after %d rows: %w", stats.Rows, err)
		}
		if !more {
			return nil
		}

		if err := p.sink.WriteRow(columns, row.Cells()); err != nil {
			return fmt.Errorf("failed to write row %d: %w", stats.Rows+1, err)
		}
		stats.Rows++
	}
}

// BuildContext turns a scan document into the context handed to a wrapper.
func BuildContext(cfg *config.ScanConfig) (*core.StaticContext, error) {
	columns := make([]core.Column, len(cfg.Columns))
	for i, c := range cfg.Columns {
		typ, err := core.ParseTypeOID(c.Type)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", c.Name, err)
		}
		num := c.Num
		if num == 0 {
			num = i + 1
		}
		columns[i] = core.Column{Num: num, Name: c.Name, Type: typ}
	}
	return core.NewStaticContext(cfg.Server.Clone(), cfg.Table.Clone(), columns), nil
}
