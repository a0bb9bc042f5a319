// Package gsheets implements a foreign data wrapper that reads a Google
// Sheets document through its gviz JSON export.
//
// One FDW value holds the state of one connector: the resolved endpoint,
// the rows buffered by the current scan and the scan cursor. The host drives
// it one call at a time; the wrapper does no locking of its own.
//
//	fdw := gsheets.New(core.NewLogReporter(log))
//	_ = fdw.Init(ctx, fctx)
//	_ = fdw.BeginScan(ctx, fctx)
//	for {
//		row := core.NewRow(len(fctx.Columns()))
//		more, err := fdw.IterScan(ctx, fctx, row)
//		if err != nil || !more {
//			break
//		}
//		emit(row)
//	}
//	_ = fdw.EndScan(fctx)
package gsheets

import (
	"context"
	"fmt"
	"io"

	"github.com/ajitpratap0/sheetsfdw/pkg/clients"
	"github.com/ajitpratap0/sheetsfdw/pkg/connector/core"
	"github.com/ajitpratap0/sheetsfdw/pkg/errors"
	"github.com/ajitpratap0/sheetsfdw/pkg/logger"
	"github.com/ajitpratap0/sheetsfdw/pkg/metrics"
	"go.uber.org/zap"
)

const (
	// Name is the registry name of the wrapper
	Name = "gsheets"
	// Version of the wrapper
	Version = "0.1.0"

	hostVersionRequirement = "^0.1.0"
)

// ScanState is the position of the wrapper in the scan lifecycle.
type ScanState int

const (
	// StateIdle is the state before the first BeginScan
	StateIdle ScanState = iota
	// StateScanning means rows are buffered and the cursor is before the end
	StateScanning
	// StateExhausted means every buffered row was produced
	StateExhausted
	// StateEnded is the state after EndScan or a failed BeginScan
	StateEnded
)

func (s ScanState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateScanning:
		return "scanning"
	case StateExhausted:
		return "exhausted"
	case StateEnded:
		return "ended"
	default:
		return fmt.Sprintf("ScanState(%d)", int(s))
	}
}

// FDW is the Google Sheets foreign data wrapper.
type FDW struct {
	baseURL     string
	initialized bool

	// row store and cursor of the open scan
	rows   []SourceRow
	cursor int
	state  ScanState

	fetcher  *fetcher
	mapper   *cellMapper
	reporter core.Reporter
	logger   *zap.Logger
	metrics  *metrics.Collector
}

var _ core.ForeignDataWrapper = (*FDW)(nil)

// Option configures an FDW
type Option func(*FDW)

// WithTransport replaces the default HTTP collaborator.
func WithTransport(t clients.Transport) Option {
	return func(f *FDW) { f.fetcher.transport = t }
}

// WithLogger replaces the global logger.
func WithLogger(l *zap.Logger) Option {
	return func(f *FDW) {
		f.logger = l.With(zap.String("connector", Name))
	}
}

// WithMetrics replaces the collector, e.g. to label a second instance.
func WithMetrics(c *metrics.Collector) Option {
	return func(f *FDW) { f.metrics = c }
}

// New creates a wrapper in the Idle state. reporter receives the
// informational diagnostics meant for the host user; nil logs them.
func New(reporter core.Reporter, opts ...Option) *FDW {
	f := &FDW{
		state:   StateIdle,
		logger:  logger.Get().With(zap.String("connector", Name)),
		metrics: metrics.NewCollector(Name),
		fetcher: &fetcher{},
	}
	for _, opt := range opts {
		opt(f)
	}

	if f.fetcher.transport == nil {
		f.fetcher.transport = clients.NewHTTPClient(nil, f.logger)
	}
	f.fetcher.logger = f.logger
	f.fetcher.metrics = f.metrics
	f.mapper = &cellMapper{logger: f.logger, metrics: f.metrics}

	if reporter == nil {
		reporter = core.NewLogReporter(f.logger)
	}
	f.reporter = reporter
	return f
}

// NewWrapper is the registry factory for the wrapper.
func NewWrapper(reporter core.Reporter) (core.ForeignDataWrapper, error) {
	return New(reporter), nil
}

// HostVersionRequirement returns the semver expression of supported hosts.
func (f *FDW) HostVersionRequirement() string {
	return hostVersionRequirement
}

// Init resolves the server options. It resets any scan state.
func (f *FDW) Init(_ context.Context, fctx core.Context) error {
	f.baseURL = resolveBaseURL(fctx.Options(core.OptionsTypeServer))
	f.rows = nil
	f.cursor = 0
	f.state = StateIdle
	f.initialized = true

	f.logger.Debug("wrapper initialized", zap.String("base_url", f.baseURL))
	return nil
}

// BeginScan fetches the sheet named by the table options and buffers its
// rows. On failure no rows are buffered and the scan does not start.
func (f *FDW) BeginScan(ctx context.Context, fctx core.Context) error {
	f.rows = nil
	f.cursor = 0

	if !f.initialized {
		return f.abortScan(ctx, errors.New(errors.ErrorTypeConfig, "wrapper is not initialized"))
	}

	sheetID, err := resolveSheetID(fctx.Options(core.OptionsTypeTable))
	if err != nil {
		return f.abortScan(ctx, err)
	}

	rows, err := f.fetcher.fetch(ctx, f.baseURL, sheetID)
	if err != nil {
		return f.abortScan(ctx, err)
	}

	f.rows = rows
	f.cursor = 0
	f.state = StateScanning
	if len(rows) == 0 {
		f.state = StateExhausted
	}
	f.metrics.ScanOpened()

	f.reporter.ReportInfo(fmt.Sprintf("We got response array length: %d", len(rows)))
	f.logger.With(scanFields(ctx)...).Info("scan started",
		zap.String("sheet_id", sheetID),
		zap.Int("rows", len(rows)),
		zap.Int("columns", len(fctx.Columns())))
	return nil
}

// abortScan leaves the row store empty after a failed BeginScan.
func (f *FDW) abortScan(ctx context.Context, err error) error {
	f.rows = nil
	f.cursor = 0
	if f.state != StateIdle {
		f.state = StateEnded
	}
	f.metrics.LifecycleError("begin_scan", string(errors.TypeOf(err)))
	f.logger.With(scanFields(ctx)...).Error("begin scan failed", zap.Error(err))
	return err
}

// scanFields tags log entries with the scan ID carried by ctx, if any.
func scanFields(ctx context.Context) []zap.Field {
	if id := logger.ScanID(ctx); id != "" {
		return []zap.Field{zap.String("scan_id", id)}
	}
	return nil
}

// IterScan fills row with the next source record. It returns false without
// touching row once every record was produced, or when no scan is open.
// A column type with no mapping rule fails the call; the cursor stays put.
func (f *FDW) IterScan(_ context.Context, fctx core.Context, row *core.Row) (bool, error) {
	if f.state != StateScanning {
		return false, nil
	}
	if f.cursor >= len(f.rows) {
		f.state = StateExhausted
		return false, nil
	}

	src := f.rows[f.cursor]
	columns := fctx.Columns()
	cells := make([]core.Cell, 0, len(columns))
	for _, col := range columns {
		cell, err := f.mapper.mapCell(col, src)
		if err != nil {
			f.metrics.LifecycleError("iter_scan", string(errors.TypeOf(err)))
			return false, err
		}
		cells = append(cells, cell)
	}

	for _, c := range cells {
		row.Push(c)
	}
	f.cursor++
	f.metrics.RowScanned()
	if f.cursor == len(f.rows) {
		f.state = StateExhausted
	}
	return true, nil
}

// ReScan is not supported. State is left untouched.
func (f *FDW) ReScan(_ core.Context) error {
	f.metrics.LifecycleError("re_scan", string(errors.ErrorTypeUnsupportedOperation))
	return errors.New(errors.ErrorTypeUnsupportedOperation, "re_scan on foreign table is not supported")
}

// EndScan drops the buffered rows. It is safe to call in any state.
func (f *FDW) EndScan(_ core.Context) error {
	if f.state == StateScanning || f.state == StateExhausted {
		f.logger.Debug("scan ended", zap.Int("produced", f.cursor), zap.Int("rows", len(f.rows)))
	}
	f.rows = nil
	f.cursor = 0
	f.state = StateEnded
	f.metrics.ScanClosed()
	return nil
}

// BeginModify always fails: the source is read-only.
func (f *FDW) BeginModify(_ core.Context) error {
	f.metrics.LifecycleError("begin_modify", string(errors.ErrorTypeUnsupportedOperation))
	return errors.New(errors.ErrorTypeUnsupportedOperation, "modify on foreign table is not supported")
}

// Insert reports success without doing anything.
func (f *FDW) Insert(_ core.Context, _ *core.Row) error {
	return nil
}

// Update reports success without doing anything.
func (f *FDW) Update(_ core.Context, _ core.Cell, _ *core.Row) error {
	return nil
}

// Delete reports success without doing anything.
func (f *FDW) Delete(_ core.Context, _ core.Cell) error {
	return nil
}

// EndModify reports success without doing anything.
func (f *FDW) EndModify(_ core.Context) error {
	return nil
}

// State returns the current lifecycle state.
func (f *FDW) State() ScanState {
	return f.state
}

// Cursor returns the number of rows produced by the open scan.
func (f *FDW) Cursor() int {
	return f.cursor
}

// RowCount returns the number of rows buffered by the open scan.
func (f *FDW) RowCount() int {
	return len(f.rows)
}

// BaseURL returns the endpoint resolved by Init.
func (f *FDW) BaseURL() string {
	return f.baseURL
}

// TransportStats returns the request statistics of the HTTP collaborator.
// ok is false when the transport keeps none.
func (f *FDW) TransportStats() (stats clients.HTTPStats, ok bool) {
	sr, ok := f.fetcher.transport.(clients.StatsReporter)
	if !ok {
		return clients.HTTPStats{}, false
	}
	return sr.GetStats(), true
}

// Close releases the idle connections of the HTTP collaborator.
func (f *FDW) Close() error {
	if c, ok := f.fetcher.transport.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
