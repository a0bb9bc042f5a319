package core

import (
	"github.com/ajitpratap0/sheetsfdw/pkg/config"
	"go.uber.org/zap"
)

// Context gives a wrapper access to what the host knows about the current
// foreign table: its option bags and the requested columns.
type Context interface {
	Options(optionsType OptionsType) config.Options
	Columns() []Column
}

// Reporter surfaces informational diagnostics to the host user.
type Reporter interface {
	ReportInfo(msg string)
}

// StaticContext is a Context built from fixed values, used by hosts that
// are not a database, such as the CLI and tests.
type StaticContext struct {
	Server config.Options
	Table  config.Options
	Cols   []Column
}

// NewStaticContext creates a context over the given options and columns.
func NewStaticContext(server, table config.Options, columns []Column) *StaticContext {
	return &StaticContext{Server: server, Table: table, Cols: columns}
}

// Options returns the bag for the requested scope.
func (c *StaticContext) Options(optionsType OptionsType) config.Options {
	switch optionsType {
	case OptionsTypeServer:
		return c.Server
	case OptionsTypeTable:
		return c.Table
	default:
		return nil
	}
}

// Columns returns the requested columns.
func (c *StaticContext) Columns() []Column {
	return c.Cols
}

// LogReporter reports host diagnostics through a zap logger.
type LogReporter struct {
	logger *zap.Logger
}

// NewLogReporter creates a reporter writing info entries to logger.
func NewLogReporter(logger *zap.Logger) *LogReporter {
	return &LogReporter{logger: logger}
}

// ReportInfo logs msg at info level.
func (r *LogReporter) ReportInfo(msg string) {
	r.logger.Info(msg, zap.String("source", "wrapper"))
}
