package gsheets

import (
	"math"

	"github.com/ajitpratap0/sheetsfdw/pkg/connector/core"
	"github.com/ajitpratap0/sheetsfdw/pkg/errors"
	"github.com/ajitpratap0/sheetsfdw/pkg/metrics"
	"go.uber.org/zap"
)

// cellMapper converts raw source cells into typed target cells.
type cellMapper struct {
	logger  *zap.Logger
	metrics *metrics.Collector
}

// mapCell produces the target cell for col from src. A missing position or
// a value of the wrong shape yields a nil (absent) cell; only a column type
// with no mapping rule is an error.
func (m *cellMapper) mapCell(col core.Column, src SourceRow) (core.Cell, error) {
	raw, ok := src.Raw(col.Num - 1)
	if !ok {
		m.metrics.CellMapped(col.Type.String(), metrics.ResultAbsent)
		return nil, nil
	}

	var cell core.Cell
	//exhaustive:enforce
	switch col.Type {
	case core.TypeI64:
		if v, isNum := raw.(float64); isNum {
			cell = core.I64Cell(truncateI64(v))
		}
	case core.TypeString:
		if v, isStr := raw.(string); isStr {
			cell = core.StringCell(v)
		}
	case core.TypeDate:
		cell = m.mapDate(col, raw)
	case core.TypeBool, core.TypeI8, core.TypeI16, core.TypeF32, core.TypeI32,
		core.TypeF64, core.TypeNumeric, core.TypeTimestamp, core.TypeTimestamptz,
		core.TypeJSON, core.TypeUUID, core.TypeOther:
		return nil, unsupportedType(col)
	default:
		return nil, unsupportedType(col)
	}

	if cell == nil {
		m.logger.Debug("source value does not match column type",
			zap.String("column", col.Name),
			zap.Stringer("type", col.Type),
			zap.Any("value", raw))
		m.metrics.CellMapped(col.Type.String(), metrics.ResultFailed)
		return nil, nil
	}
	m.metrics.CellMapped(col.Type.String(), metrics.ResultOK)
	return cell, nil
}

// mapDate decodes a Date(y,m,d) literal. Anything undecodable becomes an
// absent cell rather than a scan error.
func (m *cellMapper) mapDate(col core.Column, raw interface{}) core.Cell {
	s, _ := raw.(string)
	t, ok := ParseDateLiteral(s)
	if !ok {
		m.logger.Warn("cannot decode date literal",
			zap.String("column", col.Name),
			zap.String("input", s))
		return nil
	}
	return core.NewDateCell(t)
}

// truncateI64 drops the fraction of v, saturating at the int64 bounds.
func truncateI64(v float64) int64 {
	switch {
	case v >= math.MaxInt64:
		return math.MaxInt64
	case v <= math.MinInt64:
		return math.MinInt64
	default:
		return int64(v)
	}
}

func unsupportedType(col core.Column) error {
	return errors.Newf(errors.ErrorTypeUnsupportedType, "column %s data type is not supported", col.Name).
		WithDetail("column", col.Name).
		WithDetail("type", col.Type.String())
}
