package core

import (
	"strconv"
	"time"
)

// Cell is one typed value of a target row. A nil Cell is the absent (NULL)
// value. The concrete types are I64Cell, StringCell and DateCell.
type Cell interface {
	isCell()
	String() string
}

// I64Cell is a 64-bit integer cell
type I64Cell int64

func (I64Cell) isCell() {}

func (c I64Cell) String() string { return strconv.FormatInt(int64(c), 10) }

// StringCell is a text cell
type StringCell string

func (StringCell) isCell() {}

func (c StringCell) String() string { return string(c) }

// DateCell is a calendar date; its time component is always zero, UTC.
type DateCell struct {
	t time.Time
}

// NewDateCell truncates t to its UTC calendar date.
func NewDateCell(t time.Time) DateCell {
	y, m, d := t.Date()
	return DateCell{t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func (DateCell) isCell() {}

// Time returns the date at UTC midnight
func (c DateCell) Time() time.Time { return c.t }

// EpochMicros returns microseconds since the Unix epoch, the host's date representation
func (c DateCell) EpochMicros() int64 { return c.t.UnixMicro() }

func (c DateCell) String() string { return c.t.Format(time.DateOnly) }

// CellValue converts a cell to a plain Go value for encoders: nil, int64,
// string, or a YYYY-MM-DD string for dates.
func CellValue(c Cell) interface{} {
	switch v := c.(type) {
	case nil:
		return nil
	case I64Cell:
		return int64(v)
	case StringCell:
		return string(v)
	case DateCell:
		return v.String()
	default:
		return c.String()
	}
}

// Row is the target row a wrapper fills during IterScan.
type Row struct {
	cells []Cell
}

// NewRow returns an empty row with room for n cells.
func NewRow(n int) *Row {
	return &Row{cells: make([]Cell, 0, n)}
}

// Push appends a cell; nil appends the absent value.
func (r *Row) Push(c Cell) {
	r.cells = append(r.cells, c)
}

// Cells returns the cells pushed since the last Reset.
func (r *Row) Cells() []Cell {
	return r.cells
}

// Len returns the number of cells in the row.
func (r *Row) Len() int {
	return len(r.cells)
}

// Reset empties the row, keeping its capacity.
func (r *Row) Reset() {
	for i := range r.cells {
		r.cells[i] = nil
	}
	r.cells = r.cells[:0]
}
