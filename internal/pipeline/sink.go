package pipeline

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/ajitpratap0/sheetsfdw/pkg/connector/core"
	jsonpool "github.com/ajitpratap0/sheetsfdw/pkg/json"
)

// Output formats understood by NewSink
const (
	FormatJSONL = "jsonl"
	FormatCSV   = "csv"
)

// Sink receives the rows produced by a scan.
type Sink interface {
	WriteRow(columns []core.Column, cells []core.Cell) error
	// Close flushes buffered output. It does not close the underlying writer.
	Close() error
}

// NewSink creates a sink for format writing rows of columns to w. An empty
// format is JSONL.
func NewSink(format string, w io.Writer, columns []core.Column) (Sink, error) {
	switch format {
	case "", FormatJSONL:
		return NewJSONLSink(w), nil
	case FormatCSV:
		return NewCSVSink(w, columns), nil
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
}

// JSONLSink writes one JSON object per row. Absent cells are null.
type JSONLSink struct {
	enc *jsonpool.LinesEncoder
}

// NewJSONLSink creates a JSON Lines sink
func NewJSONLSink(w io.Writer) *JSONLSink {
	return &JSONLSink{enc: jsonpool.NewLinesEncoder(w)}
}

// WriteRow encodes the row keyed by column name
func (s *JSONLSink) WriteRow(columns []core.Column, cells []core.Cell) error {
	obj := make(map[string]interface{}, len(columns))
	for i, col := range columns {
		var cell core.Cell
		if i < len(cells) {
			cell = cells[i]
		}
		obj[col.Name] = core.CellValue(cell)
	}
	return s.enc.Encode(obj)
}

// Close flushes the encoder
func (s *JSONLSink) Close() error {
	return s.enc.Close()
}

// CSVSink writes a header line followed by one record per row. Absent cells
// are empty fields. The header is written even when no row arrives.
type CSVSink struct {
	w           *csv.Writer
	columns     []core.Column
	wroteHeader bool
}

// NewCSVSink creates a CSV sink whose header names columns
func NewCSVSink(w io.Writer, columns []core.Column) *CSVSink {
	return &CSVSink{w: csv.NewWriter(w), columns: columns}
}

func (s *CSVSink) writeHeader(columns []core.Column) error {
	header := make([]string, len(columns))
	for i, col := range columns {
		header[i] = col.Name
	}
	s.wroteHeader = true
	return s.w.Write(header)
}

// WriteRow writes the row, preceded by the header on the first call
func (s *CSVSink) WriteRow(columns []core.Column, cells []core.Cell) error {
	if !s.wroteHeader {
		if err := s.writeHeader(columns); err != nil {
			return err
		}
	}

	record := make([]string, len(columns))
	for i := range columns {
		if i < len(cells) && cells[i] != nil {
			record[i] = cells[i].String()
		}
	}
	return s.w.Write(record)
}

// Close writes the header if no row was written, then flushes
func (s *CSVSink) Close() error {
	if !s.wroteHeader && len(s.columns) > 0 {
		if err := s.writeHeader(s.columns); err != nil {
			return err
		}
	}
	s.w.Flush()
	return s.w.Error()
}
