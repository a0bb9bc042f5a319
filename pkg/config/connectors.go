package config

import (
	"fmt"
	"strconv"
	"strings"
)

// ColumnConfig describes one requested foreign table column.
type ColumnConfig struct {
	Name string `yaml:"name" json:"name"`
	// Type is the column type name, e.g. "i64", "string", "date"
	Type string `yaml:"type" json:"type"`
	// Num is the 1-based source cell position; 0 means the column's own
	// position in the list
	Num int `yaml:"num,omitempty" json:"num,omitempty"`
}

// OutputConfig selects where scanned rows are written.
type OutputConfig struct {
	// Format is "jsonl" or "csv"
	Format string `yaml:"format" json:"format"`
	// Path is the output file; empty or "-" writes to stdout
	Path string `yaml:"path" json:"path"`
}

// ScanConfig is the document the CLI loads to scan one foreign table.
type ScanConfig struct {
	BaseConfig `yaml:",inline" json:",inline"`

	Server  Options        `yaml:"server" json:"server"`
	Table   Options        `yaml:"table" json:"table"`
	Columns []ColumnConfig `yaml:"columns" json:"columns"`
	Output  OutputConfig   `yaml:"output" json:"output"`
}

// NewScanConfig returns a ScanConfig with defaults applied.
func NewScanConfig(name string) *ScanConfig {
	return &ScanConfig{
		BaseConfig: *NewBaseConfig(name, "gsheets"),
		Server:     Options{},
		Table:      Options{},
		Output:     OutputConfig{Format: "jsonl"},
	}
}

// Validate checks the scan document. Option presence is not checked here;
// the wrapper reports missing options itself when the scan begins.
func (sc *ScanConfig) Validate() error {
	if err := sc.BaseConfig.Validate(); err != nil {
		return err
	}
	if len(sc.Columns) == 0 {
		return fmt.Errorf("at least one column is required")
	}
	seen := make(map[string]struct{}, len(sc.Columns))
	for i, c := range sc.Columns {
		if c.Name == "" {
			return fmt.Errorf("columns[%d]: name is required", i)
		}
		if c.Type == "" {
			return fmt.Errorf("columns[%d]: type is required", i)
		}
		if c.Num < 0 {
			return fmt.Errorf("columns[%d]: num must not be negative", i)
		}
		if _, dup := seen[c.Name]; dup {
			return fmt.Errorf("columns[%d]: duplicate column %q", i, c.Name)
		}
		seen[c.Name] = struct{}{}
	}
	switch sc.Output.Format {
	case "", "jsonl", "csv":
	default:
		return fmt.Errorf("output.format must be jsonl or csv, got %q", sc.Output.Format)
	}
	return nil
}

// ParseColumnList parses a compact column list such as
// "id:i64,name:string,born:date@5". An optional @N sets the source position.
func ParseColumnList(list string) ([]ColumnConfig, error) {
	var columns []ColumnConfig
	for i, item := range strings.Split(list, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		name, typ, ok := strings.Cut(item, ":")
		if !ok || name == "" || typ == "" {
			return nil, fmt.Errorf("column %d: expected name:type, got %q", i+1, item)
		}
		col := ColumnConfig{Name: strings.TrimSpace(name), Type: strings.TrimSpace(typ)}
		if t, num, found := strings.Cut(col.Type, "@"); found {
			n, err := strconv.Atoi(num)
			if err != nil || n < 1 {
				return nil, fmt.Errorf("column %d: invalid position %q", i+1, num)
			}
			col.Type, col.Num = t, n
		}
		columns = append(columns, col)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("column list is empty")
	}
	return columns, nil
}
