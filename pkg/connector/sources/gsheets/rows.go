package gsheets

// SourceCell is one raw cell of a gviz row. Value is the decoded JSON
// primitive (float64, string, bool or nil); Formatted is the optional
// display string the source sends alongside it.
type SourceCell struct {
	Value     interface{}
	HasValue  bool
	Formatted *string
}

// SourceRow is the ordered cell array of one source record. A nil entry is
// an explicit null marker.
type SourceRow []*SourceCell

// Raw returns the raw value at position i. ok is false when the position is
// past the end of the row, holds a null marker, or carries no raw value.
func (r SourceRow) Raw(i int) (v interface{}, ok bool) {
	if i < 0 || i >= len(r) {
		return nil, false
	}
	c := r[i]
	if c == nil || !c.HasValue {
		return nil, false
	}
	return c.Value, true
}

// newSourceRow converts one decoded gviz record ({"c": [...]}) to a SourceRow.
// Records without a cell array become empty rows.
func newSourceRow(record interface{}) SourceRow {
	obj, ok := record.(map[string]interface{})
	if !ok {
		return SourceRow{}
	}
	cells, ok := obj["c"].([]interface{})
	if !ok {
		return SourceRow{}
	}

	row := make(SourceRow, len(cells))
	for i, raw := range cells {
		row[i] = newSourceCell(raw)
	}
	return row
}

func newSourceCell(raw interface{}) *SourceCell {
	switch c := raw.(type) {
	case nil:
		return nil
	case map[string]interface{}:
		cell := &SourceCell{}
		cell.Value, cell.HasValue = c["v"]
		if f, ok := c["f"].(string); ok {
			cell.Formatted = &f
		}
		return cell
	default:
		// bare primitive in place of a {"v": ...} wrapper
		return &SourceCell{Value: c, HasValue: true}
	}
}
