package dataset

import (
	"sort"
)

// Row maps column names to cell values.
type Row map[string]Value

// Dataset is an ordered table of rows over a fixed column list. It is built
// once by normalization and replaced wholesale on every refresh; it is never
// merged incrementally.
type Dataset struct {
	columns []string
	index   map[string]int
	rows    []Row
}

// New creates a dataset with the given column order. Duplicate names keep
// their first position.
func New(columns ...string) *Dataset {
	d := &Dataset{index: make(map[string]int, len(columns))}
	for _, name := range columns {
		d.addColumn(name)
	}
	return d
}

func (d *Dataset) addColumn(name string) {
	if name == "" {
		return
	}
	if _, ok := d.index[name]; ok {
		return
	}
	d.index[name] = len(d.columns)
	d.columns = append(d.columns, name)
}

// Columns returns the column names in table order.
func (d *Dataset) Columns() []string {
	if d == nil {
		return nil
	}
	out := make([]string, len(d.columns))
	copy(out, d.columns)
	return out
}

// HasColumn tells if a column is part of the schema.
func (d *Dataset) HasColumn(name string) bool {
	if d == nil {
		return false
	}
	_, ok := d.index[name]
	return ok
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.rows)
}

// IsEmpty tells if the dataset holds no rows.
func (d *Dataset) IsEmpty() bool { return d.Len() == 0 }

// Append adds one row. Keys outside the schema are ignored by accessors, so
// callers are expected to register columns first.
func (d *Dataset) Append(row Row) {
	d.rows = append(d.rows, row)
}

// Value returns the cell at (row, column); absent cells read as null.
func (d *Dataset) Value(i int, column string) Value {
	if d == nil || i < 0 || i >= len(d.rows) {
		return Null()
	}
	v, ok := d.rows[i][column]
	if !ok {
		return Null()
	}
	return v
}

// Column returns every cell of a column in row order.
func (d *Dataset) Column(name string) ([]Value, error) {
	if !d.HasColumn(name) {
		return nil, ErrColumnNotFound
	}
	out := make([]Value, len(d.rows))
	for i := range d.rows {
		out[i] = d.Value(i, name)
	}
	return out, nil
}

// FillColumn registers the column if missing and writes def into every row
// cell that is absent or null. Existing non-null cells are untouched. It
// returns the number of cells filled.
func (d *Dataset) FillColumn(name string, def Value) (int, error) {
	if name == "" {
		return 0, ErrEmptyColumnName
	}
	d.addColumn(name)
	filled := 0
	for _, row := range d.rows {
		if v, ok := row[name]; ok && !v.IsNull() {
			continue
		}
		row[name] = def
		filled++
	}
	return filled, nil
}

// SortByTimestamp stably reorders rows ascending by the given timestamp
// column. Rows whose timestamp is null or non-time sort after every dated
// row, keeping their relative order.
func (d *Dataset) SortByTimestamp(column string) {
	if d == nil || len(d.rows) < 2 {
		return
	}
	sort.SliceStable(d.rows, func(i, j int) bool {
		ti, iOK := d.rows[i][column].Timestamp()
		tj, jOK := d.rows[j][column].Timestamp()
		if !iOK {
			return false
		}
		if !jOK {
			return true
		}
		return ti.Before(tj)
	})
}
