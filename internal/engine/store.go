package engine

// Row maps a column header to its cell. Cells hold string, float64,
// time.Time or nil (blank / unparseable).
type Row map[string]any

// Dataset holds one loaded sheet in row form: the header in file order and
// the data rows. A Dataset is read-only once loaded; filtering and date
// coercion always produce a new Dataset.
type Dataset struct {
	Columns []string
	Rows    []Row
}

// NewDataset builds a Dataset from a header and rows.
func NewDataset(columns []string, rows []Row) *Dataset {
	return &Dataset{Columns: columns, Rows: rows}
}

// Len returns the number of data rows.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Rows)
}

// HasColumn reports whether the header contains name (exact match).
func (d *Dataset) HasColumn(name string) bool {
	if d == nil {
		return false
	}
	for _, c := range d.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// derive returns a Dataset sharing the header with d but holding rows.
func (d *Dataset) derive(rows []Row) *Dataset {
	return &Dataset{Columns: d.Columns, Rows: rows}
}
