package engine

// All is the selection value meaning "do not filter on this column".
const All = "all"

// FilterSelection maps a filterable column to the selected value. Absent or
// empty entries mean All. Keys that are not filterable for the kind are
// ignored.
type FilterSelection map[string]string

// Value returns the selection for column, defaulting to All.
func (s FilterSelection) Value(column string) string {
	if v, ok := s[column]; ok && v != "" {
		return v
	}
	return All
}

// FilterOption lists the values a filter column can take.
type FilterOption struct {
	Column string
	Values []string
}

type activeFilter struct {
	column string
	value  string
}

// ApplyFilters keeps the rows matching every non-All selection, comparing the
// formatted cell to the selected value exactly (case-sensitive). Filters are
// evaluated in the kind's declared order in a single pass. Row order is
// preserved and rows are shared, never copied or modified. With nothing
// selected v itself is returned.
func ApplyFilters(v *Validated, sel FilterSelection) *Validated {
	active := activeFilters(v.Kind, sel)
	if len(active) == 0 {
		return v
	}

	rows := make([]Row, 0, v.Len())
	for _, row := range v.Rows {
		if matchesAll(row, active) {
			rows = append(rows, row)
		}
	}
	return &Validated{Kind: v.Kind, Dataset: v.derive(rows)}
}

// FilterOptions returns, per filterable column in declared order, the
// distinct non-blank values in first-appearance order, excluding All. Each
// column's values come from the rows left by the filters declared before it,
// so a later list only offers values that can still match.
func FilterOptions(v *Validated, sel FilterSelection) []FilterOption {
	columns := reportDefs[v.Kind].filterable
	out := make([]FilterOption, 0, len(columns))

	var preceding []activeFilter
	for _, col := range columns {
		seen := make(map[string]bool)
		values := make([]string, 0)
		for _, row := range v.Rows {
			if !matchesAll(row, preceding) {
				continue
			}
			cell := row[col]
			if cell == nil {
				continue
			}
			s := FormatValue(cell)
			// a cell spelled like the sentinel can never be selected
			if s == All {
				continue
			}
			if !seen[s] {
				seen[s] = true
				values = append(values, s)
			}
		}
		out = append(out, FilterOption{Column: col, Values: values})

		if val := sel.Value(col); val != All {
			preceding = append(preceding, activeFilter{column: col, value: val})
		}
	}
	return out
}

func activeFilters(kind ReportKind, sel FilterSelection) []activeFilter {
	var active []activeFilter
	for _, col := range reportDefs[kind].filterable {
		if val := sel.Value(col); val != All {
			active = append(active, activeFilter{column: col, value: val})
		}
	}
	return active
}

func matchesAll(row Row, filters []activeFilter) bool {
	for _, f := range filters {
		cell := row[f.column]
		if cell == nil || FormatValue(cell) != f.value {
			return false
		}
	}
	return true
}
