package engine

import (
	"fmt"
	"strings"
)

// MissingColumnsError reports required columns absent from a dataset. It is
// the only validation failure; callers surface it to the user.
type MissingColumnsError struct {
	Kind    ReportKind
	Missing []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("%s report is missing required columns: %s",
		e.Kind.Title(), strings.Join(e.Missing, ", "))
}

// Validated is a dataset known to carry every required column of Kind.
// For Match Exceptions the Net Due Date cells are already time.Time or nil.
type Validated struct {
	Kind ReportKind
	*Dataset
}

// Validate checks that every required column of kind is present in the
// header. Missing columns are reported in declaration order. The input is
// never modified.
func Validate(ds *Dataset, kind ReportKind) (*Validated, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if ds == nil {
		ds = &Dataset{}
	}

	var missing []string
	for _, col := range reportDefs[kind].required {
		if !ds.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Kind: kind, Missing: missing}
	}

	if kind == KindMatchExceptions {
		ds = coerceColumnDates(ds, ColNetDueDate)
	}
	return &Validated{Kind: kind, Dataset: ds}, nil
}

// coerceColumnDates returns a copy of ds whose col cells are time.Time or nil.
func coerceColumnDates(ds *Dataset, col string) *Dataset {
	rows := make([]Row, len(ds.Rows))
	for i, row := range ds.Rows {
		out := make(Row, len(row))
		for k, v := range row {
			out[k] = v
		}
		out[col] = coerceDate(row[col])
		rows[i] = out
	}
	return ds.derive(rows)
}
