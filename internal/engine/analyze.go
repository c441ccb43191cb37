package engine

// Analysis is the result of one validate -> filter -> compute pass.
type Analysis struct {
	Kind      ReportKind
	Source    *Validated
	Filtered  *Validated
	Selection FilterSelection // every filterable column, All when unset
	Metrics   MetricResult
	Options   []FilterOption
}

// Analyze validates ds as kind and summarizes it under sel. The only error is
// a *MissingColumnsError (or ErrUnknownKind for an invalid kind).
func Analyze(ds *Dataset, kind ReportKind, sel FilterSelection, opts ...Option) (*Analysis, error) {
	v, err := Validate(ds, kind)
	if err != nil {
		return nil, err
	}
	return Summarize(v, sel, opts...), nil
}

// Summarize filters an already validated dataset and computes its metrics
// and filter options.
func Summarize(v *Validated, sel FilterSelection, opts ...Option) *Analysis {
	normalized := make(FilterSelection, len(reportDefs[v.Kind].filterable))
	for _, col := range reportDefs[v.Kind].filterable {
		normalized[col] = sel.Value(col)
	}

	filtered := ApplyFilters(v, normalized)
	return &Analysis{
		Kind:      v.Kind,
		Source:    v,
		Filtered:  filtered,
		Selection: normalized,
		Metrics:   ComputeMetrics(filtered, opts...),
		Options:   FilterOptions(v, normalized),
	}
}
