package engine

import (
	"errors"
	"fmt"
	"strings"
)

// ReportKind selects the required columns, filters and metrics applied to a
// dataset.
type ReportKind string

const (
	KindGRNI            ReportKind = "grni"
	KindMatchExceptions ReportKind = "me"
)

// Column headers used by the two report exports.
const (
	ColBuyer            = "Buyer"
	ColAging            = "Aging"
	ColCommentIndicator = "Comment Indicator"
	ColTeam             = "Team"

	ColBuyerName   = "Buyer Name"
	ColNetDueDate  = "Net Due Date"
	ColPastDue     = "Past Due?"
	ColAgingBucket = "Aging bucket"
	ColDaysPastDue = "Days Past Due"
)

// Metric keys.
const (
	MetricPctOver90      = "pctOver90"
	MetricPctWithComment = "pctWithComment"
	MetricPctOutsideSLA  = "pctOutsideSla"
	MetricPctPastDue     = "pctPastDue"
)

// ErrUnknownKind is returned for report kinds other than GRNI and ME.
var ErrUnknownKind = errors.New("unknown report kind")

// MetricDef describes one percentage metric in display order.
type MetricDef struct {
	Key   string
	Label string
}

type reportDef struct {
	title      string
	required   []string
	filterable []string // applied in this order
	metrics    []MetricDef
}

var reportDefs = map[ReportKind]reportDef{
	KindGRNI: {
		title:      "GRNI",
		required:   []string{ColBuyer, ColAging, ColCommentIndicator, ColTeam},
		filterable: []string{ColBuyer, ColTeam},
		metrics: []MetricDef{
			{Key: MetricPctOver90, Label: "% items with Aging > 90 days"},
			{Key: MetricPctWithComment, Label: "% items with comment"},
		},
	},
	KindMatchExceptions: {
		title:      "Match Exceptions",
		required:   []string{ColBuyerName, ColNetDueDate, ColPastDue, ColAgingBucket, ColDaysPastDue},
		filterable: []string{ColBuyerName, ColAgingBucket},
		metrics: []MetricDef{
			{Key: MetricPctOutsideSLA, Label: "% items outside SLA (Net Due Date >= today)"},
			{Key: MetricPctPastDue, Label: "% items past due"},
		},
	},
}

// Kinds lists the supported report kinds in display order.
func Kinds() []ReportKind {
	return []ReportKind{KindGRNI, KindMatchExceptions}
}

// ParseReportKind accepts "grni", "me" and a few spellings of match
// exceptions, case-insensitively.
func ParseReportKind(s string) (ReportKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "grni":
		return KindGRNI, nil
	case "me", "match-exceptions", "match_exceptions", "matchexceptions":
		return KindMatchExceptions, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Valid reports whether k is a supported kind.
func (k ReportKind) Valid() bool {
	_, ok := reportDefs[k]
	return ok
}

// Title is the human-readable report name.
func (k ReportKind) Title() string {
	if s, ok := reportDefs[k]; ok {
		return s.title
	}
	return string(k)
}

// RequiredColumns returns a copy of the columns a dataset of this kind must have.
func (k ReportKind) RequiredColumns() []string {
	return append([]string(nil), reportDefs[k].required...)
}

// FilterableColumns returns a copy of the filter columns in application order.
func (k ReportKind) FilterableColumns() []string {
	return append([]string(nil), reportDefs[k].filterable...)
}

// Metrics returns the metric definitions in display order.
func (k ReportKind) Metrics() []MetricDef {
	return append([]MetricDef(nil), reportDefs[k].metrics...)
}
