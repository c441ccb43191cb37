package engine

import (
	"strings"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/spf13/cast"
)

// MetricResult maps a metric key to a percentage rounded to two decimals.
type MetricResult map[string]float64

// ComputeMetrics counts the matching rows of v for each metric of its kind and
// converts the counts to percentages of v.Len(). An empty dataset yields 0
// for every metric. "Today" is read once per call.
func ComputeMetrics(v *Validated, opts ...Option) MetricResult {
	cfg := applyOptions(opts)
	total := v.Len()

	switch v.Kind {
	case KindGRNI:
		var over90, withComment int
		for _, row := range v.Rows {
			if agingOver(row[ColAging], 90) {
				over90++
			}
			if isYes(row[ColCommentIndicator]) {
				withComment++
			}
		}
		return MetricResult{
			MetricPctOver90:      percentOf(over90, total),
			MetricPctWithComment: percentOf(withComment, total),
		}

	case KindMatchExceptions:
		today := cfg.today()
		var outsideSLA, pastDue int
		for _, row := range v.Rows {
			if dueOnOrAfter(row[ColNetDueDate], today) {
				outsideSLA++
			}
			if isYes(row[ColPastDue]) {
				pastDue++
			}
		}
		return MetricResult{
			MetricPctOutsideSLA: percentOf(outsideSLA, total),
			MetricPctPastDue:    percentOf(pastDue, total),
		}
	}
	return MetricResult{}
}

func percentOf(n, total int) float64 {
	if total == 0 {
		return 0
	}
	pct, err := stats.Round(float64(n)/float64(total)*100, 2)
	if err != nil {
		return 0
	}
	return pct
}

// agingOver is false for blank and non-numeric cells.
func agingOver(v any, days float64) bool {
	switch v.(type) {
	case nil, bool, time.Time:
		return false
	}
	n, err := cast.ToFloat64E(v)
	if err != nil {
		return false
	}
	return n > days
}

// isYes matches text cells equal to "yes" in any case; other cell types
// never match.
func isYes(v any) bool {
	s, ok := v.(string)
	return ok && strings.ToLower(s) == "yes"
}

func dueOnOrAfter(v any, today time.Time) bool {
	due, ok := v.(time.Time)
	if !ok {
		return false
	}
	return !civilDate(due).Before(today)
}
