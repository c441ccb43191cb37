package engine

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/xuri/excelize/v2"
)

// dateLayouts are tried in order for text cells.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"01/02/2006",
	"1/2/2006",
	"01/02/2006 15:04:05",
	"1/2/2006 15:04",
	"01-02-2006",
	"02-Jan-2006",
	"2-Jan-06",
	"Jan 2, 2006",
	"January 2, 2006",
}

// maxExcelSerial is 9999-12-31, the last date a workbook can hold.
const maxExcelSerial = 2958465

// coerceDate turns a cell into a time.Time, or nil when it is blank or cannot
// be read as a date. Numbers are Excel serial dates (1900 system); anything
// past 9999-12-31, such as a yyyymmdd integer, is not a date.
func coerceDate(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case time.Time:
		if t.IsZero() {
			return nil
		}
		return t
	case bool:
		return nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil
		}
		for _, layout := range dateLayouts {
			if d, err := time.Parse(layout, s); err == nil {
				return d
			}
		}
		return nil
	}

	serial, err := cast.ToFloat64E(v)
	if err != nil || serial <= 0 || serial >= maxExcelSerial+1 || math.IsNaN(serial) {
		return nil
	}
	d, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return nil
	}
	return d
}

// civilDate drops the clock part of t, keeping its own calendar date.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatValue renders a cell the way filter selections and options compare
// it. Nil renders as "".
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case time.Time:
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
			return t.Format("2006-01-02")
		}
		return t.Format("2006-01-02 15:04:05")
	}
	return cast.ToString(v)
}
