package engine

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestLoadCSV(t *testing.T) {
	csvContent := "\ufeffBuyer,Aging, Comment Indicator ,Team,,Buyer\n" +
		"Acme,120,Yes,East,x,dup\n" +
		"Globex, 15 ,,West\n" +
		",,,,\n" +
		"1001,3.5,no,7,,\n"

	ds, err := Load(strings.NewReader(csvContent), "grni.csv")
	require.NoError(t, err)

	assert.Equal(t, []string{"Buyer", "Aging", "Comment Indicator", "Team", "Unnamed: 4"}, ds.Columns)
	require.Equal(t, 3, ds.Len(), "blank rows are skipped")

	assert.Equal(t, "Acme", ds.Rows[0]["Buyer"], "first duplicate header wins")
	assert.Equal(t, 120.0, ds.Rows[0]["Aging"])
	assert.Equal(t, "Yes", ds.Rows[0]["Comment Indicator"])

	assert.Equal(t, 15.0, ds.Rows[1]["Aging"])
	assert.Nil(t, ds.Rows[1]["Comment Indicator"])
	assert.Nil(t, ds.Rows[1]["Unnamed: 4"], "short rows are padded")

	assert.Equal(t, 1001.0, ds.Rows[2]["Buyer"])
	assert.Equal(t, 3.5, ds.Rows[2]["Aging"])
}

func TestLoadXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	dateStyle, err := f.NewStyle(&excelize.Style{NumFmt: 14})
	require.NoError(t, err)

	cells := [][]any{
		{"Buyer Name", "Net Due Date", "Past Due?", "Aging bucket", "Days Past Due"},
		{"Ana", time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), "Yes", "0-30", 12},
		{"Bo", "31/31/2026", "no", "31-60", 0},
	}
	for r, row := range cells {
		for c, v := range row {
			ref, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, ref, v))
		}
	}
	require.NoError(t, f.SetCellStyle(sheet, "B2", "B3", dateStyle))

	path := filepath.Join(t.TempDir(), "me.xlsx")
	require.NoError(t, f.SaveAs(path))

	ds, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, 2, ds.Len())
	assert.Equal(t, "Ana", ds.Rows[0]["Buyer Name"])
	assert.Equal(t, 12.0, ds.Rows[0]["Days Past Due"])
	assert.Equal(t, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), ds.Rows[0]["Net Due Date"], "date formatted cells load as dates")
	assert.Equal(t, "31/31/2026", ds.Rows[1]["Net Due Date"])

	v, err := Validate(ds, KindMatchExceptions)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), v.Rows[0]["Net Due Date"])
	assert.Nil(t, v.Rows[1]["Net Due Date"])
}

func TestLoadXLSXKeepsCellTypes(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	customDate := "dd/mm/yyyy"
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &customDate})
	require.NoError(t, err)
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	require.NoError(t, err)

	cells := [][]any{
		{"Buyer", "Aging", "Comment Indicator", "Team", "Received", "Amount", "Closed"},
		{"007", 95, "Yes", "0100", time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), 1250.5, true},
		{"Acme", "12", "No", "East", nil, nil, false},
	}
	for r, row := range cells {
		for c, v := range row {
			ref, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, ref, v))
		}
	}
	require.NoError(t, f.SetCellStyle(sheet, "E2", "E2", dateStyle))
	require.NoError(t, f.SetCellStyle(sheet, "F2", "F2", moneyStyle))

	path := filepath.Join(t.TempDir(), "grni.xlsx")
	require.NoError(t, f.SaveAs(path))

	ds, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, 2, ds.Len())

	first := ds.Rows[0]
	assert.Equal(t, "007", first["Buyer"], "text cells stay text")
	assert.Equal(t, "0100", first["Team"])
	assert.Equal(t, 95.0, first["Aging"])
	assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), first["Received"])
	assert.Equal(t, 1250.5, first["Amount"])
	assert.Equal(t, true, first["Closed"])

	second := ds.Rows[1]
	assert.Equal(t, "12", second["Aging"], "numeric looking text is not a number")
	assert.Nil(t, second["Received"])
	assert.Equal(t, false, second["Closed"])

	v, err := Validate(ds, KindGRNI)
	require.NoError(t, err)
	opts := FilterOptions(v, nil)
	assert.Equal(t, []string{"007", "Acme"}, opts[0].Values)
	assert.Equal(t, []string{"0100", "East"}, opts[1].Values)
	assert.Equal(t, 1, ApplyFilters(v, FilterSelection{ColBuyer: "007"}).Len())
}

func TestIsDateNumFmt(t *testing.T) {
	custom := func(s string) *string { return &s }

	assert.True(t, isDateNumFmt(14, nil))
	assert.True(t, isDateNumFmt(22, nil))
	assert.False(t, isDateNumFmt(0, nil))
	assert.False(t, isDateNumFmt(4, nil))
	assert.False(t, isDateNumFmt(20, nil), "time of day only")

	assert.True(t, isDateNumFmt(164, custom("yyyy-mm-dd")))
	assert.True(t, isDateNumFmt(164, custom("[$-409]d-mmm-yy")))
	assert.False(t, isDateNumFmt(164, custom(`0 "days"`)))
	assert.False(t, isDateNumFmt(164, custom("[Red]#,##0.00")))
}

func TestLoadRejectsUnknownExtension(t *testing.T) {
	_, err := Load(strings.NewReader("a,b\n1,2\n"), "report.ods")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadEmptyFile(t *testing.T) {
	_, err := Load(strings.NewReader(""), "empty.csv")
	assert.ErrorIs(t, err, ErrEmptySheet)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseCell(t *testing.T) {
	assert.Nil(t, parseCell("   "))
	assert.Equal(t, 42.0, parseCell("42"))
	assert.Equal(t, -1.25, parseCell(" -1.25 "))
	assert.Equal(t, "Inf", parseCell("Inf"))
	assert.Equal(t, "1_000", parseCell("1_000"))
	assert.Equal(t, "Yes", parseCell("Yes"))
}

func TestCoerceDate(t *testing.T) {
	want := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, want, coerceDate("2026-10-19"))
	assert.Equal(t, want, coerceDate("10/19/2026"))
	assert.Equal(t, want, coerceDate("19-Oct-2026"))
	assert.Equal(t, want, coerceDate("Oct 19, 2026"))
	assert.Equal(t, want, coerceDate(want))
	assert.Equal(t, want, coerceDate(46314.0))

	assert.Nil(t, coerceDate(nil))
	assert.Nil(t, coerceDate(""))
	assert.Nil(t, coerceDate("pending"))
	assert.Nil(t, coerceDate(true))
	assert.Nil(t, coerceDate(-3.0))
	assert.Nil(t, coerceDate(20261019.0), "yyyymmdd integers are not serials")
	assert.Equal(t, time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC), coerceDate(2958465.0))
	assert.Nil(t, coerceDate(time.Time{}))
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "", FormatValue(nil))
	assert.Equal(t, "Acme", FormatValue("Acme"))
	assert.Equal(t, "7", FormatValue(7.0))
	assert.Equal(t, "3.5", FormatValue(3.5))
	assert.Equal(t, "2026-10-19", FormatValue(time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2026-10-19 08:15:00", FormatValue(time.Date(2026, 10, 19, 8, 15, 0, 0, time.UTC)))
	assert.Equal(t, "12", FormatValue(12))
}
