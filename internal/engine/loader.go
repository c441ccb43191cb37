package engine

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/xuri/excelize/v2"
)

var (
	// ErrUnsupportedFormat is returned for files that are neither xlsx nor csv.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrEmptySheet is returned when the file has no header row.
	ErrEmptySheet = errors.New("sheet has no header row")
)

// LoadFile opens path and loads it with Load.
func LoadFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Load(f, filepath.Base(path))
}

// Load reads a spreadsheet export. The format is picked from the filename
// extension: .xlsx/.xlsm read the first sheet, .csv is comma separated. The
// first row is the header.
func Load(r io.Reader, filename string) (*Dataset, error) {
	start := time.Now()

	var (
		ds  *Dataset
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".xlsx", ".xlsm":
		ds, err = loadXLSX(r)
	case ".csv":
		ds, err = loadCSV(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, err
	}
	log.Printf("[Loader] %s loaded. Columns: %d. Rows: %d. Time: %v", filename, len(ds.Columns), ds.Len(), time.Since(start))
	return ds, nil
}

func loadXLSX(r io.Reader) (*Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptySheet
	}
	// Raw values keep dates as serial numbers instead of locale formatted text.
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	cells := &sheetCells{f: f, sheet: sheets[0], dateStyles: make(map[int]bool)}
	return buildDataset(rows, cells.parse)
}

// sheetCells types workbook cells from the stored cell type and number
// format rather than from how the text looks.
type sheetCells struct {
	f          *excelize.File
	sheet      string
	dateStyles map[int]bool // style index -> has a date number format
}

func (s *sheetCells) parse(row, col int, raw string) any {
	ref, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return parseCell(raw)
	}
	typ, err := s.f.GetCellType(s.sheet, ref)
	if err != nil {
		return parseCell(raw)
	}

	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString,
		excelize.CellTypeFormula, excelize.CellTypeError:
		return parseText(raw)
	case excelize.CellTypeBool:
		return strings.TrimSpace(raw) == "1"
	case excelize.CellTypeDate:
		if d := coerceDate(raw); d != nil {
			return d
		}
		return parseText(raw)
	}

	v := parseCell(raw)
	if serial, ok := v.(float64); ok && s.isDate(ref) {
		if d := coerceDate(serial); d != nil {
			return d
		}
	}
	return v
}

func (s *sheetCells) isDate(ref string) bool {
	idx, err := s.f.GetCellStyle(s.sheet, ref)
	if err != nil {
		return false
	}
	if date, ok := s.dateStyles[idx]; ok {
		return date
	}
	date := false
	if style, err := s.f.GetStyle(idx); err == nil && style != nil {
		date = isDateNumFmt(style.NumFmt, style.CustomNumFmt)
	}
	s.dateStyles[idx] = date
	return date
}

// isDateNumFmt reports whether a number format shows a calendar date.
// Built-in formats 14-17 and 22 are dates; custom formats count when they
// use a year or day token outside quoted text and [..] sections.
func isDateNumFmt(id int, custom *string) bool {
	if custom == nil {
		return (id >= 14 && id <= 17) || id == 22
	}
	var quoted, bracket bool
	for _, r := range strings.ToLower(*custom) {
		switch {
		case r == '"':
			quoted = !quoted
		case quoted:
		case r == '[':
			bracket = true
		case r == ']':
			bracket = false
		case bracket:
		case r == 'y', r == 'd':
			return true
		}
	}
	return false
}

func loadCSV(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}
	return buildDataset(rows, func(_, _ int, raw string) any { return parseCell(raw) })
}

// buildDataset turns raw records into rows, typing each data cell with
// parse(record index, field index, text). Blank headers become
// "Unnamed: <i>"; for duplicate headers the first column wins.
func buildDataset(records [][]string, parse func(row, col int, raw string) any) (*Dataset, error) {
	if len(records) == 0 || isBlankRecord(records[0]) {
		return nil, ErrEmptySheet
	}

	header := records[0]
	columns := make([]string, 0, len(header))
	index := make([]int, 0, len(header)) // column -> record position
	seen := make(map[string]bool, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		columns = append(columns, name)
		index = append(index, i)
	}

	rows := make([]Row, 0, len(records)-1)
	for i, rec := range records {
		if i == 0 || isBlankRecord(rec) {
			continue
		}
		row := make(Row, len(columns))
		for c, name := range columns {
			pos := index[c]
			if pos < len(rec) {
				row[name] = parse(i, pos, rec[pos])
			} else {
				row[name] = nil
			}
		}
		rows = append(rows, row)
	}
	return NewDataset(columns, rows), nil
}

// parseText keeps text as trimmed text; blank text is nil.
func parseText(raw string) any {
	if s := strings.TrimSpace(raw); s != "" {
		return s
	}
	return nil
}

// parseCell maps blank text to nil and numeric text to float64.
func parseCell(raw string) any {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	if f, err := cast.ToFloat64E(s); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) && looksNumeric(s) {
		return f
	}
	return s
}

// looksNumeric rejects the spellings ParseFloat accepts but a spreadsheet
// cell would not mean as a number ("inf", "0x1p3", "1_000").
func looksNumeric(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '.', r == '-', r == '+', r == 'e', r == 'E':
		default:
			return false
		}
	}
	return true
}

func isBlankRecord(rec []string) bool {
	for _, cell := range rec {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
