package spreadsheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"posrecon-backend/internal/domain"
	"posrecon-backend/internal/logger"
	"posrecon-backend/internal/recon"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrNoHeader          = errors.New("sheet has no header row")
)

// ReadFile opens a workbook on disk and reads its first sheet.
func ReadFile(path string) ([]recon.RawRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &domain.ParseError{Source: filepath.Base(path), Err: err}
	}
	defer f.Close()
	return Read(filepath.Base(path), f)
}

// Read parses the first sheet of an uploaded .xlsx, .xls or .csv file. The
// first row is the header; blank data rows are dropped. Any failure is a
// ParseError and no rows are returned.
func Read(filename string, r io.Reader) ([]recon.RawRow, error) {
	logger.EnterMethod("spreadsheet.Read", "filename", filename)

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &domain.ParseError{Source: filename, Err: err}
	}

	var rows []recon.RawRow
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		rows, err = readXLSX(data)
	case ".xls":
		rows, err = readXLS(data)
	case ".csv":
		rows, err = readCSV(data)
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(filename))
	}
	if err != nil {
		logger.ExitMethodWithError("spreadsheet.Read", err, "filename", filename)
		return nil, &domain.ParseError{Source: filename, Err: err}
	}

	logger.ExitMethod("spreadsheet.Read", "filename", filename, "rows", len(rows))
	return rows, nil
}

func readXLSX(data []byte) ([]recon.RawRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoHeader
	}
	sheet := sheets[0]

	grid, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	if len(grid) == 0 {
		return nil, ErrNoHeader
	}

	header := grid[0]
	var out []recon.RawRow
	for i, cells := range grid[1:] {
		rowNum := i + 2
		row := make(recon.RawRow, 0, len(header))
		for j, col := range header {
			if strings.TrimSpace(col) == "" || j >= len(cells) {
				continue
			}
			row = append(row, recon.RawCell{Column: col, Value: xlsxValue(f, sheet, j+1, rowNum, cells[j])})
		}
		if !blank(row) {
			out = append(out, row)
		}
	}
	return out, nil
}

// xlsxValue turns date-formatted serial numbers back into time values so the
// normalizer can render them as ISO dates.
func xlsxValue(f *excelize.File, sheet string, col, row int, raw string) any {
	if raw == "" {
		return raw
	}
	serial, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return raw
	}
	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return raw
	}
	styleID, err := f.GetCellStyle(sheet, axis)
	if err != nil || styleID == 0 {
		return raw
	}
	style, err := f.GetStyle(styleID)
	if err != nil || !isDateFormat(style) {
		return raw
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return raw
	}
	return t
}

func isDateFormat(s *excelize.Style) bool {
	if s == nil {
		return false
	}
	switch {
	case s.NumFmt >= 14 && s.NumFmt <= 22, s.NumFmt >= 45 && s.NumFmt <= 47:
		return true
	}
	if s.CustomNumFmt == nil {
		return false
	}
	fmtCode := strings.ToLower(*s.CustomNumFmt)
	return strings.Contains(fmtCode, "yy") || strings.Contains(fmtCode, "dd")
}

func readXLS(data []byte) ([]recon.RawRow, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, err
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, ErrNoHeader
	}

	head := sheet.Row(0)
	if head == nil {
		return nil, ErrNoHeader
	}
	header := make([]string, head.LastCol())
	for j := range header {
		header[j] = head.Col(j)
	}

	var out []recon.RawRow
	for i := 1; i <= int(sheet.MaxRow); i++ {
		r := sheet.Row(i)
		if r == nil {
			continue
		}
		row := make(recon.RawRow, 0, len(header))
		for j, col := range header {
			if strings.TrimSpace(col) == "" {
				continue
			}
			row = append(row, recon.RawCell{Column: col, Value: r.Col(j)})
		}
		if !blank(row) {
			out = append(out, row)
		}
	}
	return out, nil
}

func readCSV(data []byte) ([]recon.RawRow, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	grid, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(grid) == 0 {
		return nil, ErrNoHeader
	}

	header := grid[0]
	var out []recon.RawRow
	for _, cells := range grid[1:] {
		row := make(recon.RawRow, 0, len(header))
		for j, col := range header {
			if strings.TrimSpace(col) == "" || j >= len(cells) {
				continue
			}
			row = append(row, recon.RawCell{Column: col, Value: cells[j]})
		}
		if !blank(row) {
			out = append(out, row)
		}
	}
	return out, nil
}

func blank(row recon.RawRow) bool {
	for _, c := range row {
		if recon.CellText(c.Value) != "" {
			return false
		}
	}
	return true
}
