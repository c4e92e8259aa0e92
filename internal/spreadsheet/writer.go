package spreadsheet

import (
	"fmt"
	"io"
	"sort"

	"github.com/xuri/excelize/v2"

	"posrecon-backend/internal/domain"
)

const reportSheet = "Report"

// columnOrder puts well-known report columns first, then any other keys
// alphabetically.
var columnOrder = []string{
	"date", "txnDate", "valueDate", "posId", "description",
	"amount", "credit", "debit", "balance", "currency", "converted", "Bank",
	"total",
	"grossPremium", "cancellation", "actualGross", "commissionPct", "commission", "netPremium",
	"zinara", "ppaGross", "ppaPct", "ppaCommission", "netPpa", "approvedExpenses", "remittances",
}

func Columns(rows []domain.TableRow) []string {
	seen := make(map[string]bool)
	for _, r := range rows {
		for k := range r {
			seen[k] = true
		}
	}

	var cols []string
	for _, c := range columnOrder {
		if seen[c] {
			cols = append(cols, c)
			delete(seen, c)
		}
	}
	var rest []string
	for k := range seen {
		rest = append(rest, k)
	}
	sort.Strings(rest)
	return append(cols, rest...)
}

// WriteReport renders a stored report as an .xlsx workbook.
func WriteReport(w io.Writer, report *domain.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", reportSheet); err != nil {
		return err
	}

	meta := [][]any{
		{"Name", report.Name},
		{"POS ID", report.PosID},
		{"Date", report.Date},
		{"Source", report.Source},
	}
	if report.PaymentMethod != "" {
		meta = append(meta, []any{"Method", string(report.PaymentMethod)})
	}
	if report.Bank != "" {
		meta = append(meta, []any{"Bank", report.Bank})
	}
	for i, m := range meta {
		if err := f.SetSheetRow(reportSheet, fmt.Sprintf("A%d", i+1), &m); err != nil {
			return err
		}
	}

	headerRow := len(meta) + 2
	cols := Columns(report.TableData)
	header := make([]any, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	if err := f.SetSheetRow(reportSheet, fmt.Sprintf("A%d", headerRow), &header); err != nil {
		return err
	}

	for i, row := range report.TableData {
		for j, c := range cols {
			cell, err := excelize.CoordinatesToCellName(j+1, headerRow+1+i)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(reportSheet, cell, row[c]); err != nil {
				return err
			}
		}
	}

	return f.Write(w)
}
