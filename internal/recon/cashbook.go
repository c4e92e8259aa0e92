package recon

import (
	"fmt"

	"github.com/shopspring/decimal"

	"posrecon-backend/internal/domain"
)

// CashbookPatch edits one cashbook row. Nil fields are left unchanged.
type CashbookPatch struct {
	Cancellation     *string `json:"cancellation"`
	CommissionPct    *string `json:"commissionPct"`
	Zinara           *string `json:"zinara"`
	PpaGross         *string `json:"ppaGross"`
	PpaPct           *string `json:"ppaPct"`
	ApprovedExpenses *string `json:"approvedExpenses"`
}

// SeedCashbook builds one cashbook row per combined summary date, with the
// day's total as gross premium. Inputs already entered for a date are kept.
func SeedCashbook(summary domain.Summary, existing []domain.CashbookRow) []domain.CashbookRow {
	byDate := make(map[string]domain.CashbookRow, len(existing))
	for _, r := range existing {
		byDate[r.Date] = r
	}

	rows := make([]domain.CashbookRow, 0, len(summary.Combined))
	for _, day := range summary.Combined {
		row := domain.CashbookRow{Date: day.Date, Cancellation: decimal.Zero}
		if prev, ok := byDate[day.Date]; ok {
			row.Cancellation = prev.Cancellation
			row.CashbookInputs = prev.CashbookInputs
		}
		row.GrossPremium = day.Total
		RecomputeCashbookRow(&row)
		rows = append(rows, row)
	}
	return rows
}

func UpdateCashbookRow(rows []domain.CashbookRow, date string, p CashbookPatch) (domain.CashbookRow, error) {
	for i := range rows {
		if rows[i].Date != date {
			continue
		}
		r := &rows[i]
		if p.Cancellation != nil {
			r.Cancellation = Round2(ParseAmount(*p.Cancellation))
		}
		if p.CommissionPct != nil {
			r.CommissionPct = *p.CommissionPct
		}
		if p.Zinara != nil {
			r.Zinara = *p.Zinara
		}
		if p.PpaGross != nil {
			r.PpaGross = *p.PpaGross
		}
		if p.PpaPct != nil {
			r.PpaPct = *p.PpaPct
		}
		if p.ApprovedExpenses != nil {
			r.ApprovedExpenses = *p.ApprovedExpenses
		}
		RecomputeCashbookRow(r)
		return *r, nil
	}
	return domain.CashbookRow{}, fmt.Errorf("cashbook row %s: %w", date, domain.ErrNotFound)
}
