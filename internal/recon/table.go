package recon

import (
	"posrecon-backend/internal/domain"
)

func money(s string) float64 {
	return Round2(ParseAmount(s)).InexactFloat64()
}

// BatchTable flattens a batch into report rows. Every row of the table has
// the same keys.
func BatchTable(b domain.PaymentBatch, posID string) []domain.TableRow {
	if b.Method.UsesStatementRows() {
		rows := make([]domain.TableRow, 0, len(b.StatementRows))
		for _, r := range b.StatementRows {
			pos := r.PosID
			if pos == "" {
				pos = posID
			}
			row := domain.TableRow{
				"date":        r.TxnDate,
				"valueDate":   r.ValueDate,
				"posId":       pos,
				"description": r.Description,
				"credit":      money(r.Credit),
				"debit":       money(r.Debit),
				"balance":     r.Balance.InexactFloat64(),
				"currency":    r.Currency,
				"converted":   r.Converted.InexactFloat64(),
			}
			if b.Method == domain.PaymentMethodBank {
				row["Bank"] = b.Bank
			}
			rows = append(rows, row)
		}
		return rows
	}

	rows := make([]domain.TableRow, 0, len(b.CashRows))
	for _, r := range b.CashRows {
		rows = append(rows, domain.TableRow{
			"date":        r.Date,
			"description": r.Description,
			"amount":      money(r.Amount),
			"currency":    r.Currency,
			"converted":   r.Converted.InexactFloat64(),
		})
	}
	return rows
}

func SummaryTable(s domain.Summary) []domain.TableRow {
	rows := make([]domain.TableRow, 0, len(s.Combined))
	for _, d := range s.Combined {
		rows = append(rows, domain.TableRow{
			"date":  d.Date,
			"total": d.Total.InexactFloat64(),
		})
	}
	return rows
}

func CashbookTable(cb []domain.CashbookRow) []domain.TableRow {
	rows := make([]domain.TableRow, 0, len(cb))
	for _, r := range cb {
		rows = append(rows, domain.TableRow{
			"date":             r.Date,
			"grossPremium":     r.GrossPremium.InexactFloat64(),
			"cancellation":     r.Cancellation.InexactFloat64(),
			"actualGross":      r.ActualGross.InexactFloat64(),
			"commissionPct":    ParseAmount(r.CommissionPct).InexactFloat64(),
			"commission":       r.Commission.InexactFloat64(),
			"netPremium":       r.NetPremium.InexactFloat64(),
			"zinara":           money(r.Zinara),
			"ppaGross":         money(r.PpaGross),
			"ppaPct":           ParseAmount(r.PpaPct).InexactFloat64(),
			"ppaCommission":    r.PpaCommission.InexactFloat64(),
			"netPpa":           r.NetPpa.InexactFloat64(),
			"approvedExpenses": money(r.ApprovedExpenses),
			"remittances":      r.Remittances.InexactFloat64(),
		})
	}
	return rows
}
