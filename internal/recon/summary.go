package recon

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"posrecon-backend/internal/domain"
)

// dailyTotals buckets one batch by date. Cash-style rows contribute their
// amount whatever its sign; statement rows contribute positive credits only.
// Rows without a date are skipped.
func dailyTotals(b domain.PaymentBatch) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal)
	if b.Method.UsesStatementRows() {
		for _, r := range b.StatementRows {
			date := strings.TrimSpace(r.TxnDate)
			credit := ParseAmount(r.Credit)
			if date == "" || !credit.IsPositive() {
				continue
			}
			totals[date] = totals[date].Add(credit)
		}
		return totals
	}
	for _, r := range b.CashRows {
		date := strings.TrimSpace(r.Date)
		if date == "" {
			continue
		}
		totals[date] = totals[date].Add(ParseAmount(r.Amount))
	}
	return totals
}

func sortedDates(m map[string]decimal.Decimal) []string {
	dates := make([]string, 0, len(m))
	for d := range m {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

// Summarize folds every batch into per-method daily totals and combined
// daily totals. It keeps no state between calls.
func Summarize(batches []domain.PaymentBatch) domain.Summary {
	perMethod := make([]domain.MethodDateTotal, 0)
	combined := make(map[string]decimal.Decimal)

	for _, b := range batches {
		totals := dailyTotals(b)
		for _, date := range sortedDates(totals) {
			total := Round2(totals[date])
			perMethod = append(perMethod, domain.MethodDateTotal{
				Method: b.Method,
				Date:   date,
				Total:  total,
			})
			combined[date] = combined[date].Add(total)
		}
	}

	sort.SliceStable(perMethod, func(i, j int) bool {
		if perMethod[i].Method != perMethod[j].Method {
			return perMethod[i].Method < perMethod[j].Method
		}
		return perMethod[i].Date < perMethod[j].Date
	})

	out := domain.Summary{
		PerMethod:  perMethod,
		Combined:   make([]domain.DateTotal, 0, len(combined)),
		GrandTotal: decimal.Zero,
	}
	for _, date := range sortedDates(combined) {
		total := Round2(combined[date])
		out.Combined = append(out.Combined, domain.DateTotal{Date: date, Total: total})
		out.GrandTotal = out.GrandTotal.Add(total)
	}
	out.GrandTotal = Round2(out.GrandTotal)
	return out
}
