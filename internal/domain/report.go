package domain

import "time"

const (
	ReportSourcePayments = "payments"
	ReportSourceCashbook = "cashbook"
)

// TableRow is one row of a submitted report table. All rows of a table
// share the same keys.
type TableRow map[string]any

// UniformKeys reports whether every row has exactly the keys of the first.
func UniformKeys(rows []TableRow) bool {
	if len(rows) == 0 {
		return true
	}
	first := rows[0]
	for _, row := range rows[1:] {
		if len(row) != len(first) {
			return false
		}
		for k := range row {
			if _, ok := first[k]; !ok {
				return false
			}
		}
	}
	return true
}

type Report struct {
	ID            int64         `json:"id"`
	Name          string        `json:"name"`
	PosID         string        `json:"posId"`
	Date          string        `json:"date"`
	Source        string        `json:"source"`
	PaymentMethod PaymentMethod `json:"paymentMethod,omitempty"`
	Bank          string        `json:"bank,omitempty"`
	TableData     []TableRow    `json:"tableData"`
	CreatedOn     time.Time     `json:"createdOn"`
}

// ReportSummary is the listing shape of a report.
type ReportSummary struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	PosID  string `json:"posId"`
	Date   string `json:"date"`
	Source string `json:"source"`
}

// SubmitRequest carries a finalized table to the report store.
type SubmitRequest struct {
	Name          string
	PosID         string
	Date          string
	Source        string
	PaymentMethod PaymentMethod
	Bank          string
	TableData     []TableRow
}
