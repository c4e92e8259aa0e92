package domain

import "github.com/shopspring/decimal"

type MethodDateTotal struct {
	Method PaymentMethod   `json:"method"`
	Date   string          `json:"date"`
	Total  decimal.Decimal `json:"total"`
}

type DateTotal struct {
	Date  string          `json:"date"`
	Total decimal.Decimal `json:"total"`
}

// Summary is always recomputed from payment batches and never stored.
type Summary struct {
	PerMethod  []MethodDateTotal `json:"perMethod"`
	Combined   []DateTotal       `json:"combined"`
	GrandTotal decimal.Decimal   `json:"grandTotal"`
}
