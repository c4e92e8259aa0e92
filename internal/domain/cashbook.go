package domain

import "github.com/shopspring/decimal"

// CashbookInputs are the fields an agent edits on a cashbook row. They are
// kept as text; blank or non-numeric values count as zero.
type CashbookInputs struct {
	CommissionPct    string `json:"commissionPct"`
	Zinara           string `json:"zinara"`
	PpaGross         string `json:"ppaGross"`
	PpaPct           string `json:"ppaPct"`
	ApprovedExpenses string `json:"approvedExpenses"`
}

type CashbookDerived struct {
	ActualGross   decimal.Decimal `json:"actualGross"`
	Commission    decimal.Decimal `json:"commission"`
	NetPremium    decimal.Decimal `json:"netPremium"`
	PpaCommission decimal.Decimal `json:"ppaCommission"`
	NetPpa        decimal.Decimal `json:"netPpa"`
	Remittances   decimal.Decimal `json:"remittances"`
}

type CashbookRow struct {
	Date         string          `json:"date"`
	GrossPremium decimal.Decimal `json:"grossPremium"`
	Cancellation decimal.Decimal `json:"cancellation"`
	CashbookInputs
	CashbookDerived
}
