package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentMethodBank    PaymentMethod = "bank"
	PaymentMethodEcocash PaymentMethod = "ecocash"
	PaymentMethodCash    PaymentMethod = "cash"
	PaymentMethodPDS     PaymentMethod = "pds"

	// PaymentMethodSummary tags a submitted summary report, never a batch.
	PaymentMethodSummary PaymentMethod = "summary"
)

func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodBank, PaymentMethodEcocash, PaymentMethodCash, PaymentMethodPDS:
		return true
	}
	return false
}

// UsesStatementRows reports whether rows of this method carry the bank
// statement shape (credit/debit/balance) rather than a plain amount.
func (m PaymentMethod) UsesStatementRows() bool {
	return m == PaymentMethodBank || m == PaymentMethodPDS
}

const (
	CurrencyUSD = "USD"
	CurrencyZWG = "ZWG"
)

// MaxBatchRows caps the number of rows held by a single payment batch.
const MaxBatchRows = 100

var Banks = []string{
	"CBZ Bank Limited",
	"Standard Chartered Bank Zimbabwe",
	"FBC Bank Limited",
	"Stanbic Bank Zimbabwe",
	"Ecobank Zimbabwe",
	"ZB Bank Limited",
	"BancABC Zimbabwe",
	"NMB Bank Limited",
	"Agribank (Agricultural Bank of Zimbabwe)",
	"Steward Bank",
	"POSB (People's Own Savings Bank)",
	"Metbank Limited",
	"First Capital Bank",
}

func IsKnownBank(name string) bool {
	for _, b := range Banks {
		if b == name {
			return true
		}
	}
	return false
}

func IsKnownCurrency(code string) bool {
	return code == CurrencyUSD || code == CurrencyZWG
}

// CashRow is the row shape for ecocash and cash batches. Amount and Rate
// hold the text the agent typed; Converted is derived.
type CashRow struct {
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Amount      string          `json:"amount"`
	Currency    string          `json:"currency"`
	Rate        string          `json:"rate,omitempty"`
	Converted   decimal.Decimal `json:"converted"`
}

// StatementRow is the row shape for bank and pds batches.
type StatementRow struct {
	TxnDate     string          `json:"txnDate"`
	ValueDate   string          `json:"valueDate"`
	PosID       string          `json:"posId"`
	Description string          `json:"description"`
	Credit      string          `json:"credit"`
	Debit       string          `json:"debit"`
	Balance     decimal.Decimal `json:"balance"`
	Currency    string          `json:"currency"`
	Rate        string          `json:"rate,omitempty"`
	Converted   decimal.Decimal `json:"converted"`
}

// PaymentBatch holds one method's rows. Exactly one of CashRows or
// StatementRows is populated, selected by Method.
type PaymentBatch struct {
	ID            string         `json:"id"`
	Method        PaymentMethod  `json:"method"`
	Bank          string         `json:"bank,omitempty"`
	Currency      string         `json:"currency"`
	CashRows      []CashRow      `json:"cashRows,omitempty"`
	StatementRows []StatementRow `json:"statementRows,omitempty"`
	ReportID      int64          `json:"reportId,omitempty"`
	SubmittedAt   *time.Time     `json:"submittedAt,omitempty"`
}

func (b *PaymentBatch) Len() int {
	if b.Method.UsesStatementRows() {
		return len(b.StatementRows)
	}
	return len(b.CashRows)
}

type DraftStep string

const (
	DraftStepChoose DraftStep = "choose"
	DraftStepForm   DraftStep = "form"
)

// Draft is the batch an agent is still editing for a POS ID. Revision
// increases with every row or option edit.
type Draft struct {
	PaymentBatch
	Step     DraftStep `json:"step"`
	Saved    bool      `json:"saved"`
	Revision int       `json:"revision"`
}
