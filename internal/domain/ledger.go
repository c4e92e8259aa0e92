package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	// TransactionTypePayment is shown to agents as SALES.
	TransactionTypePayment TransactionType = "payment"
	// TransactionTypeReceipt is shown to agents as PAYMENTS.
	TransactionTypeReceipt TransactionType = "receipt"
)

func (t TransactionType) IsValid() bool {
	return t == TransactionTypePayment || t == TransactionTypeReceipt
}

type Transaction struct {
	ID          string          `json:"id"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        TransactionType `json:"type,omitempty"`
	Method      PaymentMethod   `json:"method,omitempty"`
	Currency    string          `json:"currency,omitempty"`
	Bank        string          `json:"bank,omitempty"`
	Rate        decimal.Decimal `json:"rate"`
	Converted   decimal.Decimal `json:"converted"`
}

// ReconciliationSession is immutable once committed.
type ReconciliationSession struct {
	ID           string        `json:"id"`
	Transactions []Transaction `json:"transactions"`
	CreatedAt    time.Time     `json:"createdAt"`
}

type LedgerMode string

const (
	LedgerModeUnreconciled LedgerMode = "unreconciled"
	LedgerModeReconcile    LedgerMode = "reconcile"
)

type Ledger struct {
	Transactions []Transaction            `json:"transactions"`
	Sessions     []ReconciliationSession `json:"sessions"`
	Mode         LedgerMode              `json:"mode"`
	Selection    []string                `json:"selection"`
}

// MatchView is the live state shown while reconciling.
type MatchView struct {
	Mode         LedgerMode      `json:"mode"`
	Selection    []string        `json:"selection"`
	MatchedTotal decimal.Decimal `json:"matchedTotal"`
	Remaining    []Transaction   `json:"remaining"`
}
