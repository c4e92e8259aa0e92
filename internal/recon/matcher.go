package recon

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"posrecon-backend/internal/domain"
)

// TransactionInput is a manually entered ledger line.
type TransactionInput struct {
	Date        string                 `json:"date"`
	Description string                 `json:"description" validate:"required"`
	Amount      string                 `json:"amount" validate:"required"`
	Type        domain.TransactionType `json:"type"`
	Method      domain.PaymentMethod   `json:"method"`
	Currency    string                 `json:"currency"`
	Bank        string                 `json:"bank"`
	Rate        string                 `json:"rate"`
}

// TransactionPatch edits cells of an existing transaction. Nil fields are
// left as they are.
type TransactionPatch struct {
	Date        *string `json:"date"`
	Description *string `json:"description"`
	Amount      *string `json:"amount"`
	Rate        *string `json:"rate"`
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

func findTransaction(txs []domain.Transaction, id string) int {
	for i := range txs {
		if txs[i].ID == id {
			return i
		}
	}
	return -1
}

// AddTransaction appends a new transaction with a fresh id.
func AddTransaction(l *domain.Ledger, in TransactionInput, now time.Time) (domain.Transaction, error) {
	if strings.TrimSpace(in.Amount) == "" {
		return domain.Transaction{}, domain.NewValidationError("amount", "is required")
	}
	if strings.TrimSpace(in.Description) == "" {
		return domain.Transaction{}, domain.NewValidationError("description", "is required")
	}
	if in.Type == "" {
		in.Type = domain.TransactionTypePayment
	}
	if !in.Type.IsValid() {
		return domain.Transaction{}, domain.NewValidationError("type", fmt.Sprintf("unknown transaction type %q", in.Type))
	}
	if in.Method != "" && !in.Method.IsValid() {
		return domain.Transaction{}, domain.NewValidationError("method", fmt.Sprintf("unknown payment method %q", in.Method))
	}

	tx := domain.Transaction{
		ID:          uuid.NewString(),
		Date:        in.Date,
		Description: strings.TrimSpace(in.Description),
		Amount:      ParseAmount(in.Amount),
		Type:        in.Type,
		Method:      in.Method,
		Currency:    in.Currency,
		Bank:        in.Bank,
		Rate:        ParseAmount(in.Rate),
	}
	if tx.Date == "" {
		tx.Date = now.UTC().Format("2006-01-02")
	}
	RecomputeTransaction(&tx)
	l.Transactions = append(l.Transactions, tx)
	return tx, nil
}

// AppendTransactions adds imported transactions, assigning ids.
func AppendTransactions(l *domain.Ledger, txs []domain.Transaction) {
	for _, tx := range txs {
		tx.ID = uuid.NewString()
		RecomputeTransaction(&tx)
		l.Transactions = append(l.Transactions, tx)
	}
}

func UpdateTransaction(l *domain.Ledger, id string, p TransactionPatch) (domain.Transaction, error) {
	i := findTransaction(l.Transactions, id)
	if i < 0 {
		return domain.Transaction{}, fmt.Errorf("transaction %s: %w", id, domain.ErrNotFound)
	}
	tx := l.Transactions[i]
	if p.Date != nil {
		tx.Date = *p.Date
	}
	if p.Description != nil {
		tx.Description = *p.Description
	}
	if p.Amount != nil {
		tx.Amount = ParseAmount(*p.Amount)
	}
	if p.Rate != nil {
		tx.Rate = ParseAmount(*p.Rate)
	}
	RecomputeTransaction(&tx)
	l.Transactions[i] = tx
	return tx, nil
}

// RemoveTransaction deletes a transaction and drops it from the selection.
func RemoveTransaction(l *domain.Ledger, id string) error {
	i := findTransaction(l.Transactions, id)
	if i < 0 {
		return fmt.Errorf("transaction %s: %w", id, domain.ErrNotFound)
	}
	l.Transactions = append(l.Transactions[:i:i], l.Transactions[i+1:]...)
	if j := indexOf(l.Selection, id); j >= 0 {
		l.Selection = append(l.Selection[:j:j], l.Selection[j+1:]...)
	}
	return nil
}

// ToggleMode switches between unreconciled and reconcile mode. The selection
// is cleared on every switch.
func ToggleMode(l *domain.Ledger) {
	if l.Mode == domain.LedgerModeReconcile {
		l.Mode = domain.LedgerModeUnreconciled
	} else {
		l.Mode = domain.LedgerModeReconcile
	}
	l.Selection = nil
}

// ToggleSelection adds the id to the selection, or removes it if present.
func ToggleSelection(l *domain.Ledger, id string) error {
	if l.Mode != domain.LedgerModeReconcile {
		return domain.NewValidationError("mode", "enter reconcile mode before selecting transactions")
	}
	if j := indexOf(l.Selection, id); j >= 0 {
		l.Selection = append(l.Selection[:j:j], l.Selection[j+1:]...)
		return nil
	}
	if findTransaction(l.Transactions, id) < 0 {
		return domain.NewValidationError("id", fmt.Sprintf("transaction %s is not in the ledger", id))
	}
	l.Selection = append(l.Selection, id)
	return nil
}

// MatchedTotal adds receipts and subtracts everything else over the selected
// transactions. Ids not present in the ledger are ignored.
func MatchedTotal(txs []domain.Transaction, selection []string) decimal.Decimal {
	total := decimal.Zero
	for _, id := range selection {
		i := findTransaction(txs, id)
		if i < 0 {
			continue
		}
		if txs[i].Type == domain.TransactionTypeReceipt {
			total = total.Add(txs[i].Amount)
		} else {
			total = total.Sub(txs[i].Amount)
		}
	}
	return Round2(total)
}

// Remaining returns the ledger minus the selected transactions.
func Remaining(txs []domain.Transaction, selection []string) []domain.Transaction {
	out := make([]domain.Transaction, 0, len(txs))
	for _, tx := range txs {
		if indexOf(selection, tx.ID) < 0 {
			out = append(out, tx)
		}
	}
	return out
}

func Selected(txs []domain.Transaction, selection []string) []domain.Transaction {
	out := make([]domain.Transaction, 0, len(selection))
	for _, tx := range txs {
		if indexOf(selection, tx.ID) >= 0 {
			out = append(out, tx)
		}
	}
	return out
}

// Commit folds the selected transactions into a new reconciliation session.
// The session is appended, the transactions leave the ledger and the
// selection is cleared together; on error the ledger is not modified.
func Commit(l *domain.Ledger, now time.Time) (*domain.ReconciliationSession, error) {
	if len(l.Selection) == 0 {
		return nil, domain.NewValidationError("selection", "select at least one transaction")
	}
	items := Selected(l.Transactions, l.Selection)
	if len(items) == 0 {
		return nil, domain.NewValidationError("selection", "none of the selected transactions are in the ledger")
	}

	session := domain.ReconciliationSession{
		ID:           now.UTC().Format(time.RFC3339Nano),
		Transactions: items,
		CreatedAt:    now.UTC(),
	}
	remaining := Remaining(l.Transactions, l.Selection)
	sessions := make([]domain.ReconciliationSession, 0, len(l.Sessions)+1)
	sessions = append(sessions, l.Sessions...)
	sessions = append(sessions, session)

	l.Transactions = remaining
	l.Sessions = sessions
	l.Selection = nil
	return &session, nil
}

// View is the live matching state of a ledger.
func View(l *domain.Ledger) domain.MatchView {
	return domain.MatchView{
		Mode:         l.Mode,
		Selection:    append([]string(nil), l.Selection...),
		MatchedTotal: MatchedTotal(l.Transactions, l.Selection),
		Remaining:    Remaining(l.Transactions, l.Selection),
	}
}
