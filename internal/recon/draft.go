package recon

import (
	"fmt"

	"github.com/google/uuid"

	"posrecon-backend/internal/domain"
)

// AddRowCounts are the batch sizes offered for manual row entry.
var AddRowCounts = []int{1, 5, 10, 20, 100}

func IsAddRowCount(n int) bool {
	for _, c := range AddRowCounts {
		if c == n {
			return true
		}
	}
	return false
}

// RowPatch edits cells of one draft row. Fields that do not exist in the
// row's shape are ignored; Date targets txnDate on statement rows.
type RowPatch struct {
	Date        *string `json:"date"`
	ValueDate   *string `json:"valueDate"`
	PosID       *string `json:"posId"`
	Description *string `json:"description"`
	Amount      *string `json:"amount"`
	Credit      *string `json:"credit"`
	Debit       *string `json:"debit"`
	Currency    *string `json:"currency"`
	Rate        *string `json:"rate"`
}

func set(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// StartDraft selects the draft's payment method. Choosing a different
// method, or choosing again after the draft was saved, starts an empty
// batch; re-selecting the current unsaved method keeps its rows.
func StartDraft(d *domain.Draft, method domain.PaymentMethod) error {
	if !method.IsValid() {
		return domain.NewValidationError("method", fmt.Sprintf("unknown payment method %q", method))
	}
	if d.Method != method || d.Saved || d.ID == "" {
		currency := d.Currency
		if currency == "" {
			currency = domain.CurrencyUSD
		}
		d.PaymentBatch = domain.PaymentBatch{
			ID:       uuid.NewString(),
			Method:   method,
			Currency: currency,
		}
		d.Saved = false
	}
	d.Step = domain.DraftStepForm
	return nil
}

// SetCurrency changes the batch currency and fills it into rows that have
// none yet.
func SetCurrency(b *domain.PaymentBatch, currency string) error {
	if !domain.IsKnownCurrency(currency) {
		return domain.NewValidationError("currency", fmt.Sprintf("unsupported currency %q", currency))
	}
	b.Currency = currency
	for i := range b.CashRows {
		if b.CashRows[i].Currency == "" {
			b.CashRows[i].Currency = currency
		}
	}
	for i := range b.StatementRows {
		if b.StatementRows[i].Currency == "" {
			b.StatementRows[i].Currency = currency
		}
	}
	return nil
}

func SetBank(b *domain.PaymentBatch, bank string) error {
	if b.Method != domain.PaymentMethodBank {
		return domain.NewValidationError("bank", "only bank batches carry a bank")
	}
	if !domain.IsKnownBank(bank) {
		return domain.NewValidationError("bank", fmt.Sprintf("unknown bank %q", bank))
	}
	b.Bank = bank
	return nil
}

func checkIndex(b *domain.PaymentBatch, index int) error {
	if index < 0 || index >= b.Len() {
		return fmt.Errorf("row %d: %w", index, domain.ErrNotFound)
	}
	return nil
}

// UpdateRow applies p to the row at index and recomputes its derived fields.
func UpdateRow(b *domain.PaymentBatch, index int, p RowPatch) error {
	if err := checkIndex(b, index); err != nil {
		return err
	}
	if b.Method.UsesStatementRows() {
		r := &b.StatementRows[index]
		set(&r.TxnDate, p.Date)
		set(&r.ValueDate, p.ValueDate)
		set(&r.PosID, p.PosID)
		set(&r.Description, p.Description)
		set(&r.Credit, p.Credit)
		set(&r.Debit, p.Debit)
		set(&r.Currency, p.Currency)
		set(&r.Rate, p.Rate)
		RecomputeStatementRow(r)
		return nil
	}
	r := &b.CashRows[index]
	set(&r.Date, p.Date)
	set(&r.Description, p.Description)
	set(&r.Amount, p.Amount)
	set(&r.Currency, p.Currency)
	set(&r.Rate, p.Rate)
	RecomputeCashRow(r)
	return nil
}

func RemoveRow(b *domain.PaymentBatch, index int) error {
	if err := checkIndex(b, index); err != nil {
		return err
	}
	if b.Method.UsesStatementRows() {
		b.StatementRows = append(b.StatementRows[:index], b.StatementRows[index+1:]...)
	} else {
		b.CashRows = append(b.CashRows[:index], b.CashRows[index+1:]...)
	}
	return nil
}

// ClearRows empties the batch but keeps its method, bank and currency.
func ClearRows(b *domain.PaymentBatch) {
	b.CashRows = nil
	b.StatementRows = nil
}
