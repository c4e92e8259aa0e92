package recon

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"

	"posrecon-backend/internal/domain"
)

// RawCell is one column of an imported row, in sheet order.
type RawCell struct {
	Column string
	Value  any
}

// RawRow keeps the column order of the source sheet so that the first
// matching column wins when several normalize to the same key.
type RawRow []RawCell

// NormalizeKey lower-cases a column name and strips whitespace, underscores
// and slashes.
func NormalizeKey(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsSpace(r) || r == '_' || r == '/' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Lookup returns the text of the first column matching any of the keys.
func (r RawRow) Lookup(keys ...string) (string, bool) {
	for _, cell := range r {
		norm := NormalizeKey(cell.Column)
		for _, k := range keys {
			if norm == k {
				return CellText(cell.Value), true
			}
		}
	}
	return "", false
}

func (r RawRow) text(keys ...string) string {
	v, _ := r.Lookup(keys...)
	return v
}

// CellText renders an imported value as text. Native dates become
// YYYY-MM-DD.
func CellText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case time.Time:
		return t.Format("2006-01-02")
	case *time.Time:
		if t == nil {
			return ""
		}
		return t.Format("2006-01-02")
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case decimal.Decimal:
		return t.String()
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

var (
	keysDate        = []string{"date", "txndate", "transactiondate"}
	keysAmount      = []string{"amount", "saleamount"}
	keysTxnDate     = []string{"txndate", "transactiondate", "date"}
	keysValueDate   = []string{"valuedate"}
	keysPosID       = []string{"posid", "pos"}
	keysDescription = []string{"description", "details", "narration"}
	keysCredit      = []string{"credit", "creditamount"}
	keysDebit       = []string{"debit", "debitamount"}
	keysCurrency    = []string{"currency", "ccy"}
	keysRate        = []string{"rate", "exchangerate"}
	keysPayment     = []string{"payment"}
	keysSaleAmount  = []string{"saleamount"}
)

// NormalizeCashRow keeps only the date and amount of an ecocash or cash row.
func NormalizeCashRow(raw RawRow, currency string) domain.CashRow {
	row := domain.CashRow{
		Date:     raw.text(keysDate...),
		Amount:   raw.text(keysAmount...),
		Currency: currency,
	}
	RecomputeCashRow(&row)
	return row
}

// NormalizeStatementRow maps a bank or pds statement line. Any balance column
// in the source is ignored and recomputed from credit and debit.
func NormalizeStatementRow(raw RawRow, posID, currency string) domain.StatementRow {
	row := domain.StatementRow{
		TxnDate:     raw.text(keysTxnDate...),
		ValueDate:   raw.text(keysValueDate...),
		PosID:       raw.text(keysPosID...),
		Description: raw.text(keysDescription...),
		Credit:      raw.text(keysCredit...),
		Debit:       raw.text(keysDebit...),
		Currency:    raw.text(keysCurrency...),
		Rate:        raw.text(keysRate...),
	}
	if row.PosID == "" {
		row.PosID = posID
	}
	if row.Currency == "" {
		row.Currency = currency
	}
	RecomputeStatementRow(&row)
	return row
}

func checkRowLimit(b *domain.PaymentBatch, adding int) error {
	if b.Len()+adding > domain.MaxBatchRows {
		return domain.NewValidationError("rows",
			fmt.Sprintf("batch would exceed %d rows; trim the file or clear first", domain.MaxBatchRows))
	}
	return nil
}

// ImportRows appends normalized rows to the batch. An import that would push
// the batch past MaxBatchRows leaves it untouched.
func ImportRows(b *domain.PaymentBatch, raws []RawRow, posID string) error {
	if !b.Method.IsValid() {
		return domain.NewValidationError("method", "choose a payment method first")
	}
	if err := checkRowLimit(b, len(raws)); err != nil {
		return err
	}
	if b.Method.UsesStatementRows() {
		rows := make([]domain.StatementRow, 0, len(raws))
		for _, raw := range raws {
			rows = append(rows, NormalizeStatementRow(raw, posID, b.Currency))
		}
		b.StatementRows = append(b.StatementRows, rows...)
		return nil
	}
	rows := make([]domain.CashRow, 0, len(raws))
	for _, raw := range raws {
		rows = append(rows, NormalizeCashRow(raw, b.Currency))
	}
	b.CashRows = append(b.CashRows, rows...)
	return nil
}

// AddBlankRows appends count empty rows for manual entry.
func AddBlankRows(b *domain.PaymentBatch, count int, posID string) error {
	if !b.Method.IsValid() {
		return domain.NewValidationError("method", "choose a payment method first")
	}
	if count <= 0 {
		return domain.NewValidationError("count", "must be positive")
	}
	if err := checkRowLimit(b, count); err != nil {
		return err
	}
	for i := 0; i < count; i++ {
		if b.Method.UsesStatementRows() {
			b.StatementRows = append(b.StatementRows, domain.StatementRow{PosID: posID, Currency: b.Currency})
		} else {
			b.CashRows = append(b.CashRows, domain.CashRow{Currency: b.Currency})
		}
	}
	return nil
}

// NormalizeLedgerRow maps a cashbook sheet row (Date, Details, Payment,
// Sale Amount) to a ledger transaction. A sale amount makes a payment
// (sales) entry; otherwise a payment amount makes a receipt. Rows with
// neither are skipped.
func NormalizeLedgerRow(raw RawRow) (domain.Transaction, bool) {
	tx := domain.Transaction{
		Date:        raw.text(keysDate...),
		Description: raw.text(keysDescription...),
	}
	if sale := ParseAmount(raw.text(keysSaleAmount...)); !sale.IsZero() {
		tx.Amount = sale
		tx.Type = domain.TransactionTypePayment
	} else if paid := ParseAmount(raw.text(keysPayment...)); !paid.IsZero() {
		tx.Amount = paid
		tx.Type = domain.TransactionTypeReceipt
	} else {
		return domain.Transaction{}, false
	}
	RecomputeTransaction(&tx)
	return tx, true
}
