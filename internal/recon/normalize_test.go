package recon

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"posrecon-backend/internal/domain"
)

func TestNormalizeKey(t *testing.T) {
	for _, name := range []string{"Sale Amount", "sale_amount", "SALE AMOUNT", " Sale\tAmount ", "sale/amount"} {
		assert.Equal(t, "saleamount", NormalizeKey(name), name)
	}
}

func TestRawRow_Lookup(t *testing.T) {
	t.Run("First matching column wins", func(t *testing.T) {
		raw := RawRow{
			{Column: "Amount", Value: "10"},
			{Column: "Sale Amount", Value: "20"},
		}
		v, ok := raw.Lookup(keysAmount...)
		assert.True(t, ok)
		assert.Equal(t, "10", v)
	})

	t.Run("Sale amount spellings map to amount", func(t *testing.T) {
		for _, col := range []string{"Sale Amount", "sale_amount", "SALE AMOUNT"} {
			row := NormalizeCashRow(RawRow{{Column: col, Value: 42.5}}, "USD")
			assert.Equal(t, "42.5", row.Amount, col)
		}
	})
}

func TestCellText(t *testing.T) {
	assert.Equal(t, "2024-03-05", CellText(time.Date(2024, 3, 5, 13, 0, 0, 0, time.UTC)))
	assert.Equal(t, "12.5", CellText(12.5))
	assert.Equal(t, "7", CellText(7))
	assert.Equal(t, "", CellText(nil))
	assert.Equal(t, "abc", CellText("  abc "))
}

func TestNormalizeCashRow(t *testing.T) {
	raw := RawRow{
		{Column: "Date", Value: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{Column: "Amount", Value: "20"},
		{Column: "Reference", Value: "ignored"},
	}
	row := NormalizeCashRow(raw, "ZWG")
	assert.Equal(t, domain.CashRow{Date: "2024-01-01", Amount: "20", Currency: "ZWG", Converted: row.Converted}, row)
	assert.True(t, row.Converted.IsZero())
}

func TestNormalizeStatementRow(t *testing.T) {
	t.Run("Defaults POS ID and currency", func(t *testing.T) {
		raw := RawRow{
			{Column: "Txn Date", Value: "2024-01-02"},
			{Column: "Value_Date", Value: "2024-01-03"},
			{Column: "Description", Value: "Deposit"},
			{Column: "Credit", Value: "50"},
			{Column: "Debit", Value: ""},
		}
		row := NormalizeStatementRow(raw, "POS-9", "USD")
		assert.Equal(t, "2024-01-02", row.TxnDate)
		assert.Equal(t, "2024-01-03", row.ValueDate)
		assert.Equal(t, "POS-9", row.PosID)
		assert.Equal(t, "USD", row.Currency)
		assertDecimal(t, "50", row.Balance)
	})

	t.Run("Supplied balance is overridden", func(t *testing.T) {
		raw := RawRow{
			{Column: "POS ID", Value: "POS-1"},
			{Column: "Currency", Value: "ZWG"},
			{Column: "Credit", Value: "100"},
			{Column: "Debit", Value: "30"},
			{Column: "Balance", Value: "5000"},
		}
		row := NormalizeStatementRow(raw, "POS-9", "USD")
		assert.Equal(t, "POS-1", row.PosID)
		assert.Equal(t, "ZWG", row.Currency)
		assertDecimal(t, "70", row.Balance)
	})
}

func rawRows(n int) []RawRow {
	rows := make([]RawRow, n)
	for i := range rows {
		rows[i] = RawRow{{Column: "amount", Value: "1"}}
	}
	return rows
}

func TestImportRows(t *testing.T) {
	t.Run("Appends normalized rows", func(t *testing.T) {
		b := &domain.PaymentBatch{Method: domain.PaymentMethodCash, Currency: "USD"}
		require.NoError(t, ImportRows(b, rawRows(3), "POS-1"))
		require.NoError(t, ImportRows(b, rawRows(2), "POS-1"))
		assert.Len(t, b.CashRows, 5)
		assert.Empty(t, b.StatementRows)
	})

	t.Run("Statement methods use statement rows", func(t *testing.T) {
		b := &domain.PaymentBatch{Method: domain.PaymentMethodPDS, Currency: "USD"}
		require.NoError(t, ImportRows(b, rawRows(2), "POS-1"))
		assert.Len(t, b.StatementRows, 2)
		assert.Equal(t, "POS-1", b.StatementRows[0].PosID)
	})

	t.Run("Exceeding the row limit is a no-op", func(t *testing.T) {
		b := &domain.PaymentBatch{Method: domain.PaymentMethodEcocash, Currency: "USD"}
		require.NoError(t, ImportRows(b, rawRows(90), "POS-1"))

		err := ImportRows(b, rawRows(11), "POS-1")
		assert.True(t, domain.IsValidationError(err))
		assert.Len(t, b.CashRows, 90)

		require.NoError(t, ImportRows(b, rawRows(10), "POS-1"))
		assert.Len(t, b.CashRows, 100)
	})

	t.Run("Requires a method", func(t *testing.T) {
		b := &domain.PaymentBatch{}
		assert.True(t, domain.IsValidationError(ImportRows(b, rawRows(1), "POS-1")))
	})
}

func TestAddBlankRows(t *testing.T) {
	b := &domain.PaymentBatch{Method: domain.PaymentMethodBank, Currency: "ZWG"}
	require.NoError(t, AddBlankRows(b, 5, "POS-2"))
	assert.Len(t, b.StatementRows, 5)
	assert.Equal(t, "ZWG", b.StatementRows[4].Currency)
	assert.Equal(t, "POS-2", b.StatementRows[4].PosID)

	assert.True(t, domain.IsValidationError(AddBlankRows(b, 96, "POS-2")))
	assert.True(t, domain.IsValidationError(AddBlankRows(b, 0, "POS-2")))
	assert.Len(t, b.StatementRows, 5)
}

func TestNormalizeLedgerRow(t *testing.T) {
	t.Run("Sale amount becomes a payment", func(t *testing.T) {
		tx, ok := NormalizeLedgerRow(RawRow{
			{Column: "Date", Value: "2024-02-01"},
			{Column: "Details", Value: "Counter sale"},
			{Column: "Sale Amount", Value: "150"},
		})
		require.True(t, ok)
		assert.Equal(t, domain.TransactionTypePayment, tx.Type)
		assert.Equal(t, "Counter sale", tx.Description)
		assertDecimal(t, "150", tx.Amount)
	})

	t.Run("Payment becomes a receipt", func(t *testing.T) {
		tx, ok := NormalizeLedgerRow(RawRow{
			{Column: "Date", Value: "2024-02-01"},
			{Column: "Payment", Value: "75.5"},
		})
		require.True(t, ok)
		assert.Equal(t, domain.TransactionTypeReceipt, tx.Type)
		assertDecimal(t, "75.5", tx.Amount)
	})

	t.Run("Row without amounts is skipped", func(t *testing.T) {
		_, ok := NormalizeLedgerRow(RawRow{{Column: "Details", Value: "note"}})
		assert.False(t, ok)
	})
}
