package recon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"posrecon-backend/internal/domain"
)

func strp(s string) *string { return &s }

func TestStartDraft(t *testing.T) {
	d := &domain.Draft{PaymentBatch: domain.PaymentBatch{Currency: domain.CurrencyZWG}, Step: domain.DraftStepChoose}

	require.NoError(t, StartDraft(d, domain.PaymentMethodBank))
	assert.Equal(t, domain.DraftStepForm, d.Step)
	assert.Equal(t, domain.CurrencyZWG, d.Currency)
	firstID := d.ID
	assert.NotEmpty(t, firstID)

	require.NoError(t, SetBank(&d.PaymentBatch, "Steward Bank"))
	require.NoError(t, AddBlankRows(&d.PaymentBatch, 5, "POS-1"))

	t.Run("Same method keeps rows", func(t *testing.T) {
		require.NoError(t, StartDraft(d, domain.PaymentMethodBank))
		assert.Equal(t, firstID, d.ID)
		assert.Equal(t, 5, d.Len())
	})

	t.Run("Switching method clears rows and bank", func(t *testing.T) {
		require.NoError(t, StartDraft(d, domain.PaymentMethodCash))
		assert.NotEqual(t, firstID, d.ID)
		assert.Equal(t, 0, d.Len())
		assert.Empty(t, d.Bank)
	})

	t.Run("Unknown method", func(t *testing.T) {
		err := StartDraft(d, domain.PaymentMethodSummary)
		assert.True(t, domain.IsValidationError(err))
	})
}

func TestSetCurrencyFillsEmptyRows(t *testing.T) {
	b := &domain.PaymentBatch{Method: domain.PaymentMethodCash, Currency: domain.CurrencyUSD}
	b.CashRows = []domain.CashRow{{Currency: ""}, {Currency: domain.CurrencyUSD}}

	require.NoError(t, SetCurrency(b, domain.CurrencyZWG))
	assert.Equal(t, domain.CurrencyZWG, b.CashRows[0].Currency)
	assert.Equal(t, domain.CurrencyUSD, b.CashRows[1].Currency)

	assert.True(t, domain.IsValidationError(SetCurrency(b, "EUR")))
}

func TestSetBankRequiresBankMethod(t *testing.T) {
	b := &domain.PaymentBatch{Method: domain.PaymentMethodCash}
	assert.True(t, domain.IsValidationError(SetBank(b, "Steward Bank")))

	b.Method = domain.PaymentMethodBank
	assert.True(t, domain.IsValidationError(SetBank(b, "Unknown Bank")))
	assert.NoError(t, SetBank(b, "Steward Bank"))
}

func TestUpdateAndRemoveRow(t *testing.T) {
	t.Run("Statement row recomputes balance and converted", func(t *testing.T) {
		b := &domain.PaymentBatch{Method: domain.PaymentMethodPDS, Currency: domain.CurrencyUSD}
		require.NoError(t, AddBlankRows(b, 1, "POS-1"))

		require.NoError(t, UpdateRow(b, 0, RowPatch{Date: strp("2024-01-01"), Credit: strp("50"), Debit: strp("20"), Rate: strp("2")}))
		r := b.StatementRows[0]
		assert.Equal(t, "2024-01-01", r.TxnDate)
		assertDecimal(t, "30", r.Balance)
		assertDecimal(t, "100", r.Converted)
	})

	t.Run("Cash row", func(t *testing.T) {
		b := &domain.PaymentBatch{Method: domain.PaymentMethodEcocash, Currency: domain.CurrencyUSD}
		require.NoError(t, AddBlankRows(b, 2, "POS-1"))

		require.NoError(t, UpdateRow(b, 1, RowPatch{Amount: strp("12.5"), Rate: strp("2"), Credit: strp("99")}))
		assertDecimal(t, "25", b.CashRows[1].Converted)

		require.NoError(t, RemoveRow(b, 0))
		require.Len(t, b.CashRows, 1)
		assert.Equal(t, "12.5", b.CashRows[0].Amount)
	})

	t.Run("Out of range", func(t *testing.T) {
		b := &domain.PaymentBatch{Method: domain.PaymentMethodCash}
		assert.ErrorIs(t, UpdateRow(b, 0, RowPatch{}), domain.ErrNotFound)
		assert.ErrorIs(t, RemoveRow(b, -1), domain.ErrNotFound)
	})
}

func TestIsAddRowCount(t *testing.T) {
	for _, n := range []int{1, 5, 10, 20, 100} {
		assert.True(t, IsAddRowCount(n))
	}
	assert.False(t, IsAddRowCount(3))
}
