package workspace_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"posrecon-backend/internal/domain"
	"posrecon-backend/internal/workspace"
)

func sampleWorkspace(posID string, at time.Time) *domain.Workspace {
	ws := domain.NewWorkspace(posID)
	ws.AgentName = "Agent A"
	ws.Draft.Method = domain.PaymentMethodCash
	ws.Draft.Step = domain.DraftStepForm
	ws.Draft.CashRows = []domain.CashRow{{
		Date: "2024-01-01", Amount: "12.50", Currency: domain.CurrencyUSD, Rate: "1",
		Converted: decimal.RequireFromString("12.5"),
	}}
	ws.Ledger.Transactions = []domain.Transaction{{
		ID: "t1", Date: "2024-01-01", Description: "float", Amount: decimal.NewFromInt(40),
		Type: domain.TransactionTypeReceipt,
	}}
	ws.UpdatedAt = at
	return ws
}

func runStoreSuite(t *testing.T, store workspace.Store) {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	t.Run("Load unknown returns fresh workspace", func(t *testing.T) {
		ws, err := store.Load(ctx, "POS-NEW")
		require.NoError(t, err)
		assert.Equal(t, "POS-NEW", ws.PosID)
		assert.Equal(t, domain.CurrencyUSD, ws.Draft.Currency)
		assert.Equal(t, domain.DraftStepChoose, ws.Draft.Step)
		assert.Equal(t, domain.LedgerModeUnreconciled, ws.Ledger.Mode)
	})

	t.Run("Save then Load round trips", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, sampleWorkspace("POS-1", now)))

		ws, err := store.Load(ctx, "POS-1")
		require.NoError(t, err)
		assert.Equal(t, "Agent A", ws.AgentName)
		assert.Equal(t, domain.PaymentMethodCash, ws.Draft.Method)
		require.Len(t, ws.Draft.CashRows, 1)
		assert.True(t, ws.Draft.CashRows[0].Converted.Equal(decimal.RequireFromString("12.5")))
		require.Len(t, ws.Ledger.Transactions, 1)
		assert.Equal(t, "t1", ws.Ledger.Transactions[0].ID)
	})

	t.Run("Loaded copies are independent", func(t *testing.T) {
		a, err := store.Load(ctx, "POS-1")
		require.NoError(t, err)
		a.AgentName = "changed"

		b, err := store.Load(ctx, "POS-1")
		require.NoError(t, err)
		assert.Equal(t, "Agent A", b.AgentName)
	})

	t.Run("Prune drops stale workspaces", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, sampleWorkspace("POS-OLD", now.Add(-48*time.Hour))))

		n, err := store.PruneOlderThan(ctx, now.Add(-24*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		ws, err := store.Load(ctx, "POS-OLD")
		require.NoError(t, err)
		assert.Empty(t, ws.AgentName)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "POS-1"))
		ws, err := store.Load(ctx, "POS-1")
		require.NoError(t, err)
		assert.Empty(t, ws.Draft.CashRows)
	})
}

func TestMemoryStore(t *testing.T) {
	runStoreSuite(t, workspace.NewMemoryStore())
}

func TestSQLiteStore(t *testing.T) {
	store, closeFn, err := workspace.OpenSQLite(filepath.Join(t.TempDir(), "nested", "workspaces.db"))
	require.NoError(t, err)
	defer closeFn()

	runStoreSuite(t, store)
}

func TestOpen(t *testing.T) {
	store, closeFn, err := workspace.Open("memory", "")
	require.NoError(t, err)
	assert.NotNil(t, store)
	assert.NoError(t, closeFn())

	store, closeFn, err = workspace.Open("sqlite", filepath.Join(t.TempDir(), "ws.db"))
	require.NoError(t, err)
	assert.NotNil(t, store)
	assert.NoError(t, closeFn())

	_, _, err = workspace.Open("bolt", "")
	assert.Error(t, err)
}
