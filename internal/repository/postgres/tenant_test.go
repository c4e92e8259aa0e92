package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"posrecon-backend/internal/domain"
	"posrecon-backend/internal/repository/postgres"
)

func TestTenantRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := postgres.NewTenantRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		tenant := &domain.Tenant{Name: "Acme Agencies", PosIDs: []string{"POS-1", "POS-2"}}

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO tenants").
			WithArgs(tenant.Name, sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
		mock.ExpectExec("INSERT INTO tenant_pos_ids").
			WithArgs(int32(7), "POS-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO tenant_pos_ids").
			WithArgs(int32(7), "POS-2").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, repo.Create(ctx, tenant))
		assert.Equal(t, int32(7), tenant.ID)
		assert.False(t, tenant.DateAdded.IsZero())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Rolls back on POS ID failure", func(t *testing.T) {
		tenant := &domain.Tenant{Name: "Broken", PosIDs: []string{"POS-9"}}

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO tenants").
			WithArgs(tenant.Name, sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(8))
		mock.ExpectExec("INSERT INTO tenant_pos_ids").
			WithArgs(int32(8), "POS-9").
			WillReturnError(errors.New("disk full"))
		mock.ExpectRollback()

		assert.Error(t, repo.Create(ctx, tenant))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTenantRepository_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	added := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT t.id, t.name, t.date_added, p.pos_id").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "date_added", "pos_id"}).
			AddRow(1, "Acme", added, "POS-1").
			AddRow(1, "Acme", added, "POS-2").
			AddRow(2, "Empty", added, nil))

	tenants, err := postgres.NewTenantRepository(db).List(context.Background())
	require.NoError(t, err)
	require.Len(t, tenants, 2)
	assert.Equal(t, []string{"POS-1", "POS-2"}, tenants[0].PosIDs)
	assert.Equal(t, "Empty", tenants[1].Name)
	assert.Equal(t, []string{}, tenants[1].PosIDs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTenantRepository_AddPosID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := postgres.NewTenantRepository(db)
	ctx := context.Background()

	t.Run("Unknown tenant", func(t *testing.T) {
		mock.ExpectQuery("SELECT id FROM tenants").
			WithArgs(int32(99)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		err := repo.AddPosID(ctx, 99, "POS-1")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery("SELECT id FROM tenants").
			WithArgs(int32(1)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectExec("INSERT INTO tenant_pos_ids").
			WithArgs(int32(1), "POS-3").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.AddPosID(ctx, 1, "POS-3"))
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTenantRepository_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := postgres.NewTenantRepository(db)
	ctx := context.Background()

	mock.ExpectExec("DELETE FROM tenants").WithArgs(int32(1)).WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.Delete(ctx, 1))

	mock.ExpectExec("DELETE FROM tenants").WithArgs(int32(2)).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(ctx, 2), domain.ErrNotFound)

	mock.ExpectExec("DELETE FROM tenant_pos_ids").WithArgs(int32(1), "POS-X").WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.DeletePosID(ctx, 1, "POS-X"), domain.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTenantRepository_FindByPosID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	added := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT t.id, t.name, t.date_added FROM tenants").
		WithArgs("POS-2").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "date_added"}).AddRow(1, "Acme", added))
	mock.ExpectQuery("SELECT pos_id FROM tenant_pos_ids").
		WithArgs(int32(1)).
		WillReturnRows(sqlmock.NewRows([]string{"pos_id"}).AddRow("POS-1").AddRow("POS-2"))

	tenant, err := postgres.NewTenantRepository(db).FindByPosID(context.Background(), "POS-2")
	require.NoError(t, err)
	assert.Equal(t, "Acme", tenant.Name)
	assert.Equal(t, []string{"POS-1", "POS-2"}, tenant.PosIDs)
	assert.NoError(t, mock.ExpectationsWereMet())
}
