package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"posrecon-backend/internal/domain"
	"posrecon-backend/internal/repository/postgres"
)

func TestReportRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rep := &domain.Report{
		Name:          "Agent A",
		PosID:         "POS-1",
		Date:          "2024-01-03",
		Source:        domain.ReportSourcePayments,
		PaymentMethod: domain.PaymentMethodSummary,
		TableData:     []domain.TableRow{{"date": "2024-01-01", "total": 70.0}},
	}

	mock.ExpectQuery("INSERT INTO reports").
		WithArgs("Agent A", "POS-1", "2024-01-03", "payments", "summary", "",
			[]byte(`[{"date":"2024-01-01","total":70}]`), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))

	require.NoError(t, postgres.NewReportRepository(db).Create(context.Background(), rep))
	assert.Equal(t, int64(11), rep.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := postgres.NewReportRepository(db)
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		created := time.Date(2024, 1, 3, 8, 0, 0, 0, time.UTC)
		mock.ExpectQuery("SELECT id, name, pos_id, date, source, payment_method, bank, table_data, created_on").
			WithArgs(int64(11)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "pos_id", "date", "source", "payment_method", "bank", "table_data", "created_on"}).
				AddRow(11, "Agent A", "POS-1", "2024-01-03", "payments", "bank", "Steward Bank",
					[]byte(`[{"date":"2024-01-01","amount":5}]`), created))

		rep, err := repo.GetByID(ctx, 11)
		require.NoError(t, err)
		assert.Equal(t, domain.PaymentMethodBank, rep.PaymentMethod)
		assert.Equal(t, "Steward Bank", rep.Bank)
		require.Len(t, rep.TableData, 1)
		assert.Equal(t, 5.0, rep.TableData[0]["amount"])
	})

	t.Run("Missing", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, name, pos_id").
			WithArgs(int64(12)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.GetByID(ctx, 12)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepository_ListAndDelete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := postgres.NewReportRepository(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT id, name, pos_id, date, source FROM reports ORDER BY date DESC").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "pos_id", "date", "source"}).
			AddRow(2, "B", "POS-2", "2024-02-01", "payments").
			AddRow(1, "A", "POS-1", "2024-01-01", "cashbook"))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(2), list[0].ID)

	mock.ExpectExec("DELETE FROM reports").WithArgs(int64(3)).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(ctx, 3), domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestManagerRepository(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := postgres.NewManagerRepository(db)
	ctx := context.Background()

	t.Run("Duplicate email is a conflict", func(t *testing.T) {
		m := &domain.AccountManager{Name: "M", Email: "m@example.com", PasswordHash: "h"}
		mock.ExpectQuery("INSERT INTO account_managers").
			WithArgs(m.Name, m.Email, m.PasswordHash, sqlmock.AnyArg()).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "account_managers_email_key"})

		assert.ErrorIs(t, repo.Create(ctx, m), domain.ErrConflict)
	})

	t.Run("Unknown email", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, name, email, password_hash, created_on FROM account_managers WHERE email").
			WithArgs("x@example.com").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "created_on"}))

		_, err := repo.GetByEmail(ctx, "x@example.com")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Update", func(t *testing.T) {
		m := &domain.AccountManager{ID: 3, Name: "New", Email: "n@example.com"}
		mock.ExpectExec("UPDATE account_managers SET").
			WithArgs(m.Name, m.Email, m.ID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Update(ctx, m))
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}
