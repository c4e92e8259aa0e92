package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"posrecon-backend/internal/domain"
	"posrecon-backend/internal/logger"
	"posrecon-backend/internal/repository"
)

type Store struct {
	db *sql.DB
	repository.TenantRepository
	repository.ReportRepository
	repository.ManagerRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                db,
		TenantRepository:  NewTenantRepository(db),
		ReportRepository:  NewReportRepository(db),
		ManagerRepository: NewManagerRepository(db),
	}
}

func (s *Store) DB() *sql.DB { return s.db }

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS tenants (
		id         SERIAL PRIMARY KEY,
		name       TEXT NOT NULL,
		date_added TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS tenant_pos_ids (
		tenant_id INTEGER NOT NULL REFERENCES tenants(id) ON DELETE CASCADE,
		pos_id    TEXT NOT NULL,
		PRIMARY KEY (tenant_id, pos_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tenant_pos_ids_pos ON tenant_pos_ids(pos_id)`,
	`CREATE TABLE IF NOT EXISTS reports (
		id             BIGSERIAL PRIMARY KEY,
		name           TEXT NOT NULL,
		pos_id         TEXT NOT NULL,
		date           TEXT NOT NULL,
		source         TEXT NOT NULL,
		payment_method TEXT NOT NULL DEFAULT '',
		bank           TEXT NOT NULL DEFAULT '',
		table_data     JSONB NOT NULL,
		created_on     TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS account_managers (
		id            SERIAL PRIMARY KEY,
		name          TEXT NOT NULL,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_on    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// Migrate creates the schema if it does not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range migrations {
		logger.DatabaseCall("migrate", stmt)
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			logger.DatabaseResult("migrate", 0, err)
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// uniqueViolation is the postgres error code for a unique constraint.
const uniqueViolation = "23505"

// mapError translates driver errors into domain sentinels.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
		return fmt.Errorf("%w: %s", domain.ErrConflict, pqErr.Constraint)
	}
	return err
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
