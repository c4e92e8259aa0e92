package postgres

import (
	"context"
	"database/sql"
	"time"

	"posrecon-backend/internal/domain"
	"posrecon-backend/internal/logger"
	"posrecon-backend/internal/repository"
)

type tenantRepository struct {
	db *sql.DB
}

func NewTenantRepository(db *sql.DB) repository.TenantRepository {
	return &tenantRepository{db: db}
}

func (r *tenantRepository) List(ctx context.Context) ([]domain.Tenant, error) {
	query := `SELECT t.id, t.name, t.date_added, p.pos_id
	          FROM tenants t LEFT JOIN tenant_pos_ids p ON p.tenant_id = t.id
	          ORDER BY t.id, p.pos_id`
	logger.DatabaseCall("list_tenants", query)
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logger.DatabaseResult("list_tenants", 0, err)
		return nil, err
	}
	defer rows.Close()

	tenants := []domain.Tenant{}
	for rows.Next() {
		var t domain.Tenant
		var posID sql.NullString
		if err := rows.Scan(&t.ID, &t.Name, &t.DateAdded, &posID); err != nil {
			return nil, err
		}
		if n := len(tenants); n == 0 || tenants[n-1].ID != t.ID {
			t.PosIDs = []string{}
			tenants = append(tenants, t)
		}
		if posID.Valid {
			last := &tenants[len(tenants)-1]
			last.PosIDs = append(last.PosIDs, posID.String)
		}
	}
	logger.DatabaseResult("list_tenants", int64(len(tenants)), rows.Err())
	return tenants, rows.Err()
}

func (r *tenantRepository) Create(ctx context.Context, t *domain.Tenant) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if t.DateAdded.IsZero() {
		t.DateAdded = time.Now().UTC()
	}
	query := `INSERT INTO tenants (name, date_added) VALUES ($1, $2) RETURNING id`
	logger.DatabaseCall("create_tenant", query, "name", t.Name)
	if err := tx.QueryRowContext(ctx, query, t.Name, t.DateAdded).Scan(&t.ID); err != nil {
		logger.DatabaseResult("create_tenant", 0, err)
		return err
	}

	for _, posID := range t.PosIDs {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO tenant_pos_ids (tenant_id, pos_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			t.ID, posID)
		if err != nil {
			logger.DatabaseResult("create_tenant", 0, err, "pos_id", posID)
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	logger.DatabaseResult("create_tenant", 1, nil, "tenant_id", t.ID)
	return nil
}

func (r *tenantRepository) AddPosID(ctx context.Context, tenantID int32, posID string) error {
	var id int32
	err := r.db.QueryRowContext(ctx, `SELECT id FROM tenants WHERE id = $1`, tenantID).Scan(&id)
	if err != nil {
		return mapError(err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO tenant_pos_ids (tenant_id, pos_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		tenantID, posID)
	return err
}

func (r *tenantRepository) Delete(ctx context.Context, tenantID int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tenants WHERE id = $1`, tenantID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *tenantRepository) DeletePosID(ctx context.Context, tenantID int32, posID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM tenant_pos_ids WHERE tenant_id = $1 AND pos_id = $2`, tenantID, posID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *tenantRepository) FindByPosID(ctx context.Context, posID string) (*domain.Tenant, error) {
	t := &domain.Tenant{}
	query := `SELECT t.id, t.name, t.date_added FROM tenants t
	          JOIN tenant_pos_ids p ON p.tenant_id = t.id
	          WHERE p.pos_id = $1 ORDER BY t.id LIMIT 1`
	err := r.db.QueryRowContext(ctx, query, posID).Scan(&t.ID, &t.Name, &t.DateAdded)
	if err != nil {
		return nil, mapError(err)
	}

	rows, err := r.db.QueryContext(ctx, `SELECT pos_id FROM tenant_pos_ids WHERE tenant_id = $1 ORDER BY pos_id`, t.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		t.PosIDs = append(t.PosIDs, p)
	}
	return t, rows.Err()
}
