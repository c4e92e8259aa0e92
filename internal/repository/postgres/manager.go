package postgres

import (
	"context"
	"database/sql"
	"time"

	"posrecon-backend/internal/domain"
	"posrecon-backend/internal/repository"
)

type managerRepository struct {
	db *sql.DB
}

func NewManagerRepository(db *sql.DB) repository.ManagerRepository {
	return &managerRepository{db: db}
}

func (r *managerRepository) Create(ctx context.Context, m *domain.AccountManager) error {
	if m.CreatedOn.IsZero() {
		m.CreatedOn = time.Now().UTC()
	}
	query := `INSERT INTO account_managers (name, email, password_hash, created_on) VALUES ($1, $2, $3, $4) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, m.Name, m.Email, m.PasswordHash, m.CreatedOn).Scan(&m.ID)
	return mapError(err)
}

func (r *managerRepository) List(ctx context.Context) ([]domain.AccountManager, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, email, created_on FROM account_managers ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	managers := []domain.AccountManager{}
	for rows.Next() {
		var m domain.AccountManager
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.CreatedOn); err != nil {
			return nil, err
		}
		managers = append(managers, m)
	}
	return managers, rows.Err()
}

func (r *managerRepository) GetByID(ctx context.Context, id int32) (*domain.AccountManager, error) {
	m := &domain.AccountManager{}
	query := `SELECT id, name, email, password_hash, created_on FROM account_managers WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&m.ID, &m.Name, &m.Email, &m.PasswordHash, &m.CreatedOn)
	if err != nil {
		return nil, mapError(err)
	}
	return m, nil
}

func (r *managerRepository) GetByEmail(ctx context.Context, email string) (*domain.AccountManager, error) {
	m := &domain.AccountManager{}
	query := `SELECT id, name, email, password_hash, created_on FROM account_managers WHERE email = $1`
	err := r.db.QueryRowContext(ctx, query, email).Scan(&m.ID, &m.Name, &m.Email, &m.PasswordHash, &m.CreatedOn)
	if err != nil {
		return nil, mapError(err)
	}
	return m, nil
}

func (r *managerRepository) Update(ctx context.Context, m *domain.AccountManager) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE account_managers SET name = $1, email = $2 WHERE id = $3`, m.Name, m.Email, m.ID)
	if err != nil {
		return mapError(err)
	}
	return requireAffected(res)
}

func (r *managerRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM account_managers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
