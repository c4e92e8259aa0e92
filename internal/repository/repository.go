package repository

import (
	"context"

	"posrecon-backend/internal/domain"
)

type TenantRepository interface {
	List(ctx context.Context) ([]domain.Tenant, error)
	// Create inserts the tenant and its POS IDs in one transaction.
	Create(ctx context.Context, tenant *domain.Tenant) error
	AddPosID(ctx context.Context, tenantID int32, posID string) error
	Delete(ctx context.Context, tenantID int32) error
	DeletePosID(ctx context.Context, tenantID int32, posID string) error
	FindByPosID(ctx context.Context, posID string) (*domain.Tenant, error)
}

type ReportRepository interface {
	Create(ctx context.Context, report *domain.Report) error
	List(ctx context.Context) ([]domain.ReportSummary, error)
	GetByID(ctx context.Context, id int64) (*domain.Report, error)
	Delete(ctx context.Context, id int64) error
}

type ManagerRepository interface {
	Create(ctx context.Context, m *domain.AccountManager) error
	List(ctx context.Context) ([]domain.AccountManager, error)
	GetByID(ctx context.Context, id int32) (*domain.AccountManager, error)
	GetByEmail(ctx context.Context, email string) (*domain.AccountManager, error)
	Update(ctx context.Context, m *domain.AccountManager) error
	Delete(ctx context.Context, id int32) error
}
