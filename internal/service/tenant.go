package service

import (
	"context"
	"strings"

	"posrecon-backend/internal/domain"
	"posrecon-backend/internal/logger"
	"posrecon-backend/internal/repository"
)

type tenantService struct {
	tenantRepo repository.TenantRepository
}

func NewTenantService(tenantRepo repository.TenantRepository) TenantService {
	return &tenantService{tenantRepo: tenantRepo}
}

func (s *tenantService) ListTenants(ctx context.Context) ([]domain.Tenant, error) {
	return s.tenantRepo.List(ctx)
}

// cleanPosIDs trims ids, drops blanks and keeps the first of any duplicates.
func cleanPosIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func (s *tenantService) CreateTenant(ctx context.Context, name string, posIDs []string) (*domain.Tenant, error) {
	name = strings.TrimSpace(name)
	ids := cleanPosIDs(posIDs)
	if name == "" || len(ids) == 0 {
		return nil, domain.NewValidationError("", "name and non-empty posIds array required")
	}

	t := &domain.Tenant{Name: name, PosIDs: ids}
	if err := s.tenantRepo.Create(ctx, t); err != nil {
		logger.Error("Failed to create tenant", "name", name, "error", err)
		return nil, err
	}
	logger.Info("Tenant created", "tenant_id", t.ID, "pos_ids", len(ids))
	return t, nil
}

func (s *tenantService) AddPosID(ctx context.Context, tenantID int32, posID string) error {
	posID = strings.TrimSpace(posID)
	if posID == "" {
		return domain.NewValidationError("posId", "posId required")
	}
	return s.tenantRepo.AddPosID(ctx, tenantID, posID)
}

func (s *tenantService) DeleteTenant(ctx context.Context, tenantID int32) error {
	return s.tenantRepo.Delete(ctx, tenantID)
}

func (s *tenantService) DeletePosID(ctx context.Context, tenantID int32, posID string) error {
	return s.tenantRepo.DeletePosID(ctx, tenantID, strings.TrimSpace(posID))
}

func (s *tenantService) FindByPosID(ctx context.Context, posID string) (*domain.Tenant, error) {
	return s.tenantRepo.FindByPosID(ctx, strings.TrimSpace(posID))
}
