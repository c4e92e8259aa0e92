package service

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"posrecon-backend/internal/domain"
	"posrecon-backend/internal/repository"
)

type managerService struct {
	managerRepo repository.ManagerRepository
}

func NewManagerService(managerRepo repository.ManagerRepository) ManagerService {
	return &managerService{managerRepo: managerRepo}
}

func (s *managerService) ListManagers(ctx context.Context) ([]domain.AccountManager, error) {
	return s.managerRepo.List(ctx)
}

func (s *managerService) RegisterManager(ctx context.Context, name, email, password string) (*domain.AccountManager, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(strings.ToLower(email))
	if name == "" || email == "" || password == "" {
		return nil, domain.NewValidationError("", "name, email and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	m := &domain.AccountManager{Name: name, Email: email, PasswordHash: string(hash)}
	if err := s.managerRepo.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *managerService) UpdateManager(ctx context.Context, id int32, name, email string) (*domain.AccountManager, error) {
	m, err := s.managerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if name = strings.TrimSpace(name); name != "" {
		m.Name = name
	}
	if email = strings.TrimSpace(strings.ToLower(email)); email != "" {
		m.Email = email
	}
	if err := s.managerRepo.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *managerService) DeleteManager(ctx context.Context, id int32) error {
	return s.managerRepo.Delete(ctx, id)
}
