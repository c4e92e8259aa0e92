package service

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"posrecon-backend/internal/domain"
	"posrecon-backend/internal/logger"
	"posrecon-backend/internal/repository"
	"posrecon-backend/internal/security"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type authService struct {
	managerRepo repository.ManagerRepository
	tokens      security.TokenManager
}

func NewAuthService(managerRepo repository.ManagerRepository, tokens security.TokenManager) AuthService {
	return &authService{
		managerRepo: managerRepo,
		tokens:      tokens,
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *domain.AccountManager, error) {
	logger.EnterMethod("authService.Login", "email", email)

	m, err := s.managerRepo.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			logger.ExitMethodWithError("authService.Login", ErrInvalidCredentials)
			return "", nil, ErrInvalidCredentials
		}
		logger.ExitMethodWithError("authService.Login", err)
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(m.PasswordHash), []byte(password)); err != nil {
		logger.ExitMethodWithError("authService.Login", ErrInvalidCredentials, "manager_id", m.ID)
		return "", nil, ErrInvalidCredentials
	}

	token, _, err := s.tokens.GenerateAccessToken(m.ID, m.Email)
	if err != nil {
		return "", nil, err
	}
	logger.ExitMethod("authService.Login", "manager_id", m.ID)
	return token, m, nil
}

func (s *authService) EnsureBootstrapManager(ctx context.Context, name, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	existing, err := s.managerRepo.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	m := &domain.AccountManager{
		Name:         name,
		Email:        strings.TrimSpace(strings.ToLower(email)),
		PasswordHash: string(hash),
	}
	if err := s.managerRepo.Create(ctx, m); err != nil && !errors.Is(err, domain.ErrConflict) {
		return err
	}
	logger.Info("Bootstrap account manager created", "email", m.Email)
	return nil
}
