package service_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"posrecon-backend/internal/domain"
	"posrecon-backend/internal/lock"
)

type MockTenantRepo struct {
	mock.Mock
}

func (m *MockTenantRepo) List(ctx context.Context) ([]domain.Tenant, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Tenant), args.Error(1)
}
func (m *MockTenantRepo) Create(ctx context.Context, t *domain.Tenant) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}
func (m *MockTenantRepo) AddPosID(ctx context.Context, tenantID int32, posID string) error {
	args := m.Called(ctx, tenantID, posID)
	return args.Error(0)
}
func (m *MockTenantRepo) Delete(ctx context.Context, tenantID int32) error {
	args := m.Called(ctx, tenantID)
	return args.Error(0)
}
func (m *MockTenantRepo) DeletePosID(ctx context.Context, tenantID int32, posID string) error {
	args := m.Called(ctx, tenantID, posID)
	return args.Error(0)
}
func (m *MockTenantRepo) FindByPosID(ctx context.Context, posID string) (*domain.Tenant, error) {
	args := m.Called(ctx, posID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tenant), args.Error(1)
}

type MockReportRepo struct {
	mock.Mock
}

func (m *MockReportRepo) Create(ctx context.Context, r *domain.Report) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}
func (m *MockReportRepo) List(ctx context.Context) ([]domain.ReportSummary, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.ReportSummary), args.Error(1)
}
func (m *MockReportRepo) GetByID(ctx context.Context, id int64) (*domain.Report, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}
func (m *MockReportRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockManagerRepo struct {
	mock.Mock
}

func (m *MockManagerRepo) Create(ctx context.Context, mgr *domain.AccountManager) error {
	args := m.Called(ctx, mgr)
	return args.Error(0)
}
func (m *MockManagerRepo) List(ctx context.Context) ([]domain.AccountManager, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.AccountManager), args.Error(1)
}
func (m *MockManagerRepo) GetByID(ctx context.Context, id int32) (*domain.AccountManager, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountManager), args.Error(1)
}
func (m *MockManagerRepo) GetByEmail(ctx context.Context, email string) (*domain.AccountManager, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountManager), args.Error(1)
}
func (m *MockManagerRepo) Update(ctx context.Context, mgr *domain.AccountManager) error {
	args := m.Called(ctx, mgr)
	return args.Error(0)
}
func (m *MockManagerRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockSubmitter struct {
	mock.Mock
}

func (m *MockSubmitter) Submit(ctx context.Context, req domain.SubmitRequest) (int64, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(int64), args.Error(1)
}

type MockLocker struct {
	mock.Mock
}

func (m *MockLocker) Acquire(ctx context.Context, key string) (lock.ReleaseFunc, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(lock.ReleaseFunc), args.Error(1)
}
