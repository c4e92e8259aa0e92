package http_test

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"posrecon-backend/internal/domain"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, *domain.AccountManager, error) {
	args := m.Called(ctx, email, password)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*domain.AccountManager), args.Error(2)
}
func (m *MockAuthService) EnsureBootstrapManager(ctx context.Context, name, email, password string) error {
	args := m.Called(ctx, name, email, password)
	return args.Error(0)
}

type MockManagerService struct {
	mock.Mock
}

func (m *MockManagerService) ListManagers(ctx context.Context) ([]domain.AccountManager, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.AccountManager), args.Error(1)
}
func (m *MockManagerService) RegisterManager(ctx context.Context, name, email, password string) (*domain.AccountManager, error) {
	args := m.Called(ctx, name, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountManager), args.Error(1)
}
func (m *MockManagerService) UpdateManager(ctx context.Context, id int32, name, email string) (*domain.AccountManager, error) {
	args := m.Called(ctx, id, name, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountManager), args.Error(1)
}
func (m *MockManagerService) DeleteManager(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockTenantService struct {
	mock.Mock
}

func (m *MockTenantService) ListTenants(ctx context.Context) ([]domain.Tenant, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Tenant), args.Error(1)
}
func (m *MockTenantService) CreateTenant(ctx context.Context, name string, posIDs []string) (*domain.Tenant, error) {
	args := m.Called(ctx, name, posIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tenant), args.Error(1)
}
func (m *MockTenantService) AddPosID(ctx context.Context, tenantID int32, posID string) error {
	args := m.Called(ctx, tenantID, posID)
	return args.Error(0)
}
func (m *MockTenantService) DeleteTenant(ctx context.Context, tenantID int32) error {
	args := m.Called(ctx, tenantID)
	return args.Error(0)
}
func (m *MockTenantService) DeletePosID(ctx context.Context, tenantID int32, posID string) error {
	args := m.Called(ctx, tenantID, posID)
	return args.Error(0)
}
func (m *MockTenantService) FindByPosID(ctx context.Context, posID string) (*domain.Tenant, error) {
	args := m.Called(ctx, posID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tenant), args.Error(1)
}

type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Submit(ctx context.Context, req domain.SubmitRequest) (int64, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockReportService) Upload(ctx context.Context, req domain.SubmitRequest) (*domain.Report, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}
func (m *MockReportService) ListReports(ctx context.Context) ([]domain.ReportSummary, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.ReportSummary), args.Error(1)
}
func (m *MockReportService) GetReport(ctx context.Context, id int64) (*domain.Report, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}
func (m *MockReportService) DeleteReport(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockReportService) ExportReport(ctx context.Context, id int64, w io.Writer) (*domain.Report, error) {
	args := m.Called(ctx, id, w)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}
