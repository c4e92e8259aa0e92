package service

import (
	"context"
	"io"

	"posrecon-backend/internal/domain"
	"posrecon-backend/internal/recon"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *domain.AccountManager, error)
	// EnsureBootstrapManager creates the first account manager when none exist.
	EnsureBootstrapManager(ctx context.Context, name, email, password string) error
}

type ManagerService interface {
	ListManagers(ctx context.Context) ([]domain.AccountManager, error)
	RegisterManager(ctx context.Context, name, email, password string) (*domain.AccountManager, error)
	UpdateManager(ctx context.Context, id int32, name, email string) (*domain.AccountManager, error)
	DeleteManager(ctx context.Context, id int32) error
}

type TenantService interface {
	ListTenants(ctx context.Context) ([]domain.Tenant, error)
	CreateTenant(ctx context.Context, name string, posIDs []string) (*domain.Tenant, error)
	AddPosID(ctx context.Context, tenantID int32, posID string) error
	DeleteTenant(ctx context.Context, tenantID int32) error
	DeletePosID(ctx context.Context, tenantID int32, posID string) error
	FindByPosID(ctx context.Context, posID string) (*domain.Tenant, error)
}

// ReportSubmitter is the boundary between a workspace and the report store.
type ReportSubmitter interface {
	Submit(ctx context.Context, req domain.SubmitRequest) (int64, error)
}

type ReportService interface {
	ReportSubmitter
	Upload(ctx context.Context, req domain.SubmitRequest) (*domain.Report, error)
	ListReports(ctx context.Context) ([]domain.ReportSummary, error)
	GetReport(ctx context.Context, id int64) (*domain.Report, error)
	DeleteReport(ctx context.Context, id int64) error
	ExportReport(ctx context.Context, id int64, w io.Writer) (*domain.Report, error)
}

// DraftOptions changes draft settings. Nil fields are left unchanged.
type DraftOptions struct {
	Currency *string `json:"currency"`
	Bank     *string `json:"bank"`
}

type ReconciliationService interface {
	GetWorkspace(ctx context.Context, posID string) (*domain.Workspace, error)
	SetAgentName(ctx context.Context, posID, name string) (*domain.Workspace, error)

	StartDraft(ctx context.Context, posID string, method domain.PaymentMethod) (*domain.Draft, error)
	SetDraftOptions(ctx context.Context, posID string, opts DraftOptions) (*domain.Draft, error)
	AddRows(ctx context.Context, posID string, count int) (*domain.Draft, error)
	ImportRows(ctx context.Context, posID, filename string, r io.Reader) (*domain.Draft, error)
	UpdateRow(ctx context.Context, posID string, index int, patch recon.RowPatch) (*domain.Draft, error)
	RemoveRow(ctx context.Context, posID string, index int) (*domain.Draft, error)
	ClearDraft(ctx context.Context, posID string) (*domain.Draft, error)
	SubmitDraft(ctx context.Context, posID string) (int64, error)

	GetSummary(ctx context.Context, posID string) (domain.Summary, error)
	SubmitSummary(ctx context.Context, posID string) (int64, error)
	ClearBatches(ctx context.Context, posID string) error

	AddTransaction(ctx context.Context, posID string, in recon.TransactionInput) (domain.Transaction, error)
	UpdateTransaction(ctx context.Context, posID, id string, patch recon.TransactionPatch) (domain.Transaction, error)
	ImportLedger(ctx context.Context, posID, filename string, r io.Reader) (int, error)
	RemoveTransaction(ctx context.Context, posID, id string) error
	ToggleReconcileMode(ctx context.Context, posID string) (domain.MatchView, error)
	ToggleSelection(ctx context.Context, posID, id string) (domain.MatchView, error)
	GetMatchView(ctx context.Context, posID string) (domain.MatchView, error)
	Commit(ctx context.Context, posID string) (*domain.ReconciliationSession, error)

	SeedCashbook(ctx context.Context, posID string) ([]domain.CashbookRow, error)
	UpdateCashbookRow(ctx context.Context, posID, date string, patch recon.CashbookPatch) (domain.CashbookRow, error)
	SubmitCashbook(ctx context.Context, posID string) (int64, error)

	// PruneWorkspaces removes workspaces idle for longer than the retention window.
	PruneWorkspaces(ctx context.Context) (int64, error)
}
