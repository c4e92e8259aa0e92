package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"posrecon-backend/internal/domain"
	"posrecon-backend/internal/lock"
	"posrecon-backend/internal/logger"
	"posrecon-backend/internal/metrics"
	"posrecon-backend/internal/repository"
	"posrecon-backend/internal/spreadsheet"
)

type reportService struct {
	reportRepo repository.ReportRepository
	locker     lock.Locker
	now        func() time.Time
}

func NewReportService(reportRepo repository.ReportRepository, locker lock.Locker) ReportService {
	return &reportService{
		reportRepo: reportRepo,
		locker:     locker,
		now:        time.Now,
	}
}

func validateSubmission(req domain.SubmitRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return domain.NewValidationError("name", "Missing agent name. Cannot save.")
	}
	if len(req.TableData) == 0 {
		return domain.NewValidationError("tableData", "No data to save. Add or upload rows first.")
	}
	if req.PaymentMethod == domain.PaymentMethodBank && req.Bank == "" {
		return domain.NewValidationError("bank", "Select a bank before saving.")
	}
	if !domain.UniformKeys(req.TableData) {
		return errMixedColumns
	}
	return nil
}

var errMixedColumns = domain.NewValidationError("tableData", "rows must have the same columns")

// Submit validates a finalized table and writes it to the report store.
// Validation runs before any external call. Only one submission per POS
// and source may be in flight at a time.
func (s *reportService) Submit(ctx context.Context, req domain.SubmitRequest) (int64, error) {
	logger.EnterMethod("reportService.Submit", "pos_id", req.PosID, "method", req.PaymentMethod, "rows", len(req.TableData))

	if err := validateSubmission(req); err != nil {
		metrics.SubmissionFailures.WithLabelValues("validation").Inc()
		logger.ExitMethodWithError("reportService.Submit", err)
		return 0, err
	}
	if req.Date == "" {
		req.Date = s.now().UTC().Format("2006-01-02")
	}
	if req.Source == "" {
		req.Source = domain.ReportSourcePayments
	}

	release, err := s.locker.Acquire(ctx, lock.SubmissionKey(req.PosID, req.Source))
	if err != nil {
		metrics.SubmissionFailures.WithLabelValues("in_flight").Inc()
		logger.ExitMethodWithError("reportService.Submit", err)
		return 0, err
	}
	defer release()

	rep := &domain.Report{
		Name:          strings.TrimSpace(req.Name),
		PosID:         req.PosID,
		Date:          req.Date,
		Source:        req.Source,
		PaymentMethod: req.PaymentMethod,
		Bank:          req.Bank,
		TableData:     req.TableData,
	}
	logger.ExternalServiceCall("report_store", "create", "pos_id", rep.PosID)
	err = s.reportRepo.Create(ctx, rep)
	logger.ExternalServiceResult("report_store", "create", err, "report_id", rep.ID)
	if err != nil {
		metrics.SubmissionFailures.WithLabelValues("store").Inc()
		return 0, &domain.StoreError{Op: "create", Err: err}
	}

	metrics.ReportsSubmitted.WithLabelValues(rep.Source, string(rep.PaymentMethod)).Inc()
	logger.ExitMethod("reportService.Submit", "report_id", rep.ID)
	return rep.ID, nil
}

// Upload stores a report exactly as posted. Unlike Submit it accepts any
// table, including an empty one.
func (s *reportService) Upload(ctx context.Context, req domain.SubmitRequest) (*domain.Report, error) {
	if req.Name == "" || req.PosID == "" || req.Date == "" || req.Source == "" {
		return nil, domain.NewValidationError("", "Missing required field: name, posId, date, or source")
	}
	if req.TableData == nil {
		req.TableData = []domain.TableRow{}
	}
	if !domain.UniformKeys(req.TableData) {
		return nil, errMixedColumns
	}
	rep := &domain.Report{
		Name:          req.Name,
		PosID:         req.PosID,
		Date:          req.Date,
		Source:        req.Source,
		PaymentMethod: req.PaymentMethod,
		Bank:          req.Bank,
		TableData:     req.TableData,
	}
	if err := s.reportRepo.Create(ctx, rep); err != nil {
		logger.Error("Failed to save uploaded report", "pos_id", req.PosID, "error", err)
		return nil, err
	}
	metrics.ReportsSubmitted.WithLabelValues(rep.Source, string(rep.PaymentMethod)).Inc()
	return rep, nil
}

func (s *reportService) ListReports(ctx context.Context) ([]domain.ReportSummary, error) {
	return s.reportRepo.List(ctx)
}

func (s *reportService) GetReport(ctx context.Context, id int64) (*domain.Report, error) {
	return s.reportRepo.GetByID(ctx, id)
}

func (s *reportService) DeleteReport(ctx context.Context, id int64) error {
	return s.reportRepo.Delete(ctx, id)
}

// ExportReport writes the report as an xlsx workbook to w.
func (s *reportService) ExportReport(ctx context.Context, id int64, w io.Writer) (*domain.Report, error) {
	rep, err := s.reportRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := spreadsheet.WriteReport(w, rep); err != nil {
		return nil, fmt.Errorf("failed to export report %d: %w", id, err)
	}
	return rep, nil
}
