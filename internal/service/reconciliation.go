package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"posrecon-backend/internal/domain"
	"posrecon-backend/internal/lock"
	"posrecon-backend/internal/logger"
	"posrecon-backend/internal/metrics"
	"posrecon-backend/internal/recon"
	"posrecon-backend/internal/spreadsheet"
	"posrecon-backend/internal/workspace"
)

type reconciliationService struct {
	store     workspace.Store
	submitter ReportSubmitter
	retention time.Duration
	now       func() time.Time

	// posID -> *sync.Mutex; one writer per POS.
	locks sync.Map
	// submission key -> struct{}; set while a report store call is running.
	inflight sync.Map
}

func NewReconciliationService(store workspace.Store, submitter ReportSubmitter, retention time.Duration) ReconciliationService {
	return &reconciliationService{
		store:     store,
		submitter: submitter,
		retention: retention,
		now:       time.Now,
	}
}

func (s *reconciliationService) posLock(posID string) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(posID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

func (s *reconciliationService) load(ctx context.Context, posID string) (*domain.Workspace, error) {
	if strings.TrimSpace(posID) == "" {
		return nil, domain.NewValidationError("posId", "posId required")
	}
	ws, err := s.store.Load(ctx, posID)
	if err != nil {
		return nil, fmt.Errorf("failed to load workspace: %w", err)
	}
	return ws, nil
}

// view runs fn against the current workspace while holding the POS lock.
// Nothing is saved.
func (s *reconciliationService) view(ctx context.Context, posID string, fn func(ws *domain.Workspace) error) error {
	mu := s.posLock(posID)
	mu.Lock()
	defer mu.Unlock()

	ws, err := s.load(ctx, posID)
	if err != nil {
		return err
	}
	return fn(ws)
}

// update loads the workspace, applies fn, refreshes derived fields and saves
// it. When fn fails the stored workspace is left as it was.
func (s *reconciliationService) update(ctx context.Context, posID string, fn func(ws *domain.Workspace) error) (*domain.Workspace, error) {
	mu := s.posLock(posID)
	mu.Lock()
	defer mu.Unlock()

	ws, err := s.load(ctx, posID)
	if err != nil {
		return nil, err
	}
	if err := fn(ws); err != nil {
		return nil, err
	}

	recon.RecomputeBatch(&ws.Draft.PaymentBatch)
	for i := range ws.Cashbook {
		recon.RecomputeCashbookRow(&ws.Cashbook[i])
	}
	ws.UpdatedAt = s.now().UTC()
	if err := s.store.Save(ctx, ws); err != nil {
		return nil, fmt.Errorf("failed to save workspace: %w", err)
	}
	return ws, nil
}

// editDraft is update for operations that change draft rows; any edit makes
// a saved draft dirty again.
func (s *reconciliationService) editDraft(ctx context.Context, posID string, fn func(d *domain.Draft) error) (*domain.Draft, error) {
	ws, err := s.update(ctx, posID, func(ws *domain.Workspace) error {
		if err := fn(&ws.Draft); err != nil {
			return err
		}
		ws.Draft.Saved = false
		ws.Draft.Revision++
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &ws.Draft, nil
}

func (s *reconciliationService) GetWorkspace(ctx context.Context, posID string) (*domain.Workspace, error) {
	return s.load(ctx, posID)
}

func (s *reconciliationService) SetAgentName(ctx context.Context, posID, name string) (*domain.Workspace, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError("name", "agent name required")
	}
	return s.update(ctx, posID, func(ws *domain.Workspace) error {
		ws.AgentName = name
		return nil
	})
}

func (s *reconciliationService) StartDraft(ctx context.Context, posID string, method domain.PaymentMethod) (*domain.Draft, error) {
	ws, err := s.update(ctx, posID, func(ws *domain.Workspace) error {
		return recon.StartDraft(&ws.Draft, method)
	})
	if err != nil {
		return nil, err
	}
	return &ws.Draft, nil
}

func (s *reconciliationService) SetDraftOptions(ctx context.Context, posID string, opts DraftOptions) (*domain.Draft, error) {
	return s.editDraft(ctx, posID, func(d *domain.Draft) error {
		if opts.Currency != nil {
			if err := recon.SetCurrency(&d.PaymentBatch, *opts.Currency); err != nil {
				return err
			}
		}
		if opts.Bank != nil {
			if err := recon.SetBank(&d.PaymentBatch, *opts.Bank); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *reconciliationService) AddRows(ctx context.Context, posID string, count int) (*domain.Draft, error) {
	if !recon.IsAddRowCount(count) {
		return nil, domain.NewValidationError("count", "must be one of 1, 5, 10, 20 or 100")
	}
	return s.editDraft(ctx, posID, func(d *domain.Draft) error {
		return recon.AddBlankRows(&d.PaymentBatch, count, posID)
	})
}

func (s *reconciliationService) ImportRows(ctx context.Context, posID, filename string, r io.Reader) (*domain.Draft, error) {
	raws, err := spreadsheet.Read(filename, r)
	if err != nil {
		logger.WithPOS(posID).Warn("Draft import failed", "file", filename, "error", err)
		return nil, err
	}

	d, err := s.editDraft(ctx, posID, func(d *domain.Draft) error {
		return recon.ImportRows(&d.PaymentBatch, raws, posID)
	})
	if err != nil {
		return nil, err
	}
	metrics.RowsImported.WithLabelValues("draft").Add(float64(len(raws)))
	logger.WithPOS(posID).Info("Draft rows imported", "file", filename, "rows", len(raws), "method", d.Method)
	return d, nil
}

func (s *reconciliationService) UpdateRow(ctx context.Context, posID string, index int, patch recon.RowPatch) (*domain.Draft, error) {
	return s.editDraft(ctx, posID, func(d *domain.Draft) error {
		return recon.UpdateRow(&d.PaymentBatch, index, patch)
	})
}

func (s *reconciliationService) RemoveRow(ctx context.Context, posID string, index int) (*domain.Draft, error) {
	return s.editDraft(ctx, posID, func(d *domain.Draft) error {
		return recon.RemoveRow(&d.PaymentBatch, index)
	})
}

func (s *reconciliationService) ClearDraft(ctx context.Context, posID string) (*domain.Draft, error) {
	return s.editDraft(ctx, posID, func(d *domain.Draft) error {
		recon.ClearRows(&d.PaymentBatch)
		return nil
	})
}

func cloneBatch(b domain.PaymentBatch) domain.PaymentBatch {
	b.CashRows = append([]domain.CashRow(nil), b.CashRows...)
	b.StatementRows = append([]domain.StatementRow(nil), b.StatementRows...)
	return b
}

// claim marks a submission of source for posID as running. A second claim
// on the same key fails with ErrSubmissionInFlight until release is called.
func (s *reconciliationService) claim(posID, source string) (release func(), err error) {
	key := lock.SubmissionKey(posID, source)
	if _, busy := s.inflight.LoadOrStore(key, struct{}{}); busy {
		metrics.SubmissionFailures.WithLabelValues("in_flight").Inc()
		return nil, domain.ErrSubmissionInFlight
	}
	return func() { s.inflight.Delete(key) }, nil
}

// submit builds a request from the current workspace, sends it to the report
// store and then applies record to a freshly loaded workspace. The POS lock
// is not held during the report store call.
func (s *reconciliationService) submit(ctx context.Context, posID, source string,
	build func(ws *domain.Workspace) (domain.SubmitRequest, error),
	record func(ws *domain.Workspace, reportID int64),
) (int64, error) {
	release, err := s.claim(posID, source)
	if err != nil {
		return 0, err
	}
	defer release()

	var req domain.SubmitRequest
	err = s.view(ctx, posID, func(ws *domain.Workspace) error {
		var err error
		req, err = build(ws)
		return err
	})
	if err != nil {
		return 0, err
	}

	reportID, err := s.submitter.Submit(ctx, req)
	if err != nil {
		return 0, err
	}
	if record == nil {
		return reportID, nil
	}

	_, err = s.update(ctx, posID, func(ws *domain.Workspace) error {
		record(ws, reportID)
		return nil
	})
	if err != nil {
		logger.WithPOS(posID).Error("Report stored but workspace was not updated", "report_id", reportID, "source", source, "error", err)
		return 0, fmt.Errorf("report %d stored but workspace was not updated: %w", reportID, err)
	}
	return reportID, nil
}

// SubmitDraft sends the draft to the report store. On success the batch is
// recorded in the workspace (replacing an earlier submission of the same
// draft) and the draft is marked saved unless it was edited meanwhile.
func (s *reconciliationService) SubmitDraft(ctx context.Context, posID string) (int64, error) {
	var (
		batch    domain.PaymentBatch
		revision int
	)
	build := func(ws *domain.Workspace) (domain.SubmitRequest, error) {
		d := &ws.Draft
		if d.Saved {
			return domain.SubmitRequest{}, domain.NewValidationError("draft", "Draft already saved. Edit it before saving again.")
		}
		batch = cloneBatch(d.PaymentBatch)
		revision = d.Revision
		req := domain.SubmitRequest{
			Name:          ws.AgentName,
			PosID:         posID,
			Source:        domain.ReportSourcePayments,
			PaymentMethod: d.Method,
			TableData:     recon.BatchTable(d.PaymentBatch, posID),
		}
		if d.Method == domain.PaymentMethodBank {
			req.Bank = d.Bank
		}
		return req, nil
	}
	record := func(ws *domain.Workspace, reportID int64) {
		now := s.now().UTC()
		batch.ReportID = reportID
		batch.SubmittedAt = &now

		replaced := false
		for i := range ws.Batches {
			if ws.Batches[i].ID == batch.ID {
				ws.Batches[i] = batch
				replaced = true
			}
		}
		if !replaced {
			ws.Batches = append(ws.Batches, batch)
		}

		d := &ws.Draft
		if d.ID == batch.ID {
			d.ReportID = reportID
			d.SubmittedAt = &now
			d.Saved = d.Revision == revision
		}
	}

	reportID, err := s.submit(ctx, posID, domain.ReportSourcePayments, build, record)
	if err != nil {
		return 0, err
	}
	logger.WithPOS(posID).Info("Draft submitted", "report_id", reportID)
	return reportID, nil
}

func (s *reconciliationService) GetSummary(ctx context.Context, posID string) (domain.Summary, error) {
	ws, err := s.load(ctx, posID)
	if err != nil {
		return domain.Summary{}, err
	}
	return recon.Summarize(ws.Batches), nil
}

func (s *reconciliationService) SubmitSummary(ctx context.Context, posID string) (int64, error) {
	return s.submit(ctx, posID, domain.ReportSourcePayments, func(ws *domain.Workspace) (domain.SubmitRequest, error) {
		return domain.SubmitRequest{
			Name:          ws.AgentName,
			PosID:         posID,
			Source:        domain.ReportSourcePayments,
			PaymentMethod: domain.PaymentMethodSummary,
			TableData:     recon.SummaryTable(recon.Summarize(ws.Batches)),
		}, nil
	}, nil)
}

func (s *reconciliationService) ClearBatches(ctx context.Context, posID string) error {
	_, err := s.update(ctx, posID, func(ws *domain.Workspace) error {
		ws.Batches = nil
		return nil
	})
	return err
}

func (s *reconciliationService) AddTransaction(ctx context.Context, posID string, in recon.TransactionInput) (domain.Transaction, error) {
	var tx domain.Transaction
	_, err := s.update(ctx, posID, func(ws *domain.Workspace) error {
		var err error
		tx, err = recon.AddTransaction(&ws.Ledger, in, s.now())
		return err
	})
	return tx, err
}

func (s *reconciliationService) UpdateTransaction(ctx context.Context, posID, id string, patch recon.TransactionPatch) (domain.Transaction, error) {
	var tx domain.Transaction
	_, err := s.update(ctx, posID, func(ws *domain.Workspace) error {
		var err error
		tx, err = recon.UpdateTransaction(&ws.Ledger, id, patch)
		return err
	})
	return tx, err
}

// ImportLedger appends the transactions found in a cashbook sheet and
// returns how many were added.
func (s *reconciliationService) ImportLedger(ctx context.Context, posID, filename string, r io.Reader) (int, error) {
	raws, err := spreadsheet.Read(filename, r)
	if err != nil {
		logger.WithPOS(posID).Warn("Ledger import failed", "file", filename, "error", err)
		return 0, err
	}

	txs := make([]domain.Transaction, 0, len(raws))
	for _, raw := range raws {
		if tx, ok := recon.NormalizeLedgerRow(raw); ok {
			txs = append(txs, tx)
		}
	}
	_, err = s.update(ctx, posID, func(ws *domain.Workspace) error {
		recon.AppendTransactions(&ws.Ledger, txs)
		return nil
	})
	if err != nil {
		return 0, err
	}
	metrics.RowsImported.WithLabelValues("ledger").Add(float64(len(txs)))
	logger.WithPOS(posID).Info("Ledger rows imported", "file", filename, "rows", len(raws), "transactions", len(txs))
	return len(txs), nil
}

func (s *reconciliationService) RemoveTransaction(ctx context.Context, posID, id string) error {
	_, err := s.update(ctx, posID, func(ws *domain.Workspace) error {
		return recon.RemoveTransaction(&ws.Ledger, id)
	})
	return err
}

func (s *reconciliationService) ToggleReconcileMode(ctx context.Context, posID string) (domain.MatchView, error) {
	ws, err := s.update(ctx, posID, func(ws *domain.Workspace) error {
		recon.ToggleMode(&ws.Ledger)
		return nil
	})
	if err != nil {
		return domain.MatchView{}, err
	}
	return recon.View(&ws.Ledger), nil
}

func (s *reconciliationService) ToggleSelection(ctx context.Context, posID, id string) (domain.MatchView, error) {
	ws, err := s.update(ctx, posID, func(ws *domain.Workspace) error {
		return recon.ToggleSelection(&ws.Ledger, id)
	})
	if err != nil {
		return domain.MatchView{}, err
	}
	return recon.View(&ws.Ledger), nil
}

func (s *reconciliationService) GetMatchView(ctx context.Context, posID string) (domain.MatchView, error) {
	ws, err := s.load(ctx, posID)
	if err != nil {
		return domain.MatchView{}, err
	}
	return recon.View(&ws.Ledger), nil
}

func (s *reconciliationService) Commit(ctx context.Context, posID string) (*domain.ReconciliationSession, error) {
	var session *domain.ReconciliationSession
	_, err := s.update(ctx, posID, func(ws *domain.Workspace) error {
		var err error
		session, err = recon.Commit(&ws.Ledger, s.now())
		return err
	})
	if err != nil {
		return nil, err
	}
	metrics.SessionsCommitted.Inc()
	logger.WithPOS(posID).Info("Reconciliation session committed", "session_id", session.ID, "transactions", len(session.Transactions))
	return session, nil
}

func (s *reconciliationService) SeedCashbook(ctx context.Context, posID string) ([]domain.CashbookRow, error) {
	ws, err := s.update(ctx, posID, func(ws *domain.Workspace) error {
		ws.Cashbook = recon.SeedCashbook(recon.Summarize(ws.Batches), ws.Cashbook)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ws.Cashbook, nil
}

func (s *reconciliationService) UpdateCashbookRow(ctx context.Context, posID, date string, patch recon.CashbookPatch) (domain.CashbookRow, error) {
	var row domain.CashbookRow
	_, err := s.update(ctx, posID, func(ws *domain.Workspace) error {
		var err error
		row, err = recon.UpdateCashbookRow(ws.Cashbook, date, patch)
		return err
	})
	return row, err
}

func (s *reconciliationService) SubmitCashbook(ctx context.Context, posID string) (int64, error) {
	return s.submit(ctx, posID, domain.ReportSourceCashbook, func(ws *domain.Workspace) (domain.SubmitRequest, error) {
		return domain.SubmitRequest{
			Name:      ws.AgentName,
			PosID:     posID,
			Source:    domain.ReportSourceCashbook,
			TableData: recon.CashbookTable(ws.Cashbook),
		}, nil
	}, nil)
}

func (s *reconciliationService) PruneWorkspaces(ctx context.Context) (int64, error) {
	cutoff := s.now().UTC().Add(-s.retention)
	n, err := s.store.PruneOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune workspaces: %w", err)
	}
	metrics.WorkspacesPruned.Add(float64(n))
	return n, nil
}
