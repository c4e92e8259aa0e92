package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"posrecon-backend/internal/domain"
	"posrecon-backend/internal/logger"
	"posrecon-backend/internal/repository"
)

type reportRepository struct {
	db *sql.DB
}

func NewReportRepository(db *sql.DB) repository.ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Create(ctx context.Context, rep *domain.Report) error {
	table, err := json.Marshal(rep.TableData)
	if err != nil {
		return fmt.Errorf("failed to encode table data: %w", err)
	}
	if rep.CreatedOn.IsZero() {
		rep.CreatedOn = time.Now().UTC()
	}

	query := `INSERT INTO reports (name, pos_id, date, source, payment_method, bank, table_data, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	logger.DatabaseCall("create_report", query, "pos_id", rep.PosID, "rows", len(rep.TableData))
	err = r.db.QueryRowContext(ctx, query,
		rep.Name, rep.PosID, rep.Date, rep.Source, string(rep.PaymentMethod), rep.Bank, table, rep.CreatedOn,
	).Scan(&rep.ID)
	logger.DatabaseResult("create_report", 1, err, "report_id", rep.ID)
	return err
}

func (r *reportRepository) List(ctx context.Context) ([]domain.ReportSummary, error) {
	query := `SELECT id, name, pos_id, date, source FROM reports ORDER BY date DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reports := []domain.ReportSummary{}
	for rows.Next() {
		var s domain.ReportSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.PosID, &s.Date, &s.Source); err != nil {
			return nil, err
		}
		reports = append(reports, s)
	}
	return reports, rows.Err()
}

func (r *reportRepository) GetByID(ctx context.Context, id int64) (*domain.Report, error) {
	rep := &domain.Report{}
	var method string
	var table []byte
	query := `SELECT id, name, pos_id, date, source, payment_method, bank, table_data, created_on
	          FROM reports WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&rep.ID, &rep.Name, &rep.PosID, &rep.Date, &rep.Source, &method, &rep.Bank, &table, &rep.CreatedOn,
	)
	if err != nil {
		return nil, mapError(err)
	}
	rep.PaymentMethod = domain.PaymentMethod(method)
	if err := json.Unmarshal(table, &rep.TableData); err != nil {
		return nil, fmt.Errorf("failed to decode table data for report %d: %w", id, err)
	}
	return rep, nil
}

func (r *reportRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reports WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
