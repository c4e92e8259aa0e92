package workspace

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"posrecon-backend/internal/domain"
	"posrecon-backend/internal/logger"
)

const schema = `CREATE TABLE IF NOT EXISTS workspaces (
	pos_id     TEXT PRIMARY KEY,
	snapshot   TEXT NOT NULL,
	updated_at INTEGER NOT NULL
)`

type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the workspace database at path.
func OpenSQLite(path string) (Store, func() error, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create workspace dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open workspace db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to migrate workspace db: %w", err)
	}
	logger.Info("Workspace store opened", "backend", "sqlite", "path", path)
	return &sqliteStore{db: db}, db.Close, nil
}

func (s *sqliteStore) Load(ctx context.Context, posID string) (*domain.Workspace, error) {
	var snapshot string
	err := s.db.QueryRowContext(ctx, `SELECT snapshot FROM workspaces WHERE pos_id = ?`, posID).Scan(&snapshot)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NewWorkspace(posID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load workspace %s: %w", posID, err)
	}
	return decode(posID, []byte(snapshot))
}

func (s *sqliteStore) Save(ctx context.Context, ws *domain.Workspace) error {
	if ws.UpdatedAt.IsZero() {
		ws.UpdatedAt = time.Now().UTC()
	}
	data, err := encode(ws)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO workspaces (pos_id, snapshot, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(pos_id) DO UPDATE SET snapshot = excluded.snapshot, updated_at = excluded.updated_at`,
		ws.PosID, string(data), ws.UpdatedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to save workspace %s: %w", ws.PosID, err)
	}
	return nil
}

func (s *sqliteStore) Delete(ctx context.Context, posID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM workspaces WHERE pos_id = ?`, posID)
	return err
}

func (s *sqliteStore) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM workspaces WHERE updated_at < ?`, cutoff.Unix())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
