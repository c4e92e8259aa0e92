// Package workspace persists per-POS working state so an agent can reload
// and pick up where they left off.
package workspace

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"posrecon-backend/internal/domain"
)

// Store keeps one workspace snapshot per POS ID.
//
//go:generate mockgen -destination=mocks/mock_store.go -source=store.go Store
type Store interface {
	// Load returns the saved workspace, or a fresh one when the POS has none.
	Load(ctx context.Context, posID string) (*domain.Workspace, error)
	Save(ctx context.Context, ws *domain.Workspace) error
	Delete(ctx context.Context, posID string) error
	// PruneOlderThan drops workspaces not touched since cutoff.
	PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

func encode(ws *domain.Workspace) ([]byte, error) {
	data, err := json.Marshal(ws)
	if err != nil {
		return nil, fmt.Errorf("failed to encode workspace %s: %w", ws.PosID, err)
	}
	return data, nil
}

func decode(posID string, data []byte) (*domain.Workspace, error) {
	ws := domain.NewWorkspace(posID)
	if err := json.Unmarshal(data, ws); err != nil {
		return nil, fmt.Errorf("failed to decode workspace %s: %w", posID, err)
	}
	return ws, nil
}

// Open returns the store for the configured backend ("sqlite" or "memory")
// and a function that releases it.
func Open(backend, path string) (Store, func() error, error) {
	switch backend {
	case "memory":
		return NewMemoryStore(), func() error { return nil }, nil
	case "sqlite", "":
		return OpenSQLite(path)
	default:
		return nil, nil, fmt.Errorf("unknown workspace backend: %s", backend)
	}
}
