package jobs

import (
	"context"
	"time"

	"posrecon-backend/internal/logger"
)

const pruneTimeout = 5 * time.Minute

// PruneWorkspaces drops POS workspaces nobody has touched within the
// configured retention window.
func (jr *JobRunner) PruneWorkspaces() {
	jr.runWithRecovery("PruneWorkspaces", func() {
		ctx, cancel := context.WithTimeout(context.Background(), pruneTimeout)
		defer cancel()

		n, err := jr.services.Reconciliation.PruneWorkspaces(ctx)
		if err != nil {
			logger.Error("Failed to prune workspaces", "error", err)
			return
		}
		logger.Info("Pruned idle workspaces", "count", n, "retention_days", jr.config.Workspace.RetentionDays)
	})
}
