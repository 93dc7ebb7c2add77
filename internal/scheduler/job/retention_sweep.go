package job

import (
	"context"
	"errors"
	"log/slog"

	"CasaLinkAPI/internal/config"
	"CasaLinkAPI/internal/model"
)

// ThreadPurger is the slice of a thread store the sweeper needs: trigger the
// store's own retention delete for threads removed by every participant.
type ThreadPurger interface {
	Type() model.ConversationType
	PurgeDeleted(ctx context.Context, olderThanDays int) (int, error)
}

// RunRetentionSweep asks each domain store to hard-delete threads that have
// been soft-deleted longer than the retention window. A failing store does
// not stop the sweep of the other; the job reports failure if any store did.
func RunRetentionSweep(ctx context.Context, cfg *config.AppConfig, purgers ...ThreadPurger) error {
	slog.Info("Running Retention Sweep", "retentionDays", cfg.RetentionDays)

	var failed error
	for _, purger := range purgers {
		purged, err := purger.PurgeDeleted(ctx, cfg.RetentionDays)
		if err != nil {
			slog.Error("Retention purge failed", "domain", purger.Type(), "error", err)
			failed = errors.Join(failed, err)
			continue
		}
		slog.Info("Retention purge completed", "domain", purger.Type(), "purged", purged)
	}

	return failed
}
