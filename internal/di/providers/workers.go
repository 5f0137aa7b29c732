package providers

import (
	"context"
	"time"

	"github.com/samber/do/v2"

	"github.com/pagemarkapp/pagemark-server/internal/logger"
)

// Expired refresh sessions are swept this often.
const sessionSweepInterval = time.Hour

// SessionCleanupJob deletes expired refresh sessions in the background.
type SessionCleanupJob struct {
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (j *SessionCleanupJob) Shutdown() error {
	j.cancel()
	return nil
}

func ProvideSessionCleanupJob(i do.Injector) (*SessionCleanupJob, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	ctx, cancel := context.WithCancel(context.Background())
	sweep := func() {
		count, err := storeHandle.DeleteExpiredSessions(ctx)
		switch {
		case err != nil:
			log.Warn("Session cleanup failed", "error", err)
		case count > 0:
			log.Info("Expired sessions removed", "count", count)
		}
	}

	go func() {
		sweep() // catch up on anything that expired while the server was down

		ticker := time.NewTicker(sessionSweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sweep()
			}
		}
	}()

	log.Info("Session cleanup job started", "interval", sessionSweepInterval)
	return &SessionCleanupJob{cancel: cancel}, nil
}
