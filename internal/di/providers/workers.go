package providers

import (
	"context"
	"time"

	"github.com/samber/do/v2"

	"github.com/cinesphere/cinesphere-server/internal/logger"
)

// SessionGCJob periodically reclaims space held by expired sessions.
type SessionGCJob struct {
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (j *SessionGCJob) Shutdown() error {
	j.cancel()
	return nil
}

// ProvideSessionGCJob provides the periodic session garbage collection job.
func ProvideSessionGCJob(i do.Injector) (*SessionGCJob, error) {
	sessionHandle := do.MustInvoke[*SessionStoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		ticker := time.NewTicker(sessionGCInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if n, err := sessionHandle.CollectGarbage(); err != nil {
					log.Warn("Session garbage collection failed", "error", err)
				} else if n > 0 {
					log.Info("Session garbage collection completed", "rewritten", n)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	log.Info("Session garbage collection job started", "interval", sessionGCInterval)

	return &SessionGCJob{cancel: cancel}, nil
}
