package messages

import (
	"context"
	"time"

	"github.com/labstack/gommon/log"
	"uk.co.dudmesh.multisig/internal/model"
)

type Sweepable interface {
	Sweep(ctx context.Context) (model.SweepResult, error)
}

// RunSweeper sweeps once immediately and then every interval until ctx is
// done. Failed passes are logged and retried on the next tick.
func RunSweeper(ctx context.Context, svc Sweepable, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := svc.Sweep(ctx); err != nil {
			log.Errorf("failed to delete old messages: %+v", err)
		} else {
			log.Infof("db cleanup task executed without errors")
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
