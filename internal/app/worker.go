package app

import (
	"context"
	"time"

	"droneDispatch/internal/dispatcher"
	"droneDispatch/internal/logx"
)

type passRunner interface {
	DispatchPending(ctx context.Context) (dispatcher.PassReport, error)
}

// runDispatchLoop runs a dispatch pass every interval until ctx is done. A failed pass is
// logged and the next tick tries again.
func runDispatchLoop(ctx context.Context, svc passRunner, interval time.Duration, logger logx.Logger) {
	if interval <= 0 {
		logger.Info("dispatch worker disabled")
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := svc.DispatchPending(ctx); err != nil && ctx.Err() == nil {
				logger.Error("dispatch pass failed", logx.Err(err))
			}
		}
	}
}
