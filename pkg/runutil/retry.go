package runutil

import (
	"context"
	"fmt"

	"github.com/retra-de/retra-go-sdk/pkg/logutil"
)

// Retry restarts a Worker forever when it exits. This happens regardless of
// whether the worker returns an error or nil. The worker only stops with
// restarting, when the context gets cancelled.
func Retry(worker Worker, bo Backoff) Worker {
	return WorkerFunc(func(ctx context.Context) error {
		var attempt int
		for ctx.Err() == nil {
			if attempt > 0 {
				GetHealthMonitor(ctx).Backoff()
			}

			Wait(ctx, bo.Duration(attempt))

			err := worker.Run(ctx)
			if err != nil {
				attempt += 1
				HealthCheckpoint(ctx, err)
				logutil.Get(ctx).WarnContext(ctx,
					fmt.Sprintf("worker failed %d times: %s", attempt, err.Error()),
					logutil.Exception(err))
			} else {
				attempt = 0
			}
		}

		return nil
	})
}
