package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/retra-de/retra-go-sdk/pkg/logutil"
	"github.com/retra-de/retra-go-sdk/pkg/runutil"
)

// vacuumLockKey coordinates the vacuum across replicas, so the index cleanup
// runs once per interval regardless of the replica count.
const vacuumLockKey = "pricing/vacuum"

// VacuumWorker periodically removes expired prices from the store index.
type VacuumWorker struct {
	client *redis.Client
	store  *Store
	inst   *Instrumentation
}

func NewVacuumWorker(client *redis.Client, store *Store, inst *Instrumentation) *VacuumWorker {
	return &VacuumWorker{
		client: client,
		store:  store,
		inst:   inst,
	}
}

// Workers implements the runutil.WorkerConfiger interface.
func (w *VacuumWorker) Workers() []runutil.Worker {
	return []runutil.Worker{
		runutil.DeclarativeWorker{
			Name:   "Vacuum",
			Worker: runutil.NewDistributedRepeat(w.client, vacuumLockKey, time.Minute, runutil.JobFunc(w.vacuum)),
			Retry: runutil.ExponentialBackoff{
				Initial:          time.Second,
				Max:              time.Minute,
				JitterProportion: 0.5,
			},
		},
	}
}

func (w *VacuumWorker) vacuum(ctx context.Context) error {
	err := w.store.IndexVacuum(ctx)
	if err != nil {
		return err
	}

	w.inst.VacuumRuns.Inc()
	logutil.Get(ctx).DebugContext(ctx, "index vacuum completed")

	return nil
}

// UpdateFeedWorker follows the price update stream of the store and logs
// every observed update. It makes the fan-out visible in the logs without
// needing a second service as consumer.
type UpdateFeedWorker struct {
	store *Store
}

func NewUpdateFeedWorker(store *Store) *UpdateFeedWorker {
	return &UpdateFeedWorker{
		store: store,
	}
}

// Workers implements the runutil.WorkerConfiger interface.
func (w *UpdateFeedWorker) Workers() []runutil.Worker {
	return []runutil.Worker{
		runutil.DeclarativeWorker{
			Name:   "UpdateFeed",
			Worker: runutil.WorkerFunc(w.follow),
			Retry: runutil.ExponentialBackoff{
				Initial:          time.Second,
				Max:              time.Minute,
				JitterProportion: 0.5,
			},
		},
	}
}

func (w *UpdateFeedWorker) follow(ctx context.Context) error {
	cursor := "$"

	for ctx.Err() == nil {
		price, next, err := w.store.NextUpdate(ctx, cursor)
		if ctx.Err() != nil {
			return nil
		}
		if errors.Is(err, redis.Nil) {
			// Blocking window expired without an update.
			continue
		}
		if err != nil {
			return err
		}

		cursor = next
		logutil.Get(ctx).LogAttrs(ctx, slog.LevelInfo, "Price update observed",
			logutil.FromStruct(price)...)
	}

	return nil
}
