package runutil

import (
	"context"
)

// DeclarativeWorker is an alternative to building the worker behaviour with
// chained functions. It automatically chains worker functions based on the
// defined fields in the most sensible order. The name gets applied outermost,
// so restarts and health states are attributed to the named subsystem.
//
// It satisfies the Worker interface for easier use.
type DeclarativeWorker struct {
	Name   string
	Worker Worker
	Retry  Backoff
}

func (w DeclarativeWorker) Run(ctx context.Context) error {
	worker := w.Worker

	if w.Retry != nil {
		worker = Retry(worker, w.Retry)
	}

	if w.Name != "" {
		worker = NamedWorker(worker, w.Name)
	}

	return worker.Run(ctx)
}
