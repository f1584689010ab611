package runutil

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunAllWorkersExitedPrematurely(t *testing.T) {
	ctx := context.Background()

	err := RunAllWorkers(ctx,
		WorkerFunc(func(ctx context.Context) error {
			return nil
		}),
		WorkerFunc(func(ctx context.Context) error {
			return nil
		}),
		WorkerFunc(func(ctx context.Context) error {
			return nil
		}),
	)

	require.ErrorIs(t, err, ErrWorkerExitedPrematurely)
}

func TestRunAllWorkersNoErrorOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	// This waitgroup makes sure all go routines are started before cancelling
	// the context.
	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		wg.Wait()
		cancel()
	}()

	err := RunAllWorkers(ctx,
		WorkerFunc(func(ctx context.Context) error {
			wg.Done()
			<-ctx.Done()
			return nil
		}),
		WorkerFunc(func(ctx context.Context) error {
			wg.Done()
			<-ctx.Done()
			return nil
		}),
		WorkerFunc(func(ctx context.Context) error {
			wg.Done()
			<-ctx.Done()
			return nil
		}),
	)

	require.NoError(t, err)
}

func TestRunAllWorkersPassthroughErrorsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	// This waitgroup makes sure all go routines are started before cancelling
	// the context.
	var wg sync.WaitGroup
	wg.Add(3)

	omg := errors.New("worker exploded")

	go func() {
		wg.Wait()
		cancel()
	}()

	err := RunAllWorkers(ctx,
		WorkerFunc(func(ctx context.Context) error {
			wg.Done()
			<-ctx.Done()
			return nil
		}),
		WorkerFunc(func(ctx context.Context) error {
			wg.Done()
			<-ctx.Done()
			return omg
		}),
		WorkerFunc(func(ctx context.Context) error {
			wg.Done()
			<-ctx.Done()
			return nil
		}),
	)

	require.ErrorIs(t, err, omg)
}

func TestRunAllWorkersPassthroughErrors(t *testing.T) {
	ctx := context.Background()

	omg := errors.New("worker exploded")

	err := RunAllWorkers(ctx,
		WorkerFunc(func(ctx context.Context) error {
			<-ctx.Done()
			return nil
		}),
		WorkerFunc(func(ctx context.Context) error {
			return omg
		}),
		WorkerFunc(func(ctx context.Context) error {
			<-ctx.Done()
			return nil
		}),
	)

	require.ErrorIs(t, err, omg)
}

func TestRunAllJobs(t *testing.T) {
	omg := errors.New("job exploded")

	var ran sync.WaitGroup
	ran.Add(2)

	err := RunAllJobs(context.Background(),
		JobFunc(func(ctx context.Context) error {
			ran.Done()
			return nil
		}),
		JobFunc(func(ctx context.Context) error {
			ran.Done()
			return omg
		}),
	)

	ran.Wait()
	require.ErrorIs(t, err, omg)
}
