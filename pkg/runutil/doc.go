// Package runutil provides utilities for managing long-running services
// (Workers), one-off tasks (Jobs) and retry mechanisms with backoff
// strategies.
//
// # Worker Management with runutil
//
// The package provides a robust worker management system. This makes it easy
// to run and manage long-running services and one-off jobs.
//
//	// Worker is a service that is supposed to run continuously until the context is cancelled
//	type Worker interface {
//	    Run(ctx context.Context) error
//	}
//
//	// Job is a function that runs once and exits afterwards
//	type Job interface {
//	    RunOnce(ctx context.Context) error
//	}
//
// # Worker with Dependency Injection
//
// The package integrates with the dig dependency injection library:
//
//	func SetupWorkers(ctx context.Context, c *dig.Container) error {
//	    // Register workers with the dig container
//	    err := errors.Join(
//	        runutil.ProvideWorker(c, workers.NewIndexVacuumWorker),
//	        runutil.ProvideWorker(c, workers.NewDataFetchWorker),
//	        runutil.ProvideWorker(c, webutil.NewServer),
//	    )
//	    if err != nil {
//	        return err
//	    }
//
//	    // Run all provided workers
//	    return runutil.RunProvidedWorkers(ctx, c)
//	}
//
// # Repeats, Retries and Backoff
//
// Repeat turns a Job into a Worker that reruns the job on a fixed interval.
// Retry restarts a Worker with a backoff whenever it exits. DeclarativeWorker
// combines both with a subsystem name that keys worker logs and health
// metrics:
//
//	runutil.DeclarativeWorker{
//	    Name:   "Vacuum",
//	    Worker: runutil.Repeat(time.Minute, runutil.JobFunc(store.IndexVacuum)),
//	    Retry: runutil.ExponentialBackoff{
//	        Initial:          time.Second,
//	        Max:              time.Minute,
//	        JitterProportion: 0.5,
//	    },
//	}
//
// Every job run records a health checkpoint, which feeds the
// retra_go_sdk_health_state metric on the admin API. Alerting on the firing
// state catches workers that fail silently between restarts.
package runutil
