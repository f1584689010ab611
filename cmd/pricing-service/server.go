package main

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/dig"

	"github.com/retra-de/retra-go-sdk/pkg/runutil"
	"github.com/retra-de/retra-go-sdk/pkg/webutil"
)

// runServer wires the application in a dig container and runs all workers,
// including the HTTP server, until the context gets cancelled.
func runServer(ctx context.Context, redisClient *redis.Client) error {
	c := dig.New()

	err := errors.Join(
		c.Provide(func() *redis.Client { return redisClient }),
		c.Provide(NewStore),
		c.Provide(NewInstrumentation),

		webutil.ProvideHandler(c, NewHealthHandler),
		webutil.ProvideHandler(c, NewDataHandler),
		webutil.ProvideHandler(c, NewErrorHandler),
		webutil.ProvideHandler(c, NewPricesHandler),

		runutil.ProvideWorker(c, NewVacuumWorker),
		runutil.ProvideWorker(c, NewUpdateFeedWorker),
		runutil.ProvideWorker(c, webutil.NewServer),
	)
	if err != nil {
		return err
	}

	return runutil.RunProvidedWorkers(ctx, c)
}
