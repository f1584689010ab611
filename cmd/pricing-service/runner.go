package main

import (
	"context"

	"github.com/alicebob/miniredis/v2"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// DaemonRunner bootstraps the server for production. It defines the related
// flags and calls the actual server code.
type DaemonRunner struct {
	redisAddress string
	dumpConfig   bool
}

// Bind implements the cmdutil.Runner interface and defines command line flags.
func (r *DaemonRunner) Bind(cmd *cobra.Command) error {
	cmd.PersistentFlags().StringVar(
		&r.redisAddress, "redis-address", "localhost:6379",
		`Address of the Redis instance.`)

	cmd.PersistentFlags().BoolVar(
		&r.dumpConfig, "dump-config", false,
		`Print the effective configuration on startup.`)

	return nil
}

// Run initializes the server with production-ready settings. Connecting to
// Redis happens here, so a broken address fails the start instead of the
// first request.
func (r *DaemonRunner) Run(ctx context.Context) error {
	redisClient := redis.NewClient(&redis.Options{
		Addr: r.redisAddress,
	})

	err := redisClient.Ping(ctx).Err()
	if err != nil {
		return errors.Wrap(err, "failed to connect to redis")
	}

	if r.dumpConfig {
		err := dumpJSON(newConfigReport(r.redisAddress, false))
		if err != nil {
			return err
		}
	}

	return runServer(ctx, redisClient)
}

// DevRunner bootstraps the server for local development.
type DevRunner struct{}

func (r *DevRunner) Bind(cmd *cobra.Command) error {
	return nil
}

// Run initializes the server with local settings. It uses miniredis instead
// of a real Redis, because that makes the local environment requirements
// easier.
func (r *DevRunner) Run(ctx context.Context) error {
	fake, err := miniredis.Run()
	if err != nil {
		return errors.Wrap(err, "failed to init miniredis")
	}
	defer fake.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr: fake.Addr(),
	})

	err = dumpJSON(newConfigReport(fake.Addr(), true))
	if err != nil {
		return err
	}

	return runServer(ctx, redisClient)
}
