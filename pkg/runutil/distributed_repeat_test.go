package runutil

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestDistributedRepeatAcquiresLock(t *testing.T) {
	fake := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr: fake.Addr(),
	})

	omg := errors.New("job exploded")

	runs := 0
	worker := NewDistributedRepeat(client, "locks/test", time.Minute,
		JobFunc(func(ctx context.Context) error {
			runs++
			return omg
		}))

	err := worker.Run(context.Background())
	require.ErrorIs(t, err, omg)
	require.Equal(t, 1, runs)

	hostname, err := os.Hostname()
	require.NoError(t, err)

	holder, err := fake.Get("locks/test")
	require.NoError(t, err)
	require.Equal(t, hostname, holder)
}

func TestDistributedRepeatRespectsForeignLock(t *testing.T) {
	fake := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr: fake.Addr(),
	})

	require.NoError(t, fake.Set("locks/test", "other-replica"))
	fake.SetTTL("locks/test", time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	runs := 0
	worker := NewDistributedRepeat(client, "locks/test", time.Minute,
		JobFunc(func(ctx context.Context) error {
			runs++
			return nil
		}))

	err := worker.Run(ctx)
	require.NoError(t, err)
	require.Zero(t, runs)

	holder, err := fake.Get("locks/test")
	require.NoError(t, err)
	require.Equal(t, "other-replica", holder)
}
