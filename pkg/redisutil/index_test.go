package redisutil

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestIndexVacuum(t *testing.T) {
	mr := miniredis.RunT(t)

	redisClient := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	var (
		indexKey   = "pricing/index"
		dataPrefix = Prefix("pricing/prices")
	)

	t.Run("NoIndex", func(t *testing.T) {
		mr.FlushAll()
		err := IndexVacuum(context.Background(), redisClient, indexKey, dataPrefix)
		assert.NoError(t, err)
	})

	t.Run("EmptyIndex", func(t *testing.T) {
		mr.FlushAll()
		mr.SAdd(indexKey)
		err := IndexVacuum(context.Background(), redisClient, indexKey, dataPrefix)
		assert.NoError(t, err)
	})

	t.Run("NothingExpired", func(t *testing.T) {
		mr.FlushAll()
		mr.SAdd(indexKey, "sku-1")
		mr.Set(dataPrefix.Key("sku-1"), "something")
		err := IndexVacuum(context.Background(), redisClient, indexKey, dataPrefix)
		assert.NoError(t, err)

		ids, err := mr.Members(indexKey)
		assert.NoError(t, err)
		assert.Equal(t, []string{"sku-1"}, ids)
	})

	t.Run("DropsExpired", func(t *testing.T) {
		mr.FlushAll()
		mr.SAdd(indexKey, "sku-1", "sku-2")
		mr.Set(dataPrefix.Key("sku-2"), "something")
		err := IndexVacuum(context.Background(), redisClient, indexKey, dataPrefix)
		assert.NoError(t, err)

		ids, err := mr.Members(indexKey)
		assert.NoError(t, err)
		assert.Equal(t, []string{"sku-2"}, ids)
	})
}
