package redisutil

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// broadcastPayloadField is the stream field that carries the encoded value.
const broadcastPayloadField = "data"

// broadcastMaxLen caps the stream length. Broadcasts are fan-out
// notifications, consumers that fall further behind have to resync anyway.
const broadcastMaxLen = 10

type BroadcastRediser interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
	XRead(ctx context.Context, a *redis.XReadArgs) *redis.XStreamSliceCmd
}

// Broadcast distributes values to all interested consumers via a capped
// Redis stream. Values are stored as gzipped JSON.
type Broadcast[T any] struct {
	client BroadcastRediser
	key    string
}

func NewBroadcast[T any](client BroadcastRediser, key string) (*Broadcast[T], error) {
	return &Broadcast[T]{
		client: client,
		key:    key,
	}, nil
}

// Add appends the value to the stream, trimming old entries beyond the cap.
func (b *Broadcast[T]) Add(ctx context.Context, value *T) error {
	payload, err := MarshalGzipJSON(value)
	if err != nil {
		return errors.WithStack(err)
	}

	args := &redis.XAddArgs{
		Stream: b.key,
		MaxLen: broadcastMaxLen,
		Approx: true,
		Values: map[string]any{
			broadcastPayloadField: payload,
		},
	}

	err = b.client.XAdd(ctx, args).Err()
	return errors.WithStack(err)
}

// Read blocks until a value with an ID greater than the given one arrives
// and returns it together with its stream ID, which serves as cursor for the
// next call. Use "0" to start from the oldest retained value. When nothing
// arrives within a minute, the error is redis.Nil and the caller should retry
// with the same cursor.
func (b *Broadcast[T]) Read(ctx context.Context, id string) (*T, string, error) {
	args := &redis.XReadArgs{
		Streams: []string{b.key, id},
		Count:   1,
		Block:   time.Minute,
	}

	streams, err := b.client.XRead(ctx, args).Result()
	if err != nil {
		return nil, id, errors.WithStack(err)
	}

	for _, stream := range streams {
		for _, message := range stream.Messages {
			payload, ok := message.Values[broadcastPayloadField].(string)
			if !ok {
				return nil, id, errors.Errorf("message %s has no payload", message.ID)
			}

			value, err := UnmarshalGzipJSON[T](payload)
			if err != nil {
				return nil, id, errors.WithStack(err)
			}

			return value, message.ID, nil
		}
	}

	return nil, id, errors.Errorf("no data")
}
