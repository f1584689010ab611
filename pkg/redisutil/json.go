package redisutil

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// gzipMagic is the two byte header every gzip stream starts with. It is used
// to tell compressed payloads apart from plain JSON ones.
var gzipMagic = []byte{0x1f, 0x8b}

type RedisGetter interface {
	Get(context.Context, string) *redis.StringCmd
}

type RedisSetter interface {
	Set(context.Context, string, any, time.Duration) *redis.StatusCmd
}

type RedisGetSetter interface {
	RedisGetter
	RedisSetter
}

// JSONGet reads the key and decodes its JSON payload into a new T. Gzipped
// payloads get decompressed transparently, so readers do not need to know
// how the value was written.
func JSONGet[T any](ctx context.Context, c RedisGetter, key string) (*T, error) {
	payload, err := c.Get(ctx, key).Result()
	if err != nil {
		return nil, err
	}

	return UnmarshalGzipJSON[T](payload)
}

func JSONSet(ctx context.Context, c RedisSetter, key string, v any, expiration time.Duration) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.Set(ctx, key, string(payload), expiration).Err()
}

// GzipJSONSet stores the value as gzipped JSON.
func GzipJSONSet(ctx context.Context, c RedisSetter, key string, v any, expiration time.Duration) error {
	payload, err := MarshalGzipJSON(v)
	if err != nil {
		return err
	}

	return c.Set(ctx, key, payload, expiration).Err()
}

// GzipJSONGetSet writes the value as gzipped JSON, but only when it differs
// from the stored one, so repeated imports of unchanged data do not dirty
// the key. It reports whether the key was written. The value gets stored
// without expiration.
func GzipJSONGetSet(ctx context.Context, c RedisGetSetter, key string, v any) (bool, error) {
	next, err := json.Marshal(v)
	if err != nil {
		return false, errors.WithStack(err)
	}

	current, err := c.Get(ctx, key).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return false, errors.Wrap(err, "failed to read current value")
	}

	if err == nil {
		expanded, err := expandGzip([]byte(current))
		if err == nil && bytes.Equal(expanded, next) {
			return false, nil
		}
		// An unreadable payload counts as changed and gets overwritten.
	}

	payload, err := gzipCompress(next)
	if err != nil {
		return false, err
	}

	err = c.Set(ctx, key, payload, 0).Err()
	if err != nil {
		return false, errors.Wrap(err, "failed to store value")
	}

	return true, nil
}

// MarshalGzipJSON encodes the value as JSON and compresses the result.
func MarshalGzipJSON(v any) (string, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return "", errors.WithStack(err)
	}

	return gzipCompress(payload)
}

// UnmarshalGzipJSON decodes a payload written by MarshalGzipJSON into a new
// T. Plain JSON payloads are accepted as well, so values written before
// compression was enabled stay readable.
func UnmarshalGzipJSON[T any](payload string) (*T, error) {
	raw, err := expandGzip([]byte(payload))
	if err != nil {
		return nil, err
	}

	value := new(T)
	err = json.Unmarshal(raw, value)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return value, nil
}

func gzipCompress(raw []byte) (string, error) {
	buf := new(bytes.Buffer)

	zw := gzip.NewWriter(buf)
	_, err := zw.Write(raw)
	if err != nil {
		return "", errors.WithStack(err)
	}

	err = zw.Close()
	if err != nil {
		return "", errors.WithStack(err)
	}

	return buf.String(), nil
}

func expandGzip(raw []byte) ([]byte, error) {
	if !bytes.HasPrefix(raw, gzipMagic) {
		return raw, nil
	}

	zr, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer zr.Close()

	expanded, err := io.ReadAll(zr)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return expanded, nil
}
