package main

import (
	"context"
	"slices"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/retra-de/retra-go-sdk/pkg/redisutil"
	"github.com/retra-de/retra-go-sdk/pkg/typeutil"
)

// priceTTL limits how long a price stays servable without an update. The
// index cleanup for expired prices happens in the vacuum worker.
const priceTTL = 24 * time.Hour

// Price is a single stored price point.
type Price struct {
	ID        string    `json:"id" logfield:"price-id"`
	Cents     int64     `json:"cents" logfield:"price-cents"`
	Currency  string    `json:"currency" logfield:"currency"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store persists prices in Redis. Every price lives in its own key with a
// TTL, while a set of all known IDs serves as index for listing. Updates
// additionally go out on a stream, see NextUpdate.
type Store struct {
	client *redis.Client
	prefix redisutil.Prefix
	feed   *redisutil.Broadcast[Price]
}

func NewStore(client *redis.Client) (*Store, error) {
	prefix := redisutil.Prefix("pricing")

	feed, err := redisutil.NewBroadcast[Price](client, prefix.Key("updates"))
	if err != nil {
		return nil, errors.Wrap(err, "failed to init update feed")
	}

	return &Store{
		client: client,
		prefix: prefix,
		feed:   feed,
	}, nil
}

func (s *Store) indexKey() string {
	return s.prefix.Key("index")
}

func (s *Store) dataPrefix() redisutil.Prefix {
	return s.prefix.Add("prices")
}

// Put stores the price and registers its ID in the index.
func (s *Store) Put(ctx context.Context, price Price) error {
	err := redisutil.GzipJSONSet(ctx, s.client,
		s.dataPrefix().Key(price.ID), price, priceTTL)
	if err != nil {
		return errors.Wrap(err, "failed to store price")
	}

	err = s.client.SAdd(ctx, s.indexKey(), price.ID).Err()
	if err != nil {
		return errors.Wrap(err, "failed to index price")
	}

	err = s.feed.Add(ctx, &price)
	return errors.Wrap(err, "failed to publish update")
}

// NextUpdate blocks until a price update newer than the cursor arrives and
// returns it together with the next cursor. Use "$" to only observe updates
// from now on. The error is redis.Nil when nothing arrived within the
// blocking window, retry with the same cursor in that case.
func (s *Store) NextUpdate(ctx context.Context, cursor string) (*Price, string, error) {
	return s.feed.Read(ctx, cursor)
}

// Get returns the price with the given ID or nil if it does not exist.
func (s *Store) Get(ctx context.Context, id string) (*Price, error) {
	price, err := redisutil.JSONGet[Price](ctx, s.client, s.dataPrefix().Key(id))
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read price")
	}

	return price, nil
}

// List returns all stored prices ordered by ID. IDs whose data already
// expired are skipped. They stay in the index until the vacuum removes them.
func (s *Store) List(ctx context.Context) ([]Price, error) {
	ids, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to list price ids")
	}

	slices.Sort(ids)

	prices := make([]Price, 0, len(ids))
	for _, id := range ids {
		price, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if price == nil {
			continue
		}

		prices = append(prices, *price)
	}

	return prices, nil
}

// StoreStats describes the stored dataset. Count follows the index, so it may
// include prices that expired but are not vacuumed yet. Size is the stored
// payload size, which is smaller than the JSON it decodes to since prices are
// gzipped at rest.
type StoreStats struct {
	Count int                `json:"count"`
	Size  typeutil.JSONBytes `json:"size"`
}

// Stats reports the number of indexed prices and their stored payload size.
func (s *Store) Stats(ctx context.Context) (*StoreStats, error) {
	ids, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to list price ids")
	}

	stats := StoreStats{Count: len(ids)}
	for _, id := range ids {
		size, err := s.client.StrLen(ctx, s.dataPrefix().Key(id)).Result()
		if err != nil {
			return nil, errors.Wrap(err, "failed to measure price")
		}

		stats.Size.Size += size
	}

	return &stats, nil
}

// IndexVacuum drops index entries whose price keys expired.
func (s *Store) IndexVacuum(ctx context.Context) error {
	return redisutil.IndexVacuum(ctx, s.client, s.indexKey(), s.dataPrefix())
}
