package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retra-de/retra-go-sdk/pkg/typeutil"
)

// Prometheus rejects duplicate metric registration, so all tests share one
// instrumentation.
var testInstrumentation = sync.OnceValue(NewInstrumentation)

func testStore(t *testing.T) *Store {
	fake := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr: fake.Addr(),
	})

	store, err := NewStore(client)
	require.NoError(t, err)

	return store
}

func testRouter(t *testing.T) (*Store, chi.Router) {
	store := testStore(t)

	router := chi.NewRouter()
	NewPricesHandler(store, testInstrumentation()).Register(router)

	return store, router
}

func TestPricesHandlerPatch(t *testing.T) {
	store, router := testRouter(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, Price{
		ID:        "sku-1",
		Cents:     999,
		Currency:  "EUR",
		UpdatedAt: time.Now().UTC(),
	}))

	body, err := json.Marshal(pricePatch{
		Cents: typeutil.Pointer(int64(1299)),
	})
	require.NoError(t, err)

	request := httptest.NewRequest(http.MethodPatch, "/api/prices/sku-1", bytes.NewReader(body))
	response := httptest.NewRecorder()
	router.ServeHTTP(response, request)

	require.Equal(t, http.StatusOK, response.Code)

	price, err := store.Get(ctx, "sku-1")
	require.NoError(t, err)
	require.NotNil(t, price)

	// The absent currency field keeps its stored value.
	assert.Equal(t, int64(1299), price.Cents)
	assert.Equal(t, "EUR", price.Currency)
}

func TestPricesHandlerPatchUnknownPrice(t *testing.T) {
	_, router := testRouter(t)

	request := httptest.NewRequest(http.MethodPatch, "/api/prices/nope",
		strings.NewReader(`{"cents":1}`))
	response := httptest.NewRecorder()
	router.ServeHTTP(response, request)

	assert.Equal(t, http.StatusNotFound, response.Code)
}

func TestPricesHandlerStats(t *testing.T) {
	store, router := testRouter(t)
	ctx := context.Background()

	for _, price := range []Price{
		{ID: "sku-1", Cents: 999, Currency: "EUR"},
		{ID: "sku-2", Cents: 1499, Currency: "EUR"},
	} {
		price.UpdatedAt = time.Now().UTC()
		require.NoError(t, store.Put(ctx, price))
	}

	request := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	response := httptest.NewRecorder()
	router.ServeHTTP(response, request)

	require.Equal(t, http.StatusOK, response.Code)

	var stats StoreStats
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &stats))
	assert.Equal(t, 2, stats.Count)
	assert.Positive(t, stats.Size.Size)
}
