package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"

	"github.com/retra-de/retra-go-sdk/pkg/logutil"
	"github.com/retra-de/retra-go-sdk/pkg/typeutil"
	"github.com/retra-de/retra-go-sdk/pkg/webutil"
)

// HealthHandler reports service health.
type HealthHandler struct {
	logger *slog.Logger
}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{
		logger: logutil.Logger("handlers"),
	}
}

func (h *HealthHandler) Register(router chi.Router) {
	router.Get("/health", h.handleHealth)
}

func (h *HealthHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.logger.InfoContext(r.Context(), "Health check passed")
	webutil.RespondJSON(w, map[string]any{"status": "healthy"})
}

// DataHandler serves the demo data endpoint.
type DataHandler struct {
	logger *slog.Logger
	inst   *Instrumentation
}

func NewDataHandler(inst *Instrumentation) *DataHandler {
	return &DataHandler{
		logger: logutil.Logger("handlers"),
		inst:   inst,
	}
}

func (h *DataHandler) Register(router chi.Router) {
	router.Get("/api/data", h.handleData)
}

func (h *DataHandler) handleData(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.inst.Requests.WithLabelValues("data").Inc()

	h.logger.InfoContext(ctx, "Fetching data",
		slog.String("action", "fetch_data"))

	data := map[string]any{
		"items": []int{1, 2, 3},
		"count": 3,
	}

	h.logger.InfoContext(ctx, "Data fetched successfully",
		slog.Int("items_count", 3))

	webutil.RespondJSON(w, data)
}

// ErrorHandler provokes an error response for testing the logging pipeline
// end to end.
type ErrorHandler struct {
	logger *slog.Logger
	inst   *Instrumentation
}

func NewErrorHandler(inst *Instrumentation) *ErrorHandler {
	return &ErrorHandler{
		logger: logutil.Logger("handlers"),
		inst:   inst,
	}
}

func (h *ErrorHandler) Register(router chi.Router) {
	router.Get("/api/error", h.handleError)
}

func (h *ErrorHandler) handleError(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.inst.Requests.WithLabelValues("error").Inc()

	h.logger.WarnContext(ctx, "Error trigger endpoint called")

	err := errors.New("Intentional error for testing")
	h.logger.ErrorContext(ctx, fmt.Sprintf("Error occurred: %s", err),
		logutil.Exception(err))

	webutil.RespondJSONWithStatus(w, http.StatusInternalServerError,
		map[string]any{"error": err.Error()})
}

// PricesHandler exposes the stored prices.
type PricesHandler struct {
	logger *slog.Logger
	store  *Store
	inst   *Instrumentation
}

func NewPricesHandler(store *Store, inst *Instrumentation) *PricesHandler {
	return &PricesHandler{
		logger: logutil.Logger("handlers"),
		store:  store,
		inst:   inst,
	}
}

func (h *PricesHandler) Register(router chi.Router) {
	router.Get("/api/prices", h.handleList)
	router.Get("/api/prices/{id}", h.handleGet)
	router.Put("/api/prices/{id}", h.handlePut)
	router.Patch("/api/prices/{id}", h.handlePatch)
	router.Get("/api/stats", h.handleStats)
}

func (h *PricesHandler) handleList(w http.ResponseWriter, r *http.Request) {
	h.inst.Requests.WithLabelValues("prices").Inc()

	prices, err := h.store.List(r.Context())
	if webutil.RespondError(w, r, err) {
		return
	}

	webutil.RespondJSON(w, map[string]any{
		"items": prices,
		"count": len(prices),
	})
}

func (h *PricesHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	h.inst.Requests.WithLabelValues("prices").Inc()

	price, err := h.store.Get(r.Context(), chi.URLParam(r, "id"))
	if webutil.RespondError(w, r, err) {
		return
	}

	if price == nil {
		webutil.RespondJSONWithStatus(w, http.StatusNotFound,
			map[string]any{"error": "price not found"})
		return
	}

	webutil.RespondJSON(w, price)
}

func (h *PricesHandler) handlePut(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.inst.Requests.WithLabelValues("prices").Inc()

	var price Price
	err := json.NewDecoder(r.Body).Decode(&price)
	if err != nil {
		webutil.RespondJSONWithStatus(w, http.StatusBadRequest,
			map[string]any{"error": "invalid payload"})
		return
	}

	price.ID = chi.URLParam(r, "id")
	if price.UpdatedAt.IsZero() {
		price.UpdatedAt = time.Now().UTC()
	}

	err = h.store.Put(ctx, price)
	if webutil.RespondError(w, r, err) {
		return
	}

	h.inst.PriceUpdates.Inc()
	h.logger.LogAttrs(ctx, slog.LevelInfo, "Stored price",
		logutil.FromStruct(price)...)

	webutil.RespondJSON(w, price)
}

// pricePatch is a partial price update. Absent fields keep their stored
// value.
type pricePatch struct {
	Cents    *int64  `json:"cents"`
	Currency *string `json:"currency"`
}

func (h *PricesHandler) handlePatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.inst.Requests.WithLabelValues("prices").Inc()

	var patch pricePatch
	err := json.NewDecoder(r.Body).Decode(&patch)
	if err != nil {
		webutil.RespondJSONWithStatus(w, http.StatusBadRequest,
			map[string]any{"error": "invalid payload"})
		return
	}

	price, err := h.store.Get(ctx, chi.URLParam(r, "id"))
	if webutil.RespondError(w, r, err) {
		return
	}

	if price == nil {
		webutil.RespondJSONWithStatus(w, http.StatusNotFound,
			map[string]any{"error": "price not found"})
		return
	}

	price.Cents = typeutil.Coalesce(price.Cents, patch.Cents)
	price.Currency = typeutil.Coalesce(price.Currency, patch.Currency)
	price.UpdatedAt = time.Now().UTC()

	err = h.store.Put(ctx, *price)
	if webutil.RespondError(w, r, err) {
		return
	}

	h.inst.PriceUpdates.Inc()
	h.logger.LogAttrs(ctx, slog.LevelInfo, "Patched price",
		logutil.FromStruct(*price)...)

	webutil.RespondJSON(w, price)
}

func (h *PricesHandler) handleStats(w http.ResponseWriter, r *http.Request) {
	h.inst.Requests.WithLabelValues("stats").Inc()

	stats, err := h.store.Stats(r.Context())
	if webutil.RespondError(w, r, err) {
		return
	}

	webutil.RespondJSON(w, stats)
}
