package webutil

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/retra-de/retra-go-sdk/pkg/logutil"
)

type requestLoggerConfig struct {
	logger   *slog.Logger
	generate func() string
}

// RequestLoggerOption customizes the RequestLogger middleware.
type RequestLoggerOption func(*requestLoggerConfig)

// WithLogger overrides the logger used for the request lifecycle events.
// Defaults to a logger named request.
func WithLogger(logger *slog.Logger) RequestLoggerOption {
	return func(c *requestLoggerConfig) {
		c.logger = logger
	}
}

// WithIDGenerator overrides how correlation IDs are generated when the
// request carries none. Defaults to random UUIDs.
func WithIDGenerator(generate func() string) RequestLoggerOption {
	return func(c *requestLoggerConfig) {
		c.generate = generate
	}
}

// RequestLogger logs the lifecycle of every request and wires up the request
// correlation.
//
// On the way in it resolves the correlation ID from the request headers,
// stores a logutil.RequestScope in the context, reflects the ID in the
// X-Correlation-ID response header and logs a received event. On the way out
// it logs a completed event with the response status. A panicking handler
// produces an error event with the stack trace instead of the completed
// event, then the panic continues to the outer recovery.
//
// Every record emitted below this middleware carries the correlation ID and
// request attributes through the context, application handlers just use
// slog.InfoContext and friends.
func RequestLogger(options ...RequestLoggerOption) Middleware {
	config := requestLoggerConfig{}
	for _, option := range options {
		option(&config)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := config.logger
			if logger == nil {
				logger = logutil.Logger("request")
			}

			corr := logutil.NewCorrelation(r.Header, config.generate)

			// The route context is installed by chi before the
			// middlewares run, but the pattern only resolves once
			// routing matched. Reading it through a closure defers
			// the lookup to the individual log calls.
			rctx := chi.RouteContext(r.Context())

			scope := &logutil.RequestScope{
				Method:      r.Method,
				Path:        r.URL.Path,
				RawQuery:    r.URL.RawQuery,
				Correlation: corr,
				Route: func() string {
					if rctx == nil {
						return ""
					}
					return rctx.RoutePattern()
				},
			}

			ctx := logutil.ContextWithRequestScope(r.Context(), scope)
			r = r.WithContext(ctx)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			ww.Header().Set(logutil.HeaderCorrelationID, corr.ID())

			logger.InfoContext(ctx, "Request received")

			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if v == http.ErrAbortHandler {
					panic(v)
				}

				logger.ErrorContext(ctx,
					fmt.Sprintf("Unhandled exception: %v", v),
					slog.String("exception", fmt.Sprintf("%v\n\n%s", v, debug.Stack())),
				)

				panic(v)
			}()

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			logger.InfoContext(ctx,
				fmt.Sprintf("Request completed with status %d", status),
				slog.Int("status_code", status),
			)
		})
	}
}
