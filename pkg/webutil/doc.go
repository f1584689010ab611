// Package webutil provides the HTTP server plumbing used by our services:
// a chi based server with dependency injected handlers, structured request
// logging with correlation IDs and JSON response helpers.
//
// # HTTP Handlers with webutil
//
// Handlers are organized as structs that register their own routes:
//
//	// Define a handler struct with dependencies
//	type DataHandler struct {
//	    store *pricing.Store
//	}
//
//	// Constructor that creates a new handler instance
//	func NewDataHandler(store *pricing.Store) *DataHandler {
//	    return &DataHandler{
//	        store: store,
//	    }
//	}
//
//	// Register routes on a chi Router
//	func (h *DataHandler) Register(router chi.Router) {
//	    router.Get("/api/data", h.handleGetData)
//	}
//
//	func (h *DataHandler) handleGetData(w http.ResponseWriter, r *http.Request) {
//	    items, err := h.store.Items(r.Context())
//	    if webutil.RespondError(w, r, err) {
//	        return
//	    }
//
//	    webutil.RespondJSON(w, items)
//	}
//
// # Handler Registration with Dependency Injection
//
// The SDK uses the dig dependency injection container to manage and register
// HTTP handlers:
//
//	func RunServer(ctx context.Context, c *dig.Container) error {
//	    // Register handlers with the dig container
//	    err := errors.Join(
//	        // Each of these calls registers a handler that implements Handler interface
//	        webutil.ProvideHandler(c, handlers.NewHealthHandler),
//	        webutil.ProvideHandler(c, handlers.NewDataHandler),
//
//	        // Register server last
//	        runutil.ProvideWorker(c, webutil.NewServer),
//	    )
//	    if err != nil {
//	        return err
//	    }
//
//	    // Run all registered workers (including the web server)
//	    return runutil.RunProvidedWorkers(ctx, c)
//	}
//
// # Request Logging
//
// The server mounts RequestLogger on every route. The middleware resolves a
// correlation ID from the X-Correlation-ID or X-Request-ID request headers,
// generates one when both are absent and echoes the result in the
// X-Correlation-ID response header. It emits one record when a request
// arrives and one when it completes:
//
//	{"timestamp":"...","level":"INFO",...,"message":"Request received",
//	    "correlation_id":"abc-123",
//	    "request":{"method":"GET","path":"/api/data?page=2","endpoint":null}}
//	{"timestamp":"...","level":"INFO",...,"message":"Request completed with status 200",
//	    "correlation_id":"abc-123",
//	    "request":{"method":"GET","path":"/api/data?page=2","endpoint":"/api/data"},
//	    "status_code":200}
//
// Everything a handler logs through the request context carries the same
// correlation ID and request metadata, so a whole request can be filtered
// with a single query. Sensitive query parameters are redacted before they
// reach any log output (see logutil.SanitizePath).
//
// Panics inside handlers are logged as "Unhandled exception" records with a
// stack trace and then re-raised, so an outer Recoverer (mounted by the
// server) can translate them into a plain 500 response.
package webutil
