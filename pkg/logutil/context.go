package logutil

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/retra-de/retra-go-sdk/pkg/typeutil"
)

// Correlation ID headers in lookup order. The first header with a usable
// value wins.
const (
	HeaderCorrelationID = "X-Correlation-ID"
	HeaderRequestID     = "X-Request-ID"
)

// maxCorrelationIDLength caps inbound IDs, so clients cannot inflate log
// record sizes at will.
const maxCorrelationIDLength = 128

// Correlation resolves the correlation ID of a single request. Resolution
// happens lazily on first use and the result is cached, so every log record,
// response header and application lookup within one request observes the same
// ID.
type Correlation struct {
	once     sync.Once
	id       string
	header   http.Header
	generate func() string
}

// NewCorrelation creates a Correlation resolving against the given request
// headers. The generate function produces an ID when the headers carry none
// and defaults to random UUIDs.
func NewCorrelation(header http.Header, generate func() string) *Correlation {
	if generate == nil {
		generate = uuid.NewString
	}

	return &Correlation{
		header:   header,
		generate: generate,
	}
}

// ID returns the correlation ID, resolving it on first call.
func (c *Correlation) ID() string {
	c.once.Do(func() {
		for _, name := range []string{HeaderCorrelationID, HeaderRequestID} {
			if id := normalizeCorrelationID(c.header.Get(name)); id != "" {
				c.id = id
				return
			}
		}

		c.id = c.generate()
	})

	return c.id
}

// normalizeCorrelationID trims surrounding whitespace, rejects values with
// embedded line breaks and caps the length. It returns the empty string for
// unusable values.
func normalizeCorrelationID(id string) string {
	id = strings.TrimSpace(id)

	if strings.ContainsAny(id, "\r\n") {
		return ""
	}

	if len(id) > maxCorrelationIDLength {
		id = id[:maxCorrelationIDLength]
	}

	return id
}

// RequestScope carries the request attributes that log records embed. The
// webutil request logger stores one scope per request in the context, request
// handlers usually only consume it indirectly through the log output.
type RequestScope struct {
	Method   string
	Path     string
	RawQuery string

	// Route returns the route pattern that matched the request, or the
	// empty string while the request is not routed yet. It is a function
	// since routing happens after the scope is created.
	Route func() string

	Correlation *Correlation
}

// FullPath returns the path including the raw query string.
func (s *RequestScope) FullPath() string {
	if s.RawQuery == "" {
		return s.Path
	}

	return s.Path + "?" + s.RawQuery
}

// ContextWithRequestScope attaches the scope to the context.
func ContextWithRequestScope(ctx context.Context, scope *RequestScope) context.Context {
	return typeutil.ContextWithValueSingleton(ctx, scope)
}

// RequestScopeFromContext returns the scope of the surrounding request, if
// any.
func RequestScopeFromContext(ctx context.Context) (*RequestScope, bool) {
	scope := typeutil.FromContextSingleton[RequestScope](ctx)
	return scope, scope != nil
}

// CorrelationID returns the correlation ID of the surrounding request. The
// second return value is false outside of a request, which is also the reason
// the function does not generate an ID on its own.
func CorrelationID(ctx context.Context) (string, bool) {
	scope, ok := RequestScopeFromContext(ctx)
	if !ok || scope.Correlation == nil {
		return "", false
	}

	return scope.Correlation.ID(), true
}
