package webutil

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"
	"go.uber.org/dig"
	"golang.org/x/sync/errgroup"

	"github.com/retra-de/retra-go-sdk/pkg/cmdutil"
	"github.com/retra-de/retra-go-sdk/pkg/runutil"
)

// ListenAndServeWithContext does the same as http.ListenAndServe with the
// difference that it properly utilises the context. This means it does a
// graceful shutdown when the context is done and a context cancellation gets
// propagated down to the actual request context.
func ListenAndServeWithContext(ctx context.Context, addr string, handler http.Handler) error {
	server := &http.Server{
		Addr:    addr,
		Handler: handler,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	grp, ctx := errgroup.WithContext(ctx)

	grp.Go(func() error {
		err := server.ListenAndServe()
		if err == http.ErrServerClosed {
			// We do not want to print an error on graceful shutdown.
			return nil
		}

		return errors.WithStack(err)
	})

	grp.Go(func() error {
		<-ctx.Done()

		slog.WarnContext(ctx, "Got shutdown signal")
		time.Sleep(3 * time.Second) // Give systems some time to populate shutdown.

		slog.DebugContext(ctx, "Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return errors.WithStack(server.Shutdown(shutdownCtx))
	})

	return errors.Wrap(grp.Wait(), "http server failed")
}

// Server is a web server for JSON APIs. It wires up the request logging
// middleware and supports dependency injection using dig.
type Server struct {
	Handlers []Handler
}

// ServerParams defines all parameters that are needed for the Server. Its
// fields can be injected using dig.
type ServerParams struct {
	dig.In

	Handlers []Handler `group:"handler"`
}

// Handler is the interface that HTTP handlers need to implement to get picked
// up and served by the Server.
type Handler interface {
	Register(chi.Router)
}

// ProvideHandler is a helper to provide a handler to dependency injection.
func ProvideHandler(c *dig.Container, fn any) error {
	return c.Provide(fn, dig.Group("handler"), dig.As(new(Handler)))
}

func NewServer(p ServerParams) *Server {
	return &Server{
		Handlers: p.Handlers,
	}
}

// Workers defines the workers, making it compatible with runutil.
func (s *Server) Workers() []runutil.Worker {
	return []runutil.Worker{s}
}

func (s *Server) Run(ctx context.Context) error {
	AdminAPIListenAndServe(ctx)

	// Delay the context cancel by 5s to give Kubernetes some time to redirect
	// traffic to another pod.
	ctx = cmdutil.ContextWithDelay(ctx, 5*time.Second)

	router := chi.NewRouter()
	router.Use(
		Recoverer(),
		middleware.Compress(7),
		RequestLogger(),
	)

	for _, h := range s.Handlers {
		h.Register(router)
	}

	slog.InfoContext(ctx, "http server listening on port 8080")
	return ListenAndServeWithContext(ctx, "0.0.0.0:8080", router)
}
