package webutil

import (
	"context"
	"fmt"
	"net/http"
	"net/http/pprof"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/retra-de/retra-go-sdk/pkg/logutil"
)

// AdminAPIListenAndServe starts the admin API on the default address
// 0.0.0.0:8090.
func AdminAPIListenAndServe(ctx context.Context) {
	AdminAPIListenAndServeWithAddress(ctx, "0.0.0.0", "8090")
}

// AdminAPIListenAndServeWithAddress starts the internal endpoints in the
// background: Prometheus metrics on /metrics, a readiness probe on /health
// and the pprof handlers on /debug/pprof.
func AdminAPIListenAndServeWithAddress(ctx context.Context, host, port string) {
	mux := http.NewServeMux()

	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if ctx.Err() != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprintln(w, "SHUTTING DOWN")
			return
		}

		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "OK")
	})

	// Copied from init in https://golang.org/src/net/http/pprof/pprof.go,
	// because the package does not allow specifying a mux.
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	// The admin api gets its own context, because we want to delay the
	// server shutdown as long as possible. The readiness probe keeps
	// answering during shutdown, so ingresses notice the instance going
	// away instead of running into refused connections.
	bg := context.Background()

	go func() {
		log := logutil.Logger("admin-api")
		log.DebugContext(ctx, fmt.Sprintf("admin api listening on port %s", port))

		err := ListenAndServeWithContext(bg, fmt.Sprintf("%s:%s", host, port), mux)
		if err != nil {
			log.ErrorContext(ctx, err.Error(), logutil.Exception(err))
		}
	}()
}
