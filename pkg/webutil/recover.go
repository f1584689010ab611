package webutil

import "net/http"

// Recoverer converts handler panics into plain 500 responses. Mount it
// outside of RequestLogger, so the logger observes the panic first and logs
// it with the request correlation intact.
//
// Panics with http.ErrAbortHandler pass through untouched, aborting the
// response is their documented purpose.
func Recoverer() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if v == http.ErrAbortHandler {
					panic(v)
				}

				w.WriteHeader(http.StatusInternalServerError)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
