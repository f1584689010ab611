package webutil

import "net/http"

// Middleware is a function that wraps an http.Handler with additional
// behavior. The signature matches what chi expects, so middlewares work both
// in a plain http server and mounted on a chi router.
type Middleware func(http.Handler) http.Handler

// Chain combines the given middlewares into a single middleware. The first
// middleware becomes the outermost wrapper, so it sees the request first and
// the response last.
func Chain(middlewares ...Middleware) Middleware {
	return func(next http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			next = middlewares[i](next)
		}
		return next
	}
}
