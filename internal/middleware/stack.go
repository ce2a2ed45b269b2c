package middleware

import "net/http"

// Stack composes middlewares so the first listed runs outermost.
//
//	stack := Stack(logging.Handler, authMw.WithIdentity, authMw.RequireIdentity)
//	mux.Handle("GET /api/quotes", stack(quoteHandler))
func Stack(middlewares ...func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(final http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			final = middlewares[i](final)
		}
		return final
	}
}
