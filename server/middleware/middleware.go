package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin/render"
)

// Middleware wraps an http.Handler with additional behavior. The server
// applies the whole stack around its root handler, so it covers every route.
type Middleware func(http.Handler) http.Handler

// Chain composes multiple middleware. The first in the list is the outermost
// (runs first on a request, last on a response).
func Chain(middlewares ...Middleware) Middleware {
	return func(final http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			final = middlewares[i](final)
		}
		return final
	}
}

// writeJSON sends body with the given status using gin's JSON renderer.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = render.WriteJSON(w, body)
}
