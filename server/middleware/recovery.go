package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	apperrors "github.com/kbukum/whisper-gateway/errors"
	"github.com/kbukum/whisper-gateway/logger"
)

// Recovery turns a panic in any handler into a 500 JSON response and logs
// the stack.
func Recovery(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					log.WithContext(r.Context()).Error("Panic recovered", map[string]interface{}{
						logger.FieldError: fmt.Sprintf("%v", rec),
						"stack":           string(debug.Stack()),
						logger.FieldPath:  r.URL.Path,
						"method":          r.Method,
					})
					appErr := apperrors.Internal(fmt.Errorf("panic: %v", rec))
					writeJSON(w, appErr.HTTPStatus, appErr.ToResponse())
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
