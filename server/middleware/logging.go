package middleware

import (
	"net/http"
	"slices"
	"time"

	"github.com/kbukum/whisper-gateway/logger"
)

var quietPaths = []string{"/health", "/metrics"}

// RequestLogger logs every request with method, path, status, and duration.
// 5xx responses log at ERROR, 4xx at WARN, the rest at DEBUG. Health and
// metrics polling is skipped.
func RequestLogger(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if slices.Contains(quietPaths, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r)

			fields := logger.DurationFields("http_request", time.Since(start))
			fields["method"] = r.Method
			fields[logger.FieldPath] = r.URL.Path
			fields[logger.FieldStatus] = sw.status
			if id := r.Header.Get(HeaderRequestID); id != "" {
				fields[logger.FieldRequestID] = id
			}
			logByStatus(log, fields, sw.status)
		})
	}
}

func logByStatus(log *logger.Logger, fields map[string]interface{}, status int) {
	switch {
	case status >= 500:
		log.Error("Request completed", fields)
	case status >= 400:
		log.Warn("Request completed", fields)
	default:
		log.Debug("Request completed", fields)
	}
}
