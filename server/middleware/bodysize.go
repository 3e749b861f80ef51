package middleware

import (
	"net/http"

	apperrors "github.com/kbukum/whisper-gateway/errors"
	"github.com/kbukum/whisper-gateway/util"
)

const defaultMaxBodySize = 100 * 1024 * 1024 // 100MB

// BodySizeLimit restricts the request body to maxSize (e.g. "100MB").
// Requests that declare a larger Content-Length are rejected with 413 before
// any byte is read; bodies without a length are capped by
// http.MaxBytesReader, which the handler sees as a read error.
func BodySizeLimit(maxSize string) Middleware {
	size := util.ParseSize(maxSize, defaultMaxBodySize)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > size {
				appErr := apperrors.PayloadTooLarge(maxSize)
				writeJSON(w, appErr.HTTPStatus, appErr.ToResponse())
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, size)
			next.ServeHTTP(w, r)
		})
	}
}
