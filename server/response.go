package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/whisper-gateway/errors"
)

// RespondWithError writes err as {"error", "error_type"}. An *AppError in
// the chain decides the status; anything else becomes a generic 500.
func RespondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		appErr = apperrors.Internal(err)
	}
	c.JSON(appErr.HTTPStatus, appErr.ToResponse())
}

// RespondOK sends a 200 response with body as is.
func RespondOK(c *gin.Context, body any) {
	c.JSON(http.StatusOK, body)
}
