package endpoint

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthDetails supplies service-specific fields for the health body.
type HealthDetails func(ctx context.Context) map[string]any

// Health returns a liveness handler. Once the server is up it always
// answers 200 with status "ok", the service name, a UTC RFC3339 timestamp
// and whatever details adds.
func Health(serviceName string, details HealthDetails) gin.HandlerFunc {
	return func(c *gin.Context) {
		body := gin.H{}
		if details != nil {
			for k, v := range details(c.Request.Context()) {
				body[k] = v
			}
		}
		body["status"] = "ok"
		body["service"] = serviceName
		body["timestamp"] = time.Now().UTC().Format(time.RFC3339)

		c.JSON(http.StatusOK, body)
	}
}
