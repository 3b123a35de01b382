package middleware

import (
	"time"

	"cargoassist/models"
	"cargoassist/services/tasks"

	"github.com/gin-gonic/gin"
)

// AuditMiddleware records request metadata and hands it to the task queue
// after the response is written. Enqueue failures never affect the request.
func AuditMiddleware(enqueuer *tasks.Enqueuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		enqueuer.EnqueueAudit(models.AuditRecord{
			Endpoint:  c.FullPath(),
			Method:    c.Request.Method,
			Status:    c.Writer.Status(),
			LatencyMS: float64(time.Since(start).Microseconds()) / 1000.0,
			ClientIP:  getClientIP(c),
			At:        start.UTC(),
		})
	}
}
