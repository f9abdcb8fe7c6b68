package metrics

import (
	"time"

	"github.com/gin-gonic/gin"
)

// GinMiddleware records every completed request. The route template is used
// as the endpoint label so /api/v1/products/:id stays one series regardless
// of the concrete ID.
func GinMiddleware(collector *Collector) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		collector.RecordRequest(endpoint, c.Writer.Status(), time.Since(start))
	}
}
