package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/beesaferoot/myleasing/internal/logger"
	"github.com/beesaferoot/myleasing/internal/web"
)

const (
	TraceHeader = "X-Trace-ID"
	traceIDKey  = "trace_id"
)

// RequestLogger puts a per-request logger carrying the trace id into the
// request context and logs the start and end of every request.
func RequestLogger(base logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(TraceHeader)
		if _, err := uuid.Parse(traceID); err != nil {
			traceID = uuid.New().String()
		}
		c.Set(traceIDKey, traceID)
		c.Header(TraceHeader, traceID)

		reqLogger := base.WithFields(logger.Fields{"trace_id": traceID})
		httpLogger := reqLogger.WithFields(logger.Fields{
			"http_method": c.Request.Method,
			"http_path":   c.Request.URL.Path,
			"remote_addr": c.ClientIP(),
		})
		c.Request = c.Request.WithContext(logger.ContextWithLogger(c.Request.Context(), reqLogger))

		start := time.Now()
		httpLogger.Debug("Request started", nil)

		c.Next()

		httpLogger.Info("Request finished", logger.Fields{
			"status_code":   c.Writer.Status(),
			"bytes_written": c.Writer.Size(),
			"duration_ms":   time.Since(start).Milliseconds(),
		})
	}
}

// TraceID returns the trace id assigned by RequestLogger.
func TraceID(c *gin.Context) string {
	return c.GetString(traceIDKey)
}

// Recovery logs a panic with the request logger and renders the error page.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.FromContext(c.Request.Context()).Error("Panic recovered", fmt.Errorf("%v", recovered), nil)
		c.HTML(http.StatusInternalServerError, web.PageError, gin.H{
			"Title":       "Error",
			"CurrentUser": CurrentUser(c),
			"TraceID":     TraceID(c),
			"CSRFField":   CSRFFieldHTML(c),
		})
		c.Abort()
	})
}
