package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/meghashyamc/docsearch/apperror"
	"github.com/meghashyamc/docsearch/logger"
	"github.com/meghashyamc/docsearch/metrics"
)

const HeaderRequestID = "X-Request-ID"

const unmatchedRoute = "unmatched"

// Longest form accepted by uuid.Parse: urn:uuid: prefix plus 36 characters
const maxRequestIDLength = 45

func loggingMiddleware(logger logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := requestIDFrom(c)
		c.Header(HeaderRequestID, requestID)

		start := time.Now()
		c.Next()

		logger.Info("request",
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

// requestIDFrom keeps a client supplied request id only if it is a uuid.
func requestIDFrom(c *gin.Context) string {
	requestID := c.GetHeader(HeaderRequestID)
	if len(requestID) > maxRequestIDLength {
		return uuid.NewString()
	}
	if _, err := uuid.Parse(requestID); err != nil {
		return uuid.NewString()
	}
	return requestID
}

func metricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		m.ObserveRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}

// recoveryMiddleware turns a panic in any handler into an internal failure.
// It is registered after the logging and metrics middlewares so recovered
// requests still reach them.
func recoveryMiddleware(mapper *apperror.Mapper) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(gin.DefaultErrorWriter, func(c *gin.Context, recovered any) {
		mapped := mapper.Map(apperror.Internal(fmt.Errorf("panic: %v", recovered)))
		c.AbortWithStatusJSON(mapped.Status, mapped.Envelope)
	})
}

// _CORSMiddleware starts with _ so that it is not imported outside of the server package.
func _CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, accept, origin, Cache-Control, X-Requested-With, "+HeaderRequestID) // nolint:lll
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Location, "+HeaderRequestID)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)

			return
		}

		c.Next()
	}
}
