// Package middleware provides HTTP middleware for the dental lab backend.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// MaxRequestIDLength caps request IDs taken from headers so oversized
// values cannot bloat trace attributes.
const MaxRequestIDLength = 128

// TracingConfig holds configuration for the tracing middleware.
type TracingConfig struct {
	// ServiceName is the name of the service for trace identification.
	ServiceName string
	// Enabled controls whether tracing is active.
	Enabled bool
}

// DefaultTracingConfig returns default tracing configuration.
func DefaultTracingConfig() TracingConfig {
	return TracingConfig{
		ServiceName: "dentallab-backend",
		Enabled:     true,
	}
}

// Tracing returns OpenTelemetry tracing middleware with default configuration.
func Tracing() gin.HandlerFunc {
	return TracingWithConfig(DefaultTracingConfig())
}

// TracingWithConfig returns OpenTelemetry tracing middleware with custom
// configuration. It wraps otelgin and tags each span with the request ID so
// traces can be correlated with the X-Request-ID echoed to clients.
func TracingWithConfig(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	baseMiddleware := otelgin.Middleware(cfg.ServiceName)

	return func(c *gin.Context) {
		baseMiddleware(c)

		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			if requestID := requestIDForTrace(c); requestID != "" {
				span.SetAttributes(attribute.String("request_id", requestID))
			}
		}
	}
}

// requestIDForTrace retrieves the request ID from the gin context or header.
// Header values are truncated to keep trace attributes bounded.
func requestIDForTrace(c *gin.Context) string {
	if requestID, exists := c.Get("request_id"); exists {
		if id, ok := requestID.(string); ok && id != "" {
			return id
		}
	}

	headerID := c.GetHeader("X-Request-ID")
	if len(headerID) > MaxRequestIDLength {
		return headerID[:MaxRequestIDLength]
	}
	return headerID
}

// SpanErrorMarker returns a middleware that marks spans with error status
// for HTTP error responses (4xx/5xx).
// This should be placed AFTER the Tracing middleware in the middleware chain.
func SpanErrorMarker() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}

		statusCode := c.Writer.Status()
		if statusCode >= http.StatusBadRequest {
			var errorMessage string
			switch {
			case statusCode >= http.StatusInternalServerError:
				errorMessage = "Internal Server Error"
			case statusCode == http.StatusNotFound:
				errorMessage = "Not Found"
			case statusCode == http.StatusConflict:
				errorMessage = "Conflict"
			case statusCode == http.StatusUnprocessableEntity:
				errorMessage = "Unprocessable Entity"
			default:
				errorMessage = "Client Error"
			}

			span.SetStatus(codes.Error, errorMessage)
			span.SetAttributes(attribute.Int("http.status_code", statusCode))
		}
	}
}
