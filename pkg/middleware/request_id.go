package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prohmpiriya/handiq-workshops/pkg/logger"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	// RequestIDHeader is the header key for request ID
	RequestIDHeader = "X-Request-ID"
	// RequestIDKey is the context key for request ID
	RequestIDKey = "request_id"

	requestLoggerKey   = "request_logger"
	maxRequestIDLength = 64
)

// RequestID accepts a well-formed client X-Request-ID or issues a new one. The id is
// echoed back, tagged on the active span and bound to a request scoped logger.
func RequestID(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		log = logger.Get()
	}
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if !validRequestID(requestID) {
			requestID = uuid.New().String()
		}

		c.Set(RequestIDKey, requestID)
		c.Set(requestLoggerKey, log.With(zap.String("request_id", requestID)))
		c.Header(RequestIDHeader, requestID)
		trace.SpanFromContext(c.Request.Context()).SetAttributes(attribute.String("request_id", requestID))
		c.Next()
	}
}

// validRequestID allows short ids made of letters, digits, '-', '_' and '.'
func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-' || r == '_' || r == '.':
		default:
			return false
		}
	}
	return true
}

// GetRequestID returns the request ID from context
func GetRequestID(c *gin.Context) string {
	if id, exists := c.Get(RequestIDKey); exists {
		if requestID, ok := id.(string); ok {
			return requestID
		}
	}
	return ""
}

// RequestLogger returns the logger bound to this request, with the idempotency key
// attached when the request carries one
func RequestLogger(c *gin.Context) *logger.Logger {
	log := logger.Get()
	if v, exists := c.Get(requestLoggerKey); exists {
		if l, ok := v.(*logger.Logger); ok {
			log = l
		}
	}
	if key, ok := GetIdempotencyKey(c); ok && key != "" {
		log = log.With(zap.String("idempotency_key", key))
	}
	return log
}
