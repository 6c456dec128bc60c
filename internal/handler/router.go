package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prohmpiriya/handiq-workshops/internal/metrics"
	"github.com/prohmpiriya/handiq-workshops/pkg/logger"
	"github.com/prohmpiriya/handiq-workshops/pkg/middleware"
	"github.com/prohmpiriya/handiq-workshops/pkg/response"
	"github.com/prohmpiriya/handiq-workshops/pkg/telemetry"
)

// Handlers groups the HTTP handlers of the service
type Handlers struct {
	Health  *HealthHandler
	Catalog *CatalogHandler
	Booking *BookingHandler
	Payment *PaymentHandler
	Review  *ReviewHandler
	Admin   *AdminHandler
}

// RouterConfig configures the middleware chain
type RouterConfig struct {
	Logger *logger.Logger
	// Idempotency guards booking and payment writes; nil disables it
	Idempotency *middleware.IdempotencyConfig
	// AdminSecret signs admin tokens; empty leaves /admin open
	AdminSecret string
	AdminIssuer string
}

var probePaths = []string{"/health", "/ready"}

// NewRouter builds the gin engine with every route of the service
func NewRouter(h *Handlers, cfg *RouterConfig) *gin.Engine {
	if cfg == nil {
		cfg = &RouterConfig{}
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Get()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(telemetry.TracingMiddleware(probePaths...))
	router.Use(middleware.RequestID(log))
	router.Use(middleware.CORS())
	router.Use(middleware.Logger(log, probePaths...))
	router.Use(requestDuration())

	router.GET("/", h.Health.Root)
	router.GET("/health", h.Health.Health)
	router.GET("/ready", h.Health.Ready)
	router.GET("/test", h.Health.StoreStatus)

	writes := []gin.HandlerFunc{}
	if cfg.Idempotency != nil {
		writes = append(writes, middleware.IdempotencyMiddleware(cfg.Idempotency))
	}

	api := router.Group("/api")
	{
		api.GET("/workshops", h.Catalog.ListWorkshops)
		api.GET("/workshops/:slug", h.Catalog.GetWorkshop)

		api.GET("/sessions/next", h.Catalog.NextSession)
		api.GET("/sessions", h.Catalog.ListSessions)

		api.POST("/bookings", append(writes, h.Booking.CreateBooking)...)
		api.GET("/bookings/:id", h.Booking.GetBooking)

		api.POST("/payments/checkout", h.Payment.Checkout)
		api.POST("/payments/confirm", append(writes, h.Payment.ConfirmPayment)...)

		api.GET("/reviews", h.Review.ListReviews)
		api.POST("/reviews", h.Review.CreateReview)
	}

	router.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "Not found")
	})

	admin := router.Group("/admin")
	admin.Use(middleware.AdminAuth(cfg.AdminSecret, cfg.AdminIssuer))
	{
		admin.POST("/send-reminders", h.Admin.SendReminders)
	}

	return router
}

// requestDuration records the latency of every routed request
func requestDuration() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if route := c.FullPath(); route != "" {
			metrics.RecordRequestDuration(c.Request.Context(), c.Request.Method+" "+route, time.Since(start).Seconds())
		}
	}
}
