package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prohmpiriya/handiq-workshops/internal/repository"
	"github.com/prohmpiriya/handiq-workshops/pkg/redis"
)

// Brand is reported by the root endpoint
const Brand = "HANDIQ"

// HealthChecker is satisfied by *redis.Client
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	store repository.StoreInfo
	redis HealthChecker
}

// NewHealthHandler creates a new HealthHandler; redis may be nil
func NewHealthHandler(store repository.StoreInfo, redisClient *redis.Client) *HealthHandler {
	h := &HealthHandler{store: store}
	if redisClient != nil {
		h.redis = redisClient
	}
	return h
}

// RootResponse is the body of GET /
type RootResponse struct {
	Brand  string `json:"brand"`
	Status string `json:"status"`
}

// HealthResponse represents health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// ReadyResponse represents readiness check response
type ReadyResponse struct {
	Status     string            `json:"status"`
	Timestamp  string            `json:"timestamp"`
	Components map[string]string `json:"components"`
}

// StoreStatusResponse is the body of GET /test
type StoreStatusResponse struct {
	Store       string   `json:"store"`
	Status      string   `json:"status"`
	Collections []string `json:"collections,omitempty"`
	Message     string   `json:"message,omitempty"`
}

// Root handles GET /
func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, RootResponse{Brand: Brand, Status: "ok"})
}

// Health returns a simple health check (liveness probe)
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Ready returns a readiness check (readiness probe)
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	components := make(map[string]string)
	allHealthy := true

	if err := h.store.Ping(ctx); err != nil {
		components["store"] = "unhealthy: " + err.Error()
		allHealthy = false
	} else {
		components["store"] = "healthy"
	}

	if h.redis != nil {
		if err := h.redis.HealthCheck(ctx); err != nil {
			components["redis"] = "unhealthy: " + err.Error()
			allHealthy = false
		} else {
			components["redis"] = "healthy"
		}
	} else {
		components["redis"] = "not configured"
	}

	response := ReadyResponse{
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Components: components,
	}

	if allHealthy {
		response.Status = "ready"
		c.JSON(http.StatusOK, response)
	} else {
		response.Status = "not ready"
		c.JSON(http.StatusServiceUnavailable, response)
	}
}

// StoreStatus handles GET /test and lists the collections or tables of the store
func (h *HealthHandler) StoreStatus(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	resp := StoreStatusResponse{Store: h.store.Driver()}

	collections, err := h.store.Collections(ctx)
	if err != nil {
		resp.Status = "error"
		resp.Message = err.Error()
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}

	resp.Status = "connected"
	resp.Collections = collections
	c.JSON(http.StatusOK, resp)
}
