package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/glowbeauty-golang/internal/ai"
	"github.com/01moynul/glowbeauty-golang/internal/auth"
	"github.com/01moynul/glowbeauty-golang/internal/config"
	"github.com/01moynul/glowbeauty-golang/internal/events"
	"github.com/01moynul/glowbeauty-golang/internal/invoice"
	"github.com/01moynul/glowbeauty-golang/internal/otp"
	"github.com/01moynul/glowbeauty-golang/internal/payments"
	"github.com/01moynul/glowbeauty-golang/internal/realtime"
	"github.com/01moynul/glowbeauty-golang/internal/store"
)

// Handlers struct holds all dependencies for our handlers.
// Payments and Assistant are nil when their integration is not configured.
type Handlers struct {
	Store     *store.Store
	Tokens    *auth.Manager
	OTP       *otp.Service
	Payments  payments.Gateway
	Events    events.Publisher
	Feed      *realtime.Hub
	Assistant *ai.Service
	Invoice   invoice.StoreInfo
	Config    config.Config
	Logger    *slog.Logger
}

func (h *Handlers) log() *slog.Logger {
	if h.Logger == nil {
		return slog.Default()
	}
	return h.Logger
}

// publish sends an event. Delivery failures are logged; the request that
// caused the event has already succeeded.
func (h *Handlers) publish(ctx context.Context, key string, v any) {
	if h.Events == nil {
		return
	}
	if err := h.Events.Publish(ctx, key, v); err != nil {
		h.log().Error("publish event failed", "key", key, "error", err)
	}
}

// storeError maps store errors to responses. entity names the record for
// 404/409 messages; action completes "Failed to ..." for everything else.
func (h *Handlers) storeError(c *gin.Context, err error, entity, action string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": entity + " not found"})
	case errors.Is(err, store.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": entity + " already exists"})
	default:
		h.log().Error("request failed", "action", action, "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action})
	}
}

// paramID parses a positive numeric path parameter, writing a 400 when it
// is not one.
func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return id, true
}

// queryBool reads an optional boolean query parameter.
func queryBool(c *gin.Context, name string) *bool {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &v
}

// queryInt reads an optional non-negative integer query parameter.
func queryInt(c *gin.Context, name string) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// Health handles GET /api/health
func (h *Handlers) Health(c *gin.Context) {
	if err := h.Store.Ping(c.Request.Context()); err != nil {
		h.log().Error("health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": "down"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "up"})
}
