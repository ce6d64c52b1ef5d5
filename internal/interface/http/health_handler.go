package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Check tests one dependency.
type Check func(ctx context.Context) error

type HealthHandler struct {
	started  time.Time
	required map[string]Check
	optional map[string]Check
}

// NewHealthHandler takes the checks that decide health and the ones that are only
// reported, e.g. Redis, which the cache and limiter work without.
func NewHealthHandler(required, optional map[string]Check) *HealthHandler {
	return &HealthHandler{started: time.Now(), required: required, optional: optional}
}

type healthResponse struct {
	Status string            `json:"status"`
	Uptime string            `json:"uptime"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Health reports "ok". A failing required check turns it into "degraded" with 503;
// optional failures only show up under checks.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	res := healthResponse{Status: "ok", Uptime: time.Since(h.started).Round(time.Second).String()}
	status := http.StatusOK
	if n := len(h.required) + len(h.optional); n > 0 {
		res.Checks = make(map[string]string, n)
	}
	for name, check := range h.required {
		if err := check(ctx); err != nil {
			res.Checks[name] = err.Error()
			res.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		res.Checks[name] = "ok"
	}
	for name, check := range h.optional {
		if err := check(ctx); err != nil {
			res.Checks[name] = err.Error()
			continue
		}
		res.Checks[name] = "ok"
	}
	c.JSON(status, res)
}
