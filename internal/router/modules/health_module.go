package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-ddd-user-service/internal/interface/http"
	"github.com/oksasatya/go-ddd-user-service/internal/metrics"
)

// HealthModule exposes /health and, when enabled, the prometheus /metrics endpoint.
type HealthModule struct {
	Handler        *handlers.HealthHandler
	MetricsEnabled bool
}

func NewHealthModule(h *handlers.HealthHandler, metricsEnabled bool) *HealthModule {
	return &HealthModule{Handler: h, MetricsEnabled: metricsEnabled}
}

func (m *HealthModule) Register(rg *gin.RouterGroup) {
	rg.GET("/health", m.Handler.Health)
	if m.MetricsEnabled {
		metrics.Init()
		rg.GET("/metrics", gin.WrapH(metrics.Handler()))
	}
}
