package api_router

import (
	"time"

	"github.com/haierkeys/voice-notes-service/internal/app"
	pkgapp "github.com/haierkeys/voice-notes-service/pkg/app"
	"github.com/haierkeys/voice-notes-service/pkg/code"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
)

// HealthHandler reports service liveness.
type HealthHandler struct {
	*Handler
}

func NewHealthHandler(a *app.App) *HealthHandler {
	return &HealthHandler{Handler: NewHandler(a)}
}

// HealthResponse is the health check payload.
type HealthResponse struct {
	Status   string  `json:"status"`
	Version  string  `json:"version"`
	Uptime   float64 `json:"uptime"`
	Database string  `json:"database"`
	Load1    float64 `json:"load1"`
	MemUsed  float64 `json:"memUsedPercent"`
}

// Check handles GET /api/health.
func (h *HealthHandler) Check(c *gin.Context) {
	response := HealthResponse{
		Status:   "healthy",
		Version:  h.App.Version().Version,
		Uptime:   time.Since(h.App.StartTime).Seconds(),
		Database: "connected",
	}

	if avg, err := load.Avg(); err == nil {
		response.Load1 = avg.Load1
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		response.MemUsed = vm.UsedPercent
	}

	if err := h.App.DB.Raw("SELECT 1").Error; err != nil {
		response.Status = "unhealthy"
		response.Database = "error"
		pkgapp.NewResponse(c).ToResponse(code.Failed.WithData(response))
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(response))
}
