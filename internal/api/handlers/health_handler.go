package handlers

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// HealthHandler reports service liveness plus a host resource snapshot.
type HealthHandler struct{}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

type healthData struct {
	Status        string  `json:"status"`
	Timestamp     string  `json:"timestamp"`
	UptimeSeconds uint64  `json:"uptimeSeconds"`
	CPUPercent    float64 `json:"cpuPercent"`
	MemoryPercent float64 `json:"memoryPercent"`
}

// Get handles the health check request. Stat collection is best-effort; a
// failing probe never fails the endpoint.
func (h *HealthHandler) Get(w http.ResponseWriter, r *http.Request) {
	data := healthData{
		Status:    "OK",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	if uptime, err := host.Uptime(); err == nil {
		data.UptimeSeconds = uptime
	} else {
		log.Warn().Err(err).Msg("Failed to read host uptime")
	}
	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		data.CPUPercent = percents[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		data.MemoryPercent = vm.UsedPercent
	}

	JSON(w, http.StatusOK, "Server is healthy", data)
}
