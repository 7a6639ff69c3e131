package httpcontroller

import (
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// SystemStats is the host resource snapshot shown on the admin dashboard.
type SystemStats struct {
	Hostname    string
	Uptime      time.Duration
	CPUPercent  float64
	MemUsed     uint64
	MemTotal    uint64
	MemPercent  float64
	DiskUsed    uint64
	DiskTotal   uint64
	DiskPercent float64
}

// collectSystemStats gathers host metrics for the dashboard. Each probe
// is independent; a failing one leaves its fields zero rather than
// hiding the rest.
func (s *Server) collectSystemStats() *SystemStats {
	stats := &SystemStats{}

	if info, err := host.Info(); err == nil {
		stats.Hostname = info.Hostname
		stats.Uptime = time.Duration(info.Uptime) * time.Second
	} else {
		s.webLogger.Debug("host info unavailable", "error", err)
	}

	// Instant sample; a 1s blocking sample would stall the page render.
	if percent, err := cpu.Percent(0, false); err == nil && len(percent) > 0 {
		stats.CPUPercent = percent[0]
	} else if err != nil {
		s.webLogger.Debug("cpu stats unavailable", "error", err)
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		stats.MemUsed = vm.Used
		stats.MemTotal = vm.Total
		stats.MemPercent = vm.UsedPercent
	} else {
		s.webLogger.Debug("memory stats unavailable", "error", err)
	}

	if usage, err := disk.Usage("/"); err == nil {
		stats.DiskUsed = usage.Used
		stats.DiskTotal = usage.Total
		stats.DiskPercent = usage.UsedPercent
	} else {
		s.webLogger.Debug("disk stats unavailable", "error", err)
	}

	return stats
}
