// Package observability exposes technical metrics about the running server
// process for the stats endpoint.
package observability

import (
	"log/slog"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/shirou/gopsutil/process"
)

// Stats aggregates process and runtime metrics together with a few
// messaging counters maintained by the server.
type Stats struct {
	Pid            int     `json:"pid"`
	UptimeSeconds  float64 `json:"uptime_seconds"`
	CPUPercent     float64 `json:"cpu_percent"`
	RSSBytes       uint64  `json:"rss_bytes"`
	AllocMemMb     uint64  `json:"alloc_mem_mb"`
	NumGoroutine   int     `json:"num_goroutine"`
	NumGC          uint32  `json:"num_gc"`
	ConnectedUsers int     `json:"connected_users"`
	MessagesRouted uint64  `json:"messages_routed"`
}

// Monitor collects the metrics on demand. Counters are updated by the
// router and the hub; the process probe is lazy so a collection failure
// never affects the serving path.
type Monitor struct {
	log     *slog.Logger
	started time.Time

	mu             sync.Mutex
	proc           *process.Process
	messagesRouted uint64
}

func NewMonitor(log *slog.Logger) *Monitor {
	return &Monitor{log: log, started: time.Now()}
}

// MessageRouted increments the routed-message counter.
func (m *Monitor) MessageRouted() {
	m.mu.Lock()
	m.messagesRouted++
	m.mu.Unlock()
}

// Collect gathers the current snapshot. connectedUsers is supplied by the
// caller since presence is owned by the hub.
func (m *Monitor) Collect(connectedUsers int) Stats {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	m.mu.Lock()
	routed := m.messagesRouted
	proc := m.proc
	m.mu.Unlock()

	stats := Stats{
		Pid:            os.Getpid(),
		UptimeSeconds:  time.Since(m.started).Seconds(),
		AllocMemMb:     memStats.Alloc / 1024 / 1024,
		NumGoroutine:   runtime.NumGoroutine(),
		NumGC:          memStats.NumGC,
		ConnectedUsers: connectedUsers,
		MessagesRouted: routed,
	}

	if proc == nil {
		var err error
		proc, err = process.NewProcess(int32(os.Getpid()))
		if err != nil {
			m.log.Warn("failed to attach process probe", "error", err)
			return stats
		}
		m.mu.Lock()
		m.proc = proc
		m.mu.Unlock()
	}

	if memInfo, err := proc.MemoryInfo(); err == nil {
		stats.RSSBytes = memInfo.RSS
	}
	if cpu, err := proc.CPUPercent(); err == nil {
		stats.CPUPercent = cpu
	}
	return stats
}
