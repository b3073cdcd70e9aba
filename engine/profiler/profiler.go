package profiler

import (
	"log/slog"
	"runtime"
	"time"
)

// Stats is one reporting window of frame and memory statistics.
type Stats struct {
	FPS          float64
	AvgFrameTime time.Duration
	HeapMB       float64
	SysMB        float64
	AllocRateMB  float64
	GCCount      uint32
	LastPauseUs  uint64
	MaxPauseUs   uint64
}

// Profiler tracks frame rate and memory statistics for performance monitoring.
// Outputs stats to the default slog logger at a configurable interval.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	logger         *slog.Logger
}

// NewProfiler creates a new Profiler reporting every interval.
// A non-positive interval defaults to 1 second.
//
// Parameters:
//   - interval: time between reports
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(interval time.Duration) *Profiler {
	if interval <= 0 {
		interval = time.Second
	}
	return &Profiler{
		lastTime:       time.Now(),
		updateInterval: interval,
		logger:         slog.Default().With("component", "profiler"),
	}
}

// Tick should be called once per frame. See TickAt.
func (p *Profiler) Tick() (Stats, bool) {
	return p.TickAt(time.Now())
}

// TickAt counts one frame completed at now and, once the update interval has elapsed,
// logs and returns the statistics for the window.
//
// Parameters:
//   - now: the frame completion time
//
// Returns:
//   - Stats: the statistics for the window that just closed
//   - bool: true if stats were reported this tick, false otherwise
func (p *Profiler) TickAt(now time.Time) (Stats, bool) {
	p.frameCount++
	elapsed := now.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return Stats{}, false
	}

	runtime.ReadMemStats(&p.memStats)
	s := Stats{
		FPS:          float64(p.frameCount) / elapsed.Seconds(),
		AvgFrameTime: elapsed / time.Duration(p.frameCount),
		HeapMB:       float64(p.memStats.Alloc) / 1024 / 1024,
		SysMB:        float64(p.memStats.Sys) / 1024 / 1024,
		AllocRateMB:  float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds(),
		GCCount:      p.memStats.NumGC,
	}

	if gc := s.GCCount; gc > 0 {
		// PauseNs is a circular buffer of the last 256 GC pauses.
		s.LastPauseUs = p.memStats.PauseNs[(gc-1)%256] / 1000
		start := p.lastGCCount
		if gc-start > 256 {
			start = gc - 256
		}
		for i := start; i < gc; i++ {
			s.MaxPauseUs = max(s.MaxPauseUs, p.memStats.PauseNs[i%256]/1000)
		}
	}

	p.logger.Info("frame stats",
		"fps", s.FPS,
		"frame_time", s.AvgFrameTime,
		"heap_mb", s.HeapMB,
		"alloc_rate_mb", s.AllocRateMB,
		"gc", s.GCCount,
		"gc_last_us", s.LastPauseUs,
		"gc_max_us", s.MaxPauseUs,
		"sys_mb", s.SysMB,
	)

	p.frameCount = 0
	p.lastTime = now
	p.lastGCCount = s.GCCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return s, true
}
