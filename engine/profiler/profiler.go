package profiler

import (
	"log"
	"runtime"
	"time"
)

// Stats is one reporting window's worth of frame statistics.
type Stats struct {
	// Frames is the number of frames computed during the window.
	Frames int
	// FPS is Frames divided by the window length.
	FPS float64
	// AvgCompute is the mean time spent computing a frame.
	AvgCompute time.Duration
	// MaxCompute is the slowest frame computed during the window.
	MaxCompute time.Duration
	// ShowTime is the show clock value of the last frame in the window.
	ShowTime float64
	// HeapMB is the live heap at the end of the window.
	HeapMB float64
	// GCPauseMaxUs is the longest GC pause since the previous window, in microseconds.
	GCPauseMaxUs uint64
}

// Profiler tracks frame compute time and memory statistics for the engine tick loop.
// Outputs stats to the log at a configurable interval.
type Profiler struct {
	frames         int
	totalCompute   time.Duration
	maxCompute     time.Duration
	showTime       float64
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32

	now  func() time.Time
	logf func(format string, args ...any)
}

// NewProfiler creates a new Profiler reporting every interval.
// A non-positive interval defaults to 1 second.
//
// Parameters:
//   - interval: how often statistics are reported
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(interval time.Duration) *Profiler {
	if interval <= 0 {
		interval = time.Second
	}
	p := &Profiler{
		updateInterval: interval,
		now:            time.Now,
		logf:           log.Printf,
	}
	p.lastTime = p.now()
	return p
}

// Observe records one computed frame. Logs and returns the window statistics when the update interval has elapsed.
//
// Parameters:
//   - compute: how long the frame took to compute
//   - showTime: the show time the frame was computed for
//
// Returns:
//   - Stats: the finished window's statistics, valid only when the bool is true
//   - bool: true if stats were logged this call
func (p *Profiler) Observe(compute time.Duration, showTime float64) (Stats, bool) {
	p.frames++
	p.totalCompute += compute
	if compute > p.maxCompute {
		p.maxCompute = compute
	}
	p.showTime = showTime

	current := p.now()
	elapsed := current.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return Stats{}, false
	}

	runtime.ReadMemStats(&p.memStats)
	stats := Stats{
		Frames:       p.frames,
		FPS:          float64(p.frames) / elapsed.Seconds(),
		AvgCompute:   p.totalCompute / time.Duration(p.frames),
		MaxCompute:   p.maxCompute,
		ShowTime:     p.showTime,
		HeapMB:       float64(p.memStats.Alloc) / 1024 / 1024,
		GCPauseMaxUs: p.maxPause(),
	}

	p.logf("[Profiler] t=%.2fs | FPS: %.2f | Compute avg: %s max: %s | Heap: %.2f MB | GC max pause: %d µs",
		stats.ShowTime, stats.FPS, stats.AvgCompute, stats.MaxCompute, stats.HeapMB, stats.GCPauseMaxUs)

	p.frames = 0
	p.totalCompute = 0
	p.maxCompute = 0
	p.lastTime = current
	p.lastGCCount = p.memStats.NumGC
	return stats, true
}

// maxPause scans the GC pause ring for the longest pause since the previous window.
func (p *Profiler) maxPause() uint64 {
	gcCount := p.memStats.NumGC
	startIdx := p.lastGCCount
	// PauseNs is a circular buffer of the last 256 pauses
	if gcCount-startIdx > 256 {
		startIdx = gcCount - 256
	}
	var maxUs uint64
	for i := startIdx; i < gcCount; i++ {
		if pause := p.memStats.PauseNs[i%256] / 1000; pause > maxUs {
			maxUs = pause
		}
	}
	return maxUs
}
