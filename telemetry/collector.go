package telemetry

// FieldSample is the end-of-window view of the simulation a Collector needs.
type FieldSample struct {
	Density        []float32 // Row-major density, read only
	Threshold      float32   // Occupancy threshold for percentile sampling
	Occupied       int
	PeakSpeed      float32
	CFL            float32
	ActiveEmitters int
}

// Collector accumulates input events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float32

	windowStartTick int32

	// Event counters for current window
	injections   int
	emitterFires int
	stampedCells int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	ticksPerWindow := int32(1)
	if dt > 0 {
		if n := int32(windowDurationSec / float64(dt)); n > 1 {
			ticksPerWindow = n
		}
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordInjection records a pointer or scene injection that stamped cells.
func (c *Collector) RecordInjection(stamped int) {
	c.injections++
	c.stampedCells += stamped
}

// RecordEmitterFire records an injection made by a persistent emitter.
func (c *Collector) RecordEmitterFire(stamped int) {
	c.emitterFires++
	c.stampedCells += stamped
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, sample FieldSample) WindowStats {
	mass, mean, std, p50, p90 := ComputeDensityStats(sample.Density, sample.Threshold)

	var coverage float64
	if n := len(sample.Density); n > 0 {
		coverage = float64(sample.Occupied) / float64(n)
	}

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * float64(c.dt),

		Injections:   c.injections,
		EmitterFires: c.emitterFires,
		StampedCells: c.stampedCells,

		ActiveEmitters: sample.ActiveEmitters,

		Mass:        mass,
		Occupied:    sample.Occupied,
		Coverage:    coverage,
		DensityMean: mean,
		DensityStd:  std,
		DensityP50:  p50,
		DensityP90:  p90,

		PeakSpeed: float64(sample.PeakSpeed),
		CFL:       float64(sample.CFL),
	}

	c.windowStartTick = currentTick
	c.injections = 0
	c.emitterFires = 0
	c.stampedCells = 0

	return stats
}

// Reset discards the current window and starts the next one at startTick.
func (c *Collector) Reset(startTick int32) {
	c.windowStartTick = startTick
	c.injections = 0
	c.emitterFires = 0
	c.stampedCells = 0
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
