package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Input during window
	Injections   int `csv:"injections"`
	EmitterFires int `csv:"emitter_fires"`
	StampedCells int `csv:"stamped_cells"`

	// Sources at window end
	ActiveEmitters int `csv:"active_emitters"`

	// Density field (sampled at window end)
	Mass        float64 `csv:"mass"`
	Occupied    int     `csv:"occupied"`
	Coverage    float64 `csv:"coverage"` // Occupied / cells
	DensityMean float64 `csv:"density_mean"`
	DensityStd  float64 `csv:"density_std"`
	DensityP50  float64 `csv:"density_p50"` // Over occupied cells
	DensityP90  float64 `csv:"density_p90"`

	// Velocity field
	PeakSpeed float64 `csv:"peak_speed"`
	CFL       float64 `csv:"cfl"`
}

// ComputeDensityStats summarizes a density field: total mass, mean and
// sample standard deviation over every cell, and the empirical median and
// 90th percentile over cells above threshold.
func ComputeDensityStats(density []float32, threshold float32) (mass, mean, std, p50, p90 float64) {
	n := len(density)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}

	values := make([]float64, n)
	inked := make([]float64, 0, n/8)
	for i, d := range density {
		values[i] = float64(d)
		if d > threshold {
			inked = append(inked, float64(d))
		}
	}

	mass = floats.Sum(values)
	if n > 1 {
		mean, std = stat.MeanStdDev(values, nil)
	} else {
		mean = values[0]
	}

	if len(inked) > 0 {
		sort.Float64s(inked)
		p50 = stat.Quantile(0.5, stat.Empirical, inked, nil)
		p90 = stat.Quantile(0.9, stat.Empirical, inked, nil)
	}

	return mass, mean, std, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("injections", s.Injections),
		slog.Int("emitter_fires", s.EmitterFires),
		slog.Int("stamped_cells", s.StampedCells),
		slog.Int("active_emitters", s.ActiveEmitters),
		slog.Float64("mass", s.Mass),
		slog.Int("occupied", s.Occupied),
		slog.Float64("coverage", s.Coverage),
		slog.Float64("density_mean", s.DensityMean),
		slog.Float64("density_std", s.DensityStd),
		slog.Float64("density_p50", s.DensityP50),
		slog.Float64("density_p90", s.DensityP90),
		slog.Float64("peak_speed", s.PeakSpeed),
		slog.Float64("cfl", s.CFL),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"injections", s.Injections,
		"emitter_fires", s.EmitterFires,
		"active_emitters", s.ActiveEmitters,
		"mass", s.Mass,
		"occupied", s.Occupied,
		"coverage", s.Coverage,
		"density_p50", s.DensityP50,
		"density_p90", s.DensityP90,
		"peak_speed", s.PeakSpeed,
		"cfl", s.CFL,
	)
}
