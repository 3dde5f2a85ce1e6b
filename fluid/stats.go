package fluid

import (
	"math"

	"gonum.org/v1/gonum/blas/blas32"
)

// Mass returns the summed density over the grid.
func (s *Simulation) Mass() float64 {
	var total float64
	for _, d := range s.density.Front().values {
		total += float64(d)
	}
	return total
}

// OccupiedCells returns the number of cells currently in the occupancy mask.
func (s *Simulation) OccupiedCells() int {
	return s.occupancy.Count()
}

// PeakSpeed returns the largest absolute velocity component on the grid.
func (s *Simulation) PeakSpeed() float32 {
	return max(absMax(s.u.Front().values), absMax(s.v.Front().values))
}

// CFL returns PeakSpeed*dt: the furthest a backward trace reaches, in cells.
// Values above 1 mean the trace skips cells and the 0.5 clamp starts to bite.
func (s *Simulation) CFL() float32 {
	return s.PeakSpeed() * float32(math.Abs(float64(s.dt)))
}

func absMax(data []float32) float32 {
	if len(data) == 0 {
		return 0
	}
	i := blas32.Iamax(blas32.Vector{N: len(data), Inc: 1, Data: data})
	if i < 0 {
		return 0
	}
	return float32(math.Abs(float64(data[i])))
}
