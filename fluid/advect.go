package fluid

import (
	"runtime"
	"sync"
)

// advect transports src through (velU, velV) into dst by tracing every cell
// back one timestep and sampling src bilinearly at the departure point.
// The departure point is clamped to [0.5, n-1.5] so the 2x2 stencil never
// leaves the grid; there is no wrap and no extrapolation.
func (s *Simulation) advect(src, dst, velU, velV *Field) {
	w := s.width
	dt := s.dt
	maxX := float32(s.width) - 1.5
	maxY := float32(s.height) - 1.5

	q := src.values
	out := dst.values
	us := velU.values
	vs := velV.values

	s.rows(func(y int) {
		row := y * w
		for x := 0; x < w; x++ {
			i := row + x

			prevX := clampCoord(float32(x)-us[i]*dt, 0.5, maxX)
			prevY := clampCoord(float32(y)-vs[i]*dt, 0.5, maxY)

			// prevX, prevY >= 0.5, so truncation is floor.
			x0 := int(prevX)
			y0 := int(prevY)
			sx := prevX - float32(x0)
			sy := prevY - float32(y0)

			i00 := y0*w + x0
			i10 := i00 + 1
			i01 := i00 + w
			i11 := i01 + 1

			out[i] = (1-sx)*(1-sy)*q[i00] +
				sx*(1-sy)*q[i10] +
				(1-sx)*sy*q[i01] +
				sx*sy*q[i11]
		}
	})
}

// clampCoord constrains v to [lo, hi]. NaN maps to lo.
func clampCoord(v, lo, hi float32) float32 {
	if !(v >= lo) {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// rows runs fn for every row, split across the configured workers. Rows of a
// single pass are independent; callers never overlap two passes.
func (s *Simulation) rows(fn func(y int)) {
	if s.params.Workers <= 1 {
		for y := 0; y < s.height; y++ {
			fn(y)
		}
		return
	}
	parallelRange(0, s.height, s.params.Workers, fn)
}

// parallelRange executes fn for each i in [start,end), split into contiguous
// chunks across at most workers goroutines, and waits for all of them.
func parallelRange(start, end, workers int, fn func(i int)) {
	total := end - start
	if total <= 0 {
		return
	}
	if procs := runtime.GOMAXPROCS(0); workers > procs {
		workers = procs
	}
	if workers > total {
		workers = total
	}
	if workers < 1 {
		workers = 1
	}
	chunk := (total + workers - 1) / workers

	var wg sync.WaitGroup
	for s := start; s < end; s += chunk {
		e := s + chunk
		if e > end {
			e = end
		}
		wg.Add(1)
		go func(ss, ee int) {
			defer wg.Done()
			for i := ss; i < ee; i++ {
				fn(i)
			}
		}(s, e)
	}
	wg.Wait()
}
