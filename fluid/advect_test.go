package fluid

import (
	"math"
	"math/rand"
	"testing"
)

func TestAdvectZeroVelocityPreservesInterior(t *testing.T) {
	const w, h = 12, 9
	s := mustNew(t, w, h, 0.25)

	rng := rand.New(rand.NewSource(7))
	src := NewField(w, h)
	for i := range src.Data() {
		src.Data()[i] = rng.Float32()
	}
	dst := NewField(w, h)
	zero := NewField(w, h)

	s.advect(src, dst, zero, zero)

	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			if dst.At(y, x) != src.At(y, x) {
				t.Errorf("interior (%d,%d): got %v, want %v", y, x, dst.At(y, x), src.At(y, x))
			}
		}
	}

	// Border cells trace to the 0.5 clamp and blend with their inward
	// neighbor.
	for y := 1; y < h-1; y++ {
		want := 0.5*src.At(y, 0) + 0.5*src.At(y, 1)
		if math.Abs(float64(dst.At(y, 0)-want)) > 1e-6 {
			t.Errorf("left border row %d: got %v, want %v", y, dst.At(y, 0), want)
		}
	}
}

func TestAdvectUniformShift(t *testing.T) {
	const w, h = 16, 16
	s := mustNew(t, w, h, 1)

	// A linear ramp in x moved right by half a cell samples halfway between
	// neighbors, which for a ramp is exact up to rounding.
	src := NewField(w, h)
	u := NewField(w, h)
	v := NewField(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			src.Set(y, x, float32(x))
			u.Set(y, x, 0.5)
		}
	}
	dst := NewField(w, h)
	s.advect(src, dst, u, v)

	for y := 1; y < h-1; y++ {
		for x := 2; x < w-1; x++ {
			want := float64(x) - 0.5
			if math.Abs(float64(dst.At(y, x))-want) > 1e-5 {
				t.Errorf("(%d,%d): got %v, want %v", y, x, dst.At(y, x), want)
			}
		}
	}
}

func TestAdvectClampsDepartureToGrid(t *testing.T) {
	const w, h = 10, 10
	s := mustNew(t, w, h, 1)

	src := NewField(w, h)
	for i := range src.Data() {
		src.Data()[i] = 3
	}
	u := NewField(w, h)
	v := NewField(w, h)
	// Huge velocities would trace far off the grid without the clamp.
	for i := range u.Data() {
		u.Data()[i] = 1e6
		v.Data()[i] = -1e6
	}
	dst := NewField(w, h)
	s.advect(src, dst, u, v)

	for i, got := range dst.Data() {
		if math.Abs(float64(got-3)) > 1e-5 {
			t.Fatalf("dst[%d] = %v, want 3", i, got)
		}
	}
}

func TestClampCoord(t *testing.T) {
	nan := float32(math.NaN())
	cases := []struct {
		in, want float32
	}{
		{-3, 0.5},
		{0.5, 0.5},
		{4.2, 4.2},
		{8.5, 8.5},
		{100, 8.5},
		{nan, 0.5},
	}
	for _, tc := range cases {
		if got := clampCoord(tc.in, 0.5, 8.5); got != tc.want {
			t.Errorf("clampCoord(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParallelRangeCoversEveryIndex(t *testing.T) {
	for _, workers := range []int{1, 2, 3, 7, 64} {
		seen := make([]int32, 50)
		parallelRange(0, len(seen), workers, func(i int) {
			seen[i]++
		})
		for i, n := range seen {
			if n != 1 {
				t.Errorf("workers=%d: index %d visited %d times", workers, i, n)
			}
		}
	}
}
