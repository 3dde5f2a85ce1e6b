package fluid

import (
	"errors"
	"fmt"
	"math"
)

// Errors returned by the kernel.
var (
	ErrInvalidConfig = errors.New("fluid: invalid configuration")
	ErrBufferSize    = errors.New("fluid: pixel buffer size mismatch")
)

// Physics constants shared by the kernel and its readouts.
const (
	DefaultGravity     float32 = 2000.0
	DefaultImpulse     float32 = 5.0
	DefaultStampRadius         = 5

	// OccupancyThreshold gates both the occupancy mask and the pixel adapter.
	OccupancyThreshold float32 = 0.001
)

// Phase names reported to the phase hook, in execution order.
const (
	PhaseForces        = "forces"
	PhaseAdvectU       = "advect_u"
	PhaseAdvectV       = "advect_v"
	PhaseAdvectDensity = "advect_density"
	PhaseOccupancy     = "occupancy"
)

// Params holds the tunables fixed at construction.
type Params struct {
	Gravity     float32   // added to v per unit time in cells with density > 0
	Impulse     float32   // vertical kick at the clicked cell
	StampRadius int       // half-extent of the injection stamp
	StampMode   StampMode // clamped (default) or legacy extents
	Workers     int       // goroutines per advection pass; <= 1 runs serially
}

// DefaultParams returns the reference tuning.
func DefaultParams() Params {
	return Params{
		Gravity:     DefaultGravity,
		Impulse:     DefaultImpulse,
		StampRadius: DefaultStampRadius,
		StampMode:   StampClamped,
		Workers:     1,
	}
}

// Simulation owns every field of one running grid. It is not safe for
// concurrent use; drive it from a single frame loop.
type Simulation struct {
	width, height int
	dt            float32
	params        Params

	u, v      *Buffered
	density   *Buffered
	occupancy *Mask

	// Reserved for a projection step; nothing reads or writes them.
	pressure   *Field
	divergence *Field

	tick      int32
	phaseHook func(phase string)
}

// New creates a simulation with DefaultParams.
func New(width, height int, dt float32) (*Simulation, error) {
	return NewWithParams(width, height, dt, DefaultParams())
}

// NewWithParams creates a zeroed width x height simulation with timestep dt.
func NewWithParams(width, height int, dt float32, p Params) (*Simulation, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: grid must be positive, got %dx%d", ErrInvalidConfig, width, height)
	}
	// The advection clamp window [0.5, n-1.5] is empty below two cells.
	if width < 2 || height < 2 {
		return nil, fmt.Errorf("%w: grid must be at least 2x2, got %dx%d", ErrInvalidConfig, width, height)
	}
	if !finite(dt) {
		return nil, fmt.Errorf("%w: dt must be finite, got %v", ErrInvalidConfig, dt)
	}
	if !finite(p.Gravity) || !finite(p.Impulse) {
		return nil, fmt.Errorf("%w: gravity and impulse must be finite", ErrInvalidConfig)
	}
	if p.StampRadius < 0 {
		return nil, fmt.Errorf("%w: stamp radius must be >= 0, got %d", ErrInvalidConfig, p.StampRadius)
	}
	if p.StampMode != StampClamped && p.StampMode != StampLegacy {
		return nil, fmt.Errorf("%w: unknown stamp mode %d", ErrInvalidConfig, p.StampMode)
	}
	if p.Workers < 1 {
		p.Workers = 1
	}

	return &Simulation{
		width:      width,
		height:     height,
		dt:         dt,
		params:     p,
		u:          NewBuffered(width, height),
		v:          NewBuffered(width, height),
		density:    NewBuffered(width, height),
		occupancy:  NewMask(width, height),
		pressure:   NewField(width, height),
		divergence: NewField(width, height),
	}, nil
}

func finite(f float32) bool {
	return !math.IsNaN(float64(f)) && !math.IsInf(float64(f), 0)
}

// Width returns the grid width in cells.
func (s *Simulation) Width() int { return s.width }

// Height returns the grid height in cells.
func (s *Simulation) Height() int { return s.height }

// DT returns the timestep fixed at construction.
func (s *Simulation) DT() float32 { return s.dt }

// Params returns the construction parameters.
func (s *Simulation) Params() Params { return s.params }

// Tick returns the number of completed Update calls since construction or Reset.
func (s *Simulation) Tick() int32 { return s.tick }

// U returns the authoritative horizontal velocity field.
func (s *Simulation) U() *Field { return s.u.Front() }

// V returns the authoritative vertical velocity field.
func (s *Simulation) V() *Field { return s.v.Front() }

// Density returns the authoritative ink density field.
func (s *Simulation) Density() *Field { return s.density.Front() }

// Occupancy returns the thresholded density mask.
func (s *Simulation) Occupancy() *Mask { return s.occupancy }

// Pressure returns the reserved pressure field (always zero).
func (s *Simulation) Pressure() *Field { return s.pressure }

// Divergence returns the reserved divergence field (always zero).
func (s *Simulation) Divergence() *Field { return s.divergence }

// SetPhaseHook installs fn to be called at the start of every Update phase.
// Pass nil to remove it.
func (s *Simulation) SetPhaseHook(fn func(phase string)) {
	s.phaseHook = fn
}

func (s *Simulation) phase(name string) {
	if s.phaseHook != nil {
		s.phaseHook(name)
	}
}

// Update advances one tick: gravity, then advection of u, v and density in
// that order (each into its temp buffer followed by a swap), then occupancy.
// The order is part of the numerical result: v is advected by the already
// updated u, density by both updated components.
func (s *Simulation) Update() {
	s.phase(PhaseForces)
	s.applyGravity()

	s.phase(PhaseAdvectU)
	s.advect(s.u.Front(), s.u.Back(), s.u.Front(), s.v.Front())
	s.u.Swap()

	s.phase(PhaseAdvectV)
	s.advect(s.v.Front(), s.v.Back(), s.u.Front(), s.v.Front())
	s.v.Swap()

	s.phase(PhaseAdvectDensity)
	s.advect(s.density.Front(), s.density.Back(), s.u.Front(), s.v.Front())
	s.density.Swap()

	s.phase(PhaseOccupancy)
	s.updateOccupancy()

	s.tick++
}

// Reset zeroes velocities, density and occupancy and rewinds the tick counter.
func (s *Simulation) Reset() {
	s.u.Fill(0)
	s.v.Fill(0)
	s.density.Fill(0)
	s.occupancy.Clear()
	s.tick = 0
}
