// Package components defines ECS components for persistent ink sources.
package components

// Position is a grid cell, column X and row Y.
type Position struct {
	X, Y int
}

// Emitter drips ink at its Position on a fixed tick interval.
type Emitter struct {
	Interval  int32 // Ticks between injections, at least 1
	Cooldown  int32 // Ticks until the next injection; fires when <= 0
	Remaining int32 // Injections left before removal; negative means unlimited
}

// Ready reports whether the emitter fires this tick.
func (e *Emitter) Ready() bool {
	return e.Cooldown <= 0
}

// Fire rearms the cooldown and consumes one injection.
// Returns false once the emitter is spent.
func (e *Emitter) Fire() bool {
	e.Cooldown = e.Interval
	if e.Remaining > 0 {
		e.Remaining--
	}
	return e.Remaining != 0
}
