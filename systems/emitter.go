package systems

import (
	"github.com/mlange-42/ark/ecs"
	"github.com/pthm-cable/inkflow/components"
	"github.com/pthm-cable/inkflow/config"
)

// Injector is the part of the simulation an emitter writes to.
type Injector interface {
	Inject(x, y int) int
}

// EmitterSystem ticks persistent ink sources and injects on their schedule.
type EmitterSystem struct {
	world  *ecs.World
	mapper *ecs.Map2[components.Position, components.Emitter]
	filter *ecs.Filter2[components.Position, components.Emitter]

	spent []ecs.Entity // reused between updates
}

// NewEmitterSystem creates an emitter system on the given world.
func NewEmitterSystem(world *ecs.World) *EmitterSystem {
	return &EmitterSystem{
		world:  world,
		mapper: ecs.NewMap2[components.Position, components.Emitter](world),
		filter: ecs.NewFilter2[components.Position, components.Emitter](world),
	}
}

// Spawn places an emitter at grid cell (x, y) using the configured interval
// and lifetime.
func (s *EmitterSystem) Spawn(x, y int) ecs.Entity {
	cfg := config.Cfg()
	return s.SpawnWith(x, y, int32(cfg.Emitters.Interval), int32(cfg.Emitters.Lifetime))
}

// SpawnWith places an emitter with an explicit schedule. The first injection
// happens on the next Update. lifetime < 0 never expires; lifetime 0 is
// treated as a single shot.
func (s *EmitterSystem) SpawnWith(x, y int, interval, lifetime int32) ecs.Entity {
	if interval < 1 {
		interval = 1
	}
	if lifetime == 0 {
		lifetime = 1
	}
	pos := components.Position{X: x, Y: y}
	em := components.Emitter{Interval: interval, Remaining: lifetime}
	return s.mapper.NewEntity(&pos, &em)
}

// Restore recreates an emitter with its full state, as read from a snapshot.
func (s *EmitterSystem) Restore(pos components.Position, em components.Emitter) ecs.Entity {
	if em.Interval < 1 {
		em.Interval = 1
	}
	return s.mapper.NewEntity(&pos, &em)
}

// Update advances every emitter by one tick and injects into sim for those
// that are due. onFire, if non-nil, receives the stamped cell count of each
// injection. Spent emitters are removed after the query completes.
// Returns the number of injections made.
func (s *EmitterSystem) Update(sim Injector, onFire func(stamped int)) int {
	fired := 0
	s.spent = s.spent[:0]

	query := s.filter.Query()
	for query.Next() {
		pos, em := query.Get()

		if !em.Ready() {
			em.Cooldown--
			if !em.Ready() {
				continue
			}
		}

		stamped := sim.Inject(pos.X, pos.Y)
		fired++
		if onFire != nil {
			onFire(stamped)
		}
		if !em.Fire() {
			s.spent = append(s.spent, query.Entity())
		}
	}

	for _, e := range s.spent {
		s.mapper.Remove(e)
	}
	return fired
}

// Count returns the number of live emitters.
func (s *EmitterSystem) Count() int {
	n := 0
	query := s.filter.Query()
	for query.Next() {
		n++
	}
	return n
}

// Each calls fn for every live emitter. fn must not add or remove emitters.
func (s *EmitterSystem) Each(fn func(pos components.Position, em components.Emitter)) {
	query := s.filter.Query()
	for query.Next() {
		pos, em := query.Get()
		fn(*pos, *em)
	}
}

// Clear removes every emitter and returns how many were removed.
func (s *EmitterSystem) Clear() int {
	var all []ecs.Entity
	query := s.filter.Query()
	for query.Next() {
		all = append(all, query.Entity())
	}
	for _, e := range all {
		s.mapper.Remove(e)
	}
	return len(all)
}

// Alive reports whether e is still a live emitter.
func (s *EmitterSystem) Alive(e ecs.Entity) bool {
	return s.world.Alive(e)
}
