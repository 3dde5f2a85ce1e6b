package systems

import (
	"testing"

	"github.com/mlange-42/ark/ecs"
	"github.com/pthm-cable/inkflow/components"
	"github.com/pthm-cable/inkflow/config"
	"github.com/pthm-cable/inkflow/fluid"
)

func init() {
	config.MustInit("")
}

// recordingInjector captures injection coordinates.
type recordingInjector struct {
	calls [][2]int
}

func (r *recordingInjector) Inject(x, y int) int {
	r.calls = append(r.calls, [2]int{x, y})
	return 100
}

func TestEmitterFiresOnSchedule(t *testing.T) {
	sys := NewEmitterSystem(ecs.NewWorld())
	sys.SpawnWith(7, 3, 3, -1)

	inj := &recordingInjector{}
	var firedAt []int
	for tick := 1; tick <= 10; tick++ {
		if sys.Update(inj, nil) > 0 {
			firedAt = append(firedAt, tick)
		}
	}

	want := []int{1, 4, 7, 10}
	if len(firedAt) != len(want) {
		t.Fatalf("fired at ticks %v, want %v", firedAt, want)
	}
	for i := range want {
		if firedAt[i] != want[i] {
			t.Errorf("fired at ticks %v, want %v", firedAt, want)
			break
		}
	}
	for _, c := range inj.calls {
		if c != [2]int{7, 3} {
			t.Errorf("injected at %v, want (7,3)", c)
		}
	}
}

func TestEmitterExpires(t *testing.T) {
	sys := NewEmitterSystem(ecs.NewWorld())
	e := sys.SpawnWith(1, 1, 1, 2)

	inj := &recordingInjector{}
	stamped := 0
	onFire := func(n int) { stamped += n }

	sys.Update(inj, onFire)
	if !sys.Alive(e) {
		t.Fatal("emitter removed after its first of two injections")
	}
	sys.Update(inj, onFire)
	if sys.Alive(e) {
		t.Error("emitter should be removed after its last injection")
	}
	sys.Update(inj, onFire)

	if len(inj.calls) != 2 {
		t.Errorf("expected 2 injections, got %d", len(inj.calls))
	}
	if stamped != 200 {
		t.Errorf("onFire saw %d stamped cells, want 200", stamped)
	}
	if sys.Count() != 0 {
		t.Errorf("expected no live emitters, got %d", sys.Count())
	}
}

func TestEmitterSpawnUsesConfig(t *testing.T) {
	sys := NewEmitterSystem(ecs.NewWorld())
	sys.Spawn(4, 5)

	cfg := config.Cfg()
	found := 0
	sys.Each(func(pos components.Position, em components.Emitter) {
		found++
		if pos.X != 4 || pos.Y != 5 {
			t.Errorf("position = %+v, want (4,5)", pos)
		}
		if em.Interval != int32(cfg.Emitters.Interval) || em.Remaining != int32(cfg.Emitters.Lifetime) {
			t.Errorf("emitter = %+v, want interval %d lifetime %d", em, cfg.Emitters.Interval, cfg.Emitters.Lifetime)
		}
	})
	if found != 1 {
		t.Errorf("expected 1 emitter, found %d", found)
	}
}

func TestEmitterClear(t *testing.T) {
	sys := NewEmitterSystem(ecs.NewWorld())
	for i := 0; i < 5; i++ {
		sys.SpawnWith(i, i, 2, -1)
	}
	if sys.Count() != 5 {
		t.Fatalf("expected 5 emitters, got %d", sys.Count())
	}
	if n := sys.Clear(); n != 5 {
		t.Errorf("Clear removed %d, want 5", n)
	}
	if sys.Count() != 0 {
		t.Error("emitters remain after Clear")
	}
}

func TestEmitterRestoreKeepsCooldown(t *testing.T) {
	sys := NewEmitterSystem(ecs.NewWorld())
	sys.Restore(components.Position{X: 2, Y: 2}, components.Emitter{Interval: 5, Cooldown: 2, Remaining: -1})

	inj := &recordingInjector{}
	sys.Update(inj, nil)
	if len(inj.calls) != 0 {
		t.Error("restored emitter fired before its cooldown elapsed")
	}
	sys.Update(inj, nil)
	if len(inj.calls) != 1 {
		t.Errorf("expected one injection after cooldown, got %d", len(inj.calls))
	}
}

func TestEmitterDrivesSimulation(t *testing.T) {
	sim, err := fluid.New(40, 40, 0.01)
	if err != nil {
		t.Fatal(err)
	}
	sys := NewEmitterSystem(ecs.NewWorld())
	sys.SpawnWith(20, 10, 1, 1)

	if fired := sys.Update(sim, nil); fired != 1 {
		t.Fatalf("expected one injection, got %d", fired)
	}
	if sim.Density().At(10, 20) != 1 {
		t.Error("emitter did not stamp ink at its position")
	}
	if sim.V().At(10, 20) != fluid.DefaultImpulse {
		t.Errorf("v at emitter = %v, want %v", sim.V().At(10, 20), fluid.DefaultImpulse)
	}
}
