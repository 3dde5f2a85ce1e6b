// Package game ties the fluid kernel, emitters, scenes and telemetry into a
// frame loop. It has no window dependency; the graphical front end drives it
// through Update and reads Pixels.
package game

import (
	"fmt"
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/inkflow/components"
	"github.com/pthm-cable/inkflow/config"
	"github.com/pthm-cable/inkflow/fluid"
	"github.com/pthm-cable/inkflow/scene"
	"github.com/pthm-cable/inkflow/systems"
	"github.com/pthm-cable/inkflow/telemetry"
)

// bookmarkHistory is the number of windows the bookmark detector remembers.
const bookmarkHistory = 10

// Options configures a Game.
type Options struct {
	Seed           int64
	LogStats       bool
	StatsWindowSec float64
	SnapshotDir    string
	OutputDir      string
	Headless       bool
	Scene          string // overrides scene.name when set
	StampMode      string // overrides physics.stamp_mode when set
	ResumePath     string // snapshot to resume from
}

// Game holds the complete run state.
type Game struct {
	cfg *config.Config

	sim    *fluid.Simulation
	params fluid.Params
	pixels []byte

	world    *ecs.World
	emitters *systems.EmitterSystem
	scene    scene.Source

	// Telemetry
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	statsWindowSec   float64
	logStats         bool
	snapshotDir      string
	seed             int64

	// Controls
	headless  bool
	paused    bool
	pendingDT float32
	viscosity float32
}

// NewGameWithOptions creates a game from the global config and opts.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := config.Cfg()

	params, err := fluid.ParamsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	if opts.StampMode != "" {
		mode, err := fluid.ParseStampMode(opts.StampMode)
		if err != nil {
			return nil, err
		}
		params.StampMode = mode
	}

	sim, err := fluid.NewWithParams(cfg.Grid.Width, cfg.Grid.Height, cfg.Derived.DT32, params)
	if err != nil {
		return nil, err
	}

	sceneCfg := cfg.Scene
	if opts.Seed != 0 {
		sceneCfg.Seed = opts.Seed
	}
	sceneName := sceneCfg.Name
	if opts.Scene != "" {
		sceneName = opts.Scene
	}
	src, err := scene.New(sceneName, sceneCfg, sim.Width(), sim.Height())
	if err != nil {
		return nil, err
	}

	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}

	outputManager, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := outputManager.WriteConfig(cfg); err != nil {
		slog.Warn("failed to write config", "error", err)
	}

	world := ecs.NewWorld()
	g := &Game{
		cfg:              cfg,
		sim:              sim,
		params:           params,
		world:            world,
		emitters:         systems.NewEmitterSystem(world),
		scene:            src,
		collector:        telemetry.NewCollector(statsWindow, sim.DT()),
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		bookmarkDetector: telemetry.NewBookmarkDetector(bookmarkHistory),
		outputManager:    outputManager,
		statsWindowSec:   statsWindow,
		logStats:         opts.LogStats,
		snapshotDir:      opts.SnapshotDir,
		seed:             sceneCfg.Seed,
		headless:         opts.Headless,
		pendingDT:        sim.DT(),
		viscosity:        float32(cfg.Controls.Viscosity),
	}
	g.attachSim(sim)

	if opts.ResumePath != "" {
		if err := g.Restore(opts.ResumePath); err != nil {
			outputManager.Close()
			return nil, err
		}
	}

	return g, nil
}

// attachSim makes sim the running simulation and routes its phases to the
// perf collector.
func (g *Game) attachSim(sim *fluid.Simulation) {
	g.sim = sim
	g.sim.SetPhaseHook(g.perfCollector.StartPhase)
	if !g.headless {
		g.pixels = make([]byte, sim.Width()*sim.Height()*4)
	}
}

// Update runs one frame. input, if non-nil, runs first and is timed as the
// input phase so pointer injections land before the tick.
func (g *Game) Update(input func()) {
	g.perfCollector.StartTick()
	g.perfCollector.StartPhase(telemetry.PhaseInput)
	if input != nil {
		input()
	}

	if !g.paused {
		g.step()
	}

	if !g.headless {
		g.perfCollector.StartPhase(telemetry.PhaseRender)
		if err := g.sim.RenderToPixels(g.pixels); err != nil {
			slog.Error("render failed", "error", err)
		}
	}
	g.perfCollector.EndTick()
}

// UpdateHeadless runs one tick with scripted scene input.
func (g *Game) UpdateHeadless() {
	g.perfCollector.StartTick()
	g.perfCollector.StartPhase(telemetry.PhaseInput)
	for _, p := range g.scene.Next(g.sim.Tick()) {
		g.Inject(p.X, p.Y)
	}
	g.step()
	g.perfCollector.EndTick()
}

// step advances emitters and the kernel by one tick, then flushes telemetry.
func (g *Game) step() {
	g.perfCollector.StartPhase(telemetry.PhaseEmitters)
	g.emitters.Update(g.sim, g.collector.RecordEmitterFire)

	g.sim.Update()

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()
}

// Inject drops ink at grid cell (x, y) and returns the stamped cell count.
func (g *Game) Inject(x, y int) int {
	stamped := g.sim.Inject(x, y)
	if stamped > 0 {
		g.collector.RecordInjection(stamped)
	}
	return stamped
}

// SpawnEmitter places an emitter at (x, y). It refuses cells off the grid and
// spawns beyond emitters.max.
func (g *Game) SpawnEmitter(x, y int) bool {
	if x < 0 || x >= g.sim.Width() || y < 0 || y >= g.sim.Height() {
		return false
	}
	if limit := g.cfg.Emitters.Max; limit > 0 && g.emitters.Count() >= limit {
		return false
	}
	g.emitters.Spawn(x, y)
	return true
}

// ClearEmitters removes every emitter and returns how many were removed.
func (g *Game) ClearEmitters() int {
	return g.emitters.Clear()
}

// EmitterCount returns the number of live emitters.
func (g *Game) EmitterCount() int {
	return g.emitters.Count()
}

// EachEmitter calls fn with the grid cell of every live emitter.
func (g *Game) EachEmitter(fn func(x, y int)) {
	g.emitters.Each(func(pos components.Position, _ components.Emitter) {
		fn(pos.X, pos.Y)
	})
}

// Reset rebuilds the simulation with the pending timestep. Emitters survive;
// the telemetry window and scene restart from tick 0.
func (g *Game) Reset() error {
	sim, err := fluid.NewWithParams(g.sim.Width(), g.sim.Height(), g.pendingDT, g.params)
	if err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	g.sim.SetPhaseHook(nil)
	g.attachSim(sim)

	g.collector = telemetry.NewCollector(g.statsWindowSec, sim.DT())
	g.bookmarkDetector = telemetry.NewBookmarkDetector(bookmarkHistory)
	if r, ok := g.scene.(interface{ Reset() }); ok {
		r.Reset()
	}

	slog.Info("simulation reset", "dt", sim.DT())
	return nil
}

// TogglePause flips the paused state and returns the new value.
func (g *Game) TogglePause() bool {
	g.paused = !g.paused
	return g.paused
}

// Paused reports whether ticking is suspended.
func (g *Game) Paused() bool { return g.paused }

// SetPendingDT stores the timestep the next Reset uses, clamped to the
// controls range.
func (g *Game) SetPendingDT(dt float32) {
	lo, hi := float32(g.cfg.Controls.DTMin), float32(g.cfg.Controls.DTMax)
	if dt < lo {
		dt = lo
	}
	if hi > lo && dt > hi {
		dt = hi
	}
	g.pendingDT = dt
}

// PendingDT returns the timestep the next Reset uses.
func (g *Game) PendingDT() float32 { return g.pendingDT }

// SetViscosity stores the viscosity control. The kernel has no diffusion
// step, so the value is displayed only.
func (g *Game) SetViscosity(v float32) { g.viscosity = v }

// Viscosity returns the viscosity control value.
func (g *Game) Viscosity() float32 { return g.viscosity }

// Sim returns the running simulation.
func (g *Game) Sim() *fluid.Simulation { return g.sim }

// Pixels returns the RGBA frame rendered by the last Update. Nil when headless.
func (g *Game) Pixels() []byte { return g.pixels }

// Perf returns the performance collector.
func (g *Game) Perf() *telemetry.PerfCollector { return g.perfCollector }

// Tick returns the current simulation tick.
func (g *Game) Tick() int32 { return g.sim.Tick() }

// SceneName returns the active scripted input source.
func (g *Game) SceneName() string { return g.scene.Name() }

// Unload closes output files.
func (g *Game) Unload() {
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
