package game

import (
	"bufio"
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/inkflow/config"
)

const testConfig = `
grid:
  width: 48
  height: 32
physics:
  dt: 0.01
controls:
  dt_min: 0.001
  dt_max: 0.1
scene:
  name: none
  interval: 4
emitters:
  interval: 2
  lifetime: -1
  max: 2
telemetry:
  stats_window: 0.05
  perf_collector_window: 16
`

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "inkflow-game")
	if err != nil {
		panic(err)
	}
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(testConfig), 0644); err != nil {
		panic(err)
	}
	config.MustInit(path)

	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

func newTestGame(t *testing.T, opts Options) *Game {
	t.Helper()
	g, err := NewGameWithOptions(opts)
	if err != nil {
		t.Fatalf("NewGameWithOptions: %v", err)
	}
	t.Cleanup(g.Unload)
	return g
}

func countLines(t *testing.T, path string) int {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	n := 0
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		n++
	}
	return n
}

func TestHeadlessDripScene(t *testing.T) {
	g := newTestGame(t, Options{Headless: true, Scene: "drip"})
	if g.SceneName() != "drip" {
		t.Fatalf("scene = %q, want drip", g.SceneName())
	}

	g.UpdateHeadless()
	if g.Tick() != 1 {
		t.Errorf("tick = %d, want 1", g.Tick())
	}
	if g.Sim().Mass() <= 0 {
		t.Error("drip scene injected no ink on tick 0")
	}
	if g.Pixels() != nil {
		t.Error("headless game allocated a pixel buffer")
	}

	for i := 0; i < 19; i++ {
		g.UpdateHeadless()
	}
	if g.Tick() != 20 {
		t.Errorf("tick = %d, want 20", g.Tick())
	}
}

func TestHeadlessWritesTelemetry(t *testing.T) {
	dir := t.TempDir()
	g, err := NewGameWithOptions(Options{Headless: true, Scene: "drip", OutputDir: dir})
	if err != nil {
		t.Fatal(err)
	}

	// 0.05s windows at dt 0.01 flush every 5 ticks.
	for i := 0; i < 12; i++ {
		g.UpdateHeadless()
	}
	g.Unload()

	if n := countLines(t, filepath.Join(dir, "telemetry.csv")); n != 3 {
		t.Errorf("telemetry.csv has %d lines, want header + 2 windows", n)
	}
	if n := countLines(t, filepath.Join(dir, "perf.csv")); n != 3 {
		t.Errorf("perf.csv has %d lines, want header + 2 windows", n)
	}
	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config.yaml not written: %v", err)
	}
}

func TestUpdateRendersAndPauses(t *testing.T) {
	g := newTestGame(t, Options{})

	g.Update(func() { g.Inject(10, 10) })
	if g.Tick() != 1 {
		t.Fatalf("tick = %d, want 1", g.Tick())
	}
	px := g.Pixels()
	if len(px) != 48*32*4 {
		t.Fatalf("pixel buffer is %d bytes, want %d", len(px), 48*32*4)
	}
	i := (10*48 + 10) * 4
	if px[i+2] != 255 || px[i+3] != 255 {
		t.Errorf("injected cell pixel = %v, want blue", px[i:i+4])
	}

	if !g.TogglePause() {
		t.Fatal("TogglePause did not pause")
	}
	g.Update(nil)
	if g.Tick() != 1 {
		t.Errorf("paused game advanced to tick %d", g.Tick())
	}
}

func TestResetAppliesPendingDT(t *testing.T) {
	g := newTestGame(t, Options{Headless: true})
	g.Inject(20, 10)
	g.UpdateHeadless()

	g.SetPendingDT(0.05)
	if err := g.Reset(); err != nil {
		t.Fatal(err)
	}
	if g.Sim().DT() != 0.05 {
		t.Errorf("dt after reset = %v, want 0.05", g.Sim().DT())
	}
	if g.Tick() != 0 || g.Sim().Mass() != 0 {
		t.Errorf("reset left tick %d mass %v", g.Tick(), g.Sim().Mass())
	}

	cases := []struct {
		in, want float32
	}{
		{5, 0.1},
		{0, 0.001},
		{0.02, 0.02},
	}
	for _, tc := range cases {
		g.SetPendingDT(tc.in)
		if g.PendingDT() != tc.want {
			t.Errorf("SetPendingDT(%v) = %v, want %v", tc.in, g.PendingDT(), tc.want)
		}
	}
}

func TestSpawnEmitterLimits(t *testing.T) {
	g := newTestGame(t, Options{Headless: true})

	if g.SpawnEmitter(-1, 3) || g.SpawnEmitter(48, 3) {
		t.Error("spawned an emitter off the grid")
	}
	if !g.SpawnEmitter(5, 5) || !g.SpawnEmitter(6, 6) {
		t.Fatal("failed to spawn emitters under the limit")
	}
	if g.SpawnEmitter(7, 7) {
		t.Error("spawned past emitters.max")
	}

	g.UpdateHeadless()
	if g.Sim().Occupancy().At(5, 5) != 1 || g.Sim().Occupancy().At(6, 6) != 1 {
		t.Error("emitters did not inject on their first tick")
	}

	if n := g.ClearEmitters(); n != 2 || g.EmitterCount() != 0 {
		t.Errorf("ClearEmitters removed %d, %d remain", n, g.EmitterCount())
	}
}

func TestSnapshotResume(t *testing.T) {
	dir := t.TempDir()
	a := newTestGame(t, Options{Headless: true, SnapshotDir: dir})
	a.Inject(24, 8)
	a.SpawnEmitter(12, 4)
	for i := 0; i < 3; i++ {
		a.UpdateHeadless()
	}

	path, err := a.SaveSnapshot()
	if err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}

	b := newTestGame(t, Options{Headless: true, ResumePath: path})
	if b.Tick() != a.Tick() {
		t.Errorf("resumed tick = %d, want %d", b.Tick(), a.Tick())
	}
	if b.EmitterCount() != 1 {
		t.Errorf("resumed %d emitters, want 1", b.EmitterCount())
	}

	for i := 0; i < 4; i++ {
		a.UpdateHeadless()
		b.UpdateHeadless()
	}
	da, db := a.Sim().Density().Data(), b.Sim().Density().Data()
	for i := range da {
		if da[i] != db[i] {
			t.Fatalf("density[%d] diverged after resume: %v vs %v", i, da[i], db[i])
		}
	}
}

func TestResumeRejectsMissingSnapshot(t *testing.T) {
	if _, err := NewGameWithOptions(Options{Headless: true, ResumePath: filepath.Join(t.TempDir(), "nope.json")}); err == nil {
		t.Error("expected error for missing snapshot")
	}
}

func TestUnknownSceneAndStampMode(t *testing.T) {
	if _, err := NewGameWithOptions(Options{Headless: true, Scene: "snow"}); err == nil {
		t.Error("expected error for unknown scene")
	}
	if _, err := NewGameWithOptions(Options{Headless: true, StampMode: "round"}); err == nil {
		t.Error("expected error for unknown stamp mode")
	}
	g := newTestGame(t, Options{Headless: true, StampMode: "legacy"})
	if got := g.Sim().Params().StampMode.String(); got != "legacy" {
		t.Errorf("stamp mode = %q, want legacy", got)
	}
}
