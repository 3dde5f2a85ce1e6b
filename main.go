package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/inkflow/config"
	"github.com/pthm-cable/inkflow/game"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	sceneName := flag.String("scene", "", "Scripted input for headless runs: drip, rain or none (empty = use config)")
	seed := flag.Int64("seed", 0, "Scene RNG seed (0 = time-based)")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for bookmark snapshots")
	stampMode := flag.String("stamp-mode", "", "Injection footprint: clamped or legacy (empty = use config)")
	resume := flag.String("resume", "", "Snapshot file to resume from")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	opts := game.Options{
		Seed:           rngSeed,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		SnapshotDir:    *snapshotDir,
		OutputDir:      *outputDir,
		Headless:       *headless,
		Scene:          *sceneName,
		StampMode:      *stampMode,
		ResumePath:     *resume,
	}

	if *headless {
		// Headless mode - pure CPU simulation, no raylib needed
		g, err := game.NewGameWithOptions(opts)
		if err != nil {
			slog.Error("failed to start", "error", err)
			os.Exit(1)
		}
		defer g.Unload()

		slog.Info("starting headless simulation",
			"seed", rngSeed,
			"scene", g.SceneName(),
			"grid", [2]int{g.Sim().Width(), g.Sim().Height()},
			"dt", g.Sim().DT(),
			"max_ticks", *maxTicks,
		)

		start := time.Now()
		for {
			g.UpdateHeadless()

			if *maxTicks > 0 && int(g.Tick()) >= *maxTicks {
				slog.Info("max ticks reached",
					"tick", g.Tick(),
					"mass", g.Sim().Mass(),
					"occupied", g.Sim().OccupiedCells(),
					"elapsed", time.Since(start),
				)
				return
			}
		}
	}

	// Graphical mode
	rl.InitWindow(int32(cfg.Derived.ScreenWidth), int32(cfg.Derived.ScreenHeight), "Ink Flow")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := game.NewGameWithOptions(opts)
	if err != nil {
		slog.Error("failed to start", "error", err)
		return
	}
	defer g.Unload()

	win := newWindow(g, cfg)
	defer win.unload()

	for !rl.WindowShouldClose() {
		win.frame()

		if *maxTicks > 0 && int(g.Tick()) >= *maxTicks {
			break
		}
	}
}
