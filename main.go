package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/waves/config"
	"github.com/pthm-cable/waves/effect"
	"github.com/pthm-cable/waves/frame"
	"github.com/pthm-cable/waves/input"
	"github.com/pthm-cable/waves/platform"
	"github.com/pthm-cable/waves/renderer"
	"github.com/pthm-cable/waves/telemetry"
	"github.com/pthm-cable/waves/ui"
)

func init() {
	// raylib must stay on the main thread
	runtime.LockOSThread()
}

type runFlags struct {
	headless  bool
	maxFrames uint64
	outputDir string
	logStats  bool
	hud       bool
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	preset := flag.String("preset", "", "Config preset to apply (waves, lift)")
	headless := flag.Bool("headless", false, "Run without graphics")
	maxFrames := flag.Uint64("max-frames", 0, "Stop after N frames (0 = unlimited)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	logStats := flag.Bool("log-stats", false, "Output perf stats via slog")
	debug := flag.Bool("debug", false, "Enable debug logging")
	hud := flag.Bool("hud", false, "Show the HUD at startup (toggle with F1)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath, *preset); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx, config.Cfg(), runFlags{
		headless:  *headless,
		maxFrames: *maxFrames,
		outputDir: *outputDir,
		logStats:  *logStats,
		hud:       *hud,
	})
	if err != nil {
		slog.Error("run failed", "error", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, f runFlags) error {
	output, err := telemetry.NewOutputManager(f.outputDir)
	if err != nil {
		return fmt.Errorf("output: %w", err)
	}
	defer output.Close()

	if err := output.WriteConfig(cfg); err != nil {
		return fmt.Errorf("output: %w", err)
	}

	opts := effect.Options{
		MaxFrames: f.maxFrames,
		LogStats:  f.logStats,
		Output:    output,
		Logger:    slog.Default(),
	}
	if output != nil {
		slog.Info("writing run output", "dir", output.Dir(), "run_id", output.RunID())
	}

	if f.headless {
		return runHeadless(ctx, cfg, opts)
	}
	return runWindow(ctx, cfg, opts, f.hud)
}

// runHeadless drives the effect without raylib, as fast as the loop allows.
func runHeadless(ctx context.Context, cfg *config.Config, opts effect.Options) error {
	loop := frame.NewLoop()
	backend := renderer.NewHeadless()
	container := input.FixedContainer{Right: float32(cfg.Screen.Width), Bottom: float32(cfg.Screen.Height)}

	w, err := effect.New(cfg, container, backend, loop, opts)
	if err != nil {
		return err
	}
	defer w.Destroy()

	slog.Info("starting headless run", "max_frames", opts.MaxFrames)

	if err := loop.Run(ctx, nil); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return w.Err()
}

func runWindow(ctx context.Context, cfg *config.Config, opts effect.Options, showHUD bool) error {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), cfg.Screen.Title)
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	opts.ViewportW, opts.ViewportH = rl.GetScreenWidth(), rl.GetScreenHeight()

	loop := frame.NewLoop()
	backend := renderer.NewRaylib(cfg.Render.Instanced)

	w, err := effect.New(cfg, platform.NewWindowContainer(cfg.Container), backend, loop, opts)
	if err != nil {
		return err
	}
	// Runs before CloseWindow so GPU resources are freed with a live context
	defer w.Destroy()

	win := platform.NewWindow(w, cfg.Input.Touch, showHUD, slog.Default())
	hud := ui.NewHUD()
	backend.SetOverlay(func() {
		if !win.HUD {
			return
		}
		hud.Draw(hudData(cfg, w))
		_, height := w.Viewport()
		hud.DrawControls(int32(height), "[F1] HUD  [F11] Fullscreen  [Esc] Quit")
	})

	if err := win.Run(ctx, loop); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return w.Err()
}

func hudData(cfg *config.Config, w *effect.Waves) ui.HUDData {
	return ui.HUDData{
		Title:       cfg.Screen.Title,
		FPS:         rl.GetFPS(),
		Frames:      w.Frames(),
		Phase:       w.Phase(),
		Particles:   w.Mesh().Count(),
		LiftEnabled: w.LiftEnabled(),
		Lift:        w.Lift(),
		LiftMax:     w.LiftMax(),
		Pressed:     w.Pressed(),
		Perf:        w.Perf(),
	}
}
