// Wave preview tool - live wave field with sliders for the construction-time
// parameters. Changes apply when the field is rebuilt.
//
// Usage: go run ./cmd/wavepreview [-config config.yaml] [-preset lift]
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	rl "github.com/gen2brain/raylib-go/raylib"
	gui "github.com/gen2brain/raylib-go/raygui"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/pthm-cable/waves/config"
	"github.com/pthm-cable/waves/effect"
	"github.com/pthm-cable/waves/frame"
	"github.com/pthm-cable/waves/platform"
	"github.com/pthm-cable/waves/renderer"
)

const (
	windowWidth  = 1280
	windowHeight = 720
	panelWidth   = 320
)

// Colour presets cycled by the colour button
var palette = []string{"#5bc2e7", "#e75b9c", "#9ce75b", "#f2c14e", "#ffffff"}

func init() {
	runtime.LockOSThread()
}

// previewParams holds the tunable values.
type previewParams struct {
	Spacing    float32
	Speed      float32
	LiftMax    float32
	LiftSpeed  float32
	LiftDecay  float32
	FollowRate float32
	Color      int // Index into palette
	Lift       bool
}

func paramsFrom(cfg *config.Config) previewParams {
	p := previewParams{
		Spacing:    float32(cfg.Grid.Spacing),
		Speed:      float32(cfg.Animation.Speed),
		LiftMax:    float32(cfg.Lift.Max),
		LiftSpeed:  float32(cfg.Lift.Speed),
		LiftDecay:  float32(cfg.Lift.Decay),
		FollowRate: float32(cfg.Camera.FollowRate),
		Lift:       cfg.Lift.Enabled,
	}
	for i, hex := range palette {
		if hex == cfg.Particle.Color {
			p.Color = i
		}
	}
	return p
}

// apply returns a copy of base with the params written in.
func (p previewParams) apply(base *config.Config) (*config.Config, error) {
	cfg := base.Clone()
	cfg.Grid.Spacing = float64(p.Spacing)
	cfg.Animation.Speed = float64(p.Speed)
	cfg.Lift.Enabled = p.Lift
	cfg.Lift.Max = float64(p.LiftMax)
	cfg.Lift.Speed = float64(p.LiftSpeed)
	cfg.Lift.Decay = float64(p.LiftDecay)
	cfg.Camera.FollowRate = float64(p.FollowRate)
	cfg.Particle.Color = palette[p.Color]
	cfg.Container = config.ContainerConfig{Width: windowWidth - panelWidth, Height: windowHeight}
	if err := cfg.Recompute(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// slider describes one parameter row in the panel.
type slider struct {
	label    string
	value    *float32
	min, max float32
	format   string
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	preset := flag.String("preset", "", "Config preset to start from")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	base, err := config.Load(*configPath, *preset)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	rl.InitWindow(windowWidth, windowHeight, "Wave Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	params := paramsFrom(base)
	loop := frame.NewLoop()
	backend := renderer.NewRaylib(base.Render.Instanced)

	var (
		w       *effect.Waves
		win     *platform.Window
		status  string
		rebuild = true
	)

	build := func() {
		cfg, err := params.apply(base)
		if err != nil {
			status = err.Error()
			return
		}
		if w != nil {
			w.Destroy()
		}
		w, err = effect.New(cfg, platform.NewWindowContainer(cfg.Container), backend, loop, effect.Options{
			ViewportW: windowWidth,
			ViewportH: windowHeight,
			Logger:    logger,
		})
		if err != nil {
			status = err.Error()
			return
		}
		win = platform.NewWindow(w, cfg.Input.Touch, false, logger)
		status = fmt.Sprintf("built %d particles", cfg.Derived.Total)
	}

	sliders := []slider{
		{"Spacing", &params.Spacing, 40, 240, "%.0f"},
		{"Speed (phase per frame)", &params.Speed, 0.005, 0.2, "%.3f"},
		{"Lift max", &params.LiftMax, 0, 500, "%.0f"},
		{"Lift speed", &params.LiftSpeed, 0.5, 20, "%.1f"},
		{"Lift decay", &params.LiftDecay, 0.8, 0.999, "%.3f"},
		{"Camera follow rate", &params.FollowRate, 0.01, 0.5, "%.2f"},
	}

	backend.SetOverlay(func() {
		panelX := float32(windowWidth - panelWidth + 10)
		panelY := float32(10)

		rl.DrawRectangle(windowWidth-panelWidth, 0, panelWidth, windowHeight, rl.Color{R: 20, G: 25, B: 30, A: 230})
		rl.DrawText("Wave Parameters", int32(panelX), int32(panelY), 20, rl.RayWhite)
		panelY += 35

		for _, s := range sliders {
			rl.DrawText(s.label, int32(panelX), int32(panelY), 14, rl.LightGray)
			panelY += 18
			*s.value = gui.SliderBar(
				rl.Rectangle{X: panelX, Y: panelY, Width: panelWidth - 90, Height: 20},
				"", "",
				*s.value, s.min, s.max,
			)
			rl.DrawText(fmt.Sprintf(s.format, *s.value), int32(panelX+panelWidth-80), int32(panelY+2), 16, rl.RayWhite)
			panelY += 35
		}

		// Colour swatch and cycle button
		c, _ := colorful.Hex(palette[params.Color])
		r, g, b := c.RGB255()
		rl.DrawRectangle(int32(panelX), int32(panelY), 30, 30, rl.Color{R: r, G: g, B: b, A: 255})
		if gui.Button(rl.Rectangle{X: panelX + 40, Y: panelY, Width: 120, Height: 30}, palette[params.Color]) {
			params.Color = (params.Color + 1) % len(palette)
		}
		if gui.Button(rl.Rectangle{X: panelX + 170, Y: panelY, Width: 120, Height: 30}, toggleText(params.Lift, "Lift: on", "Lift: off")) {
			params.Lift = !params.Lift
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Rebuild") {
			rebuild = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = paramsFrom(base)
			rebuild = true
		}
		panelY += 45

		rl.DrawText(status, int32(panelX), int32(panelY), 14, rl.Yellow)
		panelY += 20
		if w != nil {
			rl.DrawText(fmt.Sprintf("FPS: %d  Lift: %.1f", rl.GetFPS(), w.Lift()), int32(panelX), int32(panelY), 14, rl.LightGray)
		}

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), windowHeight-30, 12, rl.Gray)
	})

	for !rl.WindowShouldClose() {
		if rebuild {
			build()
			rebuild = false
		}

		// The overlay only runs inside an effect frame; keep the window
		// responsive if the build failed.
		if w == nil || !w.Running() {
			rl.BeginDrawing()
			rl.ClearBackground(rl.Black)
			rl.DrawText(status, 10, 10, 20, rl.Red)
			if gui.Button(rl.Rectangle{X: 10, Y: 40, Width: 120, Height: 30}, "Reset All") {
				params = paramsFrom(base)
				rebuild = true
			}
			rl.EndDrawing()
			continue
		}

		win.PollInput()
		loop.Dispatch()

		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(params.yaml())
		}
	}

	if w != nil {
		w.Destroy()
	}
}

// yaml renders the params in config file form.
func (p previewParams) yaml() string {
	return fmt.Sprintf(`grid:
  spacing: %.0f
particle:
  color: "%s"
animation:
  speed: %.3f
lift:
  enabled: %t
  max: %.0f
  speed: %.1f
  decay: %.3f
camera:
  follow_rate: %.2f`,
		p.Spacing, palette[p.Color], p.Speed, p.Lift, p.LiftMax, p.LiftSpeed, p.LiftDecay, p.FollowRate)
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
