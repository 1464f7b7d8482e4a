// Package effect assembles the wave field: it owns the scene, camera,
// instanced mesh and per-frame loop, and forwards host input to them.
package effect

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/pthm-cable/waves/camera"
	"github.com/pthm-cable/waves/config"
	"github.com/pthm-cable/waves/field"
	"github.com/pthm-cable/waves/frame"
	"github.com/pthm-cable/waves/input"
	"github.com/pthm-cable/waves/lift"
	"github.com/pthm-cable/waves/scene"
	"github.com/pthm-cable/waves/telemetry"
)

// Construction errors.
var (
	ErrNoContainer      = errors.New("effect: no container")
	ErrInvalidContainer = errors.New("effect: container has no usable bounds")
)

// Renderer is the render backend the effect draws through.
type Renderer interface {
	Resize(width, height int)
	RenderFrame(sc *scene.Scene, pose camera.Pose) error
	Dispose()
}

// Options holds optional construction parameters.
type Options struct {
	// Viewport size in pixels (0 = config screen size)
	ViewportW, ViewportH int

	// Stop after this many frames (0 = unlimited)
	MaxFrames uint64

	LogStats bool
	Output   *telemetry.OutputManager
	Logger   *slog.Logger
}

// Waves is one running wave field. All methods must be called from the
// goroutine that runs the scheduler.
type Waves struct {
	cfg       *config.Config
	container input.Container
	backend   Renderer
	log       *slog.Logger

	scene    *scene.Scene
	mesh     *scene.InstancedMesh
	updater  *field.Updater
	tracker  *input.Tracker
	lift     *lift.Machine
	follower *camera.Follower
	driver   *frame.Driver

	// Telemetry
	perf        *telemetry.PerfCollector
	output      *telemetry.OutputManager
	logStats    bool
	logInterval uint64

	// State
	phase     float64
	frames    uint64
	maxFrames uint64
	err       error
	destroyed bool

	viewportW, viewportH int
}

// New builds the effect and starts its frame loop on sched. cfg may be nil
// to use the global config.
func New(cfg *config.Config, container input.Container, backend Renderer, sched frame.Scheduler, opts Options) (*Waves, error) {
	if container == nil {
		return nil, ErrNoContainer
	}
	if r, ok := container.Bounds(); !ok {
		return nil, fmt.Errorf("%w: %+v", ErrInvalidContainer, r)
	}
	if backend == nil {
		return nil, errors.New("effect: no renderer")
	}
	if sched == nil {
		return nil, errors.New("effect: no scheduler")
	}
	if cfg == nil {
		cfg = config.Cfg()
	}

	machine, err := lift.New(lift.Params{
		Max:   cfg.Lift.Max,
		Speed: cfg.Lift.Speed,
		Decay: cfg.Lift.Decay,
	}, cfg.Lift.Enabled)
	if err != nil {
		return nil, fmt.Errorf("effect: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	w := &Waves{
		cfg:       cfg,
		container: container,
		backend:   backend,
		log:       logger.With("component", "waves"),
		lift:      machine,
		output:    opts.Output,
		logStats:  opts.LogStats,
		maxFrames: opts.MaxFrames,
		viewportW: opts.ViewportW,
		viewportH: opts.ViewportH,
	}
	if w.viewportW <= 0 || w.viewportH <= 0 {
		w.viewportW, w.viewportH = cfg.Screen.Width, cfg.Screen.Height
	}

	w.perf = telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow)
	w.logInterval = uint64(cfg.Derived.LogInterval)
	if w.logInterval == 0 {
		w.logInterval = uint64(w.perf.WindowSize())
	}

	vw, vh := float32(w.viewportW), float32(w.viewportH)
	w.tracker = input.NewTracker(container, vw, vh, float32(cfg.Input.TouchGain))
	w.follower = camera.New(camera.Params{
		FOV:        float32(cfg.Camera.FOV),
		Near:       float32(cfg.Camera.Near),
		Far:        float32(cfg.Camera.Far),
		Depth:      float32(cfg.Camera.Depth),
		BaselineY:  float32(cfg.Camera.BaselineY),
		BiasFactor: float32(cfg.Camera.BiasFactor),
		FollowRate: float32(cfg.Camera.FollowRate),
	}, vw, vh)

	if err := w.createInstancedParticles(); err != nil {
		return nil, fmt.Errorf("effect: %w", err)
	}

	backend.Resize(w.viewportW, w.viewportH)

	w.driver = frame.NewDriver(sched, w.step)
	w.driver.Start()

	w.log.Info("effect started",
		"particles", cfg.Derived.Total,
		"grid_x", cfg.Grid.AmountX,
		"grid_y", cfg.Grid.AmountY,
		"lift", machine.Enabled(),
		"viewport_w", w.viewportW,
		"viewport_h", w.viewportH,
	)
	return w, nil
}

// createInstancedParticles builds the position table and mesh, and fills
// the buffers once so the first frame is populated.
func (w *Waves) createInstancedParticles() error {
	cfg := w.cfg
	w.updater = field.NewUpdater(cfg.Grid.AmountX, cfg.Grid.AmountY, cfg.Derived.Spacing32, cfg.Derived.ParticleColor)

	w.mesh = scene.NewInstancedMesh(
		scene.Geometry{
			Radius: float32(cfg.Particle.Size),
			Rings:  cfg.Particle.Rings,
			Slices: cfg.Particle.Slices,
		},
		scene.Material{
			Color:       cfg.Derived.ParticleColor,
			Opacity:     float32(cfg.Particle.Opacity),
			Transparent: cfg.Particle.Transparent,
		},
		w.updater.Total(),
	)
	w.scene = scene.New(cfg.Derived.BackgroundColor, w.mesh)

	if err := w.updater.Check(w.mesh); err != nil {
		return err
	}
	w.updater.Sweep(w.mesh, w.phase, w.lift.Value())
	return nil
}

// Phase returns the wave phase counter.
func (w *Waves) Phase() float64 { return w.phase }

// Lift returns the current lift displacement.
func (w *Waves) Lift() float64 { return w.lift.Value() }

// LiftMax returns the configured lift ceiling.
func (w *Waves) LiftMax() float64 { return w.lift.Params().Max }

// LiftEnabled reports whether the press gesture is wired.
func (w *Waves) LiftEnabled() bool { return w.lift.Enabled() }

// Pose returns the camera pose used for the last frame.
func (w *Waves) Pose() camera.Pose { return w.follower.Pose() }

// Offset returns the smoothed input offset.
func (w *Waves) Offset() (x, y float32) { return w.tracker.Offset() }

// Pressed reports whether a press or touch is active.
func (w *Waves) Pressed() bool { return w.tracker.Pressed() }

// Frames returns the number of completed frames.
func (w *Waves) Frames() uint64 { return w.frames }

// Mesh returns the instanced mesh. Callers must not write to it.
func (w *Waves) Mesh() *scene.InstancedMesh { return w.mesh }

// Perf returns the current rolling frame statistics.
func (w *Waves) Perf() telemetry.PerfStats { return w.perf.Stats() }

// Running reports whether further frames are scheduled.
func (w *Waves) Running() bool { return w.driver.Running() }

// Err returns the render error that stopped the effect, if any.
func (w *Waves) Err() error { return w.err }
