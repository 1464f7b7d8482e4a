package effect

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/pthm-cable/waves/camera"
	"github.com/pthm-cable/waves/config"
	"github.com/pthm-cable/waves/field"
	"github.com/pthm-cable/waves/frame"
	"github.com/pthm-cable/waves/input"
	"github.com/pthm-cable/waves/renderer"
	"github.com/pthm-cable/waves/scene"
)

// fakeScheduler holds at most one armed callback per request and records
// whether the effect re-armed.
type fakeScheduler struct {
	next     frame.ID
	armed    map[frame.ID]func()
	requests int
	cancels  int
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{armed: make(map[frame.ID]func())}
}

func (s *fakeScheduler) Request(fn func()) frame.ID {
	s.next++
	s.requests++
	s.armed[s.next] = fn
	return s.next
}

func (s *fakeScheduler) Cancel(id frame.ID) {
	s.cancels++
	delete(s.armed, id)
}

// fire runs the latest armed callback and returns it for replay.
func (s *fakeScheduler) fire() func() {
	fn := s.armed[s.next]
	delete(s.armed, s.next)
	if fn != nil {
		fn()
	}
	return fn
}

func testConfig(t *testing.T, liftEnabled bool) *config.Config {
	t.Helper()
	cfg := config.Default().Clone()
	cfg.Grid.AmountX = 8
	cfg.Grid.AmountY = 5
	cfg.Lift.Enabled = liftEnabled
	cfg.Lift.Max = 30
	cfg.Lift.Speed = 4
	cfg.Lift.Decay = 0.5
	cfg.Telemetry.PerfWindow = 4
	if err := cfg.Recompute(); err != nil {
		t.Fatalf("Recompute: %v", err)
	}
	return cfg
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var fullScreen = input.FixedContainer{Left: 0, Top: 0, Right: 800, Bottom: 600}

func newTestWaves(t *testing.T, cfg *config.Config, backend Renderer, sched frame.Scheduler) *Waves {
	t.Helper()
	w, err := New(cfg, fullScreen, backend, sched, Options{ViewportW: 800, ViewportH: 600, Logger: quietLogger()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return w
}

func TestNewRejectsMissingContainer(t *testing.T) {
	cfg := testConfig(t, false)
	_, err := New(cfg, nil, renderer.NewHeadless(), newFakeScheduler(), Options{Logger: quietLogger()})
	if !errors.Is(err, ErrNoContainer) {
		t.Errorf("expected ErrNoContainer, got %v", err)
	}

	_, err = New(cfg, input.FixedContainer{}, renderer.NewHeadless(), newFakeScheduler(), Options{Logger: quietLogger()})
	if !errors.Is(err, ErrInvalidContainer) {
		t.Errorf("expected ErrInvalidContainer, got %v", err)
	}
}

func TestNewPopulatesBuffersAndStarts(t *testing.T) {
	cfg := testConfig(t, false)
	sched := newFakeScheduler()
	backend := renderer.NewHeadless()
	w := newTestWaves(t, cfg, backend, sched)

	if w.Mesh().Count() != 40 {
		t.Errorf("expected 40 instances, got %d", w.Mesh().Count())
	}
	if m, c := w.Mesh().Dirty(); !m || !c {
		t.Error("initial sweep should leave buffers dirty for the first upload")
	}
	if sched.requests != 1 {
		t.Errorf("expected first frame armed, got %d requests", sched.requests)
	}
	if backend.Width != 800 || backend.Height != 600 {
		t.Errorf("backend not sized to viewport: %dx%d", backend.Width, backend.Height)
	}
	if w.Pose().Position[2] != camera.StartDepth {
		t.Errorf("camera should start at depth %d", camera.StartDepth)
	}
}

func TestStepAdvancesPhaseAndDraws(t *testing.T) {
	cfg := testConfig(t, false)
	sched := newFakeScheduler()
	backend := renderer.NewHeadless()
	w := newTestWaves(t, cfg, backend, sched)

	for i := 0; i < 3; i++ {
		sched.fire()
	}

	if backend.Frames != 3 || w.Frames() != 3 {
		t.Errorf("expected 3 frames, backend=%d effect=%d", backend.Frames, w.Frames())
	}
	if backend.MatrixUploads != 3 || backend.ColorUploads != 3 {
		t.Errorf("each frame should upload both buffers, got %d/%d", backend.MatrixUploads, backend.ColorUploads)
	}
	if math.Abs(w.Phase()-3*cfg.Animation.Speed) > 1e-12 {
		t.Errorf("expected phase %f, got %f", 3*cfg.Animation.Speed, w.Phase())
	}
	if backend.LastPose.Position[2] != float32(cfg.Camera.Depth) {
		t.Errorf("expected camera depth %f, got %f", cfg.Camera.Depth, backend.LastPose.Position[2])
	}
	if sched.requests != 4 {
		t.Errorf("expected re-arm after each frame, got %d requests", sched.requests)
	}
}

// sweepRecorder captures the mesh state at draw time.
type sweepRecorder struct {
	renderer.Headless
	heights []float32
}

func (r *sweepRecorder) RenderFrame(sc *scene.Scene, pose camera.Pose) error {
	r.heights = append(r.heights, sc.Mesh.MatrixAt(0)[13])
	return r.Headless.RenderFrame(sc, pose)
}

func TestSweepUsesPrePhaseAndCurrentLift(t *testing.T) {
	cfg := testConfig(t, true)
	sched := newFakeScheduler()
	rec := &sweepRecorder{}
	w := newTestWaves(t, cfg, rec, sched)

	w.OnPointerDown(10, 10, input.ButtonLeft)
	sched.fire()
	sched.fire()

	// Frame n draws phase n*speed with lift already stepped for that frame
	for n, lift := range []float64{4, 8} {
		want := field.At(0, 0, float64(n)*cfg.Animation.Speed, lift).Height
		if math.Abs(float64(rec.heights[n])-want) > 1e-3 {
			t.Errorf("frame %d: height %f, want %f", n, rec.heights[n], want)
		}
	}
}

func TestLiftRampsWhilePressedAndDecays(t *testing.T) {
	cfg := testConfig(t, true)
	sched := newFakeScheduler()
	w := newTestWaves(t, cfg, renderer.NewHeadless(), sched)

	w.OnTouchStart([]input.Point{{X: 100, Y: 100}})
	for i := 0; i < 10; i++ {
		sched.fire()
	}
	if w.Lift() != 30 {
		t.Errorf("expected lift capped at 30, got %f", w.Lift())
	}

	w.OnTouchEnd()
	sched.fire()
	sched.fire()
	if w.Lift() != 7.5 {
		t.Errorf("expected lift 7.5 after two decays, got %f", w.Lift())
	}
}

func TestLiftDisabledVariantIgnoresPress(t *testing.T) {
	cfg := testConfig(t, false)
	sched := newFakeScheduler()
	w := newTestWaves(t, cfg, renderer.NewHeadless(), sched)

	w.OnPointerDown(10, 10, input.ButtonLeft)
	for i := 0; i < 5; i++ {
		sched.fire()
	}
	if !w.Pressed() {
		t.Error("press should still be tracked")
	}
	if w.Lift() != 0 {
		t.Errorf("lift should stay pinned at 0, got %f", w.Lift())
	}
}

func TestCameraFollowsPointer(t *testing.T) {
	cfg := testConfig(t, false)
	sched := newFakeScheduler()
	w := newTestWaves(t, cfg, renderer.NewHeadless(), sched)

	// y=200 in an 800x600 viewport is 100 above centre
	w.OnPointerMove(400, 200)
	sched.fire()

	pose := w.Pose()
	if math.Abs(float64(pose.Position[1]-355.5)) > 1e-4 {
		t.Errorf("expected camera y 355.5, got %f", pose.Position[1])
	}
	if pose.Position[0] != 0 {
		t.Errorf("expected camera x 0, got %f", pose.Position[0])
	}
}

func TestResizeAffectsNextPointerMove(t *testing.T) {
	cfg := testConfig(t, false)
	backend := renderer.NewHeadless()
	w := newTestWaves(t, cfg, backend, newFakeScheduler())

	w.Resize(400, 300)
	if vw, vh := w.Viewport(); vw != 400 || vh != 300 {
		t.Errorf("expected viewport 400x300, got %dx%d", vw, vh)
	}
	w.OnPointerMove(400, 300)
	if x, y := w.Offset(); x != 200 || y != 150 {
		t.Errorf("expected offset (200,150) with new half viewport, got (%f,%f)", x, y)
	}
	if backend.Width != 400 || w.Pose().Aspect != 400.0/300.0 {
		t.Error("resize should reach backend and camera")
	}

	// Non-positive and unchanged sizes are ignored
	w.Resize(0, 300)
	w.Resize(400, 300)
	if vw, vh := w.Viewport(); vw != 400 || vh != 300 {
		t.Errorf("ignored resize changed viewport to %dx%d", vw, vh)
	}
}

func TestDestroyStopsFrames(t *testing.T) {
	cfg := testConfig(t, false)
	sched := newFakeScheduler()
	backend := renderer.NewHeadless()
	w := newTestWaves(t, cfg, backend, sched)

	sched.fire()
	stale := sched.armed[sched.next]
	if w.Destroyed() {
		t.Fatal("effect reports destroyed before Destroy")
	}
	w.Destroy()
	w.Destroy()

	if !w.Destroyed() {
		t.Error("effect should report destroyed")
	}
	if backend.Disposed != 1 {
		t.Errorf("backend should be disposed once, got %d", backend.Disposed)
	}
	if sched.cancels != 1 {
		t.Errorf("pending frame should be cancelled, got %d cancels", sched.cancels)
	}

	requests := sched.requests
	stale()
	if backend.Frames != 1 {
		t.Errorf("stale callback drew a frame after teardown (%d frames)", backend.Frames)
	}
	if sched.requests != requests {
		t.Error("stale callback re-armed after teardown")
	}

	// Input after teardown is ignored
	w.OnPointerDown(10, 10, input.ButtonLeft)
	if w.Pressed() {
		t.Error("input after destroy should be ignored")
	}
}

func TestRenderErrorStopsLoop(t *testing.T) {
	cfg := testConfig(t, false)
	sched := newFakeScheduler()
	boom := errors.New("context lost")
	backend := &renderer.Headless{FailOn: 2, Fail: boom}
	w := newTestWaves(t, cfg, backend, sched)

	sched.fire()
	sched.fire()

	if !errors.Is(w.Err(), boom) {
		t.Errorf("expected render error surfaced, got %v", w.Err())
	}
	if w.Running() {
		t.Error("effect should stop after render failure")
	}
	if sched.requests != 2 {
		t.Errorf("no frame should be armed after failure, got %d requests", sched.requests)
	}
	if w.Frames() != 1 {
		t.Errorf("failed frame should not count, got %d", w.Frames())
	}
}

func TestRunsOnLoopUntilMaxFrames(t *testing.T) {
	cfg := testConfig(t, false)
	loop := frame.NewLoop()
	backend := renderer.NewHeadless()
	w, err := New(cfg, fullScreen, backend, loop, Options{MaxFrames: 25, Logger: quietLogger()})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Destroy()

	if err := loop.Run(context.Background(), nil); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if w.Frames() != 25 || backend.Frames != 25 {
		t.Errorf("expected 25 frames, got effect=%d backend=%d", w.Frames(), backend.Frames)
	}
	if stats := w.Perf(); stats.Samples != cfg.Telemetry.PerfWindow {
		t.Errorf("expected full perf window, got %d samples", stats.Samples)
	}
}
