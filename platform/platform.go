// Package platform connects the effect to a raylib window: it polls input,
// watches for resizes and drives the frame loop once per refresh.
package platform

import (
	"context"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/waves/config"
	"github.com/pthm-cable/waves/frame"
	"github.com/pthm-cable/waves/input"
)

// WindowContainer is the raylib window, or a sub-rectangle of it, as an
// input container.
type WindowContainer struct {
	X, Y, Width, Height int // Zero width or height means the whole window
}

// NewWindowContainer builds a container from the configured rectangle.
func NewWindowContainer(c config.ContainerConfig) WindowContainer {
	return WindowContainer{X: c.X, Y: c.Y, Width: c.Width, Height: c.Height}
}

// Bounds reports the container rectangle in window coordinates. It is not
// usable until the window exists.
func (c WindowContainer) Bounds() (input.Rect, bool) {
	if !rl.IsWindowReady() {
		return input.Rect{}, false
	}
	return c.rect(rl.GetScreenWidth(), rl.GetScreenHeight())
}

func (c WindowContainer) rect(screenW, screenH int) (input.Rect, bool) {
	r := input.Rect{Right: float32(screenW), Bottom: float32(screenH)}
	if c.Width > 0 && c.Height > 0 {
		r = input.Rect{
			Left:   float32(c.X),
			Top:    float32(c.Y),
			Right:  float32(c.X + c.Width),
			Bottom: float32(c.Y + c.Height),
		}
	}
	return r, !r.Empty()
}

// Target is what the platform drives.
type Target interface {
	input.Sink
	Resize(width, height int)
}

// Window polls a raylib window for one target.
type Window struct {
	target Target
	poller input.Poller
	touch  bool

	// Toggled with F1
	HUD bool

	width, height int
	touches       []input.Point
	log           *slog.Logger
}

// NewWindow creates a poller for the current raylib window. touch enables
// touch point polling; desktop mice report as touch 0 in raylib.
func NewWindow(target Target, touch, hud bool, logger *slog.Logger) *Window {
	if logger == nil {
		logger = slog.Default()
	}
	return &Window{
		target: target,
		touch:  touch,
		HUD:    hud,
		width:  rl.GetScreenWidth(),
		height: rl.GetScreenHeight(),
		log:    logger.With("component", "platform"),
	}
}

// Snapshot reads the polled raylib input state.
func (w *Window) Snapshot() input.Snapshot {
	mouse := rl.GetMousePosition()
	s := input.Snapshot{Mouse: input.Point{X: mouse.X, Y: mouse.Y}}
	s.Buttons[input.ButtonLeft] = rl.IsMouseButtonDown(rl.MouseButtonLeft)
	s.Buttons[input.ButtonRight] = rl.IsMouseButtonDown(rl.MouseButtonRight)

	if w.touch {
		w.touches = w.touches[:0]
		count := rl.GetTouchPointCount()
		for i := int32(0); i < count; i++ {
			p := rl.GetTouchPosition(i)
			w.touches = append(w.touches, input.Point{X: p.X, Y: p.Y})
		}
		s.Touches = w.touches
	}
	return s
}

// PollInput handles keys, resizes and input for one refresh. It returns
// false once the window has been asked to close.
func (w *Window) PollInput() bool {
	if rl.WindowShouldClose() {
		return false
	}

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeyF1) {
		w.HUD = !w.HUD
	}

	if width, height := rl.GetScreenWidth(), rl.GetScreenHeight(); rl.IsWindowResized() || width != w.width || height != w.height {
		w.width, w.height = width, height
		w.log.Debug("window resized", "width", width, "height", height)
		w.target.Resize(width, height)
	}

	w.poller.Poll(w.Snapshot(), w.target)
	return true
}

// Run drives loop once per raylib refresh until the window closes, ctx is
// cancelled or nothing is left scheduled. Pending input state is released
// on the way out.
func (w *Window) Run(ctx context.Context, loop *frame.Loop) error {
	defer w.poller.Reset(w.target)
	return loop.Run(ctx, w.PollInput)
}
