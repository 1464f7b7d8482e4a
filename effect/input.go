package effect

import "github.com/pthm-cable/waves/input"

var _ input.Sink = (*Waves)(nil)

// OnPointerMove forwards an absolute pointer position.
func (w *Waves) OnPointerMove(x, y float32) {
	if w.destroyed {
		return
	}
	w.tracker.OnPointerMove(x, y)
}

// OnPointerDown forwards a button press.
func (w *Waves) OnPointerDown(x, y float32, b input.Button) {
	if w.destroyed {
		return
	}
	w.tracker.OnPointerDown(x, y, b)
}

// OnPointerUp forwards a button release.
func (w *Waves) OnPointerUp(b input.Button) {
	if w.destroyed {
		return
	}
	w.tracker.OnPointerUp(b)
}

// OnTouchStart forwards the start of a touch gesture.
func (w *Waves) OnTouchStart(touches []input.Point) {
	if w.destroyed {
		return
	}
	w.tracker.OnTouchStart(touches)
}

// OnTouchMove forwards touch movement.
func (w *Waves) OnTouchMove(touches []input.Point) {
	if w.destroyed {
		return
	}
	w.tracker.OnTouchMove(touches)
}

// OnTouchEnd forwards the end of a touch gesture.
func (w *Waves) OnTouchEnd() {
	if w.destroyed {
		return
	}
	w.tracker.OnTouchEnd()
}

// OnTouchCancel forwards a cancelled touch gesture.
func (w *Waves) OnTouchCancel() {
	if w.destroyed {
		return
	}
	w.tracker.OnTouchCancel()
}

// Resize propagates a viewport change to the input mapping, camera and backend.
func (w *Waves) Resize(width, height int) {
	if w.destroyed || width <= 0 || height <= 0 {
		return
	}
	if width == w.viewportW && height == w.viewportH {
		return
	}
	w.viewportW, w.viewportH = width, height

	w.tracker.Resize(float32(width), float32(height))
	w.follower.Resize(float32(width), float32(height))
	w.backend.Resize(width, height)

	w.log.Debug("viewport resized", "width", width, "height", height)
}

// Viewport returns the current viewport size.
func (w *Waves) Viewport() (width, height int) {
	return w.viewportW, w.viewportH
}
