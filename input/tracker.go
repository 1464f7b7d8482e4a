// Package input turns pointer and touch events into a smoothed view offset
// and a pressed signal, filtered to a container rectangle.
package input

// Point is a screen coordinate.
type Point struct {
	X, Y float32
}

// Rect is a screen-space rectangle. Edges are inclusive.
type Rect struct {
	Left, Top, Right, Bottom float32
}

// Contains reports whether p lies within r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X <= r.Right && p.Y >= r.Top && p.Y <= r.Bottom
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool {
	return r.Right <= r.Left || r.Bottom <= r.Top
}

// Container supplies the current bounds that input must fall within.
// ok is false when the container has no usable bounds.
type Container interface {
	Bounds() (r Rect, ok bool)
}

// FixedContainer is a Container with constant bounds.
type FixedContainer Rect

// Bounds implements Container.
func (c FixedContainer) Bounds() (Rect, bool) {
	r := Rect(c)
	return r, !r.Empty()
}

// Button identifies a pointer button.
type Button uint8

const (
	ButtonLeft Button = iota
	ButtonRight
)

// Tracker accumulates pointer and touch input. It is not safe for concurrent
// use; all handlers must run on the same goroutine as the frame loop.
type Tracker struct {
	container Container
	touchGain float32

	halfW, halfH float32

	offsetX, offsetY float32
	buttons          uint8
	touching         bool
	lastTouch        Point
}

// NewTracker creates a tracker for a viewport of the given size.
func NewTracker(container Container, viewportW, viewportH, touchGain float32) *Tracker {
	t := &Tracker{container: container, touchGain: touchGain}
	t.Resize(viewportW, viewportH)
	return t
}

// Resize recomputes the viewport half-dimensions used by the mappings.
func (t *Tracker) Resize(viewportW, viewportH float32) {
	t.halfW = viewportW / 2
	t.halfH = viewportH / 2
}

// HalfViewport returns the current half-dimensions.
func (t *Tracker) HalfViewport() (halfW, halfH float32) {
	return t.halfW, t.halfH
}

// Offset returns the pointer offset relative to the viewport centre.
func (t *Tracker) Offset() (x, y float32) {
	return t.offsetX, t.offsetY
}

// Pressed reports whether a button is held or a touch is active.
func (t *Tracker) Pressed() bool {
	return t.buttons != 0 || t.touching
}

// Touching reports whether a touch gesture is active.
func (t *Tracker) Touching() bool {
	return t.touching
}

func (t *Tracker) inBounds(p Point) bool {
	if t.container == nil {
		return false
	}
	r, ok := t.container.Bounds()
	return ok && r.Contains(p)
}

// OnPointerMove maps an absolute pointer position onto the offset.
func (t *Tracker) OnPointerMove(x, y float32) {
	if !t.inBounds(Point{x, y}) {
		return
	}
	t.offsetX = x - t.halfW
	t.offsetY = y - t.halfH
}

// OnPointerDown marks a button held if the press lands inside the container.
func (t *Tracker) OnPointerDown(x, y float32, b Button) {
	if !t.inBounds(Point{x, y}) {
		return
	}
	t.buttons |= 1 << b
}

// OnPointerUp releases a button regardless of where the release happened.
func (t *Tracker) OnPointerUp(b Button) {
	t.buttons &^= 1 << b
}

// OnTouchStart begins a touch gesture from the first touch point.
func (t *Tracker) OnTouchStart(touches []Point) {
	if len(touches) == 0 || !t.inBounds(touches[0]) {
		return
	}
	t.touching = true
	t.lastTouch = touches[0]
}

// OnTouchMove moves the offset by the scaled delta since the previous touch
// sample, clamped to twice the half viewport.
func (t *Tracker) OnTouchMove(touches []Point) {
	if len(touches) == 0 || !t.touching || !t.inBounds(touches[0]) {
		return
	}
	cur := touches[0]
	t.offsetX += (cur.X - t.lastTouch.X) * t.touchGain
	t.offsetY += (cur.Y - t.lastTouch.Y) * t.touchGain

	maxX, maxY := t.halfW*2, t.halfH*2
	t.offsetX = clamp(t.offsetX, -maxX, maxX)
	t.offsetY = clamp(t.offsetY, -maxY, maxY)

	t.lastTouch = cur
}

// OnTouchEnd ends the gesture. A release is always honoured so the pressed
// state cannot stick when the finger lifts outside the container.
func (t *Tracker) OnTouchEnd() {
	t.touching = false
}

// OnTouchCancel ends the gesture the same way as OnTouchEnd.
func (t *Tracker) OnTouchCancel() {
	t.touching = false
}

func clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
