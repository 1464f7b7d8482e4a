package input

import "testing"

func newTestTracker() *Tracker {
	return NewTracker(FixedContainer{Left: 0, Top: 0, Right: 800, Bottom: 600}, 800, 600, 2)
}

func TestPointerMoveAbsolute(t *testing.T) {
	tr := newTestTracker()
	tr.OnPointerMove(500, 100)

	x, y := tr.Offset()
	if x != 100 || y != -200 {
		t.Errorf("expected offset (100,-200), got (%f,%f)", x, y)
	}
}

func TestPointerMoveOutsideBoundsIgnored(t *testing.T) {
	tr := NewTracker(FixedContainer{Left: 100, Top: 100, Right: 200, Bottom: 200}, 800, 600, 2)
	tr.OnPointerMove(150, 150)
	tr.OnPointerMove(50, 50)

	x, y := tr.Offset()
	if x != 150-400 || y != 150-300 {
		t.Errorf("out-of-bounds move should be ignored, got (%f,%f)", x, y)
	}
}

func TestBoundsEdgesInclusive(t *testing.T) {
	r := Rect{Left: 0, Top: 0, Right: 10, Bottom: 10}
	for _, p := range []Point{{0, 0}, {10, 10}, {0, 10}, {10, 0}} {
		if !r.Contains(p) {
			t.Errorf("edge point %+v should be contained", p)
		}
	}
	if r.Contains(Point{10.01, 5}) {
		t.Error("point past right edge should not be contained")
	}
}

func TestTouchMoveDelta(t *testing.T) {
	tr := newTestTracker()
	tr.OnTouchStart([]Point{{100, 100}})
	tr.OnTouchMove([]Point{{110, 115}})

	x, y := tr.Offset()
	if x != 20 || y != 30 {
		t.Errorf("expected offset (20,30), got (%f,%f)", x, y)
	}

	// Next delta is relative to the last sample, not the start
	tr.OnTouchMove([]Point{{111, 115}})
	x, y = tr.Offset()
	if x != 22 || y != 30 {
		t.Errorf("expected offset (22,30), got (%f,%f)", x, y)
	}
}

func TestTouchMoveClamped(t *testing.T) {
	tr := newTestTracker()
	tr.OnTouchStart([]Point{{0, 0}})
	for i := 1; i <= 10; i++ {
		tr.OnTouchMove([]Point{{float32(i * 80), float32(i * 60)}})
	}

	x, y := tr.Offset()
	if x != 800 || y != 600 {
		t.Errorf("expected offset clamped to (800,600), got (%f,%f)", x, y)
	}
}

func TestTouchMoveWithoutStartIgnored(t *testing.T) {
	tr := newTestTracker()
	tr.OnTouchMove([]Point{{10, 10}})
	if x, y := tr.Offset(); x != 0 || y != 0 {
		t.Errorf("move without active touch should be ignored, got (%f,%f)", x, y)
	}
}

func TestMalformedTouchIgnored(t *testing.T) {
	tr := newTestTracker()
	tr.OnTouchStart(nil)
	if tr.Pressed() {
		t.Error("touch start with no touches should be ignored")
	}

	tr.OnTouchStart([]Point{{10, 10}})
	tr.OnTouchMove(nil)
	if x, y := tr.Offset(); x != 0 || y != 0 {
		t.Errorf("touch move with no touches should not move offset, got (%f,%f)", x, y)
	}
}

func TestPressedOr(t *testing.T) {
	tr := newTestTracker()
	if tr.Pressed() {
		t.Fatal("fresh tracker should not be pressed")
	}

	tr.OnPointerDown(10, 10, ButtonLeft)
	tr.OnPointerDown(10, 10, ButtonRight)
	tr.OnPointerUp(ButtonLeft)
	if !tr.Pressed() {
		t.Error("right button still held")
	}
	tr.OnPointerUp(ButtonRight)
	if tr.Pressed() {
		t.Error("no buttons held")
	}

	tr.OnTouchStart([]Point{{10, 10}})
	if !tr.Pressed() || !tr.Touching() {
		t.Error("touch should count as pressed")
	}
	tr.OnTouchEnd()
	if tr.Pressed() || tr.Touching() {
		t.Error("touch end should release")
	}

	tr.OnTouchStart([]Point{{10, 10}})
	tr.OnTouchCancel()
	if tr.Touching() {
		t.Error("touch cancel should release")
	}
}

func TestPointerDownOutsideBoundsIgnored(t *testing.T) {
	tr := newTestTracker()
	tr.OnPointerDown(900, 10, ButtonLeft)
	if tr.Pressed() {
		t.Error("press outside container should be ignored")
	}
}

func TestReleaseAlwaysHonoured(t *testing.T) {
	// Release events carry no position, so they cannot be filtered out
	bounds := &movableContainer{r: Rect{0, 0, 100, 100}}
	tr := NewTracker(bounds, 800, 600, 2)

	tr.OnPointerDown(50, 50, ButtonLeft)
	tr.OnTouchStart([]Point{{50, 50}})
	bounds.r = Rect{} // container collapsed before release

	tr.OnPointerUp(ButtonLeft)
	tr.OnTouchEnd()
	if tr.Pressed() {
		t.Error("releases must clear pressed state regardless of bounds")
	}
}

func TestResizeUsedImmediately(t *testing.T) {
	tr := NewTracker(FixedContainer{0, 0, 2000, 2000}, 800, 600, 2)
	tr.OnPointerMove(500, 500)
	if x, y := tr.Offset(); x != 100 || y != 200 {
		t.Fatalf("unexpected offset before resize (%f,%f)", x, y)
	}

	tr.Resize(1000, 1000)
	if hw, hh := tr.HalfViewport(); hw != 500 || hh != 500 {
		t.Errorf("expected half viewport (500,500), got (%f,%f)", hw, hh)
	}
	tr.OnPointerMove(500, 500)
	if x, y := tr.Offset(); x != 0 || y != 0 {
		t.Errorf("expected offset (0,0) after resize, got (%f,%f)", x, y)
	}
}

func TestNilContainerRejectsEverything(t *testing.T) {
	tr := NewTracker(nil, 800, 600, 2)
	tr.OnPointerMove(10, 10)
	tr.OnPointerDown(10, 10, ButtonLeft)
	if x, y := tr.Offset(); x != 0 || y != 0 || tr.Pressed() {
		t.Error("tracker without container should reject guarded events")
	}
}

type movableContainer struct{ r Rect }

func (c *movableContainer) Bounds() (Rect, bool) { return c.r, !c.r.Empty() }
