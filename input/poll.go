package input

// Sink receives input events. Tracker implements it, as does anything that
// forwards events to a tracker.
type Sink interface {
	OnPointerMove(x, y float32)
	OnPointerDown(x, y float32, b Button)
	OnPointerUp(b Button)
	OnTouchStart(touches []Point)
	OnTouchMove(touches []Point)
	OnTouchEnd()
	OnTouchCancel()
}

var _ Sink = (*Tracker)(nil)

// Snapshot is the polled input state for one frame.
type Snapshot struct {
	Mouse   Point
	Buttons [2]bool // Indexed by Button
	Touches []Point
}

// Poller converts successive snapshots into events for platforms that only
// expose polled input.
type Poller struct {
	prev    Snapshot
	primed  bool
	touches []Point // owned copy of prev.Touches
}

// Poll compares s with the previous snapshot and emits the resulting events
// to sink. The first poll only establishes the pointer baseline.
func (p *Poller) Poll(s Snapshot, sink Sink) {
	if p.primed && s.Mouse != p.prev.Mouse {
		sink.OnPointerMove(s.Mouse.X, s.Mouse.Y)
	}

	for b := ButtonLeft; b <= ButtonRight; b++ {
		was, is := p.prev.Buttons[b], s.Buttons[b]
		switch {
		case is && !was:
			sink.OnPointerDown(s.Mouse.X, s.Mouse.Y, b)
		case was && !is:
			sink.OnPointerUp(b)
		}
	}

	prevCount, count := len(p.touches), len(s.Touches)
	switch {
	case prevCount == 0 && count > 0:
		sink.OnTouchStart(s.Touches)
	case prevCount > 0 && count == 0:
		sink.OnTouchEnd()
	case count > 0 && s.Touches[0] != p.touches[0]:
		sink.OnTouchMove(s.Touches)
	}

	p.touches = append(p.touches[:0], s.Touches...)
	p.prev = s
	p.prev.Touches = p.touches
	p.primed = true
}

// Reset forgets the previous snapshot. Held buttons and touches are
// released on sink so no pressed state survives.
func (p *Poller) Reset(sink Sink) {
	for b := ButtonLeft; b <= ButtonRight; b++ {
		if p.prev.Buttons[b] {
			sink.OnPointerUp(b)
		}
	}
	if len(p.touches) > 0 {
		sink.OnTouchCancel()
	}
	p.prev = Snapshot{}
	p.touches = p.touches[:0]
	p.primed = false
}
