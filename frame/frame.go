// Package frame drives a repeating per-refresh callback on a cooperative,
// single-goroutine scheduler.
package frame

import (
	"context"
	"slices"
)

// ID identifies a scheduled callback. Zero is never issued.
type ID uint64

// Scheduler arms one-shot callbacks for the next display refresh.
type Scheduler interface {
	Request(fn func()) ID
	Cancel(id ID)
}

// Driver runs a step function once per frame until the step reports it is
// done or Stop is called.
type Driver struct {
	sched   Scheduler
	step    func() bool
	pending ID
	started bool
	stopped bool
}

// NewDriver creates a driver that has not been started.
func NewDriver(sched Scheduler, step func() bool) *Driver {
	return &Driver{sched: sched, step: step}
}

// Start arms the first frame. Calling Start again, or after Stop, does nothing.
func (d *Driver) Start() {
	if d.started || d.stopped {
		return
	}
	d.started = true
	d.arm()
}

func (d *Driver) arm() {
	d.pending = d.sched.Request(d.fire)
}

func (d *Driver) fire() {
	d.pending = 0
	if d.stopped {
		return
	}
	if !d.step() {
		d.stopped = true
		return
	}
	// The step itself may have stopped the driver
	if d.stopped {
		return
	}
	d.arm()
}

// Stop cancels the pending frame. It is safe to call repeatedly and when no
// frame is scheduled.
func (d *Driver) Stop() {
	if d.stopped {
		return
	}
	d.stopped = true
	if d.pending != 0 {
		d.sched.Cancel(d.pending)
		d.pending = 0
	}
}

// Running reports whether another frame will run.
func (d *Driver) Running() bool {
	return d.started && !d.stopped
}

// Loop is a cooperative Scheduler. Callbacks requested while a dispatch is
// in progress run in the next dispatch.
type Loop struct {
	next      ID
	callbacks map[ID]func()
}

// NewLoop creates an empty loop.
func NewLoop() *Loop {
	return &Loop{callbacks: make(map[ID]func())}
}

// Request implements Scheduler.
func (l *Loop) Request(fn func()) ID {
	l.next++
	l.callbacks[l.next] = fn
	return l.next
}

// Cancel implements Scheduler. Unknown or already-run ids are ignored.
func (l *Loop) Cancel(id ID) {
	delete(l.callbacks, id)
}

// Pending returns the number of armed callbacks.
func (l *Loop) Pending() int {
	return len(l.callbacks)
}

// Dispatch runs every callback armed before the call, in request order.
// A callback cancelled by an earlier one in the same dispatch does not run.
func (l *Loop) Dispatch() int {
	if len(l.callbacks) == 0 {
		return 0
	}
	ids := make([]ID, 0, len(l.callbacks))
	for id := range l.callbacks {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	ran := 0
	for _, id := range ids {
		fn, ok := l.callbacks[id]
		if !ok {
			continue
		}
		delete(l.callbacks, id)
		fn()
		ran++
	}
	return ran
}

// Run dispatches once per refresh until ctx is cancelled, before returns
// false, or nothing is left to run. before is called ahead of each dispatch
// and is where a platform pumps its events and waits for the refresh.
func (l *Loop) Run(ctx context.Context, before func() bool) error {
	for l.Pending() > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		if before != nil && !before() {
			return nil
		}
		l.Dispatch()
	}
	return nil
}
