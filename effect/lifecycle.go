package effect

// Destroy stops the frame loop and releases the backend. It is idempotent
// and safe to call when no frame is scheduled.
func (w *Waves) Destroy() {
	if w.destroyed {
		return
	}
	w.destroyed = true

	w.driver.Stop()
	w.backend.Dispose()

	if w.frames%w.logInterval != 0 {
		w.reportPerf()
	}

	w.log.Info("effect destroyed", "frames", w.frames, "phase", w.phase)
}

// Destroyed reports whether Destroy has run.
func (w *Waves) Destroyed() bool {
	return w.destroyed
}
