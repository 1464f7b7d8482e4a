package effect

// reportPerf logs the rolling frame stats and appends them to the run output.
func (w *Waves) reportPerf() {
	stats := w.perf.Stats()
	if stats.Samples == 0 {
		return
	}

	if w.logStats {
		w.log.Info("perf", "frame", w.frames, "stats", stats)
	}

	if err := w.output.WritePerf(stats, w.frames); err != nil {
		w.log.Warn("failed to write perf stats", "error", err)
	}
}
