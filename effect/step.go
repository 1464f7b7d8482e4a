package effect

import (
	"fmt"

	"github.com/pthm-cable/waves/telemetry"
)

// step runs one frame and reports whether the loop should continue.
// Order: lift, sweep, camera, draw, then the phase advances.
func (w *Waves) step() bool {
	w.perf.StartFrame()

	w.perf.StartPhase(telemetry.PhaseLift)
	lift := w.lift.Step(w.tracker.Pressed())

	w.perf.StartPhase(telemetry.PhaseSweep)
	w.updater.Sweep(w.mesh, w.phase, lift)

	w.perf.StartPhase(telemetry.PhaseCamera)
	w.follower.Update(w.tracker.Offset())

	w.perf.StartPhase(telemetry.PhaseDraw)
	err := w.backend.RenderFrame(w.scene, w.follower.Pose())
	w.perf.EndFrame()

	if err != nil {
		w.err = fmt.Errorf("render frame %d: %w", w.frames, err)
		w.log.Error("render failed, stopping", "frame", w.frames, "error", err)
		return false
	}

	w.phase += w.cfg.Animation.Speed
	w.frames++

	if w.frames%w.logInterval == 0 {
		w.reportPerf()
	}

	if w.maxFrames > 0 && w.frames >= w.maxFrames {
		w.log.Info("max frames reached", "frames", w.frames)
		return false
	}
	return true
}
