package telemetry

import (
	"log/slog"
	"slices"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Phase names for one effect frame.
const (
	PhaseLift   = "lift"
	PhaseSweep  = "sweep"
	PhaseCamera = "camera"
	PhaseDraw   = "draw"
)

// Phases lists the frame phases in execution order.
var Phases = []string{PhaseLift, PhaseSweep, PhaseCamera, PhaseDraw}

// PerfSample holds timing data for a single frame.
type PerfSample struct {
	FrameDuration time.Duration
	Phases        map[string]time.Duration
}

// PerfCollector tracks frame timings over a rolling window.
type PerfCollector struct {
	windowSize    int
	samples       []PerfSample
	writeIndex    int
	sampleCount   int
	currentPhases map[string]time.Duration
	frameStart    time.Time
	phaseStart    time.Time
	lastPhase     string

	// Wall-clock interval between frame starts
	lastFrameTime time.Time
	interval      time.Duration

	now func() time.Time
}

// NewPerfCollector creates a new performance collector.
// windowSize: number of frames to aggregate over (e.g. 120 for two seconds at 60fps).
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]PerfSample, windowSize),
		currentPhases: make(map[string]time.Duration),
		now:           time.Now,
	}
}

// WindowSize returns the number of frames per window.
func (p *PerfCollector) WindowSize() int {
	return p.windowSize
}

// StartFrame begins timing a new frame.
func (p *PerfCollector) StartFrame() {
	now := p.now()
	if !p.lastFrameTime.IsZero() {
		p.interval = now.Sub(p.lastFrameTime)
	}
	p.lastFrameTime = now
	p.frameStart = now
	p.currentPhases = make(map[string]time.Duration, len(Phases))
	p.lastPhase = ""
}

// StartPhase begins timing a specific phase, ending the previous one.
func (p *PerfCollector) StartPhase(phase string) {
	now := p.now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndFrame finishes timing the current frame and records the sample.
func (p *PerfCollector) EndFrame() {
	now := p.now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}

	p.samples[p.writeIndex] = PerfSample{
		FrameDuration: now.Sub(p.frameStart),
		Phases:        p.currentPhases,
	}
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	Samples int

	// Frame work timing
	AvgFrame    time.Duration
	MinFrame    time.Duration
	MaxFrame    time.Duration
	StdDevFrame time.Duration
	P50Frame    time.Duration
	P95Frame    time.Duration
	P99Frame    time.Duration

	// Phase breakdown
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64

	// Display rate measured from frame start intervals
	Interval time.Duration
	FPS      float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	var fps float64
	if p.interval > 0 {
		fps = float64(time.Second) / float64(p.interval)
	}

	out := PerfStats{
		Samples:  p.sampleCount,
		PhaseAvg: make(map[string]time.Duration),
		PhasePct: make(map[string]float64),
		Interval: p.interval,
		FPS:      fps,
	}
	if p.sampleCount == 0 {
		return out
	}

	durations := make([]float64, p.sampleCount)
	phaseSum := make(map[string]time.Duration)
	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		durations[i] = float64(s.FrameDuration)
		for phase, dur := range s.Phases {
			phaseSum[phase] += dur
		}
	}
	slices.Sort(durations)

	mean, std := stat.MeanStdDev(durations, nil)
	if p.sampleCount < 2 {
		std = 0
	}
	out.AvgFrame = time.Duration(mean)
	out.StdDevFrame = time.Duration(std)
	out.MinFrame = time.Duration(durations[0])
	out.MaxFrame = time.Duration(durations[len(durations)-1])
	out.P50Frame = time.Duration(stat.Quantile(0.50, stat.Empirical, durations, nil))
	out.P95Frame = time.Duration(stat.Quantile(0.95, stat.Empirical, durations, nil))
	out.P99Frame = time.Duration(stat.Quantile(0.99, stat.Empirical, durations, nil))

	for phase, sum := range phaseSum {
		avg := sum / time.Duration(p.sampleCount)
		out.PhaseAvg[phase] = avg
		if mean > 0 {
			out.PhasePct[phase] = float64(avg) / mean * 100
		}
	}
	return out
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("samples", s.Samples),
		slog.Int64("avg_frame_us", s.AvgFrame.Microseconds()),
		slog.Int64("p95_frame_us", s.P95Frame.Microseconds()),
		slog.Int64("max_frame_us", s.MaxFrame.Microseconds()),
	}

	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}

	for _, phase := range Phases {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, slog.Float64(phase+"_pct", float64(int(pct*10))/10))
		}
	}

	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	RunID      string  `csv:"run_id"`
	WindowEnd  uint64  `csv:"window_end"`
	Samples    int     `csv:"samples"`
	AvgFrameUS int64   `csv:"avg_frame_us"`
	MinFrameUS int64   `csv:"min_frame_us"`
	MaxFrameUS int64   `csv:"max_frame_us"`
	StdFrameUS int64   `csv:"std_frame_us"`
	P50FrameUS int64   `csv:"p50_frame_us"`
	P95FrameUS int64   `csv:"p95_frame_us"`
	P99FrameUS int64   `csv:"p99_frame_us"`
	FPS        float64 `csv:"fps"`
	LiftPct    float64 `csv:"lift_pct"`
	SweepPct   float64 `csv:"sweep_pct"`
	CameraPct  float64 `csv:"camera_pct"`
	DrawPct    float64 `csv:"draw_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(runID string, windowEnd uint64) PerfStatsCSV {
	return PerfStatsCSV{
		RunID:      runID,
		WindowEnd:  windowEnd,
		Samples:    s.Samples,
		AvgFrameUS: s.AvgFrame.Microseconds(),
		MinFrameUS: s.MinFrame.Microseconds(),
		MaxFrameUS: s.MaxFrame.Microseconds(),
		StdFrameUS: s.StdDevFrame.Microseconds(),
		P50FrameUS: s.P50Frame.Microseconds(),
		P95FrameUS: s.P95Frame.Microseconds(),
		P99FrameUS: s.P99Frame.Microseconds(),
		FPS:        s.FPS,
		LiftPct:    s.PhasePct[PhaseLift],
		SweepPct:   s.PhasePct[PhaseSweep],
		CameraPct:  s.PhasePct[PhaseCamera],
		DrawPct:    s.PhasePct[PhaseDraw],
	}
}
