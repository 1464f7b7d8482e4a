package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	gui "github.com/gen2brain/raylib-go/raygui"

	"github.com/pthm-cable/waves/telemetry"
)

// HUDData holds everything the HUD shows for one frame.
type HUDData struct {
	Title     string
	FPS       int32
	Frames    uint64
	Phase     float64
	Particles int

	LiftEnabled bool
	Lift        float64
	LiftMax     float64
	Pressed     bool

	Perf telemetry.PerfStats
}

// HUD renders the heads-up display.
type HUD struct {
	Theme Theme
	x, y  int32
}

// NewHUD creates a HUD anchored at the top left.
func NewHUD() *HUD {
	return &HUD{Theme: DefaultTheme(), x: 10, y: 10}
}

// Lines returns the text rows shown under the title.
func (h *HUD) Lines(data HUDData) []string {
	lines := []string{
		fmt.Sprintf("FPS: %d | Frame: %d", data.FPS, data.Frames),
		fmt.Sprintf("Phase: %.2f | Particles: %d", data.Phase, data.Particles),
	}
	if data.Perf.Samples > 0 {
		lines = append(lines, fmt.Sprintf("Work: %s avg, %s p95",
			data.Perf.AvgFrame.Round(time.Microsecond), data.Perf.P95Frame.Round(time.Microsecond)))
	}
	if data.LiftEnabled {
		status := "released"
		if data.Pressed {
			status = "pressed"
		}
		lines = append(lines, fmt.Sprintf("Lift: %.1f / %.0f (%s)", data.Lift, data.LiftMax, status))
	}
	return lines
}

// lineColor highlights the lift row, which is always last, while pressed.
func (h *HUD) lineColor(data HUDData, i, n int) rl.Color {
	if data.LiftEnabled && data.Pressed && i == n-1 {
		return h.Theme.StatusColor
	}
	return h.Theme.LabelColor
}

// Height returns the panel height for data.
func (h *HUD) Height(data HUDData) int32 {
	t := h.Theme
	height := t.PanelHeaderGap + t.Padding*2 + int32(len(h.Lines(data)))*t.LineHeight
	if data.LiftEnabled {
		height += t.BarHeight + t.Padding
	}
	return height
}

// Draw renders the HUD. It must run between BeginDrawing and EndDrawing.
func (h *HUD) Draw(data HUDData) {
	t := h.Theme
	rl.DrawRectangle(h.x, h.y, t.PanelWidth, h.Height(data), t.PanelBg)
	rl.DrawRectangleLines(h.x, h.y, t.PanelWidth, h.Height(data), t.PanelBorder)

	x := h.x + t.Padding
	rl.DrawText(data.Title, x, h.y+t.Padding/2, t.TitleFontSize, t.TitleColor)

	y := h.y + t.PanelHeaderGap + t.Padding
	lines := h.Lines(data)
	for i, line := range lines {
		rl.DrawText(line, x, y, t.FontSize, h.lineColor(data, i, len(lines)))
		y += t.LineHeight
	}

	if data.LiftEnabled {
		bar := rl.Rectangle{
			X:      float32(x + 40),
			Y:      float32(y),
			Width:  float32(t.PanelWidth - 2*t.Padding - 80),
			Height: float32(t.BarHeight),
		}
		gui.ProgressBar(bar, "lift", fmt.Sprintf("%.0f%%", LiftFraction(data.Lift, data.LiftMax)*100),
			float32(data.Lift), 0, float32(data.LiftMax))
	}
}

// DrawControls renders the key legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// LiftFraction returns lift as a fraction of ceiling, clamped to [0, 1].
func LiftFraction(lift, ceiling float64) float64 {
	if ceiling <= 0 {
		return 0
	}
	return min(1, max(0, lift/ceiling))
}
