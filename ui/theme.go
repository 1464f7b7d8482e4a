// Package ui draws the on-screen HUD over the wave field.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Theme holds UI styling constants.
type Theme struct {
	PanelBg     rl.Color
	PanelBorder rl.Color
	TitleColor  rl.Color
	LabelColor  rl.Color
	StatusColor rl.Color

	Padding        int32
	LineHeight     int32
	BarHeight      int32
	FontSize       int32
	TitleFontSize  int32
	PanelWidth     int32
	PanelHeaderGap int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:        rl.Color{R: 20, G: 25, B: 30, A: 200},
		PanelBorder:    rl.Color{R: 60, G: 70, B: 80, A: 255},
		TitleColor:     rl.White,
		LabelColor:     rl.LightGray,
		StatusColor:    rl.Yellow,
		Padding:        10,
		LineHeight:     18,
		BarHeight:      14,
		FontSize:       14,
		TitleFontSize:  20,
		PanelWidth:     280,
		PanelHeaderGap: 24,
	}
}
