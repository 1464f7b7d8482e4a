package field

import "math"

// Wave shape constants.
const (
	FreqX       = 0.3
	FreqY       = 0.5
	Amplitude   = 50.0
	ScaleRawMax = 16.0
	ScaleFactor = 0.01
)

// Sample is the motion of one slot at one phase.
type Sample struct {
	Height    float64 // Vertical displacement including lift
	ScaleRaw  float64 // [0, 16]
	Scale     float64 // ScaleRaw * ScaleFactor, [0, 0.16]
	Intensity float64 // Colour multiplier, [0.5, 1]
}

// At computes the wave sample for grid coordinate (ix, iy).
func At(ix, iy int, phase, lift float64) Sample {
	sx := math.Sin((float64(ix) + phase) * FreqX)
	sy := math.Sin((float64(iy) + phase) * FreqY)

	raw := (sx+1)*4 + (sy+1)*4
	return Sample{
		Height:    sx*Amplitude + sy*Amplitude + lift,
		ScaleRaw:  raw,
		Scale:     raw * ScaleFactor,
		Intensity: Intensity(raw),
	}
}

// Intensity maps a raw scale in [0, 16] onto a colour multiplier in [0.5, 1].
func Intensity(scaleRaw float64) float64 {
	return (scaleRaw/ScaleRawMax)*0.5 + 0.5
}
