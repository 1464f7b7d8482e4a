package field

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/pthm-cable/waves/scene"
)

// Updater writes per-slot transforms and colours into an instanced mesh.
type Updater struct {
	amountX, amountY int
	positions        []Position
	base             colorful.Color

	// Per-frame column terms, reused across sweeps
	sinY []float64
}

// NewUpdater precomputes the position table for the grid.
func NewUpdater(amountX, amountY int, spacing float32, base colorful.Color) *Updater {
	return &Updater{
		amountX:   amountX,
		amountY:   amountY,
		positions: BuildPositions(amountX, amountY, spacing),
		base:      base,
		sinY:      make([]float64, amountY),
	}
}

// Total returns the number of slots.
func (u *Updater) Total() int {
	return len(u.positions)
}

// Positions returns the base position table. Callers must not modify it.
func (u *Updater) Positions() []Position {
	return u.positions
}

// Check verifies the mesh has exactly one instance per slot.
func (u *Updater) Check(mesh *scene.InstancedMesh) error {
	if mesh.Count() != len(u.positions) {
		return fmt.Errorf("mesh capacity %d does not match %d slots", mesh.Count(), len(u.positions))
	}
	return nil
}

// Sweep recomputes every instance for the given phase and lift, then marks
// the mesh buffers dirty. The mesh must have been checked with Check.
func (u *Updater) Sweep(mesh *scene.InstancedMesh, phase, lift float64) {
	for iy := 0; iy < u.amountY; iy++ {
		u.sinY[iy] = math.Sin((float64(iy) + phase) * FreqY)
	}

	i := 0
	for ix := 0; ix < u.amountX; ix++ {
		sx := math.Sin((float64(ix) + phase) * FreqX)
		for iy := 0; iy < u.amountY; iy++ {
			sy := u.sinY[iy]
			base := u.positions[i]

			height := sx*Amplitude + sy*Amplitude + lift
			raw := (sx+1)*4 + (sy+1)*4
			s := float32(raw * ScaleFactor)

			m := mgl32.Scale3D(s, s, s)
			m[12] = base.X
			m[13] = float32(height)
			m[14] = base.Z
			mesh.SetMatrixAt(i, m)

			k := Intensity(raw)
			mesh.SetColorAt(i, colorful.Color{R: u.base.R * k, G: u.base.G * k, B: u.base.B * k})

			i++
		}
	}

	mesh.MarkDirty()
}
