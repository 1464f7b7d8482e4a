// Package field computes the particle grid and its per-frame wave motion.
package field

// Position is the static base coordinate of one particle slot on the
// horizontal plane.
type Position struct {
	X, Z float32
}

// BuildPositions returns one base position per slot in row-major order
// (ix outer, iy inner), centred on the origin.
func BuildPositions(amountX, amountY int, spacing float32) []Position {
	positions := make([]Position, 0, amountX*amountY)
	halfX := float32(amountX) * spacing / 2
	halfZ := float32(amountY) * spacing / 2
	for ix := 0; ix < amountX; ix++ {
		for iy := 0; iy < amountY; iy++ {
			positions = append(positions, Position{
				X: float32(ix)*spacing - halfX,
				Z: float32(iy)*spacing - halfZ,
			})
		}
	}
	return positions
}

// Index maps a grid coordinate to its linear buffer index.
func Index(ix, iy, amountY int) int {
	return ix*amountY + iy
}

// Coords is the inverse of Index.
func Coords(i, amountY int) (ix, iy int) {
	return i / amountY, i % amountY
}
