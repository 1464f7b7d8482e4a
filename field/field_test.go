package field

import (
	"math"
	"testing"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/pthm-cable/waves/scene"
)

func TestIndexBijection(t *testing.T) {
	const amountX, amountY = 7, 5
	seen := make([]bool, amountX*amountY)

	for ix := 0; ix < amountX; ix++ {
		for iy := 0; iy < amountY; iy++ {
			i := Index(ix, iy, amountY)
			if i < 0 || i >= len(seen) {
				t.Fatalf("index %d for (%d,%d) out of range", i, ix, iy)
			}
			if seen[i] {
				t.Fatalf("index %d produced twice", i)
			}
			seen[i] = true

			gx, gy := Coords(i, amountY)
			if gx != ix || gy != iy {
				t.Errorf("Coords(%d) = (%d,%d), want (%d,%d)", i, gx, gy, ix, iy)
			}
		}
	}
}

func TestBuildPositions(t *testing.T) {
	const amountX, amountY = 4, 3
	const spacing = float32(120)
	positions := BuildPositions(amountX, amountY, spacing)

	if len(positions) != amountX*amountY {
		t.Fatalf("expected %d positions, got %d", amountX*amountY, len(positions))
	}

	for ix := 0; ix < amountX; ix++ {
		for iy := 0; iy < amountY; iy++ {
			p := positions[Index(ix, iy, amountY)]
			wantX := float32(ix)*spacing - float32(amountX)*spacing/2
			wantZ := float32(iy)*spacing - float32(amountY)*spacing/2
			if p.X != wantX || p.Z != wantZ {
				t.Errorf("(%d,%d): got (%f,%f), want (%f,%f)", ix, iy, p.X, p.Z, wantX, wantZ)
			}
		}
	}

	// First slot sits at the negative corner
	if positions[0].X != -240 || positions[0].Z != -180 {
		t.Errorf("unexpected first position %+v", positions[0])
	}
}

func TestSampleRanges(t *testing.T) {
	for ix := 0; ix < 60; ix++ {
		for iy := 0; iy < 60; iy++ {
			for phase := 0.0; phase < 30; phase += 0.37 {
				s := At(ix, iy, phase, 0)
				if s.ScaleRaw < 0 || s.ScaleRaw > 16 {
					t.Fatalf("scaleRaw %f out of [0,16] at (%d,%d,%f)", s.ScaleRaw, ix, iy, phase)
				}
				if s.Scale < 0 || s.Scale > 0.16+1e-12 {
					t.Fatalf("scale %f out of [0,0.16]", s.Scale)
				}
				if s.Intensity < 0.5 || s.Intensity > 1 {
					t.Fatalf("intensity %f out of [0.5,1]", s.Intensity)
				}
				if math.Abs(s.Height) > 100+1e-9 {
					t.Fatalf("height %f exceeds amplitude", s.Height)
				}
			}
		}
	}
}

func TestSampleLiftIsAdditive(t *testing.T) {
	a := At(3, 4, 1.5, 0)
	b := At(3, 4, 1.5, 42)
	if math.Abs(b.Height-a.Height-42) > 1e-9 {
		t.Errorf("lift should add 42 to height, got %f -> %f", a.Height, b.Height)
	}
	if a.ScaleRaw != b.ScaleRaw {
		t.Error("lift must not change scale")
	}
}

func TestSweepMatchesSample(t *testing.T) {
	const amountX, amountY = 6, 4
	base := colorful.Color{R: 0.4, G: 0.6, B: 0.8}
	u := NewUpdater(amountX, amountY, 100, base)
	mesh := scene.NewInstancedMesh(scene.Geometry{Radius: 40, Rings: 6, Slices: 8}, scene.Material{Color: base}, u.Total())
	if err := u.Check(mesh); err != nil {
		t.Fatal(err)
	}

	const phase, lift = 2.72, 15.0
	u.Sweep(mesh, phase, lift)

	m, c := mesh.Dirty()
	if !m || !c {
		t.Error("sweep should mark both buffers dirty")
	}

	for ix := 0; ix < amountX; ix++ {
		for iy := 0; iy < amountY; iy++ {
			i := Index(ix, iy, amountY)
			s := At(ix, iy, phase, lift)
			mat := mesh.MatrixAt(i)
			pos := u.Positions()[i]

			if mat[12] != pos.X || mat[14] != pos.Z {
				t.Errorf("slot %d translation (%f,%f), want (%f,%f)", i, mat[12], mat[14], pos.X, pos.Z)
			}
			if math.Abs(float64(mat[13])-s.Height) > 1e-3 {
				t.Errorf("slot %d height %f, want %f", i, mat[13], s.Height)
			}
			for _, d := range []float32{mat[0], mat[5], mat[10]} {
				if math.Abs(float64(d)-s.Scale) > 1e-6 {
					t.Errorf("slot %d scale %f, want %f", i, d, s.Scale)
				}
			}
			if mat[15] != 1 {
				t.Errorf("slot %d w component %f", i, mat[15])
			}

			col := mesh.ColorAt(i)
			if math.Abs(col.R-base.R*s.Intensity) > 1e-9 ||
				math.Abs(col.G-base.G*s.Intensity) > 1e-9 ||
				math.Abs(col.B-base.B*s.Intensity) > 1e-9 {
				t.Errorf("slot %d colour %+v, want base * %f", i, col, s.Intensity)
			}
		}
	}
}

func TestCheckRejectsMismatchedMesh(t *testing.T) {
	u := NewUpdater(3, 3, 10, colorful.Color{})
	mesh := scene.NewInstancedMesh(scene.Geometry{}, scene.Material{}, 8)
	if err := u.Check(mesh); err == nil {
		t.Error("expected capacity mismatch error")
	}
}

func BenchmarkSweep(b *testing.B) {
	u := NewUpdater(300, 70, 120, colorful.Color{R: 0.36, G: 0.76, B: 0.9})
	mesh := scene.NewInstancedMesh(scene.Geometry{}, scene.Material{}, u.Total())
	phase := 0.0
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		u.Sweep(mesh, phase, 0)
		phase += 0.04
	}
}
