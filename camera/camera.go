// Package camera provides the perspective camera that follows the pointer
// offset across the wave field.
package camera

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Pose is the camera state handed to a render backend.
type Pose struct {
	Position mgl32.Vec3
	Target   mgl32.Vec3
	Up       mgl32.Vec3

	FOV       float32 // Vertical, degrees
	Aspect    float32
	Near, Far float32
}

// Projection returns the perspective projection matrix for the pose.
func (p Pose) Projection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(p.FOV), p.Aspect, p.Near, p.Far)
}

// View returns the view matrix for the pose.
func (p Pose) View() mgl32.Mat4 {
	return mgl32.LookAtV(p.Position, p.Target, p.Up)
}

// Params configures a Follower.
type Params struct {
	FOV, Near, Far float32

	Depth      float32 // Fixed z
	BaselineY  float32 // Fixed height the y bias is added to
	BiasFactor float32 // Fraction of smoothed y added to the baseline
	FollowRate float32 // Exponential smoothing rate per frame
}

// StartDepth is the camera z before the first update.
const StartDepth = 10000

// Follower eases the camera towards the input offset each frame.
type Follower struct {
	params Params

	// Position is the camera position. Y is the published height and also
	// the smoothing state for the next frame.
	X, Y, Z float32

	// Viewport dimensions
	ViewportW, ViewportH float32
}

// New creates a follower at the start position for the given viewport.
func New(p Params, viewportW, viewportH float32) *Follower {
	return &Follower{
		params:    p,
		Z:         StartDepth,
		ViewportW: viewportW,
		ViewportH: viewportH,
	}
}

// Update moves the camera one step towards the offset. Screen-down input
// raises the camera.
func (f *Follower) Update(offsetX, offsetY float32) {
	f.X += (offsetX - f.X) * f.params.FollowRate
	f.Y += (-offsetY - f.Y) * f.params.FollowRate

	f.Y = f.params.BaselineY + f.Y*f.params.BiasFactor
	f.Z = f.params.Depth
}

// Resize updates the viewport used for the aspect ratio.
func (f *Follower) Resize(viewportW, viewportH float32) {
	f.ViewportW = viewportW
	f.ViewportH = viewportH
}

// Aspect returns the viewport aspect ratio.
func (f *Follower) Aspect() float32 {
	if f.ViewportH == 0 {
		return 1
	}
	return f.ViewportW / f.ViewportH
}

// Pose returns the current camera pose looking down -z.
func (f *Follower) Pose() Pose {
	pos := mgl32.Vec3{f.X, f.Y, f.Z}
	return Pose{
		Position: pos,
		Target:   pos.Sub(mgl32.Vec3{0, 0, 1}),
		Up:       mgl32.Vec3{0, 1, 0},
		FOV:      f.params.FOV,
		Aspect:   f.Aspect(),
		Near:     f.params.Near,
		Far:      f.params.Far,
	}
}
