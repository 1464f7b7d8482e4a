package renderer

import (
	"github.com/pthm-cable/waves/camera"
	"github.com/pthm-cable/waves/scene"
)

// Headless consumes frames without drawing. It records what a GPU backend
// would have uploaded, for headless runs and tests.
type Headless struct {
	Frames        int
	MatrixUploads int
	ColorUploads  int
	LastPose      camera.Pose
	Width, Height int
	Disposed      int

	// Fail, when set, is returned from RenderFrame on the given frame (1-based)
	FailOn int
	Fail   error
}

// NewHeadless creates a headless backend.
func NewHeadless() *Headless {
	return &Headless{}
}

// Resize implements the renderer contract.
func (h *Headless) Resize(width, height int) {
	h.Width = width
	h.Height = height
}

// RenderFrame records an upload of any dirty buffers.
func (h *Headless) RenderFrame(sc *scene.Scene, pose camera.Pose) error {
	h.Frames++
	if h.Fail != nil && h.Frames == h.FailOn {
		return h.Fail
	}

	matrices, colors := sc.Mesh.Dirty()
	if matrices {
		h.MatrixUploads++
	}
	if colors {
		h.ColorUploads++
	}
	sc.Mesh.ClearDirty()

	h.LastPose = pose
	return nil
}

// Dispose counts disposals so callers can check it happens once.
func (h *Headless) Dispose() {
	h.Disposed++
}
