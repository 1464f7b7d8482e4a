// Package renderer provides render backends for the wave scene.
package renderer

import (
	"errors"
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/pthm-cable/waves/camera"
	"github.com/pthm-cable/waves/field"
	"github.com/pthm-cable/waves/scene"
)

// ErrWindowNotReady is returned when drawing without an open raylib window.
var ErrWindowNotReady = errors.New("renderer: raylib window not ready")

const instancingVS = `#version 330
in vec3 vertexPosition;
in mat4 instanceTransform;

uniform mat4 mvp;

out float fragIntensity;

void main()
{
    float scale = length(instanceTransform[0].xyz);
    fragIntensity = (scale/%.4f)*0.5 + 0.5;
    gl_Position = mvp*instanceTransform*vec4(vertexPosition, 1.0);
}
`

const instancingFS = `#version 330
in float fragIntensity;

uniform vec4 colDiffuse;

out vec4 finalColor;

void main()
{
    finalColor = vec4(colDiffuse.rgb*fragIntensity, colDiffuse.a);
}
`

// maxInstanceScale is the largest uniform scale the sweep writes.
const maxInstanceScale = field.ScaleRawMax * field.ScaleFactor

// vertexShader returns the instancing vertex shader. Intensity is rebuilt
// from the instance scale as raw/ScaleRawMax*0.5+0.5.
func vertexShader() string {
	return fmt.Sprintf(instancingVS, maxInstanceScale)
}

// Raylib draws the scene into the current raylib window.
type Raylib struct {
	instanced   bool
	initialized bool

	shader     rl.Shader
	mesh       rl.Mesh
	material   rl.Material
	transforms []rl.Matrix

	overlay       func()
	width, height int
}

// NewRaylib creates a backend. With instanced false every particle is drawn
// separately using its exact colour, which is slow but useful for debugging.
func NewRaylib(instanced bool) *Raylib {
	return &Raylib{instanced: instanced}
}

// SetOverlay registers a 2D draw hook run after the 3D pass.
func (r *Raylib) SetOverlay(fn func()) {
	r.overlay = fn
}

// Init loads GPU resources for the mesh (must be called after the raylib window is created).
func (r *Raylib) Init(m *scene.InstancedMesh) {
	if r.initialized {
		return
	}

	r.transforms = make([]rl.Matrix, m.Count())

	if r.instanced {
		r.shader = rl.LoadShaderFromMemory(vertexShader(), instancingFS)
		r.shader.UpdateLocation(rl.ShaderLocMatrixMvp, rl.GetShaderLocation(r.shader, "mvp"))
		r.shader.UpdateLocation(rl.ShaderLocMatrixModel, rl.GetShaderLocationAttrib(r.shader, "instanceTransform"))

		r.mesh = rl.GenMeshSphere(m.Geometry.Radius, m.Geometry.Rings, m.Geometry.Slices)

		r.material = rl.LoadMaterialDefault()
		r.material.Shader = r.shader
		r.material.GetMap(rl.MapDiffuse).Color = toColor(m.Material.Color, materialAlpha(m.Material))
	}

	r.initialized = true
}

// Resize records the drawable size. raylib resizes its own viewport.
func (r *Raylib) Resize(width, height int) {
	r.width = width
	r.height = height
}

// RenderFrame draws one frame.
func (r *Raylib) RenderFrame(sc *scene.Scene, pose camera.Pose) error {
	if !rl.IsWindowReady() {
		return ErrWindowNotReady
	}
	if !r.initialized {
		r.Init(sc.Mesh)
	}

	mesh := sc.Mesh
	r.uploadTransforms(mesh)

	rl.BeginDrawing()
	rl.ClearBackground(toColor(sc.Background, 1))

	rl.BeginMode3D(rl.Camera3D{
		Position:   toVector3(pose.Position),
		Target:     toVector3(pose.Target),
		Up:         toVector3(pose.Up),
		Fovy:       pose.FOV,
		Projection: rl.CameraPerspective,
	})
	// BeginMode3D uses rlgl's default clip planes; override with the
	// configured near/far.
	rl.SetMatrixProjection(toMatrix(pose.Projection()))

	if r.instanced {
		rl.DrawMeshInstanced(r.mesh, r.material, r.transforms, len(r.transforms))
	} else {
		r.drawImmediate(mesh)
	}

	rl.EndMode3D()

	if r.overlay != nil {
		r.overlay()
	}

	rl.EndDrawing()

	mesh.ClearDirty()
	return nil
}

// uploadTransforms converts dirty matrices into the instanced draw buffer.
// Immediate mode reads the mesh buffers directly and skips it.
func (r *Raylib) uploadTransforms(mesh *scene.InstancedMesh) {
	if !r.instanced {
		return
	}
	if dirty, _ := mesh.Dirty(); !dirty {
		return
	}
	for i, m := range mesh.Matrices() {
		r.transforms[i] = toMatrix(m)
	}
}

func (r *Raylib) drawImmediate(mesh *scene.InstancedMesh) {
	alpha := materialAlpha(mesh.Material)
	rings := int32(mesh.Geometry.Rings)
	slices := int32(mesh.Geometry.Slices)
	colors := mesh.Colors()
	for i, m := range mesh.Matrices() {
		pos := rl.Vector3{X: m[12], Y: m[13], Z: m[14]}
		rl.DrawSphereEx(pos, mesh.Geometry.Radius*m[0], rings, slices, toColor(colors[i], alpha))
	}
}

// Unload frees resources.
func (r *Raylib) Unload() {
	if !r.initialized {
		return
	}
	if r.instanced {
		rl.UnloadMesh(&r.mesh)
		// Also unloads the material's shader
		rl.UnloadMaterial(r.material)
	}
	r.transforms = nil
	r.initialized = false
}

// Dispose releases all GPU resources. Safe to call more than once.
func (r *Raylib) Dispose() {
	r.Unload()
}

func materialAlpha(m scene.Material) float32 {
	if !m.Transparent {
		return 1
	}
	return m.Opacity
}

func toColor(c colorful.Color, alpha float32) rl.Color {
	red, green, blue := c.Clamped().RGB255()
	return rl.NewColor(red, green, blue, uint8(alpha*255+0.5))
}

func toVector3(v mgl32.Vec3) rl.Vector3 {
	return rl.Vector3{X: v[0], Y: v[1], Z: v[2]}
}

// toMatrix converts a column-major mgl32 matrix. raylib numbers its fields
// in the same column-major order.
func toMatrix(m mgl32.Mat4) rl.Matrix {
	return rl.Matrix{
		M0: m[0], M1: m[1], M2: m[2], M3: m[3],
		M4: m[4], M5: m[5], M6: m[6], M7: m[7],
		M8: m[8], M9: m[9], M10: m[10], M11: m[11],
		M12: m[12], M13: m[13], M14: m[14], M15: m[15],
	}
}
