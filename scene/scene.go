// Package scene holds the scene graph handed to a render backend: one
// instanced mesh with externally written per-instance transforms and colours.
package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
)

// Geometry describes the sphere drawn for every instance.
type Geometry struct {
	Radius float32
	Rings  int
	Slices int
}

// Material describes how instances are shaded.
type Material struct {
	Color       colorful.Color
	Opacity     float32
	Transparent bool
}

// InstancedMesh is a fixed-capacity set of instances sharing one geometry
// and material. Buffers are index-addressed and never resized.
type InstancedMesh struct {
	Geometry Geometry
	Material Material

	matrices []mgl32.Mat4
	colors   []colorful.Color

	matrixDirty bool
	colorDirty  bool
}

// NewInstancedMesh allocates buffers for count instances.
func NewInstancedMesh(geom Geometry, mat Material, count int) *InstancedMesh {
	m := &InstancedMesh{
		Geometry: geom,
		Material: mat,
		matrices: make([]mgl32.Mat4, count),
		colors:   make([]colorful.Color, count),
	}
	for i := range m.matrices {
		m.matrices[i] = mgl32.Ident4()
		m.colors[i] = mat.Color
	}
	return m
}

// Count returns the instance capacity.
func (m *InstancedMesh) Count() int {
	return len(m.matrices)
}

// SetMatrixAt stores the transform for instance i.
func (m *InstancedMesh) SetMatrixAt(i int, mat mgl32.Mat4) {
	m.matrices[i] = mat
}

// MatrixAt returns the transform for instance i.
func (m *InstancedMesh) MatrixAt(i int) mgl32.Mat4 {
	return m.matrices[i]
}

// SetColorAt stores the colour for instance i.
func (m *InstancedMesh) SetColorAt(i int, c colorful.Color) {
	m.colors[i] = c
}

// ColorAt returns the colour for instance i.
func (m *InstancedMesh) ColorAt(i int) colorful.Color {
	return m.colors[i]
}

// Matrices exposes the transform buffer for upload. Backends must treat it
// as read-only.
func (m *InstancedMesh) Matrices() []mgl32.Mat4 {
	return m.matrices
}

// Colors exposes the colour buffer for upload. Backends must treat it as
// read-only.
func (m *InstancedMesh) Colors() []colorful.Color {
	return m.colors
}

// MarkDirty flags both buffers for upload.
func (m *InstancedMesh) MarkDirty() {
	m.matrixDirty = true
	m.colorDirty = true
}

// Dirty reports which buffers changed since the last ClearDirty.
func (m *InstancedMesh) Dirty() (matrices, colors bool) {
	return m.matrixDirty, m.colorDirty
}

// ClearDirty is called by a backend once it has consumed the buffers.
func (m *InstancedMesh) ClearDirty() {
	m.matrixDirty = false
	m.colorDirty = false
}

// Scene is the root handed to the backend every frame.
type Scene struct {
	Background colorful.Color
	Mesh       *InstancedMesh
}

// New creates a scene around a single instanced mesh.
func New(background colorful.Color, mesh *InstancedMesh) *Scene {
	return &Scene{Background: background, Mesh: mesh}
}
