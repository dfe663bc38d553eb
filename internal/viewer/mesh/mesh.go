// Package mesh holds triangle geometry and the OBJ reader that produces it.
package mesh

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrNoGeometry is returned when a source yields no triangles.
var ErrNoGeometry = errors.New("mesh has no geometry")

// Part records where one source mesh lives inside a combined mesh.
type Part struct {
	Path  string
	First int // First vertex
	Count int // Vertex count
}

// Mesh is a flat list of triangle vertex positions (x, y, z per vertex),
// ready for glDrawArrays(GL_TRIANGLES). A Mesh is not modified after it
// is built; transforms produce new meshes.
type Mesh struct {
	Path      string
	Positions []float32
	Parts     []Part
}

// New creates a single-part mesh.
func New(path string, positions []float32) *Mesh {
	return &Mesh{
		Path:      path,
		Positions: positions,
		Parts:     []Part{{Path: path, First: 0, Count: len(positions) / 3}},
	}
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	if m == nil {
		return 0
	}
	return len(m.Positions) / 3
}

// Empty reports whether the mesh has no vertices.
func (m *Mesh) Empty() bool {
	return m.VertexCount() == 0
}

// Vertex returns the i-th vertex position.
func (m *Mesh) Vertex(i int) mgl32.Vec3 {
	return mgl32.Vec3{m.Positions[i*3], m.Positions[i*3+1], m.Positions[i*3+2]}
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// Size returns the extent of the box on each axis.
func (b Bounds) Size() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}

// Center returns the midpoint of the box.
func (b Bounds) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Bounds returns the bounding box of the whole mesh.
func (m *Mesh) Bounds() Bounds {
	return boundsOf(m.Positions)
}

// PartBounds returns the bounding box of each part.
func (m *Mesh) PartBounds() []Bounds {
	out := make([]Bounds, 0, len(m.Parts))
	for _, p := range m.Parts {
		out = append(out, boundsOf(m.Positions[p.First*3:(p.First+p.Count)*3]))
	}
	return out
}

func boundsOf(pos []float32) Bounds {
	if len(pos) < 3 {
		return Bounds{}
	}
	b := Bounds{
		Min: mgl32.Vec3{pos[0], pos[1], pos[2]},
		Max: mgl32.Vec3{pos[0], pos[1], pos[2]},
	}
	for i := 3; i+2 < len(pos); i += 3 {
		for a := 0; a < 3; a++ {
			v := pos[i+a]
			if v < b.Min[a] {
				b.Min[a] = v
			}
			if v > b.Max[a] {
				b.Max[a] = v
			}
		}
	}
	return b
}
