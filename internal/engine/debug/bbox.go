// Package debug provides debug visualization utilities.
package debug

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/objview/internal/viewer/mesh"
)

// BoxVertexCount is the number of vertices for one box wireframe (12 edges × 2).
const BoxVertexCount = 24

// DefaultBoxPadding keeps the overlay from z-fighting with the mesh.
const DefaultBoxPadding = 0.02

// BoxLines creates GL_LINES vertices for a wireframe box.
// Returns 24 vertices, format: [x, y, z] per vertex.
func BoxLines(lo, hi mgl32.Vec3) []float32 {
	minX, minY, minZ := lo.Elem()
	maxX, maxY, maxZ := hi.Elem()
	return []float32{
		// Bottom face
		minX, minY, minZ, maxX, minY, minZ,
		maxX, minY, minZ, maxX, minY, maxZ,
		maxX, minY, maxZ, minX, minY, maxZ,
		minX, minY, maxZ, minX, minY, minZ,
		// Top face
		minX, maxY, minZ, maxX, maxY, minZ,
		maxX, maxY, minZ, maxX, maxY, maxZ,
		maxX, maxY, maxZ, minX, maxY, maxZ,
		minX, maxY, maxZ, minX, maxY, minZ,
		// Vertical edges
		minX, minY, minZ, minX, maxY, minZ,
		maxX, minY, minZ, maxX, maxY, minZ,
		maxX, minY, maxZ, maxX, maxY, maxZ,
		minX, minY, maxZ, minX, maxY, maxZ,
	}
}

// BoundsLines creates one padded wireframe box per bounds, concatenated.
func BoundsLines(bounds []mesh.Bounds, padding float32) []float32 {
	pad := mgl32.Vec3{padding, padding, padding}
	out := make([]float32, 0, len(bounds)*BoxVertexCount*3)
	for _, b := range bounds {
		out = append(out, BoxLines(b.Min.Sub(pad), b.Max.Add(pad))...)
	}
	return out
}
