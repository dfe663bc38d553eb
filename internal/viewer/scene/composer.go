// Package scene places a secondary mesh beside the primary one and merges
// both into a single drawable vertex array.
package scene

import (
	"errors"
	"fmt"
	"math"

	"github.com/Faultbox/objview/internal/viewer/mesh"
)

// DefaultClearance is the gap added between the two meshes along X.
const DefaultClearance = 0.3

// ErrEmptyMesh is returned when asked to combine a mesh without vertices.
var ErrEmptyMesh = errors.New("cannot combine an empty mesh")

// MaxX returns the largest X coordinate in a flat position array, or 0
// when the array holds no vertices.
func MaxX(positions []float32) float32 {
	if len(positions) < 3 {
		return 0
	}
	maxX := positions[0]
	for i := 3; i+2 < len(positions); i += 3 {
		if positions[i] > maxX {
			maxX = positions[i]
		}
	}
	return maxX
}

// MinX returns the smallest X coordinate in a flat position array, or
// math.MaxFloat32 when the array holds no vertices.
func MinX(positions []float32) float32 {
	minX := float32(math.MaxFloat32)
	for i := 0; i+2 < len(positions); i += 3 {
		if positions[i] < minX {
			minX = positions[i]
		}
	}
	return minX
}

// Composer combines meshes. The zero value uses no clearance; use New
// for the default gap.
type Composer struct {
	Clearance float32
}

// New returns a composer with the given clearance.
func New(clearance float32) Composer {
	return Composer{Clearance: clearance}
}

// Shift returns the X offset applied to secondary:
// |minX(secondary) - maxX(primary)| + clearance.
func (c Composer) Shift(primary, secondary *mesh.Mesh) float32 {
	first := MaxX(primary.Positions)
	second := MinX(secondary.Positions)
	return float32(math.Abs(float64(second-first))) + c.Clearance
}

// Combine returns a new mesh holding primary's vertices followed by
// secondary's vertices moved right by Shift, together with that shift.
// Neither input is modified.
func (c Composer) Combine(primary, secondary *mesh.Mesh) (*mesh.Mesh, float32, error) {
	if primary.Empty() {
		return nil, 0, fmt.Errorf("primary: %w", ErrEmptyMesh)
	}
	if secondary.Empty() {
		return nil, 0, fmt.Errorf("secondary: %w", ErrEmptyMesh)
	}

	shift := c.Shift(primary, secondary)

	n := len(primary.Positions)
	out := make([]float32, n+len(secondary.Positions))
	copy(out, primary.Positions)
	copy(out[n:], secondary.Positions)
	for i := n; i < len(out); i += 3 {
		out[i] += shift
	}

	primaryCount := primary.VertexCount()
	combined := &mesh.Mesh{
		Path:      primary.Path + "+" + secondary.Path,
		Positions: out,
		Parts: []mesh.Part{
			{Path: primary.Path, First: 0, Count: primaryCount},
			{Path: secondary.Path, First: primaryCount, Count: secondary.VertexCount()},
		},
	}
	return combined, shift, nil
}
