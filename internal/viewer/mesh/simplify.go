package mesh

import (
	"github.com/fogleman/simplify"
)

// Simplify reduces the triangle count of m to roughly factor times its
// current count using quadric edge collapse. A factor outside (0, 1) returns
// m unchanged.
// The result is a single-part mesh with the same path.
func Simplify(m *Mesh, factor float64) *Mesh {
	if m.Empty() || factor <= 0 || factor >= 1 {
		return m
	}

	tris := make([]*simplify.Triangle, 0, m.VertexCount()/3)
	for i := 0; i+2 < m.VertexCount(); i += 3 {
		tris = append(tris, simplify.NewTriangle(vector(m, i), vector(m, i+1), vector(m, i+2)))
	}

	out := simplify.NewMesh(tris).Simplify(factor)
	if len(out.Triangles) == 0 {
		return m
	}

	positions := make([]float32, 0, len(out.Triangles)*9)
	for _, t := range out.Triangles {
		for _, v := range [3]simplify.Vector{t.V1, t.V2, t.V3} {
			positions = append(positions, float32(v.X), float32(v.Y), float32(v.Z))
		}
	}
	return New(m.Path, positions)
}

func vector(m *Mesh, i int) simplify.Vector {
	p := m.Positions[i*3 : i*3+3]
	return simplify.Vector{X: float64(p[0]), Y: float64(p[1]), Z: float64(p[2])}
}

// Loader returns a load function that reads OBJ files and simplifies them by
// factor.
func Loader(factor float64) func(path string) (*Mesh, error) {
	return func(path string) (*Mesh, error) {
		m, err := LoadOBJ(path)
		if err != nil {
			return nil, err
		}
		return Simplify(m, factor), nil
	}
}
