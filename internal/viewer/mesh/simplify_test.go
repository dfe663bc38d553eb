package mesh

import (
	"os"
	"path/filepath"
	"testing"
)

// grid returns an n x n grid of unit quads in the XY plane, two triangles each.
func grid(n int) *Mesh {
	var pos []float32
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			x0, y0, x1, y1 := float32(x), float32(y), float32(x+1), float32(y+1)
			pos = append(pos,
				x0, y0, 0, x1, y0, 0, x1, y1, 0,
				x0, y0, 0, x1, y1, 0, x0, y1, 0,
			)
		}
	}
	return New("grid.obj", pos)
}

func TestSimplifyReducesTriangles(t *testing.T) {
	m := grid(8)
	out := Simplify(m, 0.25)

	if out.VertexCount()%3 != 0 {
		t.Fatalf("expected whole triangles, got %d vertices", out.VertexCount())
	}
	if out.VertexCount() >= m.VertexCount() {
		t.Errorf("expected fewer than %d vertices, got %d", m.VertexCount(), out.VertexCount())
	}
	if out.Path != "grid.obj" || len(out.Parts) != 1 {
		t.Errorf("expected single part named grid.obj, got %s with %d parts", out.Path, len(out.Parts))
	}

	// Collapsing edges of a flat grid keeps it inside the input bounds.
	in, got := m.Bounds(), out.Bounds()
	for k := 0; k < 3; k++ {
		if got.Min[k] < in.Min[k]-1e-4 || got.Max[k] > in.Max[k]+1e-4 {
			t.Errorf("axis %d: bounds %v..%v exceed %v..%v", k, got.Min, got.Max, in.Min, in.Max)
		}
	}
}

func TestSimplifyFactorOutOfRange(t *testing.T) {
	m := grid(2)
	for _, f := range []float64{0, -1, 1, 2} {
		if got := Simplify(m, f); got != m {
			t.Errorf("factor %g: expected mesh unchanged", f)
		}
	}
	if got := Simplify(nil, 0.5); got != nil {
		t.Errorf("expected nil for nil mesh, got %v", got)
	}
}

func TestLoaderSimplifies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quad.obj")
	src := "v 0 0 0\nv 1 0 0\nv 1 1 0\nv 0 1 0\nf 1 2 3 4\n"
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := Loader(1)(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if m.VertexCount() != 6 {
		t.Errorf("expected 6 vertices, got %d", m.VertexCount())
	}

	if _, err := Loader(0.5)(filepath.Join(t.TempDir(), "missing.obj")); err == nil {
		t.Error("expected error for missing file")
	}
}
