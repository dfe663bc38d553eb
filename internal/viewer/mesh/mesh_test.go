package mesh

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

const quadOBJ = `# unit quad
o quad
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vn 0 0 1
f 1//1 2//1 3//1 4//1
`

func TestParseOBJQuad(t *testing.T) {
	m, err := ParseOBJ(strings.NewReader(quadOBJ), "quad.obj")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if m.VertexCount() != 6 {
		t.Fatalf("expected 6 vertices (2 triangles), got %d", m.VertexCount())
	}
	want := []float32{
		0, 0, 0, 1, 0, 0, 1, 1, 0,
		0, 0, 0, 1, 1, 0, 0, 1, 0,
	}
	for i := range want {
		if m.Positions[i] != want[i] {
			t.Fatalf("position %d: expected %f, got %f", i, want[i], m.Positions[i])
		}
	}
	if m.Path != "quad.obj" {
		t.Errorf("expected path quad.obj, got %s", m.Path)
	}
	if len(m.Parts) != 1 || m.Parts[0].Count != 6 {
		t.Errorf("expected one part of 6 vertices, got %+v", m.Parts)
	}
}

func TestParseOBJIndexForms(t *testing.T) {
	src := `v 0 0 0
v 2 0 0
v 0 2 0
vt 0 0
f 1/1 2/1 3/1
f -3 -2 -1
f 1/1/1 2/1/1 3/1/1
`
	m, err := ParseOBJ(strings.NewReader(src), "forms.obj")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.VertexCount() != 9 {
		t.Fatalf("expected 9 vertices, got %d", m.VertexCount())
	}
	for tri := 0; tri < 3; tri++ {
		if got := m.Vertex(tri*3 + 1); got != (mgl32.Vec3{2, 0, 0}) {
			t.Errorf("triangle %d: expected second vertex (2,0,0), got %v", tri, got)
		}
	}
}

func TestParseOBJErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line int
	}{
		{"bad float", "v 0 zero 0\n", 1},
		{"short vertex", "v 0 0\n", 1},
		{"index out of range", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 4\n", 4},
		{"zero index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n", 4},
		{"short face", "v 0 0 0\nv 1 0 0\nf 1 2\n", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOBJ(strings.NewReader(tt.src), "bad.obj")
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected *ParseError, got %v", err)
			}
			if pe.Line != tt.line {
				t.Errorf("expected line %d, got %d", tt.line, pe.Line)
			}
		})
	}
}

func TestParseOBJNoGeometry(t *testing.T) {
	_, err := ParseOBJ(strings.NewReader("# only a comment\nv 1 2 3\n"), "empty.obj")
	if !errors.Is(err, ErrNoGeometry) {
		t.Errorf("expected ErrNoGeometry, got %v", err)
	}
}

func TestLoadOBJ(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quad.obj")
	if err := os.WriteFile(path, []byte(quadOBJ), 0644); err != nil {
		t.Fatalf("failed to write test mesh: %v", err)
	}

	m, err := LoadOBJ(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Path != path {
		t.Errorf("expected path %s, got %s", path, m.Path)
	}
}

func TestLoadOBJMissing(t *testing.T) {
	_, err := LoadOBJ("/nonexistent/teapot.obj")
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestBounds(t *testing.T) {
	m := New("tri", []float32{
		-1, 2, 0,
		3, -4, 5,
		0, 0, -6,
	})
	b := m.Bounds()

	if b.Min != (mgl32.Vec3{-1, -4, -6}) {
		t.Errorf("expected min (-1,-4,-6), got %v", b.Min)
	}
	if b.Max != (mgl32.Vec3{3, 2, 5}) {
		t.Errorf("expected max (3,2,5), got %v", b.Max)
	}
	if b.Size() != (mgl32.Vec3{4, 6, 11}) {
		t.Errorf("expected size (4,6,11), got %v", b.Size())
	}
	if b.Center() != (mgl32.Vec3{1, -1, -0.5}) {
		t.Errorf("expected center (1,-1,-0.5), got %v", b.Center())
	}
}

func TestPartBounds(t *testing.T) {
	m := &Mesh{
		Positions: []float32{0, 0, 0, 1, 1, 1, 5, 5, 5, 6, 7, 8},
		Parts: []Part{
			{Path: "a", First: 0, Count: 2},
			{Path: "b", First: 2, Count: 2},
		},
	}
	bs := m.PartBounds()
	if len(bs) != 2 {
		t.Fatalf("expected 2 part bounds, got %d", len(bs))
	}
	if bs[1].Min != (mgl32.Vec3{5, 5, 5}) || bs[1].Max != (mgl32.Vec3{6, 7, 8}) {
		t.Errorf("unexpected second part bounds %+v", bs[1])
	}
}

func TestEmpty(t *testing.T) {
	var m *Mesh
	if !m.Empty() {
		t.Error("expected nil mesh to be empty")
	}
	if New("x", nil).VertexCount() != 0 {
		t.Error("expected zero vertices")
	}
}
