// Package renderer provides OpenGL rendering functionality.
package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/objview/internal/engine/shader"
	"github.com/Faultbox/objview/internal/viewer/mesh"
)

// Config holds renderer configuration.
type Config struct {
	Width      int
	Height     int
	Wireframe  bool
	ClearColor [4]float32
}

// buffer is one VAO/VBO pair holding tightly packed vec3 positions.
type buffer struct {
	vao, vbo uint32
	count    int32
	capacity int
}

// Renderer draws the scene mesh and its debug overlay.
type Renderer struct {
	config Config
	log    *zap.Logger

	program  uint32
	mvpLoc   int32
	colorLoc int32
	scene    buffer
	overlay  buffer
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER the OpenGL context is created!
func New(cfg Config, log *zap.Logger) (*Renderer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Renderer{
		config: cfg,
		log:    log,
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
		zap.String("glsl", gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	c := cfg.ClearColor
	gl.ClearColor(c[0], c[1], c[2], c[3])
	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))

	var err error
	r.program, err = shader.CompileProgram(shader.SimpleVertex, shader.SimpleFragment, shader.AttribPosition)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}
	locs, err := shader.RequireUniforms(r.program, shader.UniformMVP, shader.UniformColor)
	if err != nil {
		gl.DeleteProgram(r.program)
		return nil, err
	}
	r.mvpLoc = locs[shader.UniformMVP]
	r.colorLoc = locs[shader.UniformColor]

	r.scene = newBuffer()
	r.overlay = newBuffer()

	log.Debug("shader program created", zap.Uint32("program", r.program))
	return r, nil
}

func newBuffer() buffer {
	var b buffer
	gl.GenVertexArrays(1, &b.vao)
	gl.BindVertexArray(b.vao)

	gl.GenBuffers(1, &b.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)

	// position attribute (location = 0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 3*4, nil)
	gl.EnableVertexAttribArray(0)

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
	return b
}

// fill replaces the buffer contents, growing the store only when needed.
func (b *buffer) fill(verts []float32, usage uint32) {
	b.count = int32(len(verts) / 3)
	if len(verts) == 0 {
		return
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	size := len(verts) * 4
	if size > b.capacity {
		gl.BufferData(gl.ARRAY_BUFFER, size, unsafe.Pointer(&verts[0]), usage)
		b.capacity = size
	} else {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, size, unsafe.Pointer(&verts[0]))
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

func (b *buffer) release() {
	if b.vao != 0 {
		gl.DeleteVertexArrays(1, &b.vao)
	}
	if b.vbo != 0 {
		gl.DeleteBuffers(1, &b.vbo)
	}
}

// Upload replaces the scene geometry.
func (r *Renderer) Upload(m *mesh.Mesh) {
	r.scene.fill(m.Positions, gl.STATIC_DRAW)
	r.log.Debug("mesh uploaded",
		zap.String("path", m.Path),
		zap.Int("vertices", m.VertexCount()),
	)
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	r.log.Debug("closing renderer")
	r.scene.release()
	r.overlay.release()
	if r.program != 0 {
		gl.DeleteProgram(r.program)
	}
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Size returns the current viewport size.
func (r *Renderer) Size() (int, int) {
	return r.config.Width, r.config.Height
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	gl.UseProgram(r.program)
}

// Draw draws the scene mesh with the given transform and colour.
func (r *Renderer) Draw(mvp mgl32.Mat4, color mgl32.Vec3) {
	if r.scene.count == 0 {
		return
	}
	if r.config.Wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	}
	gl.UniformMatrix4fv(r.mvpLoc, 1, false, &mvp[0])
	gl.Uniform3f(r.colorLoc, color.X(), color.Y(), color.Z())
	gl.BindVertexArray(r.scene.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, r.scene.count)
	gl.BindVertexArray(0)
	if r.config.Wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
}

// DrawLines draws GL_LINES vertices, as produced by the debug package.
func (r *Renderer) DrawLines(mvp mgl32.Mat4, color mgl32.Vec3, verts []float32) {
	r.overlay.fill(verts, gl.DYNAMIC_DRAW)
	if r.overlay.count == 0 {
		return
	}
	gl.UniformMatrix4fv(r.mvpLoc, 1, false, &mvp[0])
	gl.Uniform3f(r.colorLoc, color.X(), color.Y(), color.Z())
	gl.BindVertexArray(r.overlay.vao)
	gl.DrawArrays(gl.LINES, 0, r.overlay.count)
	gl.BindVertexArray(0)
}

// End finishes the current frame.
func (r *Renderer) End() {
	gl.UseProgram(0)
}

// ReadPixels reads the back buffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	if len(pixels) == 0 {
		return pixels, w, h
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadBuffer(gl.BACK)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&pixels[0]))
	return pixels, w, h
}
