package transform

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// Config holds the step sizes and camera parameters of a controller.
type Config struct {
	RotateDegrees float32 // Rotation per motion event
	ScaleStep     float32 // Relative scale change per motion event
	TranslateStep float32 // World units per motion event

	FovDegrees float32
	Aspect     float32
	Near       float32
	Far        float32

	Eye    mgl32.Vec3
	Target mgl32.Vec3
	Up     mgl32.Vec3
}

// DefaultConfig returns the stock 640x480 viewer setup: a 45° camera at
// (0,0,-5) looking at the origin.
func DefaultConfig() Config {
	return Config{
		RotateDegrees: 5,
		ScaleStep:     0.1,
		TranslateStep: 0.1,
		FovDegrees:    45,
		Aspect:        4.0 / 3.0,
		Near:          0.1,
		Far:           100,
		Eye:           mgl32.Vec3{0, 0, -5},
		Target:        mgl32.Vec3{0, 0, 0},
		Up:            mgl32.Vec3{0, 1, 0},
	}
}

// White is the object colour outside party mode.
var White = mgl32.Vec3{1, 1, 1}

// Combined returns projection·view·model.
func Combined(projection, view, model mgl32.Mat4) mgl32.Mat4 {
	return projection.Mul4(view).Mul4(model)
}

// Sign maps a vertical mouse delta to a step direction. Moving up
// (negative delta) is +1; zero and downward motion are -1.
func Sign(deltaY int32) float32 {
	if deltaY < 0 {
		return 1
	}
	return -1
}

// Controller owns the model transform and the mode/axis state.
// It is not safe for concurrent use; the render thread owns it.
type Controller struct {
	cfg Config
	log *zap.Logger

	mode Mode
	axis Axis

	model      mgl32.Mat4
	offset     mgl32.Vec3
	projection mgl32.Mat4
	view       mgl32.Mat4
	mvp        mgl32.Mat4

	party  bool
	color  mgl32.Vec3
	random func() float32
}

// New creates a controller in view mode with an identity model matrix.
// A nil logger disables logging.
func New(cfg Config, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Controller{
		cfg:    cfg,
		log:    log,
		mode:   ModeView,
		axis:   AxisX,
		model:  mgl32.Ident4(),
		color:  White,
		random: rand.Float32,
	}
	c.view = mgl32.LookAtV(cfg.Eye, cfg.Target, cfg.Up)
	c.projection = c.perspective()
	c.recompute()
	return c
}

// SetRandom replaces the source used for party colours.
func (c *Controller) SetRandom(fn func() float32) {
	c.random = fn
}

// SetMode handles a mode-select key. Re-selecting the current axis-bearing
// mode cycles the axis; View never touches the axis; any other change
// resets the axis to X.
func (c *Controller) SetMode(requested Mode) {
	switch {
	case requested == c.mode && requested.UsesAxis():
		c.axis = c.axis.Next()
		c.log.Info("axis changed", zap.Stringer("axis", c.axis))
	case requested == ModeView:
		if c.mode != ModeView {
			c.mode = ModeView
			c.log.Info("viewing object")
		}
	default:
		c.mode = requested
		c.axis = AxisX
		c.log.Info("transform mode changed",
			zap.Stringer("mode", c.mode),
			zap.Stringer("axis", c.axis),
		)
	}
}

// ApplyMotion applies one mouse-motion step to the model matrix according
// to the current mode. It always reports the event as consumed.
func (c *Controller) ApplyMotion(deltaY int32) bool {
	sign := Sign(deltaY)

	var step mgl32.Mat4
	switch c.mode {
	case ModeRotate:
		angle := mgl32.DegToRad(sign * c.cfg.RotateDegrees)
		step = c.aboutOffset(mgl32.HomogRotate3D(angle, c.axis.Unit()))
	case ModeScale:
		f := mgl32.Vec3{1, 1, 1}
		f[c.axis] = 1 + sign*c.cfg.ScaleStep
		step = c.aboutOffset(mgl32.Scale3D(f[0], f[1], f[2]))
	case ModeScaleUniform:
		f := 1 + sign*c.cfg.ScaleStep
		step = c.aboutOffset(mgl32.Scale3D(f, f, f))
	case ModeTranslate:
		d := c.axis.Unit().Mul(sign * c.cfg.TranslateStep)
		step = mgl32.Translate3D(d[0], d[1], d[2])
		c.offset = c.offset.Add(d)
	default:
		return true
	}

	c.model = step.Mul4(c.model)
	c.recompute()
	return true
}

// aboutOffset conjugates m so it pivots about the current translation.
func (c *Controller) aboutOffset(m mgl32.Mat4) mgl32.Mat4 {
	o := c.offset
	return mgl32.Translate3D(o[0], o[1], o[2]).
		Mul4(m).
		Mul4(mgl32.Translate3D(-o[0], -o[1], -o[2]))
}

// TogglePartyMode flips party mode. Leaving it restores a white object.
func (c *Controller) TogglePartyMode() {
	c.party = !c.party
	if !c.party {
		c.color = White
	}
	c.log.Info("party mode", zap.Bool("enabled", c.party))
}

// FrameColor returns the object colour for the next frame, resampling it
// when party mode is on.
func (c *Controller) FrameColor() mgl32.Vec3 {
	if c.party {
		c.color = mgl32.Vec3{c.random(), c.random(), c.random()}
	}
	return c.color
}

// SetAspect rebuilds the projection for a new viewport aspect ratio.
func (c *Controller) SetAspect(aspect float32) {
	if aspect <= 0 {
		return
	}
	c.cfg.Aspect = aspect
	c.projection = c.perspective()
	c.recompute()
}

func (c *Controller) perspective() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.cfg.FovDegrees), c.cfg.Aspect, c.cfg.Near, c.cfg.Far)
}

func (c *Controller) recompute() {
	c.mvp = Combined(c.projection, c.view, c.model)
}

// Mode returns the current transform mode.
func (c *Controller) Mode() Mode { return c.mode }

// Axis returns the active axis.
func (c *Controller) Axis() Axis { return c.axis }

// Model returns the accumulated model matrix.
func (c *Controller) Model() mgl32.Mat4 { return c.model }

// MVP returns the cached projection·view·model matrix.
func (c *Controller) MVP() mgl32.Mat4 { return c.mvp }

// Offset returns the accumulated translation.
func (c *Controller) Offset() mgl32.Vec3 { return c.offset }

// PartyMode reports whether party mode is on.
func (c *Controller) PartyMode() bool { return c.party }

// Color returns the last colour handed out, without resampling.
func (c *Controller) Color() mgl32.Vec3 { return c.color }
