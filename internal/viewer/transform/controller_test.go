package transform

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const eps = 1e-5

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < eps
}

func TestInitialState(t *testing.T) {
	c := New(DefaultConfig(), nil)

	if c.Mode() != ModeView {
		t.Errorf("expected mode view, got %v", c.Mode())
	}
	if c.Axis() != AxisX {
		t.Errorf("expected axis X, got %v", c.Axis())
	}
	if c.Model() != mgl32.Ident4() {
		t.Error("expected identity model matrix")
	}
	if c.Color() != White {
		t.Errorf("expected white, got %v", c.Color())
	}
}

func TestAxisCycles(t *testing.T) {
	for _, mode := range []Mode{ModeScale, ModeRotate, ModeTranslate} {
		t.Run(mode.String(), func(t *testing.T) {
			c := New(DefaultConfig(), nil)
			c.SetMode(mode)

			want := []Axis{AxisX, AxisY, AxisZ, AxisX, AxisY}
			for i, w := range want {
				if c.Axis() != w {
					t.Fatalf("step %d: expected axis %v, got %v", i, w, c.Axis())
				}
				c.SetMode(mode)
			}
		})
	}
}

func TestAxisResetsOnModeChange(t *testing.T) {
	c := New(DefaultConfig(), nil)
	c.SetMode(ModeRotate)
	c.SetMode(ModeRotate)
	c.SetMode(ModeRotate)
	if c.Axis() != AxisZ {
		t.Fatalf("expected axis Z, got %v", c.Axis())
	}

	c.SetMode(ModeTranslate)
	if c.Mode() != ModeTranslate {
		t.Errorf("expected translate, got %v", c.Mode())
	}
	if c.Axis() != AxisX {
		t.Errorf("expected axis reset to X, got %v", c.Axis())
	}
}

func TestViewKeepsAxis(t *testing.T) {
	c := New(DefaultConfig(), nil)
	c.SetMode(ModeScale)
	c.SetMode(ModeScale) // Y

	c.SetMode(ModeView)
	if c.Mode() != ModeView {
		t.Errorf("expected view, got %v", c.Mode())
	}
	if c.Axis() != AxisY {
		t.Errorf("expected axis Y to survive view, got %v", c.Axis())
	}
}

func TestViewIdempotent(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	c := New(DefaultConfig(), zap.New(core))

	c.SetMode(ModeView)
	c.SetMode(ModeView)

	if c.Mode() != ModeView || c.Axis() != AxisX {
		t.Errorf("expected unchanged state, got %v/%v", c.Mode(), c.Axis())
	}
	if recorded.Len() != 0 {
		t.Errorf("expected no log entries, got %d", recorded.Len())
	}
}

func TestSign(t *testing.T) {
	tests := []struct {
		delta int32
		want  float32
	}{
		{-10, 1},
		{-1, 1},
		{0, -1},
		{1, -1},
		{42, -1},
	}
	for _, tt := range tests {
		if got := Sign(tt.delta); got != tt.want {
			t.Errorf("Sign(%d): expected %v, got %v", tt.delta, tt.want, got)
		}
	}
}

func TestViewMotionIsNoop(t *testing.T) {
	c := New(DefaultConfig(), nil)
	before := c.MVP()

	if !c.ApplyMotion(-3) {
		t.Error("expected motion to be consumed in view mode")
	}
	if c.Model() != mgl32.Ident4() {
		t.Error("expected model unchanged in view mode")
	}
	if c.MVP() != before {
		t.Error("expected MVP unchanged in view mode")
	}
}

func TestScaleUniformCompounds(t *testing.T) {
	c := New(DefaultConfig(), nil)
	c.SetMode(ModeScaleUniform)
	c.ApplyMotion(-1)
	c.ApplyMotion(-1)

	m := c.Model()
	for i := 0; i < 3; i++ {
		if !near(m.At(i, i), 1.21) {
			t.Errorf("axis %d: expected scale 1.21, got %f", i, m.At(i, i))
		}
	}
}

func TestScaleSingleAxis(t *testing.T) {
	c := New(DefaultConfig(), nil)
	c.SetMode(ModeScale)
	c.SetMode(ModeScale) // Y
	c.ApplyMotion(5)     // down: factor 0.9

	m := c.Model()
	if !near(m.At(0, 0), 1) || !near(m.At(2, 2), 1) {
		t.Errorf("expected X and Z untouched, got %f and %f", m.At(0, 0), m.At(2, 2))
	}
	if !near(m.At(1, 1), 0.9) {
		t.Errorf("expected Y scale 0.9, got %f", m.At(1, 1))
	}
}

func TestTranslateAccumulates(t *testing.T) {
	c := New(DefaultConfig(), nil)
	c.SetMode(ModeTranslate)

	const n = 7
	for i := 0; i < n; i++ {
		c.ApplyMotion(-1)
	}

	off := c.Offset()
	if !near(off.X(), n*0.1) {
		t.Errorf("expected offset.x %f, got %f", n*0.1, off.X())
	}
	if off.Y() != 0 || off.Z() != 0 {
		t.Errorf("expected Y/Z offset 0, got %v", off)
	}
	if !near(c.Model().At(0, 3), off.X()) {
		t.Errorf("expected model translation %f, got %f", off.X(), c.Model().At(0, 3))
	}
}

func TestRotationPivotsAboutOffset(t *testing.T) {
	c := New(DefaultConfig(), nil)
	c.SetMode(ModeTranslate)
	for i := 0; i < 10; i++ {
		c.ApplyMotion(-1) // offset (1, 0, 0)
	}

	c.SetMode(ModeRotate)
	c.SetMode(ModeRotate) // Y
	for i := 0; i < 9; i++ {
		c.ApplyMotion(-1) // 45°
	}

	// The object's origin stays where it was translated to.
	origin := c.Model().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	if !near(origin.X(), 1) || !near(origin.Y(), 0) || !near(origin.Z(), 0) {
		t.Errorf("expected origin at (1,0,0), got %v", origin)
	}

	// A point one unit along local X swings around the pivot.
	p := c.Model().Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	want := mgl32.Vec3{1 + float32(math.Cos(math.Pi/4)), 0, -float32(math.Sin(math.Pi / 4))}
	if !p.Vec3().ApproxEqualThreshold(want, 1e-4) {
		t.Errorf("expected %v, got %v", want, p.Vec3())
	}
}

func TestOffsetMatchesModelTranslation(t *testing.T) {
	c := New(DefaultConfig(), nil)
	steps := []struct {
		mode  Mode
		delta int32
	}{
		{ModeTranslate, -1},
		{ModeRotate, -1},
		{ModeScaleUniform, 1},
		{ModeScale, -1},
		{ModeTranslate, 3},
		{ModeRotate, 2},
	}
	for _, s := range steps {
		c.SetMode(s.mode)
		c.ApplyMotion(s.delta)
		c.ApplyMotion(s.delta)
	}

	col := c.Model().Col(3).Vec3()
	if !col.ApproxEqualThreshold(c.Offset(), 1e-4) {
		t.Errorf("expected translation column %v to equal offset %v", col, c.Offset())
	}
}

func TestMVPRecomputed(t *testing.T) {
	cfg := DefaultConfig()
	c := New(cfg, nil)
	c.SetMode(ModeRotate)
	c.ApplyMotion(-1)

	proj := mgl32.Perspective(mgl32.DegToRad(cfg.FovDegrees), cfg.Aspect, cfg.Near, cfg.Far)
	view := mgl32.LookAtV(cfg.Eye, cfg.Target, cfg.Up)
	want := Combined(proj, view, c.Model())
	if !c.MVP().ApproxEqualThreshold(want, eps) {
		t.Errorf("expected MVP %v, got %v", want, c.MVP())
	}
}

func TestSetAspect(t *testing.T) {
	c := New(DefaultConfig(), nil)
	before := c.MVP()

	c.SetAspect(16.0 / 9.0)
	if c.MVP() == before {
		t.Error("expected MVP to change with aspect")
	}

	after := c.MVP()
	c.SetAspect(0)
	if c.MVP() != after {
		t.Error("expected zero aspect to be ignored")
	}
}

func TestPartyModeToggle(t *testing.T) {
	c := New(DefaultConfig(), nil)
	c.SetRandom(func() float32 { return 0.25 })

	c.TogglePartyMode()
	if !c.PartyMode() {
		t.Fatal("expected party mode on")
	}
	if got := c.FrameColor(); got != (mgl32.Vec3{0.25, 0.25, 0.25}) {
		t.Errorf("expected sampled colour, got %v", got)
	}

	c.TogglePartyMode()
	if c.PartyMode() {
		t.Fatal("expected party mode off")
	}
	if got := c.FrameColor(); got != (mgl32.Vec3{1, 1, 1}) {
		t.Errorf("expected (1,1,1), got %v", got)
	}
}

func TestPartyModeResamplesEachFrame(t *testing.T) {
	c := New(DefaultConfig(), nil)
	var n float32
	c.SetRandom(func() float32 {
		n += 0.1
		return n
	})
	c.TogglePartyMode()

	first := c.FrameColor()
	second := c.FrameColor()
	if first == second {
		t.Errorf("expected a new colour per frame, got %v twice", first)
	}
}

func TestAxisUnit(t *testing.T) {
	tests := []struct {
		axis Axis
		want mgl32.Vec3
	}{
		{AxisX, mgl32.Vec3{1, 0, 0}},
		{AxisY, mgl32.Vec3{0, 1, 0}},
		{AxisZ, mgl32.Vec3{0, 0, 1}},
	}
	for _, tt := range tests {
		if got := tt.axis.Unit(); got != tt.want {
			t.Errorf("%v: expected %v, got %v", tt.axis, tt.want, got)
		}
	}
}

func TestModeChangeLogged(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	c := New(DefaultConfig(), zap.New(core))

	c.SetMode(ModeRotate)
	c.SetMode(ModeRotate)

	entries := recorded.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 log entries, got %d", len(entries))
	}
	if got := entries[1].ContextMap()["axis"]; got != "Y" {
		t.Errorf("expected axis=Y in log, got %v", got)
	}
}
