// Package transform implements the interactive model transform state machine.
package transform

import "github.com/go-gl/mathgl/mgl32"

// Mode governs how mouse motion is interpreted.
type Mode int

const (
	ModeView Mode = iota
	ModeScaleUniform
	ModeScale
	ModeRotate
	ModeTranslate
)

func (m Mode) String() string {
	switch m {
	case ModeView:
		return "view"
	case ModeScaleUniform:
		return "scale_uniform"
	case ModeScale:
		return "scale"
	case ModeRotate:
		return "rotate"
	case ModeTranslate:
		return "translate"
	}
	return "unknown"
}

// UsesAxis reports whether the mode acts on a single selected axis.
func (m Mode) UsesAxis() bool {
	return m == ModeScale || m == ModeRotate || m == ModeTranslate
}

// Axis is the active axis of an axis-bearing mode.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "X"
	case AxisY:
		return "Y"
	case AxisZ:
		return "Z"
	}
	return "?"
}

// Next returns the following axis in the X→Y→Z→X cycle.
func (a Axis) Next() Axis {
	return (a + 1) % 3
}

// Unit returns the world-space unit vector of the axis.
func (a Axis) Unit() mgl32.Vec3 {
	var v mgl32.Vec3
	v[a] = 1
	return v
}
