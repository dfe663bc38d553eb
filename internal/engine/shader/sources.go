package shader

import _ "embed"

// SimpleVertex transforms positions by the MVP uniform.
//
//go:embed glsl/simple.vert
var SimpleVertex string

// SimpleFragment fills every fragment with the objectColor uniform.
//
//go:embed glsl/simple.frag
var SimpleFragment string

// Names shared by the simple program and its callers.
const (
	AttribPosition = "position"
	UniformMVP     = "MVP"
	UniformColor   = "objectColor"
)
