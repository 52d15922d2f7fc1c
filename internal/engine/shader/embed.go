package shader

import _ "embed"

// Embedded sources, used when no override is found on disk.
var (
	//go:embed glsl/raymarching.vert
	raymarchVert string

	//go:embed glsl/raymarching.frag
	raymarchFrag string
)

// Names of the built-in programs' source files.
const (
	RaymarchVertex   = "raymarching.vert"
	RaymarchFragment = "raymarching.frag"
)

var embedded = map[string]string{
	RaymarchVertex:   raymarchVert,
	RaymarchFragment: raymarchFrag,
}
