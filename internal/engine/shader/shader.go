// Package shader compiles GLSL programs and exposes them through a small
// uniform-setting capability.
package shader

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Stage names a pipeline stage in build errors.
type Stage string

const (
	StageVertex   Stage = "vertex"
	StageFragment Stage = "fragment"
	StageLink     Stage = "link"
)

// BuildError carries the driver's info log for a failed stage.
type BuildError struct {
	Stage Stage
	Log   string
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("shader %s: %s", e.Stage, e.Log)
}

var glStage = map[Stage]uint32{
	StageVertex:   gl.VERTEX_SHADER,
	StageFragment: gl.FRAGMENT_SHADER,
}

// CompileProgram builds a vertex+fragment program and returns its GL name.
// On failure every intermediate object is deleted.
func CompileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	sources := []struct {
		stage Stage
		src   string
	}{
		{StageVertex, vertexSrc},
		{StageFragment, fragmentSrc},
	}

	program := gl.CreateProgram()
	for _, s := range sources {
		sh, err := compileStage(s.stage, s.src)
		if err != nil {
			gl.DeleteProgram(program)
			return 0, err
		}
		gl.AttachShader(program, sh)
		// Flagged for deletion; freed with the program.
		gl.DeleteShader(sh)
	}
	gl.LinkProgram(program)

	var ok int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &ok)
	if ok == gl.FALSE {
		err := &BuildError{Stage: StageLink, Log: infoLog(program, gl.GetProgramiv, gl.GetProgramInfoLog)}
		gl.DeleteProgram(program)
		return 0, err
	}
	return program, nil
}

func compileStage(stage Stage, source string) (uint32, error) {
	sh := gl.CreateShader(glStage[stage])
	csrc, free := gl.Strs(source + "\x00")
	gl.ShaderSource(sh, 1, csrc, nil)
	free()
	gl.CompileShader(sh)

	var ok int32
	gl.GetShaderiv(sh, gl.COMPILE_STATUS, &ok)
	if ok == gl.FALSE {
		err := &BuildError{Stage: stage, Log: infoLog(sh, gl.GetShaderiv, gl.GetShaderInfoLog)}
		gl.DeleteShader(sh)
		return 0, err
	}
	return sh, nil
}

func infoLog(obj uint32,
	getiv func(uint32, uint32, *int32),
	getLog func(uint32, int32, *int32, *uint8),
) string {
	var n int32
	getiv(obj, gl.INFO_LOG_LENGTH, &n)
	if n <= 0 {
		return "(no log)"
	}
	buf := make([]byte, n)
	getLog(obj, n, nil, &buf[0])
	return strings.TrimRight(string(buf), "\x00\n")
}
