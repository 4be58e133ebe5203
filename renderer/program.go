package renderer

import (
	"errors"
	"fmt"
	"log"
	"strings"

	gl "github.com/go-gl/gl/v3.2-core/gl"
	shader "github.com/richinsley/glhello/shader"
)

// Bindings names the vertex attribute bound to location 0 and the fragment
// output bound to color number 0 before linking.
type Bindings struct {
	Position string
	Fragment string
}

// DefaultBindings are the names used by the embedded and shipped shaders.
var DefaultBindings = Bindings{Position: shader.PositionAttrib, Fragment: shader.FragmentOutput}

// CreateProgram compiles and links a program from a vertex and a fragment
// shader source. An empty source skips that stage. A stage that fails to
// compile is not attached; the link then decides the outcome. On failure the
// program is deleted and 0 is returned together with the collected logs.
func CreateProgram(vsrc, fsrc string, bindings Bindings) (uint32, error) {
	program := gl.CreateProgram()
	var errs []error

	stages := []struct {
		source     string
		shaderType uint32
		name       string
	}{
		{vsrc, gl.VERTEX_SHADER, "vertex shader"},
		{fsrc, gl.FRAGMENT_SHADER, "fragment shader"},
	}
	for _, stage := range stages {
		if stage.source == "" {
			continue
		}
		obj, err := compileShader(stage.source, stage.shaderType, stage.name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		gl.AttachShader(program, obj)
		// the program keeps the shader alive until it is deleted
		gl.DeleteShader(obj)
	}

	gl.BindAttribLocation(program, 0, gl.Str(bindings.Position+"\x00"))
	gl.BindFragDataLocation(program, 0, gl.Str(bindings.Fragment+"\x00"))
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	infoLog := programInfoLog(program)
	if infoLog != "" {
		log.Printf("Program info log:\n%s", infoLog)
	}
	if status == gl.FALSE {
		gl.DeleteProgram(program)
		errs = append(errs, fmt.Errorf("failed to link program: %s", infoLog))
		return 0, errors.Join(errs...)
	}
	return program, nil
}

func compileShader(source string, shaderType uint32, name string) (uint32, error) {
	obj := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(obj, 1, csources, nil)
	free()
	gl.CompileShader(obj)

	var status int32
	gl.GetShaderiv(obj, gl.COMPILE_STATUS, &status)
	infoLog := shaderInfoLog(obj)
	if infoLog != "" {
		log.Printf("%s info log:\n%s", name, infoLog)
	}
	if status == gl.FALSE {
		log.Printf("Compile Error in %s", name)
		gl.DeleteShader(obj)
		return 0, fmt.Errorf("compile error in %s: %s", name, infoLog)
	}
	return obj, nil
}

func shaderInfoLog(obj uint32) string {
	var logLength int32
	gl.GetShaderiv(obj, gl.INFO_LOG_LENGTH, &logLength)
	if logLength <= 1 {
		return ""
	}
	logText := strings.Repeat("\x00", int(logLength+1))
	gl.GetShaderInfoLog(obj, logLength, nil, gl.Str(logText))
	return trimLog(logText)
}

func programInfoLog(program uint32) string {
	var logLength int32
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
	if logLength <= 1 {
		return ""
	}
	logText := strings.Repeat("\x00", int(logLength+1))
	gl.GetProgramInfoLog(program, logLength, nil, gl.Str(logText))
	return trimLog(logText)
}

// trimLog drops the NUL padding and trailing newlines of a GL info log.
func trimLog(s string) string {
	if i := strings.IndexByte(s, 0); i >= 0 {
		s = s[:i]
	}
	return strings.TrimRight(s, "\r\n ")
}
