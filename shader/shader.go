package shader

import (
	"fmt"
	"os"
	"strings"
)

// Dialect is the GLSL flavour a pair of sources is written in.
type Dialect int

const (
	// GLSL is desktop GLSL 1.50 core, compiled as is.
	GLSL Dialect = iota
	// ESSL is WebGL2 / GLSL ES 3.00, translated to desktop GLSL before compiling.
	ESSL
)

func (d Dialect) String() string {
	switch d {
	case ESSL:
		return "essl"
	default:
		return "glsl"
	}
}

// Names bound to attribute 0 and fragment output 0 of every program.
const (
	PositionAttrib = "position"
	FragmentOutput = "fragment"
)

// Sources holds a vertex/fragment shader pair.
type Sources struct {
	Vertex   string
	Fragment string
	Dialect  Dialect
}

// ────────────────────────────────── Desktop GL ──────────────────────────────────

const vertexShaderSourceGL = `#version 150 core
in vec4 position;
void main()
{
  gl_Position = position;
}
`

const fragmentShaderSourceGL = `#version 150 core
out vec4 fragment;
void main()
{
  fragment = vec4(1.0, 0.0, 0.0, 1.0);
}
`

// ─────────────────────────────────── WebGL2 ─────────────────────────────────────

const vertexShaderSourceES = `#version 300 es
in vec4 position;
void main()
{
  gl_Position = position;
}
`

const fragmentShaderSourceES = `#version 300 es
precision mediump float;
out vec4 fragment;
void main()
{
  fragment = vec4(1.0, 0.0, 0.0, 1.0);
}
`

// ────────────────────────────────── Public API ─────────────────────────────────

// Builtin returns the embedded desktop shader pair: pass-through positions, solid red.
func Builtin() *Sources {
	return &Sources{Vertex: vertexShaderSourceGL, Fragment: fragmentShaderSourceGL, Dialect: GLSL}
}

// BuiltinES returns the WebGL2 version of Builtin.
func BuiltinES() *Sources {
	return &Sources{Vertex: vertexShaderSourceES, Fragment: fragmentShaderSourceES, Dialect: ESSL}
}

// LoadSource reads a shader source file. Empty files are rejected.
func LoadSource(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("load shader %q: %w", path, err)
	}
	if strings.TrimSpace(string(b)) == "" {
		return "", fmt.Errorf("load shader %q: file is empty", path)
	}
	return string(b), nil
}

// Load reads a vertex and a fragment shader from disk.
func Load(vertPath, fragPath string, dialect Dialect) (*Sources, error) {
	vsrc, err := LoadSource(vertPath)
	if err != nil {
		return nil, err
	}
	fsrc, err := LoadSource(fragPath)
	if err != nil {
		return nil, err
	}
	return &Sources{Vertex: vsrc, Fragment: fsrc, Dialect: dialect}, nil
}
