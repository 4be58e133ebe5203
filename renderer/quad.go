package renderer

import (
	"fmt"

	gl "github.com/go-gl/gl/v3.2-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// quadVertices is the fixed rectangle drawn by the quad programs, counter-clockwise.
var quadVertices = []mgl32.Vec2{
	{-0.5, -0.5},
	{0.5, -0.5},
	{0.5, 0.5},
	{-0.5, 0.5},
}

// Quad owns the vertex array and the static vertex buffer of the rectangle.
type Quad struct {
	vao  uint32
	vbo  uint32
	mode uint32
}

// primitiveMode maps the -primitive option to a draw mode.
func primitiveMode(name string) (uint32, error) {
	switch name {
	case "", "loop":
		return gl.LINE_LOOP, nil
	case "fan":
		return gl.TRIANGLE_FAN, nil
	default:
		return 0, fmt.Errorf("unknown primitive %q", name)
	}
}

// NewQuad uploads the quad to a static buffer bound to attribute 0.
func NewQuad(mode uint32) *Quad {
	q := &Quad{mode: mode}
	gl.GenVertexArrays(1, &q.vao)
	gl.GenBuffers(1, &q.vbo)
	gl.BindVertexArray(q.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, q.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVertices)*2*4, gl.Ptr(&quadVertices[0][0]), gl.STATIC_DRAW)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 2*4, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
	return q
}

func (q *Quad) Draw() {
	gl.BindVertexArray(q.vao)
	gl.DrawArrays(q.mode, 0, int32(len(quadVertices)))
	gl.BindVertexArray(0)
}

func (q *Quad) Destroy() {
	gl.DeleteBuffers(1, &q.vbo)
	gl.DeleteVertexArrays(1, &q.vao)
}
