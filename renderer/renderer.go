package renderer

import (
	"fmt"
	"log"
	"sync"

	gl "github.com/go-gl/gl/v3.2-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	graphics "github.com/richinsley/glhello/graphics"
)

// A package-level variable to ensure gl.Init() is called only once.
var glInitOnce sync.Once

type Renderer struct {
	context           graphics.Context
	program           uint32
	quad              *Quad
	offscreenRenderer *OffscreenRenderer
	width             int
	height            int
	recordMode        bool
}

// NewRenderer makes ctx current, loads the OpenGL function pointers and sets
// the clear color. In record mode frames go to an offscreen framebuffer of
// width x height instead of the window.
func NewRenderer(ctx graphics.Context, width, height int, recordMode bool, clearColor mgl32.Vec4) (*Renderer, error) {
	r := &Renderer{
		context:    ctx,
		width:      width,
		height:     height,
		recordMode: recordMode,
	}

	// Make the context current BEFORE initializing OpenGL.
	r.context.MakeCurrent()

	var initErr error
	glInitOnce.Do(func() {
		initErr = gl.Init()
	})
	if initErr != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", initErr)
	}

	log.Printf("Renderer: %s", gl.GoStr(gl.GetString(gl.RENDERER)))
	log.Printf("OpenGL version supported: %s", gl.GoStr(gl.GetString(gl.VERSION)))

	gl.ClearColor(clearColor[0], clearColor[1], clearColor[2], clearColor[3])

	if recordMode {
		var err error
		r.offscreenRenderer, err = NewOffscreenRenderer(width, height)
		if err != nil {
			return nil, fmt.Errorf("failed to create offscreen renderer: %w", err)
		}
	}
	return r, nil
}

func (r *Renderer) Shutdown() {
	if r.quad != nil {
		r.quad.Destroy()
	}
	if r.program != 0 {
		gl.DeleteProgram(r.program)
	}
	if r.offscreenRenderer != nil {
		r.offscreenRenderer.Destroy()
	}
}

// RenderFrame clears the bound framebuffer and draws the scene into it.
func (r *Renderer) RenderFrame(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
	gl.Clear(gl.COLOR_BUFFER_BIT)
	gl.UseProgram(r.program)
	if r.quad != nil {
		r.quad.Draw()
	}
}

// Run renders to the window until it is asked to close.
func (r *Renderer) Run() {
	start := r.context.Time()
	frames := 0
	for !r.context.ShouldClose() {
		fbWidth, fbHeight := r.context.GetFramebufferSize()
		r.RenderFrame(fbWidth, fbHeight)
		r.context.EndFrame()
		frames++
	}
	log.Printf("closed window after %d frames in %.2fs", frames, r.context.Time()-start)
}
