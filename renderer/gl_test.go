package renderer

import (
	"bytes"
	"flag"
	"log"
	"os"
	"runtime"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	glfwcontext "github.com/richinsley/glhello/glfwcontext"
	options "github.com/richinsley/glhello/options"
	shader "github.com/richinsley/glhello/shader"
)

// initTestGL opens a hidden window and returns a renderer bound to it.
// These tests need a display and run only with GLHELLO_GL_TESTS=1.
func initTestGL(t *testing.T, recordMode bool) *Renderer {
	t.Helper()
	if os.Getenv("GLHELLO_GL_TESTS") != "1" {
		t.Skip("set GLHELLO_GL_TESTS=1 to run tests against a real OpenGL context")
	}
	runtime.LockOSThread()
	t.Cleanup(runtime.UnlockOSThread)

	if err := glfwcontext.InitGraphics(); err != nil {
		t.Skipf("no display: %v", err)
	}
	t.Cleanup(glfwcontext.TerminateGraphics)

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	opts := options.Register(fs, options.Defaults{})
	if err := fs.Parse([]string{"-width", "64", "-height", "48"}); err != nil {
		t.Fatal(err)
	}
	if err := opts.Validate(); err != nil {
		t.Fatal(err)
	}
	ctx, err := glfwcontext.New(opts, false)
	if err != nil {
		t.Skipf("no OpenGL 3.2 context: %v", err)
	}
	t.Cleanup(ctx.Shutdown)

	r, err := NewRenderer(ctx, 64, 48, recordMode, opts.Clear())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(r.Shutdown)
	return r
}

func TestCreateProgramGL(t *testing.T) {
	initTestGL(t, false)

	src := shader.Builtin()
	program, err := CreateProgram(src.Vertex, src.Fragment, DefaultBindings)
	if err != nil {
		t.Fatalf("CreateProgram: %v", err)
	}
	if program == 0 {
		t.Fatal("CreateProgram returned program 0 without an error")
	}

	var logged bytes.Buffer
	log.SetOutput(&logged)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	broken := strings.Replace(src.Fragment, "fragment =", "fragment ==", 1)
	program, err = CreateProgram(src.Vertex, broken, DefaultBindings)
	if err == nil || program != 0 {
		t.Fatalf("broken fragment shader: program = %d, err = %v", program, err)
	}
	if !strings.Contains(err.Error(), "fragment shader") {
		t.Errorf("error does not name the failing stage: %v", err)
	}
	if !strings.Contains(logged.String(), "Compile Error in fragment shader") {
		t.Errorf("compile failure was not logged:\n%s", logged.String())
	}
}

func TestSetShouldCloseStopsRun(t *testing.T) {
	r := initTestGL(t, false)

	start := r.context.Time()
	r.context.EndFrame()
	if now := r.context.Time(); now < start {
		t.Errorf("Time went backwards: %g then %g", start, now)
	}

	if r.context.ShouldClose() {
		t.Fatal("new window already wants to close")
	}
	r.context.SetShouldClose(true)
	if !r.context.ShouldClose() {
		t.Fatal("SetShouldClose(true) did not flag the window")
	}
	// returns without rendering a frame
	r.Run()
}

func TestRenderFrameClearsToClearColor(t *testing.T) {
	r := initTestGL(t, true)
	if err := r.InitScene(Scene{Shaders: shader.Builtin(), Quad: true, Primitive: "fan"}); err != nil {
		t.Fatal(err)
	}

	r.offscreenRenderer.bind()
	r.RenderFrame(r.width, r.height)
	pixels := r.offscreenRenderer.readPixels()
	r.offscreenRenderer.unbind()

	want, err := options.ParseClearColor("0.0,0.3,0.6,1.0")
	if err != nil {
		t.Fatal(err)
	}
	corner := mgl32.Vec4{float32(pixels[0]) / 255, float32(pixels[1]) / 255, float32(pixels[2]) / 255, float32(pixels[3]) / 255}
	if !corner.ApproxEqualThreshold(want, 0.01) {
		t.Errorf("corner pixel = %v, want clear color %v", corner, want)
	}

	center := (r.height/2*r.width + r.width/2) * 4
	if got := pixels[center : center+4]; got[0] != 255 || got[1] != 0 || got[2] != 0 {
		t.Errorf("center pixel = %v, want the red quad", got)
	}
}
