// Package app wires the window, the renderer and a scene together for the
// hello programs.
package app

import (
	"fmt"
	"log"
	"path/filepath"

	glfwcontext "github.com/richinsley/glhello/glfwcontext"
	graphics "github.com/richinsley/glhello/graphics"
	options "github.com/richinsley/glhello/options"
	renderer "github.com/richinsley/glhello/renderer"
	shader "github.com/richinsley/glhello/shader"
)

// Default locations of the shaders loaded by the quad program.
var (
	DefaultVertexShader   = filepath.Join("shaders", "point.vert")
	DefaultFragmentShader = filepath.Join("shaders", "point.frag")
)

// ShaderDialect reports the dialect the shader sources are written in.
func ShaderDialect(opts *options.Options) shader.Dialect {
	if *opts.Translate {
		return shader.ESSL
	}
	return shader.GLSL
}

// ClearScene only clears the window.
func ClearScene() renderer.Scene {
	return renderer.Scene{}
}

// InlineScene uses the embedded shader pair and draws nothing.
func InlineScene(opts *options.Options) renderer.Scene {
	if ShaderDialect(opts) == shader.ESSL {
		return renderer.Scene{Shaders: shader.BuiltinES()}
	}
	return renderer.Scene{Shaders: shader.Builtin()}
}

// QuadScene loads the shader pair named by the options and draws the quad.
// With -translate and default paths the WebGL2 shaders next to the defaults are used.
func QuadScene(opts *options.Options) (renderer.Scene, error) {
	vert, frag := *opts.VertexShader, *opts.FragmentShader
	dialect := ShaderDialect(opts)
	if dialect == shader.ESSL && vert == DefaultVertexShader && frag == DefaultFragmentShader {
		vert = filepath.Join(filepath.Dir(vert), "es", filepath.Base(vert))
		frag = filepath.Join(filepath.Dir(frag), "es", filepath.Base(frag))
	}

	src, err := shader.Load(vert, frag, dialect)
	if err != nil {
		return renderer.Scene{}, err
	}
	log.Printf("Loaded shaders %s and %s", vert, frag)
	return renderer.Scene{Shaders: src, Quad: true, Primitive: *opts.Primitive}, nil
}

// Run opens the window, renders scene until the window closes (or until the
// recording is complete) and releases everything it created. GLFW must
// already be initialized on the calling thread. A close requested through
// shutdown, which may be nil, stops the loop early.
func Run(opts *options.Options, scene renderer.Scene, shutdown *Shutdown) error {
	record := opts.Recording()

	// If recording, the window will be hidden
	ctx, err := glfwcontext.New(opts, !record)
	if err != nil {
		return err
	}
	defer ctx.Shutdown()
	if shutdown != nil {
		shutdown.attach(ctx)
		defer shutdown.detach()
	}
	ctx.RegisterKeyCallback(graphics.KeyEscape, func() { log.Println("Escape pressed, closing window") })

	r, err := renderer.NewRenderer(ctx, *opts.Width, *opts.Height, record, opts.Clear())
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	defer r.Shutdown()

	if err := r.InitScene(scene); err != nil {
		return fmt.Errorf("failed to initialize scene: %w", err)
	}

	if !record {
		log.Println("Starting interactive render loop...")
		r.Run()
		return nil
	}

	log.Println("Starting offscreen render loop...")
	err = r.RunOffscreen(renderer.RecordOptions{
		Duration:   *opts.Duration,
		FPS:        *opts.FPS,
		OutputFile: *opts.OutputFile,
		Codec:      *opts.Codec,
		FFMPEGPath: opts.FFmpeg(),
	})
	if err != nil {
		return fmt.Errorf("offscreen rendering failed: %w", err)
	}
	log.Printf("Successfully rendered to %s", *opts.OutputFile)
	return nil
}
