package renderer

import (
	"fmt"
	"log"

	shader "github.com/richinsley/glhello/shader"
	xlate "github.com/richinsley/glhello/translator"
)

// Scene describes what a hello program draws on top of the cleared screen.
type Scene struct {
	// Shaders is the program to use every frame; nil renders with no program.
	Shaders *shader.Sources
	// Quad draws the fixed rectangle.
	Quad bool
	// Primitive is "loop" or "fan".
	Primitive string
}

// InitScene builds the program and the quad requested by scene.
func (r *Renderer) InitScene(scene Scene) error {
	if scene.Shaders != nil {
		program, err := buildProgram(scene.Shaders)
		if err != nil {
			return fmt.Errorf("failed to create shader program: %w", err)
		}
		r.program = program
		log.Printf("Created %s shader program %d", scene.Shaders.Dialect, program)
	}

	if scene.Quad {
		mode, err := primitiveMode(scene.Primitive)
		if err != nil {
			return err
		}
		r.quad = NewQuad(mode)
	}
	return nil
}

// buildProgram compiles sources, translating WebGL2 sources to desktop GLSL first.
func buildProgram(src *shader.Sources) (uint32, error) {
	if src.Dialect != shader.ESSL {
		return CreateProgram(src.Vertex, src.Fragment, DefaultBindings)
	}

	vs, err := xlate.Translate(src.Vertex, "vertex")
	if err != nil {
		return 0, err
	}
	fs, err := xlate.Translate(src.Fragment, "fragment")
	if err != nil {
		return 0, err
	}
	bindings := Bindings{
		Position: vs.MappedName(DefaultBindings.Position),
		Fragment: fs.MappedName(DefaultBindings.Fragment),
	}
	return CreateProgram(vs.Code, fs.Code, bindings)
}
