package glfwcontext

import (
	"testing"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	graphics "github.com/richinsley/glhello/graphics"
)

var _ graphics.Context = (*Context)(nil)

func TestKeyEscapeMatchesGLFW(t *testing.T) {
	if glfw.Key(graphics.KeyEscape) != glfw.KeyEscape {
		t.Fatalf("graphics.KeyEscape = %d, glfw.KeyEscape = %d", graphics.KeyEscape, glfw.KeyEscape)
	}
}

func TestHandleKey(t *testing.T) {
	c := &Context{keyCallbacks: make(map[glfw.Key]func())}
	var pressed, escaped int
	c.RegisterKeyCallback(graphics.Key(glfw.KeySpace), func() { pressed++ })
	c.RegisterKeyCallback(graphics.KeyEscape, func() { escaped++ })

	tests := []struct {
		key       glfw.Key
		action    glfw.Action
		wantClose bool
	}{
		{glfw.KeyEscape, glfw.Press, true},
		{glfw.KeyEscape, glfw.Release, false},
		{glfw.KeyEscape, glfw.Repeat, false},
		{glfw.KeySpace, glfw.Press, false},
		{glfw.KeySpace, glfw.Release, false},
		{glfw.KeyA, glfw.Press, false},
	}
	for _, tt := range tests {
		if got := c.handleKey(tt.key, tt.action); got != tt.wantClose {
			t.Errorf("handleKey(%v, %v) = %v, want %v", tt.key, tt.action, got, tt.wantClose)
		}
	}
	if pressed != 1 {
		t.Errorf("space callback ran %d times, want 1", pressed)
	}
	if escaped != 1 {
		t.Errorf("escape callback ran %d times, want 1", escaped)
	}
}
