package graphics

// Key identifies a keyboard key using GLFW key codes.
type Key int

// KeyEscape is the GLFW code of the Escape key.
const KeyEscape Key = 256

// Context defines the interface for an OpenGL context.
type Context interface {
	MakeCurrent()
	Shutdown()
	ShouldClose() bool
	// SetShouldClose may be called from any goroutine.
	SetShouldClose(bool)
	// EndFrame swaps buffers and processes pending window events.
	EndFrame()
	GetFramebufferSize() (int, int)
	// Time returns seconds since the graphics subsystem was initialized.
	Time() float64
	// RegisterKeyCallback runs f whenever key is pressed.
	RegisterKeyCallback(key Key, f func())
}
