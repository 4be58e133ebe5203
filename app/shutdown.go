package app

import (
	"log"
	"sync"

	graphics "github.com/richinsley/glhello/graphics"
)

// Shutdown lets a signal handler stop the render loop without touching GLFW
// from its own goroutine. RequestClose only flags the active window and then
// waits until the main thread reports, through Done, that it has terminated
// the graphics subsystem.
type Shutdown struct {
	mu        sync.Mutex
	ctx       graphics.Context
	requested bool
	done      chan struct{}
	doneOnce  sync.Once
}

func NewShutdown() *Shutdown {
	return &Shutdown{done: make(chan struct{})}
}

// attach makes ctx the window RequestClose will flag. A request that arrived
// before the window existed is applied immediately.
func (s *Shutdown) attach(ctx graphics.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctx = ctx
	if s.requested {
		ctx.SetShouldClose(true)
	}
}

func (s *Shutdown) detach() {
	s.mu.Lock()
	s.ctx = nil
	s.mu.Unlock()
}

// RequestClose asks the render loop to stop and blocks until Done is called.
// Bind it to closer; it returns at once on a normal exit because Done has
// already been called by then.
func (s *Shutdown) RequestClose() {
	s.mu.Lock()
	if !s.requested {
		select {
		case <-s.done:
		default:
			log.Println("Close requested, stopping render loop")
		}
	}
	s.requested = true
	if s.ctx != nil {
		s.ctx.SetShouldClose(true)
	}
	s.mu.Unlock()
	<-s.done
}

// Requested reports whether RequestClose has been called.
func (s *Shutdown) Requested() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requested
}

// Done releases RequestClose. Call it on the main thread after
// glfwcontext.TerminateGraphics, and before any closer.Fatalln.
func (s *Shutdown) Done() {
	s.doneOnce.Do(func() { close(s.done) })
}
