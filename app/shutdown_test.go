package app

import (
	"sync"
	"testing"
	"time"

	graphics "github.com/richinsley/glhello/graphics"
)

var _ graphics.Context = (*fakeContext)(nil)

// fakeContext records close requests; every other method is a no-op.
type fakeContext struct {
	mu          sync.Mutex
	shouldClose bool
}

func (f *fakeContext) MakeCurrent()                                 {}
func (f *fakeContext) Shutdown()                                    {}
func (f *fakeContext) EndFrame()                                    {}
func (f *fakeContext) GetFramebufferSize() (int, int)               { return 64, 48 }
func (f *fakeContext) Time() float64                                { return 0 }
func (f *fakeContext) RegisterKeyCallback(_ graphics.Key, _ func()) {}

func (f *fakeContext) ShouldClose() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.shouldClose
}

func (f *fakeContext) SetShouldClose(v bool) {
	f.mu.Lock()
	f.shouldClose = v
	f.mu.Unlock()
}

func TestShutdownRequestCloseWaitsForDone(t *testing.T) {
	s := NewShutdown()
	ctx := &fakeContext{}
	s.attach(ctx)

	returned := make(chan struct{})
	go func() {
		s.RequestClose()
		close(returned)
	}()

	// the render loop sees the flag while RequestClose is still blocked
	deadline := time.Now().Add(5 * time.Second)
	for !ctx.ShouldClose() {
		if time.Now().After(deadline) {
			t.Fatal("RequestClose did not flag the window")
		}
		time.Sleep(time.Millisecond)
	}
	select {
	case <-returned:
		t.Fatal("RequestClose returned before Done")
	case <-time.After(50 * time.Millisecond):
	}

	s.detach()
	s.Done()
	select {
	case <-returned:
	case <-time.After(5 * time.Second):
		t.Fatal("RequestClose still blocked after Done")
	}
}

func TestShutdownRequestBeforeAttach(t *testing.T) {
	s := NewShutdown()
	go s.RequestClose()

	deadline := time.Now().Add(5 * time.Second)
	for !s.Requested() {
		if time.Now().After(deadline) {
			t.Fatal("request was not recorded")
		}
		time.Sleep(time.Millisecond)
	}

	ctx := &fakeContext{}
	s.attach(ctx)
	if !ctx.ShouldClose() {
		t.Error("window attached after a close request should close immediately")
	}
	s.Done()
}

func TestShutdownAfterDoneDoesNotBlock(t *testing.T) {
	s := NewShutdown()
	s.Done()
	s.Done()

	returned := make(chan struct{})
	go func() {
		s.RequestClose()
		close(returned)
	}()
	select {
	case <-returned:
	case <-time.After(5 * time.Second):
		t.Fatal("RequestClose blocked after Done")
	}
}
