package placement

import (
	"context"
	"io"
	"log/slog"
	"sync"
)

// fakeRuntime records calls and lets tests inject geometry, clamping and
// failures.
type fakeRuntime struct {
	mu sync.Mutex

	size     Size
	screen   Screen
	position Position
	onTop    bool

	// clamp, when set, adjusts requested positions the way a window manager
	// might.
	clamp func(Position) Position

	sizeErr     error
	moveErr     error
	readbackErr error
	topErr      error
	dragErr     error
	dragPanic   any
	dragMoveTo  *Position

	moves    []Position
	topCalls []bool
	drags    int
	ready    chan struct{}
}

func newFakeRuntime() *fakeRuntime {
	return &fakeRuntime{
		size:   Size{Width: 200, Height: 300},
		screen: Screen{Width: 1920, Height: 1080},
		onTop:  true,
	}
}

func (f *fakeRuntime) OuterSize(context.Context) (Size, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.size, f.sizeErr
}

func (f *fakeRuntime) OuterPosition(context.Context) (Position, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.position, f.readbackErr
}

func (f *fakeRuntime) SetPosition(_ context.Context, pos Position) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.moveErr != nil {
		return f.moveErr
	}
	f.moves = append(f.moves, pos)
	if f.clamp != nil {
		pos = f.clamp(pos)
	}
	f.position = pos
	return nil
}

func (f *fakeRuntime) SetAlwaysOnTop(_ context.Context, onTop bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.topCalls = append(f.topCalls, onTop)
	if f.topErr != nil {
		return f.topErr
	}
	f.onTop = onTop
	return nil
}

func (f *fakeRuntime) StartDragging(context.Context) error {
	f.mu.Lock()
	f.drags++
	if f.dragMoveTo != nil {
		f.position = *f.dragMoveTo
	}
	p, err := f.dragPanic, f.dragErr
	f.mu.Unlock()
	if p != nil {
		panic(p)
	}
	return err
}

func (f *fakeRuntime) PrimaryScreen(context.Context) (Screen, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.screen, nil
}

func (f *fakeRuntime) moveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.moves)
}

// readyRuntime adds a readiness signal to fakeRuntime.
type readyRuntime struct {
	*fakeRuntime
}

func (r readyRuntime) Ready() <-chan struct{} {
	return r.ready
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
