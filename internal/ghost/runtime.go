package ghost

import (
	"context"
	"errors"
	"math"
	"sync"

	"github.com/1broseidon/ghostdock/internal/placement"
)

// ErrNoButton is returned when a drag is requested without the primary
// button held.
var ErrNoButton = errors.New("primary button is not pressed")

// EbitenRuntime implements placement.Runtime on ebiten's own window. It
// reports and accepts physical pixels, converting with the monitor's device
// scale factor. Ebiten does not expose monitor origins, so the primary screen
// is always reported at (0, 0).
type EbitenRuntime struct {
	win window

	readyOnce sync.Once
	ready     chan struct{}

	mu   sync.Mutex
	grab *point
	drag *dragState
}

type point struct{ x, y int }

// dragState is an active drag. The game loop moves the window; StartDragging
// only waits for done.
type dragState struct {
	grab point
	done chan struct{}
}

var (
	_ placement.Runtime       = (*EbitenRuntime)(nil)
	_ placement.ReadyNotifier = (*EbitenRuntime)(nil)
)

// NewEbitenRuntime creates a runtime for the process's ebiten window.
func NewEbitenRuntime() *EbitenRuntime {
	return newEbitenRuntime(ebitenWindow{})
}

func newEbitenRuntime(win window) *EbitenRuntime {
	return &EbitenRuntime{win: win, ready: make(chan struct{})}
}

// Ready is closed after the window's first frame.
func (r *EbitenRuntime) Ready() <-chan struct{} {
	return r.ready
}

// MarkReady closes the ready channel; later calls are no-ops.
func (r *EbitenRuntime) MarkReady() {
	r.readyOnce.Do(func() { close(r.ready) })
}

func (r *EbitenRuntime) scale() float64 {
	s := r.win.ScaleFactor()
	if s <= 0 {
		return 1
	}
	return s
}

func toPhysical(v int, scale float64) int {
	return int(math.Round(float64(v) * scale))
}

func toLogical(v int, scale float64) int {
	return int(math.Round(float64(v) / scale))
}

// OuterSize implements placement.Runtime. The window is undecorated, so the
// outer size is the content size.
func (r *EbitenRuntime) OuterSize(ctx context.Context) (placement.Size, error) {
	if err := ctx.Err(); err != nil {
		return placement.Size{}, err
	}
	s := r.scale()
	w, h := r.win.Size()
	return placement.Size{Width: toPhysical(w, s), Height: toPhysical(h, s)}, nil
}

// OuterPosition implements placement.Runtime.
func (r *EbitenRuntime) OuterPosition(ctx context.Context) (placement.Position, error) {
	if err := ctx.Err(); err != nil {
		return placement.Position{}, err
	}
	s := r.scale()
	x, y := r.win.Position()
	return placement.Position{X: toPhysical(x, s), Y: toPhysical(y, s)}, nil
}

// SetPosition implements placement.Runtime.
func (r *EbitenRuntime) SetPosition(ctx context.Context, pos placement.Position) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s := r.scale()
	r.win.SetPosition(toLogical(pos.X, s), toLogical(pos.Y, s))
	return nil
}

// SetAlwaysOnTop implements placement.Runtime.
func (r *EbitenRuntime) SetAlwaysOnTop(ctx context.Context, onTop bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.win.SetFloating(onTop)
	return nil
}

// PrimaryScreen implements placement.Runtime.
func (r *EbitenRuntime) PrimaryScreen(ctx context.Context) (placement.Screen, error) {
	if err := ctx.Err(); err != nil {
		return placement.Screen{}, err
	}
	s := r.scale()
	w, h := r.win.ScreenSize()
	return placement.Screen{Width: toPhysical(w, s), Height: toPhysical(h, s)}, nil
}

// GrabAt sets the window-relative point that stays under the cursor during
// the next drag. Without it the drag grabs wherever the cursor is when it
// starts.
func (r *EbitenRuntime) GrabAt(x, y int) {
	r.mu.Lock()
	r.grab = &point{x, y}
	r.mu.Unlock()
}

// StartDragging blocks until the primary button is released, while Follow
// moves the window with the cursor.
func (r *EbitenRuntime) StartDragging(ctx context.Context) error {
	if !r.win.ButtonPressed() {
		r.mu.Lock()
		r.grab = nil
		r.mu.Unlock()
		return ErrNoButton
	}

	d := &dragState{done: make(chan struct{})}
	r.mu.Lock()
	if r.grab != nil {
		d.grab = *r.grab
		r.grab = nil
	} else {
		x, y := r.win.Cursor()
		d.grab = point{x, y}
	}
	r.drag = d
	r.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		r.mu.Lock()
		if r.drag == d {
			r.drag = nil
		}
		r.mu.Unlock()
		return ctx.Err()
	}
}

// Follow applies one frame of pointer input, in window coordinates, to an
// active drag. It must be called once per input update: the cursor position
// is relative to the window, so a second move on the same frame's input would
// apply the offset twice.
func (r *EbitenRuntime) Follow(x, y int, pressed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := r.drag
	if d == nil {
		return
	}
	if !pressed {
		r.drag = nil
		close(d.done)
		return
	}
	dx, dy := x-d.grab.x, y-d.grab.y
	if dx == 0 && dy == 0 {
		return
	}
	wx, wy := r.win.Position()
	r.win.SetPosition(wx+dx, wy+dy)
}

// Dragging reports whether a drag is waiting on Follow.
func (r *EbitenRuntime) Dragging() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.drag != nil
}
