package platform

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/1broseidon/ghostdock/internal/placement"
)

const defaultDragPoll = 16 * time.Millisecond

// RuntimeOptions configures a WindowRuntime.
type RuntimeOptions struct {
	// Title identifies the ghost window among the top-level clients.
	Title string
	// RespectWorkArea reports the usable area instead of the full display.
	RespectWorkArea bool
	// Ready, when set, is forwarded as the runtime's first-layout signal.
	Ready <-chan struct{}
	// DragPoll is how often the pointer is sampled during a move.
	DragPoll time.Duration
}

// WindowRuntime drives the ghost window through a Backend. It implements
// placement.Runtime and placement.ReadyNotifier.
type WindowRuntime struct {
	backend Backend
	opts    RuntimeOptions
	logger  *slog.Logger

	mu  sync.Mutex
	win WindowID
}

var (
	_ placement.Runtime       = (*WindowRuntime)(nil)
	_ placement.ReadyNotifier = (*WindowRuntime)(nil)
)

// NewWindowRuntime creates a runtime for the window titled opts.Title.
func NewWindowRuntime(backend Backend, opts RuntimeOptions, logger *slog.Logger) *WindowRuntime {
	if opts.DragPoll <= 0 {
		opts.DragPoll = defaultDragPoll
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &WindowRuntime{backend: backend, opts: opts, logger: logger}
}

// Ready implements placement.ReadyNotifier.
func (r *WindowRuntime) Ready() <-chan struct{} {
	return r.opts.Ready
}

// Forget drops the cached window id, for when the window is recreated.
func (r *WindowRuntime) Forget() {
	r.mu.Lock()
	r.win = 0
	r.mu.Unlock()
}

func (r *WindowRuntime) window(ctx context.Context) (WindowID, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.win != 0 {
		return r.win, nil
	}

	win, err := r.backend.FindWindow(r.opts.Title)
	if err != nil {
		return 0, err
	}
	r.logger.Debug("found ghost window", "title", r.opts.Title, "window", uint32(win))
	r.win = win
	return win, nil
}

func (r *WindowRuntime) bounds(ctx context.Context) (Rect, error) {
	win, err := r.window(ctx)
	if err != nil {
		return Rect{}, err
	}
	return r.backend.FrameBounds(win)
}

// OuterSize implements placement.Runtime.
func (r *WindowRuntime) OuterSize(ctx context.Context) (placement.Size, error) {
	b, err := r.bounds(ctx)
	if err != nil {
		return placement.Size{}, err
	}
	return placement.Size{Width: b.Width, Height: b.Height}, nil
}

// OuterPosition implements placement.Runtime.
func (r *WindowRuntime) OuterPosition(ctx context.Context) (placement.Position, error) {
	b, err := r.bounds(ctx)
	if err != nil {
		return placement.Position{}, err
	}
	return placement.Position{X: b.X, Y: b.Y}, nil
}

// SetPosition implements placement.Runtime.
func (r *WindowRuntime) SetPosition(ctx context.Context, pos placement.Position) error {
	win, err := r.window(ctx)
	if err != nil {
		return err
	}
	return r.backend.Move(win, pos.X, pos.Y)
}

// SetAlwaysOnTop implements placement.Runtime.
func (r *WindowRuntime) SetAlwaysOnTop(ctx context.Context, onTop bool) error {
	win, err := r.window(ctx)
	if err != nil {
		return err
	}
	return r.backend.SetAbove(win, onTop)
}

// StartDragging hands the window to the window manager's move and waits for
// the primary button to be released.
func (r *WindowRuntime) StartDragging(ctx context.Context) error {
	win, err := r.window(ctx)
	if err != nil {
		return err
	}
	if err := r.backend.BeginMove(win); err != nil {
		return fmt.Errorf("begin move: %w", err)
	}

	ticker := time.NewTicker(r.opts.DragPoll)
	defer ticker.Stop()
	for {
		held, err := r.backend.ButtonHeld()
		if err != nil {
			return fmt.Errorf("query pointer: %w", err)
		}
		if !held {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// PrimaryScreen implements placement.Runtime.
func (r *WindowRuntime) PrimaryScreen(ctx context.Context) (placement.Screen, error) {
	if err := ctx.Err(); err != nil {
		return placement.Screen{}, err
	}
	d, err := r.backend.PrimaryDisplay(r.opts.RespectWorkArea)
	if err != nil {
		return placement.Screen{}, err
	}
	area := d.Bounds
	if r.opts.RespectWorkArea {
		area = d.Usable
	}
	return placement.Screen{X: area.X, Y: area.Y, Width: area.Width, Height: area.Height}, nil
}
