// Package placement positions the floating ghost window: corner snapping,
// the startup dock position, native drag gestures and the always-on-top flag.
//
// A Controller is confined to a single execution context. Run every
// operation through a Dispatcher; only Snapshot may be called from other
// goroutines.
package placement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// ErrGeometryUnavailable is returned when the runtime reports a degenerate
// window or screen size, typically before the window's first layout pass.
var ErrGeometryUnavailable = errors.New("window geometry unavailable")

// ErrPositionUnconfirmed is returned alongside the requested position when a
// move was applied but the runtime could not report where the window ended up.
var ErrPositionUnconfirmed = errors.New("window position unconfirmed")

// DefaultStartupDelay is how long initial placement waits for the window to
// report a real size when the runtime has no readiness signal.
const DefaultStartupDelay = 100 * time.Millisecond

// State mirrors what the runtime last confirmed about the window.
type State struct {
	Dragging    bool
	AlwaysOnTop bool
	// LastKnown is only meaningful when Known is true.
	LastKnown Position
	Known     bool
}

// Options tunes a Controller. Margins come from configuration; a zero
// StartupDelay selects DefaultStartupDelay.
type Options struct {
	Margin       int
	DockMargin   int
	StartupDelay time.Duration
	// WaitForReady prefers the runtime's readiness signal over StartupDelay.
	WaitForReady bool
	// AlwaysOnTop is the flag the window is created with. Nil means true.
	AlwaysOnTop *bool
}

func (o Options) withDefaults() Options {
	if o.Margin < 0 {
		o.Margin = 0
	}
	if o.DockMargin < 0 {
		o.DockMargin = 0
	}
	if o.StartupDelay <= 0 {
		o.StartupDelay = DefaultStartupDelay
	}
	return o
}

func (o Options) initialAlwaysOnTop() bool {
	if o.AlwaysOnTop == nil {
		return true
	}
	return *o.AlwaysOnTop
}

// Controller computes target positions and drives the runtime.
type Controller struct {
	rt     Runtime
	opts   Options
	logger *slog.Logger

	mu    sync.RWMutex
	state State
}

// New creates a controller bound to the given window runtime.
func New(rt Runtime, opts Options, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Controller{
		rt:     rt,
		opts:   opts.withDefaults(),
		logger: logger,
	}
	c.Reset()
	return c
}

// Options returns the effective options.
func (c *Controller) Options() Options {
	return c.opts
}

// Snapshot returns a copy of the current state. Safe for concurrent use.
func (c *Controller) Snapshot() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Reset restores the state a freshly created window starts with.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.state = State{AlwaysOnTop: c.opts.initialAlwaysOnTop()}
	c.mu.Unlock()
}

func (c *Controller) update(fn func(*State)) {
	c.mu.Lock()
	fn(&c.state)
	c.mu.Unlock()
}

// MoveTo requests pos and returns the position the runtime actually applied.
// The two may differ (window manager clamping, monitor layout); a mismatch
// is logged, not treated as an error. When the position cannot be read back,
// pos is returned with an error wrapping ErrPositionUnconfirmed.
func (c *Controller) MoveTo(ctx context.Context, pos Position) (Position, error) {
	if err := c.rt.SetPosition(ctx, pos); err != nil {
		c.logger.Error("failed to move window", "target", pos.String(), "error", err)
		return Position{}, fmt.Errorf("set position: %w", err)
	}

	actual, err := c.rt.OuterPosition(ctx)
	if err != nil {
		c.logger.Warn("moved window but could not read back position", "target", pos.String(), "error", err)
		return pos, fmt.Errorf("%w: outer position: %w", ErrPositionUnconfirmed, err)
	}

	c.update(func(s *State) {
		s.LastKnown = actual
		s.Known = true
	})

	if actual != pos {
		c.logger.Info("window moved with adjustment", "target", pos.String(), "actual", actual.String())
	} else {
		c.logger.Debug("window moved", "target", pos.String(), "actual", actual.String())
	}
	return actual, nil
}

// RefreshPosition reads the window position back from the runtime, picking
// up moves made outside the controller such as window manager placement.
func (c *Controller) RefreshPosition(ctx context.Context) (Position, error) {
	actual, err := c.rt.OuterPosition(ctx)
	if err != nil {
		return Position{}, fmt.Errorf("outer position: %w", err)
	}

	prev := c.Snapshot()
	c.update(func(s *State) {
		s.LastKnown = actual
		s.Known = true
	})
	if !prev.Known || prev.LastKnown != actual {
		c.logger.Debug("window position refreshed", "position", actual.String())
	}
	return actual, nil
}

// SnapTo moves the window to the given screen corner.
func (c *Controller) SnapTo(ctx context.Context, anchor Anchor) (Position, error) {
	window, screen, err := c.geometry(ctx)
	if err != nil {
		c.logger.Warn("skipping snap", "anchor", anchor.String(), "error", err)
		return Position{}, err
	}

	target := ComputeCorner(anchor, window, screen, c.opts.Margin)
	c.logger.Info("snapping window",
		"anchor", anchor.String(),
		"target", target.String(),
		"screen", screen.String(),
		"window", window.String())
	return c.MoveTo(ctx, target)
}

// PlaceInitial moves the window to its startup dock position.
func (c *Controller) PlaceInitial(ctx context.Context) (Position, error) {
	window, screen, err := c.geometry(ctx)
	if err != nil {
		c.logger.Warn("skipping initial placement", "error", err)
		return Position{}, err
	}

	if current, err := c.rt.OuterPosition(ctx); err == nil {
		c.logger.Debug("current window position", "position", current.String())
	}

	target := ComputeDock(window, screen, c.opts.DockMargin)
	c.logger.Info("docking window",
		"target", target.String(),
		"screen", screen.String(),
		"window", window.String())
	return c.MoveTo(ctx, target)
}

func (c *Controller) geometry(ctx context.Context) (Size, Screen, error) {
	window, err := c.rt.OuterSize(ctx)
	if err != nil {
		return Size{}, Screen{}, fmt.Errorf("outer size: %w", err)
	}
	if !window.Valid() {
		return Size{}, Screen{}, fmt.Errorf("%w: window %s", ErrGeometryUnavailable, window)
	}

	screen, err := c.rt.PrimaryScreen(ctx)
	if err != nil {
		return Size{}, Screen{}, fmt.Errorf("primary screen: %w", err)
	}
	if !screen.Valid() {
		return Size{}, Screen{}, fmt.Errorf("%w: screen %s", ErrGeometryUnavailable, screen)
	}
	return window, screen, nil
}

// BeginDrag marks a drag gesture as in progress. Pair every call with EndDrag.
func (c *Controller) BeginDrag() {
	c.update(func(s *State) { s.Dragging = true })
}

// EndDrag clears the dragging flag.
func (c *Controller) EndDrag() {
	c.update(func(s *State) { s.Dragging = false })
}

// Drag runs a native drag-move gesture. The dragging flag is cleared on every
// exit path, including errors and panics from the runtime.
func (c *Controller) Drag(ctx context.Context) error {
	c.BeginDrag()
	defer c.EndDrag()

	c.logger.Debug("starting window drag")
	if err := c.rt.StartDragging(ctx); err != nil {
		c.logger.Error("failed to drag window", "error", err)
		return fmt.Errorf("start dragging: %w", err)
	}

	if actual, err := c.rt.OuterPosition(ctx); err == nil {
		c.update(func(s *State) {
			s.LastKnown = actual
			s.Known = true
		})
		c.logger.Debug("drag finished", "position", actual.String())
	}
	return nil
}

// SetAlwaysOnTop changes the topmost flag. State follows only a successful
// runtime call.
func (c *Controller) SetAlwaysOnTop(ctx context.Context, onTop bool) error {
	if err := c.rt.SetAlwaysOnTop(ctx, onTop); err != nil {
		c.logger.Error("failed to set always on top", "enabled", onTop, "error", err)
		return fmt.Errorf("set always on top: %w", err)
	}
	c.update(func(s *State) { s.AlwaysOnTop = onTop })
	c.logger.Info("always on top changed", "enabled", onTop)
	return nil
}

// ToggleAlwaysOnTop flips the topmost flag and returns the new value.
func (c *Controller) ToggleAlwaysOnTop(ctx context.Context) (bool, error) {
	next := !c.Snapshot().AlwaysOnTop
	if err := c.SetAlwaysOnTop(ctx, next); err != nil {
		return !next, err
	}
	return next, nil
}
