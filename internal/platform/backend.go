package platform

import "errors"

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Display describes a physical display. Usable excludes panels and docks
// when the work area was requested.
type Display struct {
	ID      int
	Name    string
	Bounds  Rect
	Usable  Rect
	Primary bool
}

// ErrWindowNotFound is returned while the ghost window is not mapped yet.
var ErrWindowNotFound = errors.New("ghost window not found")

// Backend abstracts the window-system operations the ghost needs.
type Backend interface {
	PrimaryDisplay(respectWorkArea bool) (Display, error)
	FindWindow(title string) (WindowID, error)
	// FrameBounds returns the window rectangle including decorations.
	FrameBounds(windowID WindowID) (Rect, error)
	Move(windowID WindowID, x, y int) error
	SetAbove(windowID WindowID, above bool) error
	// BeginMove starts a window-manager driven move under the pointer.
	BeginMove(windowID WindowID) error
	// ButtonHeld reports whether the primary pointer button is down.
	ButtonHeld() (bool, error)
}
