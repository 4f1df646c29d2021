package placement

import (
	"fmt"
	"strings"
)

const (
	// DefaultMargin is the gap kept between a snapped window and the screen edge.
	DefaultMargin = 20
	// DefaultDockMargin keeps the startup position clear of taskbars and docks.
	DefaultDockMargin = 50
)

// Position is the top-left corner of a window in physical pixels.
type Position struct {
	X int
	Y int
}

func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Size is the outer (frame-inclusive) extent of a window in physical pixels.
type Size struct {
	Width  int
	Height int
}

// Valid reports whether both extents are positive.
func (s Size) Valid() bool {
	return s.Width > 0 && s.Height > 0
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Screen is the geometry of the primary display. X and Y give the display
// origin within the virtual desktop.
type Screen struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Valid reports whether the display has a usable extent.
func (s Screen) Valid() bool {
	return s.Width > 0 && s.Height > 0
}

func (s Screen) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", s.Width, s.Height, s.X, s.Y)
}

// Anchor names a screen corner.
type Anchor int

const (
	TopLeft Anchor = iota
	TopRight
	BottomLeft
	BottomRight
)

// Anchors returns every anchor in declaration order.
func Anchors() []Anchor {
	return []Anchor{TopLeft, TopRight, BottomLeft, BottomRight}
}

// String returns the string representation of the anchor
func (a Anchor) String() string {
	switch a {
	case TopLeft:
		return "top-left"
	case TopRight:
		return "top-right"
	case BottomLeft:
		return "bottom-left"
	case BottomRight:
		return "bottom-right"
	default:
		return "unknown"
	}
}

func (a Anchor) right() bool  { return a == TopRight || a == BottomRight }
func (a Anchor) bottom() bool { return a == BottomLeft || a == BottomRight }

// ParseAnchor parses names like "bottom-right" or "br".
func ParseAnchor(s string) (Anchor, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "top-left", "topleft", "tl":
		return TopLeft, nil
	case "top-right", "topright", "tr":
		return TopRight, nil
	case "bottom-left", "bottomleft", "bl":
		return BottomLeft, nil
	case "bottom-right", "bottomright", "br":
		return BottomRight, nil
	default:
		return 0, fmt.Errorf("unknown anchor %q (expected top-left, top-right, bottom-left or bottom-right)", s)
	}
}

// ComputeCorner returns the top-left coordinate that places a window of the
// given size at anchor, margin pixels from the screen edges. Offsets are
// clamped so an oversized window never lands left of or above the display.
func ComputeCorner(anchor Anchor, window Size, screen Screen, margin int) Position {
	x := margin
	y := margin
	if anchor.right() {
		x = screen.Width - window.Width - margin
	}
	if anchor.bottom() {
		y = screen.Height - window.Height - margin
	}

	return Position{
		X: screen.X + clampNonNegative(x),
		Y: screen.Y + clampNonNegative(y),
	}
}

// ComputeInitialDock returns the startup position: flush left, lifted
// DefaultDockMargin pixels off the bottom edge.
func ComputeInitialDock(window Size, screen Screen) Position {
	return ComputeDock(window, screen, DefaultDockMargin)
}

// ComputeDock is ComputeInitialDock with an explicit bottom reservation.
func ComputeDock(window Size, screen Screen, dockMargin int) Position {
	return Position{
		X: screen.X,
		Y: screen.Y + clampNonNegative(screen.Height-window.Height-dockMargin),
	}
}

func clampNonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
