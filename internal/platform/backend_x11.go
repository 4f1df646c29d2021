package platform

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"

	"github.com/1broseidon/ghostdock/internal/x11"
)

// X11Backend wraps an existing X11 connection behind the platform Backend interface.
type X11Backend struct {
	conn *x11.Connection
}

var _ Backend = (*X11Backend)(nil)

// NewX11Backend creates a backend from an existing X11 connection.
func NewX11Backend(conn *x11.Connection) *X11Backend {
	return &X11Backend{conn: conn}
}

// NewX11BackendFromDisplay opens a fresh X11 connection to display
// ($DISPLAY when empty).
func NewX11BackendFromDisplay(display string) (*X11Backend, error) {
	conn, err := x11.NewConnection(display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &X11Backend{conn: conn}, nil
}

// Disconnect closes the underlying X11 connection.
func (b *X11Backend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// EventLoop starts the X11 event loop (blocking).
func (b *X11Backend) EventLoop() {
	if b != nil && b.conn != nil {
		b.conn.EventLoop()
	}
}

// StopEventLoop makes a running EventLoop return.
func (b *X11Backend) StopEventLoop() {
	if b != nil && b.conn != nil {
		b.conn.Quit()
	}
}

// XUtil returns the underlying xgbutil connection for X11-specific operations.
func (b *X11Backend) XUtil() *xgbutil.XUtil {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil
}

// RootWindow returns the X11 root window ID.
func (b *X11Backend) RootWindow() xproto.Window {
	if b == nil || b.conn == nil {
		return 0
	}
	return b.conn.Root
}

// PrimaryDisplay returns the primary display.
func (b *X11Backend) PrimaryDisplay(respectWorkArea bool) (Display, error) {
	conn, err := b.connection()
	if err != nil {
		return Display{}, err
	}

	full, err := conn.PrimaryMonitor(false)
	if err != nil {
		return Display{}, err
	}
	d := displayFromMonitor(*full)

	if respectWorkArea {
		usable, err := conn.PrimaryMonitor(true)
		if err != nil {
			return Display{}, err
		}
		d.Usable = rectFromMonitor(*usable)
	}
	return d, nil
}

// FindWindow returns the first client whose title contains title.
func (b *X11Backend) FindWindow(title string) (WindowID, error) {
	conn, err := b.connection()
	if err != nil {
		return 0, err
	}
	win, err := conn.FindWindowByTitle(title)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrWindowNotFound, err)
	}
	return WindowID(win), nil
}

// FrameBounds returns the frame-inclusive window rectangle.
func (b *X11Backend) FrameBounds(windowID WindowID) (Rect, error) {
	conn, err := b.connection()
	if err != nil {
		return Rect{}, err
	}
	r, err := conn.DecorGeometry(xproto.Window(windowID))
	if err != nil {
		return Rect{}, err
	}
	return Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}, nil
}

// Move places the window frame at (x, y).
func (b *X11Backend) Move(windowID WindowID, x, y int) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.MoveWindow(xproto.Window(windowID), x, y)
}

// SetAbove toggles the keep-above state.
func (b *X11Backend) SetAbove(windowID WindowID, above bool) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.SetAbove(xproto.Window(windowID), above)
}

// BeginMove asks the window manager to move the window with button 1.
func (b *X11Backend) BeginMove(windowID WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.StartMoveResize(xproto.Window(windowID), 1)
}

// ButtonHeld reports whether button 1 is down.
func (b *X11Backend) ButtonHeld() (bool, error) {
	conn, err := b.connection()
	if err != nil {
		return false, err
	}
	return conn.PointerButtonDown()
}

func (b *X11Backend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	return b.conn, nil
}

func rectFromMonitor(m x11.Monitor) Rect {
	return Rect{
		X:      m.X,
		Y:      m.Y,
		Width:  m.Width,
		Height: m.Height,
	}
}

func displayFromMonitor(m x11.Monitor) Display {
	bounds := rectFromMonitor(m)
	return Display{
		ID:      m.ID,
		Name:    m.Name,
		Bounds:  bounds,
		Usable:  bounds,
		Primary: m.Primary,
	}
}
