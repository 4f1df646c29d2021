package x11

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// Rect is a window rectangle in root coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// FrameExtents are the decoration sizes the window manager adds around a client.
type FrameExtents struct {
	Left   int
	Right  int
	Top    int
	Bottom int
}

// Outer grows a client rectangle by the frame extents.
func (e FrameExtents) Outer(client Rect) Rect {
	return Rect{
		X:      client.X - e.Left,
		Y:      client.Y - e.Top,
		Width:  client.Width + e.Left + e.Right,
		Height: client.Height + e.Top + e.Bottom,
	}
}

// _NET_WM_MOVERESIZE direction for a keyboard-less move.
const moveResizeMove = 8

// FindWindowByTitle searches the EWMH client list for a window whose
// _NET_WM_NAME contains the given substring. Returns the first match.
func (c *Connection) FindWindowByTitle(substring string) (xproto.Window, error) {
	if substring == "" {
		return 0, fmt.Errorf("window title is empty")
	}
	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return 0, fmt.Errorf("failed to get client list: %w", err)
	}
	for _, win := range clients {
		name, err := ewmh.WmNameGet(c.XUtil, win)
		if err != nil {
			continue
		}
		if strings.Contains(name, substring) {
			return win, nil
		}
	}
	return 0, fmt.Errorf("no window found with title containing %q", substring)
}

// ClientGeometry returns the client area in root coordinates, without
// decorations.
func (c *Connection) ClientGeometry(windowID xproto.Window) (Rect, error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return Rect{}, fmt.Errorf("get geometry: %w", err)
	}

	translate, err := xproto.TranslateCoordinates(
		c.XUtil.Conn(),
		windowID,
		c.Root,
		0, 0,
	).Reply()
	if err != nil {
		return Rect{}, fmt.Errorf("translate coordinates: %w", err)
	}

	return Rect{
		X:      int(translate.DstX),
		Y:      int(translate.DstY),
		Width:  int(geom.Width),
		Height: int(geom.Height),
	}, nil
}

// GetFrameExtents returns the window decoration sizes, or zeros when the
// window manager does not publish them (undecorated windows).
func (c *Connection) GetFrameExtents(windowID xproto.Window) FrameExtents {
	extents, err := ewmh.FrameExtentsGet(c.XUtil, windowID)
	if err != nil {
		return FrameExtents{}
	}
	return FrameExtents{
		Left:   int(extents.Left),
		Right:  int(extents.Right),
		Top:    int(extents.Top),
		Bottom: int(extents.Bottom),
	}
}

// DecorGeometry returns the frame-inclusive window rectangle.
func (c *Connection) DecorGeometry(windowID xproto.Window) (Rect, error) {
	client, err := c.ClientGeometry(windowID)
	if err != nil {
		return Rect{}, err
	}
	return c.GetFrameExtents(windowID).Outer(client), nil
}

// MoveWindow places the frame's top-left corner at (x, y).
func (c *Connection) MoveWindow(windowID xproto.Window, x, y int) error {
	if err := ewmh.MoveWindow(c.XUtil, windowID, x, y); err != nil {
		// Fallback to direct window manipulation
		xwindow.New(c.XUtil, windowID).Move(x, y)
	}
	return nil
}

// SetAbove adds or removes _NET_WM_STATE_ABOVE.
func (c *Connection) SetAbove(windowID xproto.Window, above bool) error {
	action := 0
	if above {
		action = 1
	}
	if err := ewmh.WmStateReq(c.XUtil, windowID, action, "_NET_WM_STATE_ABOVE"); err != nil {
		return fmt.Errorf("failed to request _NET_WM_STATE_ABOVE: %w", err)
	}
	return nil
}

// PointerPosition returns the pointer's root coordinates and whether the
// primary button is held.
func (c *Connection) PointerPosition() (x, y int, buttonDown bool, err error) {
	pointer, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return 0, 0, false, fmt.Errorf("query pointer: %w", err)
	}
	return int(pointer.RootX), int(pointer.RootY), pointer.Mask&xproto.KeyButMaskButton1 != 0, nil
}

// PointerButtonDown reports whether the primary button is held.
func (c *Connection) PointerButtonDown() (bool, error) {
	_, _, down, err := c.PointerPosition()
	return down, err
}

// StartMoveResize hands an interactive move of the window to the window
// manager, anchored at the pointer's current position. Any pointer grab is
// released first so the window manager can take the pointer.
func (c *Connection) StartMoveResize(windowID xproto.Window, button int) error {
	x, y, _, err := c.PointerPosition()
	if err != nil {
		return err
	}

	if err := xproto.UngrabPointerChecked(c.XUtil.Conn(), xproto.TimeCurrentTime).Check(); err != nil {
		return fmt.Errorf("ungrab pointer: %w", err)
	}

	return c.sendRootMessage(windowID, "_NET_WM_MOVERESIZE", moveResizeData(x, y, button))
}

func moveResizeData(rootX, rootY, button int) []uint32 {
	const sourceIndication = 1 // normal application
	return []uint32{uint32(rootX), uint32(rootY), moveResizeMove, uint32(button), sourceIndication}
}

// sendRootMessage sends an EWMH client message about windowID to the root
// window.
func (c *Connection) sendRootMessage(windowID xproto.Window, atomName string, data []uint32) error {
	atomReply, err := xproto.InternAtom(c.XUtil.Conn(), false, uint16(len(atomName)), atomName).Reply()
	if err != nil {
		return fmt.Errorf("failed to intern %s: %w", atomName, err)
	}

	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: windowID,
		Type:   atomReply.Atom,
		Data:   xproto.ClientMessageDataUnionData32New(data),
	}

	return xproto.SendEventChecked(
		c.XUtil.Conn(),
		false,
		c.Root,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify,
		string(ev.Bytes()),
	).Check()
}
