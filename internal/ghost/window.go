package ghost

import "github.com/hajimehoshi/ebiten/v2"

// window is the slice of ebiten's window API the runtime uses. Coordinates
// are device-independent pixels.
type window interface {
	Position() (x, y int)
	SetPosition(x, y int)
	Size() (w, h int)
	SetSize(w, h int)
	SetFloating(floating bool)
	ScaleFactor() float64
	// ScreenSize returns the primary monitor size.
	ScreenSize() (w, h int)
	Cursor() (x, y int)
	ButtonPressed() bool
}

type ebitenWindow struct{}

func (ebitenWindow) Position() (int, int) { return ebiten.WindowPosition() }
func (ebitenWindow) SetPosition(x, y int) { ebiten.SetWindowPosition(x, y) }
func (ebitenWindow) Size() (int, int) { return ebiten.WindowSize() }
func (ebitenWindow) SetSize(w, h int) { ebiten.SetWindowSize(w, h) }
func (ebitenWindow) SetFloating(floating bool) { ebiten.SetWindowFloating(floating) }
func (ebitenWindow) Cursor() (int, int) { return ebiten.CursorPosition() }

func (ebitenWindow) ButtonPressed() bool {
	return ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
}

func (ebitenWindow) ScaleFactor() float64 {
	if m := ebiten.Monitor(); m != nil {
		return m.DeviceScaleFactor()
	}
	return 1
}

func (ebitenWindow) ScreenSize() (int, int) {
	if m := primaryMonitor(); m != nil {
		return m.Size()
	}
	return 0, 0
}

// primaryMonitor returns the first monitor ebiten reports, which GLFW orders
// primary-first.
func primaryMonitor() *ebiten.MonitorType {
	monitors := ebiten.AppendMonitors(nil)
	if len(monitors) == 0 {
		return ebiten.Monitor()
	}
	return monitors[0]
}
