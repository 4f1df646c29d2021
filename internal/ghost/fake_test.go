package ghost

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/1broseidon/ghostdock/internal/chromakey"
	"github.com/1broseidon/ghostdock/internal/pose"
)

// fakeWindow models a window on a desktop. The cursor is tracked in desktop
// coordinates and reported relative to the window, like ebiten does. With
// lazyInput the relative cursor only changes on refreshInput, the way ebiten
// samples input once per tick.
type fakeWindow struct {
	mu       sync.Mutex
	x, y     int
	w, h     int
	scale    float64
	screenW  int
	screenH  int
	cursorX  int
	cursorY  int
	pressed  bool
	floating bool
	sizes    [][2]int

	lazyInput  bool
	relX, relY int
	moves      int
}

func newFakeWindow() *fakeWindow {
	return &fakeWindow{w: 200, h: 300, scale: 1, screenW: 1920, screenH: 1080}
}

func (f *fakeWindow) Position() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.x, f.y
}

func (f *fakeWindow) SetPosition(x, y int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.x, f.y = x, y
	f.moves++
}

func (f *fakeWindow) Size() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.w, f.h
}

func (f *fakeWindow) SetSize(w, h int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.w, f.h = w, h
	f.sizes = append(f.sizes, [2]int{w, h})
}

func (f *fakeWindow) SetFloating(floating bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.floating = floating
}

func (f *fakeWindow) ScaleFactor() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.scale
}

func (f *fakeWindow) ScreenSize() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.screenW, f.screenH
}

func (f *fakeWindow) Cursor() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lazyInput {
		return f.relX, f.relY
	}
	return f.cursorX - f.x, f.cursorY - f.y
}

// refreshInput samples the cursor relative to the current window position.
func (f *fakeWindow) refreshInput() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.relX, f.relY = f.cursorX-f.x, f.cursorY-f.y
}

// input returns one frame of pointer input as the game loop would see it.
func (f *fakeWindow) input() pointer {
	x, y := f.Cursor()
	return pointer{x: float64(x), y: float64(y), pressed: f.ButtonPressed()}
}

func (f *fakeWindow) moveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.moves
}

func (f *fakeWindow) ButtonPressed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pressed
}

func (f *fakeWindow) setCursor(x, y int, pressed bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cursorX, f.cursorY = x, y
	f.pressed = pressed
}

func (f *fakeWindow) sizeCalls() [][2]int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][2]int(nil), f.sizes...)
}

type mapSource map[int]*chromakey.Bitmap

func (m mapSource) Load(_ string, index int) (*chromakey.Bitmap, error) {
	if bmp, ok := m[index]; ok {
		return bmp.Clone(), nil
	}
	return nil, pose.ErrNotFound
}

type failingSource struct{}

func (failingSource) Load(string, int) (*chromakey.Bitmap, error) {
	return nil, errors.New("disk on fire")
}

func solid(w, h int) *chromakey.Bitmap {
	bmp := chromakey.NewBitmap(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			bmp.Set(x, y, 120, 80, 200, 255)
		}
	}
	return bmp
}

func newTestSet(t *testing.T, src pose.Source, count int) *pose.Set {
	t.Helper()
	opts := pose.DefaultOptions()
	opts.Count = count
	set, err := pose.NewSet(src, opts, discardLogger())
	if err != nil {
		t.Fatalf("NewSet: %v", err)
	}
	return set
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met before deadline")
}
