package ghost

import (
	"context"
	"testing"

	"github.com/1broseidon/ghostdock/internal/chromakey"
	"github.com/1broseidon/ghostdock/internal/gesture"
	"github.com/1broseidon/ghostdock/internal/ipc"
	"github.com/1broseidon/ghostdock/internal/placement"
	"github.com/1broseidon/ghostdock/internal/pose"
)

func newTestApp(t *testing.T, win *fakeWindow, src pose.Source, count int) *App {
	t.Helper()
	opts := Options{
		SessionID: "test-session",
		Placement: placement.Options{Margin: placement.DefaultMargin, DockMargin: placement.DefaultDockMargin},
		DeadZone:  -1,
	}
	a, err := newApp(win, newTestSet(t, src, count), opts, discardLogger())
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	t.Cleanup(a.Close)
	return a
}

// pump runs the game loop's command queue until fn returns.
func pump(t *testing.T, a *App, fn func()) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
	}()
	waitFor(t, func() bool {
		a.game.drainCommands()
		select {
		case <-done:
			return true
		default:
			return false
		}
	})
}

func TestNewApp_RequiresPoses(t *testing.T) {
	if _, err := newApp(newFakeWindow(), nil, Options{}, discardLogger()); err == nil {
		t.Fatalf("expected error without a pose set")
	}
}

func TestApp_SnapAndDock(t *testing.T) {
	win := newFakeWindow()
	a := newTestApp(t, win, mapSource{}, 1)
	ctx := context.Background()

	pos, err := a.Snap(ctx, placement.BottomRight)
	if err != nil {
		t.Fatalf("Snap: %v", err)
	}
	if pos != (placement.Position{X: 1700, Y: 760}) {
		t.Fatalf("expected (1700, 760), got %s", pos)
	}

	pos, err = a.Dock(ctx)
	if err != nil {
		t.Fatalf("Dock: %v", err)
	}
	if pos != (placement.Position{X: 0, Y: 730}) {
		t.Fatalf("expected (0, 730), got %s", pos)
	}
	if x, y := win.Position(); x != 0 || y != 730 {
		t.Fatalf("expected window at (0, 730), got (%d, %d)", x, y)
	}
}

func TestApp_Topmost(t *testing.T) {
	win := newFakeWindow()
	a := newTestApp(t, win, mapSource{}, 1)
	ctx := context.Background()

	enabled, err := a.ToggleTopmost(ctx)
	if err != nil || enabled {
		t.Fatalf("expected toggle to disable, got %v err %v", enabled, err)
	}
	enabled, err = a.SetTopmost(ctx, true)
	if err != nil || !enabled {
		t.Fatalf("expected enabled, got %v err %v", enabled, err)
	}
	if !win.floating {
		t.Fatalf("expected window floating")
	}
}

func TestApp_NextPoseRunsOnGameLoop(t *testing.T) {
	win := newFakeWindow()
	src := mapSource{0: solid(100, 100), 1: solid(100, 140)}
	a := newTestApp(t, win, src, 2)

	var data ipc.PoseData
	var err error
	pump(t, a, func() { data, err = a.NextPose(context.Background()) })
	if err != nil {
		t.Fatalf("NextPose: %v", err)
	}
	if data.Index != 1 || data.Count != 2 || data.FellBack || data.NoSprite {
		t.Fatalf("unexpected pose data %+v", data)
	}
	if w, h := win.Size(); w != 105 || h != 147 {
		t.Fatalf("expected padded window 105x147, got %dx%d", w, h)
	}

	pump(t, a, func() { data, err = a.NextPose(context.Background()) })
	if err != nil || data.Index != 0 {
		t.Fatalf("expected wrap to pose 0, got %+v err %v", data, err)
	}
}

func TestApp_SetPoseFallsBack(t *testing.T) {
	a := newTestApp(t, newFakeWindow(), mapSource{0: solid(10, 10)}, 3)

	var data ipc.PoseData
	var err error
	pump(t, a, func() { data, err = a.SetPose(context.Background(), 2) })
	if err != nil {
		t.Fatalf("SetPose: %v", err)
	}
	if data.Index != 0 || !data.FellBack {
		t.Fatalf("expected fallback to pose 0, got %+v", data)
	}

	pump(t, a, func() { data, err = a.SetPose(context.Background(), 7) })
	if err != nil || data.Index != 0 || !data.FellBack {
		t.Fatalf("expected out of range pose to fall back, got %+v err %v", data, err)
	}
}

func TestApp_PoseCallHonoursContext(t *testing.T) {
	a := newTestApp(t, newFakeWindow(), mapSource{}, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := a.NextPose(ctx); err == nil {
		t.Fatalf("expected error when the game loop never answers")
	}
}

func TestApp_NoSprite(t *testing.T) {
	win := newFakeWindow()
	a := newTestApp(t, win, failingSource{}, 12)

	data := a.game.showPose(5)
	if !data.NoSprite || data.Index != 0 {
		t.Fatalf("expected no sprite with index reset to 0, got %+v", data)
	}
	if len(win.sizeCalls()) != 0 {
		t.Fatalf("window must keep its size without a sprite")
	}

	status, err := a.Status(context.Background())
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if !status.NoSprite || status.Pose != 0 {
		t.Fatalf("unexpected status %+v", status)
	}
}

func TestApp_Status(t *testing.T) {
	a := newTestApp(t, newFakeWindow(), mapSource{}, 4)
	if _, err := a.Snap(context.Background(), placement.TopLeft); err != nil {
		t.Fatalf("Snap: %v", err)
	}

	status, err := a.Status(context.Background())
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status.SessionID != "test-session" || status.Backend != "ebiten" || status.Ghost != pose.DefaultGhost {
		t.Fatalf("unexpected identity %+v", status)
	}
	if status.PoseCount != 4 || !status.AlwaysOnTop || status.Dragging {
		t.Fatalf("unexpected state %+v", status)
	}
	if !status.PositionKnown || status.X != 20 || status.Y != 20 {
		t.Fatalf("expected known position (20, 20), got %+v", status)
	}
}

func TestGame_ClickAdvancesPose(t *testing.T) {
	a := newTestApp(t, newFakeWindow(), mapSource{0: solid(8, 8), 1: solid(8, 8)}, 2)
	g := a.game

	g.handlePointer(pointer{x: 10, y: 10, justPressed: true})
	g.handlePointer(pointer{x: 12, y: 11, justReleased: true})
	if got := a.poses.Current(); got != 1 {
		t.Fatalf("expected click to advance to pose 1, got %d", got)
	}
}

func TestGame_ClickIgnoredWhileDragging(t *testing.T) {
	a := newTestApp(t, newFakeWindow(), mapSource{0: solid(8, 8), 1: solid(8, 8)}, 2)
	g := a.game
	ctrl := a.disp.Controller()

	ctrl.BeginDrag()
	g.handlePointer(pointer{x: 10, y: 10, justPressed: true})
	g.handlePointer(pointer{x: 10, y: 10, justReleased: true})
	ctrl.EndDrag()

	if got := a.poses.Current(); got != 0 {
		t.Fatalf("expected pose unchanged during drag, got %d", got)
	}
}

func TestGame_DragGoesThroughDispatcher(t *testing.T) {
	win := newFakeWindow()
	win.x, win.y = 100, 100
	a := newTestApp(t, win, mapSource{0: solid(8, 8)}, 1)
	ctrl := a.disp.Controller()

	win.setCursor(110, 110, true)
	a.game.frame(pointer{x: 10, y: 10, pressed: true, justPressed: true})
	a.game.frame(pointer{x: 30, y: 10, pressed: true})
	if a.game.gesture.Phase() != gesture.PhaseDragging {
		t.Fatalf("expected drag gesture, got %s", a.game.gesture.Phase())
	}
	waitFor(t, func() bool { return ctrl.Snapshot().Dragging && a.game.rt.Dragging() })

	a.game.frame(pointer{x: 30, y: 10, justReleased: true})
	waitFor(t, func() bool { return !ctrl.Snapshot().Dragging })
	waitFor(t, func() bool {
		a.game.drainCommands()
		return a.game.gesture.Phase() == gesture.PhaseIdle
	})
	if got := a.poses.Current(); got != 0 {
		t.Fatalf("drag must not change pose, got %d", got)
	}
}

func TestGame_DragKeepsPressPointUnderCursor(t *testing.T) {
	win := newFakeWindow()
	win.x, win.y = 100, 100
	a := newTestApp(t, win, mapSource{0: solid(8, 8)}, 1)

	win.setCursor(110, 110, true)
	a.game.frame(pointer{x: 10, y: 10, pressed: true, justPressed: true})
	// Leaves the 4px dead zone at (15, 10).
	a.game.frame(pointer{x: 15, y: 10, pressed: true})
	waitFor(t, a.game.rt.Dragging)

	a.game.frame(pointer{x: 15, y: 10, pressed: true})
	if x, y := win.Position(); x != 105 || y != 100 {
		t.Fatalf("expected the press point to catch up with the cursor at (105, 100), got (%d, %d)", x, y)
	}

	a.game.frame(pointer{x: 10, y: 10, justReleased: true})
	waitFor(t, func() bool { return !a.disp.Controller().Snapshot().Dragging })
}

func TestGame_TickFollowsDragState(t *testing.T) {
	a := newTestApp(t, newFakeWindow(), mapSource{}, 1)
	g := a.game

	a.disp.Controller().BeginDrag()
	g.tick(FeedbackDuration * 2)
	if !near(g.feedback.Scale(), DragScale) {
		t.Fatalf("expected drag scale, got %v", g.feedback.Scale())
	}

	a.disp.Controller().EndDrag()
	g.tick(FeedbackDuration * 2)
	if !near(g.feedback.Scale(), 1) {
		t.Fatalf("expected resting scale, got %v", g.feedback.Scale())
	}
}

func TestPaddedSize(t *testing.T) {
	tests := []struct {
		w, h   int
		ww, wh int
	}{
		{100, 100, 105, 105},
		{200, 300, 210, 315},
		{1, 1, 2, 2},
		{0, 0, 0, 0},
	}
	for _, tt := range tests {
		if w, h := paddedSize(tt.w, tt.h); w != tt.ww || h != tt.wh {
			t.Errorf("paddedSize(%d, %d) = %dx%d, want %dx%d", tt.w, tt.h, w, h, tt.ww, tt.wh)
		}
	}
}

func TestSetSprite_SkipsResizeWhenUnchanged(t *testing.T) {
	win := newFakeWindow()
	win.w, win.h = 105, 105
	a := newTestApp(t, win, mapSource{}, 1)

	a.game.setSprite(chromakey.NewBitmap(100, 100))
	if len(win.sizeCalls()) != 0 {
		t.Fatalf("expected no resize, got %v", win.sizeCalls())
	}
	if a.game.NoSprite() {
		t.Fatalf("expected sprite to be set")
	}
}
