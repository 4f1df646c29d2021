package x11

import (
	"testing"

	"github.com/BurntSushi/xgbutil/ewmh"
)

func TestSelectPrimary(t *testing.T) {
	left := Monitor{ID: 0, Name: "DP-1", X: -1920, Y: 0, Width: 1920, Height: 1080}
	origin := Monitor{ID: 1, Name: "HDMI-1", X: 0, Y: 0, Width: 2560, Height: 1440}
	flagged := Monitor{ID: 2, Name: "eDP-1", X: 2560, Y: 0, Width: 1920, Height: 1200, Primary: true}

	tests := []struct {
		name     string
		monitors []Monitor
		want     string
	}{
		{"randr primary wins", []Monitor{left, origin, flagged}, "eDP-1"},
		{"origin monitor without primary", []Monitor{left, origin}, "HDMI-1"},
		{"first monitor as last resort", []Monitor{left}, "DP-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := selectPrimary(tt.monitors)
			if got == nil || got.Name != tt.want {
				t.Fatalf("selectPrimary() = %+v, want %s", got, tt.want)
			}
		})
	}

	if selectPrimary(nil) != nil {
		t.Fatalf("expected nil for no monitors")
	}
}

func TestSelectPrimaryReturnsCopy(t *testing.T) {
	monitors := []Monitor{{Name: "A", Width: 100, Height: 100, Primary: true}}
	got := selectPrimary(monitors)
	got.Width = 1
	if monitors[0].Width != 100 {
		t.Fatalf("selectPrimary must not alias the input slice")
	}
}

func TestBottomPanelShrinksMonitor(t *testing.T) {
	mon := Monitor{X: 0, Y: 0, Width: 1920, Height: 1080}
	var struts dockStruts
	updateStrutsForMonitor(&mon, 1920, 1080, &ewmh.WmStrutPartial{
		Bottom:       40,
		BottomStartX: 0,
		BottomEndX:   1919,
	}, &struts)

	if !shrinkByStruts(&mon, struts) {
		t.Fatalf("expected struts to apply")
	}
	if mon.Height != 1040 || mon.Y != 0 {
		t.Fatalf("expected 1920x1040 at y=0, got %+v", mon)
	}
}

func TestStrutOnOtherMonitorIsIgnored(t *testing.T) {
	mon := Monitor{X: 0, Y: 0, Width: 1920, Height: 1080}
	var struts dockStruts
	// Left panel spanning only the second monitor's rows.
	updateStrutsForMonitor(&mon, 3840, 2160, &ewmh.WmStrutPartial{
		Left:       60,
		LeftStartY: 1080,
		LeftEndY:   2159,
	}, &struts)

	if shrinkByStruts(&mon, struts) {
		t.Fatalf("expected no adjustment, got %+v", mon)
	}
}

func TestClipToWorkArea(t *testing.T) {
	mon := Monitor{X: 0, Y: 0, Width: 1920, Height: 1080}
	clipToWorkArea(&mon, 0, 32, 1920, 1048)
	if mon.Y != 32 || mon.Height != 1048 {
		t.Fatalf("unexpected clip result %+v", mon)
	}

	other := Monitor{X: 1920, Y: 0, Width: 1280, Height: 1024}
	clipToWorkArea(&other, 0, 0, 100, 100)
	if other.X != 1920 || other.Width != 1280 {
		t.Fatalf("disjoint work area must not change the monitor, got %+v", other)
	}
}

func TestFrameExtentsOuter(t *testing.T) {
	client := Rect{X: 100, Y: 130, Width: 200, Height: 300}
	got := FrameExtents{Left: 2, Right: 2, Top: 30, Bottom: 2}.Outer(client)
	want := Rect{X: 98, Y: 100, Width: 204, Height: 332}
	if got != want {
		t.Fatalf("Outer() = %+v, want %+v", got, want)
	}
	if (FrameExtents{}).Outer(client) != client {
		t.Fatalf("zero extents must not change the rectangle")
	}
}

func TestMoveResizeData(t *testing.T) {
	got := moveResizeData(640, 480, 1)
	want := []uint32{640, 480, moveResizeMove, 1, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("moveResizeData() = %v, want %v", got, want)
		}
	}
}
