package gesture

import "testing"

func TestClickWithoutMovement(t *testing.T) {
	m := NewMachine(DefaultDeadZone)
	m.Press(10, 10)
	if ev := m.Release(10, 10); ev != EventClick {
		t.Fatalf("expected click, got %s", ev)
	}
	if m.Phase() != PhaseIdle {
		t.Fatalf("expected idle after release, got %s", m.Phase())
	}
}

func TestJitterInsideDeadZoneIsStillClick(t *testing.T) {
	m := NewMachine(4)
	m.Press(0, 0)
	for _, p := range [][2]float64{{1, 1}, {2, -2}, {-3, 0}, {0, 4}} {
		if ev := m.Move(p[0], p[1]); ev != EventNone {
			t.Fatalf("unexpected %s inside dead zone at %v", ev, p)
		}
	}
	if ev := m.Release(0, 4); ev != EventClick {
		t.Fatalf("expected click, got %s", ev)
	}
}

func TestDragStartsOnceAfterDeadZone(t *testing.T) {
	m := NewMachine(4)
	m.Press(100, 100)

	if ev := m.Move(105, 100); ev != EventDragStart {
		t.Fatalf("expected drag start, got %s", ev)
	}
	if ev := m.Move(150, 150); ev != EventNone {
		t.Fatalf("expected no further events while dragging, got %s", ev)
	}
	if m.Phase() != PhaseDragging {
		t.Fatalf("expected dragging, got %s", m.Phase())
	}
	if ev := m.Release(150, 150); ev != EventDragEnd {
		t.Fatalf("expected drag end, got %s", ev)
	}
}

func TestDragThatReturnsToOriginIsNotClick(t *testing.T) {
	m := NewMachine(4)
	m.Press(0, 0)
	m.Move(20, 0)
	m.Move(0, 0)
	if ev := m.Release(0, 0); ev != EventDragEnd {
		t.Fatalf("expected drag end, got %s", ev)
	}
}

func TestZeroDeadZoneDragsOnAnyMovement(t *testing.T) {
	m := &Machine{}
	m.Press(0, 0)
	if ev := m.Move(0, 0); ev != EventNone {
		t.Fatalf("expected no event without movement, got %s", ev)
	}
	if ev := m.Move(1, 0); ev != EventDragStart {
		t.Fatalf("expected drag start, got %s", ev)
	}
}

func TestEventsWithoutPress(t *testing.T) {
	m := NewMachine(-1)
	if m.DeadZone != DefaultDeadZone {
		t.Fatalf("expected default dead zone, got %v", m.DeadZone)
	}
	if ev := m.Move(50, 50); ev != EventNone {
		t.Fatalf("expected no event, got %s", ev)
	}
	if ev := m.Release(50, 50); ev != EventNone {
		t.Fatalf("expected no event, got %s", ev)
	}
}

func TestCancel(t *testing.T) {
	m := NewMachine(4)
	m.Press(0, 0)
	m.Move(30, 0)
	m.Cancel()
	if m.Phase() != PhaseIdle {
		t.Fatalf("expected idle after cancel, got %s", m.Phase())
	}
	if ev := m.Release(30, 0); ev != EventNone {
		t.Fatalf("expected no event after cancel, got %s", ev)
	}
}

func TestOriginIsPressPoint(t *testing.T) {
	m := NewMachine(4)
	m.Press(10, 20)
	m.Move(30, 20)

	if x, y := m.Origin(); x != 10 || y != 20 {
		t.Fatalf("expected origin (10, 20) after drag start, got (%v, %v)", x, y)
	}
}
